package analyze

import (
	"fmt"
	"os/exec"
	"strings"
)

// pdfFirstPages limits how many pages pdftotext reads.
const pdfFirstPages = 3

// pdfText extracts text from the first pages of a PDF via pdftotext.
func pdfText(path string) (string, error) {
	out, err := exec.Command("pdftotext",
		"-l", fmt.Sprintf("%d", pdfFirstPages), "-q", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ocrImage extracts text from an image via tesseract.
func ocrImage(path string) (string, error) {
	out, err := exec.Command("tesseract", path, "stdout").Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
