package analyze

import "os/exec"

// Capabilities records which optional extraction tools are present.
// Probed once at startup; each extractor degrades to an empty contribution
// when its tool is missing.
type Capabilities struct {
	OCR      bool // tesseract: text from images
	PDFText  bool // pdftotext: text from PDFs
	FFprobe  bool // ffprobe: audio/video stream properties
	Exiftool bool // exiftool: EXIF and document metadata
}

// ProbeCapabilities checks PATH for each optional tool.
func ProbeCapabilities() Capabilities {
	return Capabilities{
		OCR:      toolAvailable("tesseract"),
		PDFText:  toolAvailable("pdftotext"),
		FFprobe:  toolAvailable("ffprobe"),
		Exiftool: toolAvailable("exiftool"),
	}
}

func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
