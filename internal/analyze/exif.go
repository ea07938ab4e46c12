package analyze

import (
	"encoding/json"
	"fmt"
	"os/exec"
)

// exifFields is the subset of exiftool output we care about.
type exifFields struct {
	ImageWidth       int    `json:"ImageWidth"`
	ImageHeight      int    `json:"ImageHeight"`
	Make             string `json:"Make"`
	Model            string `json:"Model"`
	DateTimeOriginal string `json:"DateTimeOriginal"`
	CreateDate       string `json:"CreateDate"`
	GPSLatitude      any    `json:"GPSLatitude"`
	GPSPosition      any    `json:"GPSPosition"`
	Title            string `json:"Title"`
	Author           string `json:"Author"`
	PageCount        int    `json:"PageCount"`
}

// extractExif reads EXIF/document metadata via exiftool's JSON output.
func extractExif(path string, m *Metadata) error {
	out, err := exec.Command("exiftool", "-j", "-n", path).Output()
	if err != nil {
		return fmt.Errorf("exiftool failed: %w", err)
	}

	// exiftool emits a one-element array per input file
	var records []exifFields
	if err := json.Unmarshal(out, &records); err != nil {
		return fmt.Errorf("failed to parse exiftool output: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("exiftool returned no records")
	}

	rec := records[0]
	m.Width = rec.ImageWidth
	m.Height = rec.ImageHeight
	m.CameraMake = rec.Make
	m.CameraModel = rec.Model
	m.Title = rec.Title
	m.Author = rec.Author
	m.Pages = rec.PageCount

	if rec.DateTimeOriginal != "" {
		m.DateTaken = rec.DateTimeOriginal
	} else {
		m.DateTaken = rec.CreateDate
	}

	hasGPS := rec.GPSLatitude != nil || rec.GPSPosition != nil
	m.HasGPS = &hasGPS

	return nil
}
