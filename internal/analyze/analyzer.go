// Package analyze performs best-effort content extraction for smarter
// classification. Every extractor is optional: a missing tool or a failed
// extraction yields an empty contribution, never an error from Analyze.
package analyze

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/franz/sfo/internal/util"
)

// textScanLimit bounds how much extracted text is kept and scanned.
const textScanLimit = 2000

// FileType is the coarse classification used to dispatch extractors.
type FileType string

const (
	TypeImage    FileType = "image"
	TypePDF      FileType = "pdf"
	TypeDocument FileType = "document"
	TypeAudio    FileType = "audio"
	TypeVideo    FileType = "video"
	TypeUnknown  FileType = "unknown"
)

var typeByExt = map[string]FileType{
	".jpg": TypeImage, ".jpeg": TypeImage, ".png": TypeImage,
	".gif": TypeImage, ".bmp": TypeImage, ".tiff": TypeImage,
	".pdf":  TypePDF,
	".docx": TypeDocument, ".doc": TypeDocument, ".txt": TypeDocument,
	".odt": TypeDocument, ".md": TypeDocument, ".log": TypeDocument,
	".mp3": TypeAudio, ".wav": TypeAudio, ".flac": TypeAudio, ".m4a": TypeAudio,
	".mp4": TypeVideo, ".avi": TypeVideo, ".mkv": TypeVideo, ".mov": TypeVideo,
}

// Metadata holds the structured fields extractors can contribute.
// Zero values mean "not extracted".
type Metadata struct {
	// Images
	Width       int
	Height      int
	DateTaken   string
	CameraMake  string
	CameraModel string
	// HasGPS is nil when GPS presence could not be determined (extractor
	// missing or not an image); rules conditioned on GPS treat nil as
	// non-matching.
	HasGPS *bool

	// Documents
	Title  string
	Author string
	Pages  int

	// Audio / video
	Artist      string
	Album       string
	Genre       string
	DurationSec float64
	BitrateKbps int
	SampleRate  int

	SizeMB float64
}

// Result is the outcome of analyzing one file.
type Result struct {
	Text              string
	Metadata          Metadata
	Keywords          []string
	SuggestedCategory string
	Confidence        float64
}

// Analyzer extracts text and metadata from files, degrading gracefully when
// optional tools are unavailable.
type Analyzer struct {
	caps Capabilities
}

// New creates an Analyzer with the given capability flags.
func New(caps Capabilities) *Analyzer {
	return &Analyzer{caps: caps}
}

// Capabilities reports the analyzer's probed capability flags.
func (a *Analyzer) Capabilities() Capabilities {
	return a.caps
}

// TypeOf returns the coarse file type used for extractor dispatch.
func TypeOf(path string) FileType {
	if t, ok := typeByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return TypeUnknown
}

// Analyze extracts content and metadata from the file. It always returns a
// well-formed result; extraction failures are logged and leave the affected
// fields empty.
func (a *Analyzer) Analyze(path string) *Result {
	result := &Result{}

	switch TypeOf(path) {
	case TypeImage:
		a.analyzeImage(path, result)
	case TypePDF:
		a.analyzePDF(path, result)
	case TypeDocument:
		a.analyzeDocument(path, result)
	case TypeAudio:
		a.analyzeAudio(path, result)
	case TypeVideo:
		a.analyzeVideo(path, result)
	}

	if len(result.Text) > textScanLimit {
		result.Text = result.Text[:textScanLimit]
	}

	if result.Text != "" {
		result.Keywords = extractKeywords(result.Text)
	}

	result.SuggestedCategory = suggestCategory(result)
	if result.SuggestedCategory != "" {
		if len(result.Keywords) > 0 {
			result.Confidence = 0.8
		} else {
			result.Confidence = 0.5
		}
	}

	return result
}

func (a *Analyzer) analyzeImage(path string, result *Result) {
	if a.caps.Exiftool {
		if err := extractExif(path, &result.Metadata); err != nil {
			util.WarnLog("EXIF extraction failed for %s: %v", filepath.Base(path), err)
		}
	}

	if a.caps.OCR {
		text, err := ocrImage(path)
		if err != nil {
			util.WarnLog("OCR failed for %s: %v", filepath.Base(path), err)
		} else {
			result.Text = text
		}
	}
}

func (a *Analyzer) analyzePDF(path string, result *Result) {
	if a.caps.PDFText {
		text, err := pdfText(path)
		if err != nil {
			util.WarnLog("PDF text extraction failed for %s: %v", filepath.Base(path), err)
		} else {
			result.Text = text
		}
	}

	if a.caps.Exiftool {
		if err := extractExif(path, &result.Metadata); err != nil {
			util.WarnLog("PDF metadata extraction failed for %s: %v", filepath.Base(path), err)
		}
		// GPS presence only means something for images
		result.Metadata.HasGPS = nil
		result.Metadata.CameraMake = ""
		result.Metadata.CameraModel = ""
	}
}

func (a *Analyzer) analyzeDocument(path string, result *Result) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" && ext != ".md" && ext != ".log" {
		// Rich document formats need format-specific tooling we don't
		// carry; contribute nothing rather than guessing.
		return
	}

	f, err := os.Open(path)
	if err != nil {
		util.WarnLog("Failed to open document %s: %v", filepath.Base(path), err)
		return
	}
	defer f.Close()

	buf := make([]byte, textScanLimit)
	n, err := f.Read(buf)
	if n > 0 {
		result.Text = string(buf[:n])
	} else if err != nil {
		util.WarnLog("Failed to read document %s: %v", filepath.Base(path), err)
	}
}

func (a *Analyzer) analyzeAudio(path string, result *Result) {
	extractTags(path, &result.Metadata)

	if a.caps.FFprobe {
		if err := extractStreamInfo(path, &result.Metadata); err != nil {
			util.WarnLog("ffprobe failed for %s: %v", filepath.Base(path), err)
		}
	}
}

func (a *Analyzer) analyzeVideo(path string, result *Result) {
	if info, err := os.Stat(path); err == nil {
		result.Metadata.SizeMB = float64(info.Size()) / (1024 * 1024)
	}

	if a.caps.FFprobe {
		if err := extractStreamInfo(path, &result.Metadata); err != nil {
			util.WarnLog("ffprobe failed for %s: %v", filepath.Base(path), err)
		}
	}
}
