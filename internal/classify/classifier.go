// Package classify assigns categories from extension tables and filename
// keywords. It is the lowest tier of the classification cascade and never
// fails to produce a category.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/franz/sfo/internal/util"
)

// DefaultCategory is returned when no extension rule matches.
const DefaultCategory = "Other"

// extensionRules maps a category to the file extensions it covers.
var extensionRules = map[string][]string{
	"Images":        {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".ico"},
	"Documents":     {".pdf", ".docx", ".doc", ".txt", ".odt", ".rtf"},
	"Spreadsheets":  {".xlsx", ".xls", ".csv", ".ods"},
	"Presentations": {".pptx", ".ppt", ".odp"},
	"Videos":        {".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm"},
	"Audio":         {".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a", ".wma"},
	"Archives":      {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"},
	"Code":          {".py", ".java", ".cpp", ".c", ".js", ".ts", ".html", ".css", ".php", ".go"},
	"Executables":   {".exe", ".msi", ".dmg", ".app", ".deb", ".rpm"},
}

// keywordRules maps a category to filename keywords that imply it.
var keywordRules = []struct {
	category string
	keywords []string
}{
	{"Finance", []string{"invoice", "bill", "receipt", "payment", "transaction"}},
	{"Education", []string{"assignment", "homework", "project", "syllabus", "lecture"}},
	{"Work", []string{"report", "proposal", "meeting", "presentation"}},
	{"Personal", []string{"vacation", "family", "personal", "photo"}},
}

// extensionIndex is extensionRules inverted for O(1) lookup.
var extensionIndex = func() map[string]string {
	idx := make(map[string]string)
	for category, exts := range extensionRules {
		for _, ext := range exts {
			idx[ext] = category
		}
	}
	return idx
}()

// Classifier assigns categories to files by extension and filename keywords.
type Classifier struct{}

// New creates a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// ByExtension classifies a file purely by its extension, defaulting to
// DefaultCategory when nothing matches.
func (c *Classifier) ByExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if category, ok := extensionIndex[ext]; ok {
		return category
	}
	return DefaultCategory
}

// ByName classifies a file by keywords in its filename.
// Returns an empty string when no keyword matches.
func (c *Classifier) ByName(path string) string {
	name := strings.ToLower(filepath.Base(path))
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return ""
}

// Classify runs the name heuristic first when useNameHeuristic is set, then
// falls back to the extension table.
func (c *Classifier) Classify(path string, useNameHeuristic bool) string {
	if useNameHeuristic {
		if category := c.ByName(path); category != "" {
			util.DebugLog("Name heuristic classified %s as %s", filepath.Base(path), category)
			return category
		}
	}

	category := c.ByExtension(path)
	util.DebugLog("Extension classified %s as %s", filepath.Base(path), category)
	return category
}
