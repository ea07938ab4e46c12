package analyze

import (
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
	"github.com/franz/sfo/internal/util"
)

// extractTags reads embedded audio tags (ID3, Vorbis, MP4 atoms).
// Failures are logged and leave the fields empty.
func extractTags(path string, m *Metadata) {
	f, err := os.Open(path)
	if err != nil {
		util.WarnLog("Failed to open audio file %s: %v", filepath.Base(path), err)
		return
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		// Untagged files are common, not worth a warning
		util.DebugLog("No readable tags in %s: %v", filepath.Base(path), err)
		return
	}

	m.Title = meta.Title()
	m.Artist = meta.Artist()
	m.Album = meta.Album()
	m.Genre = meta.Genre()
}
