package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/sfo/internal/util"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default(dir)
	cfg.MaxFileSizeMB = 250
	cfg.AIClassification = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.MaxFileSizeMB != 250 {
		t.Errorf("MaxFileSizeMB = %d, expected 250", loaded.MaxFileSizeMB)
	}
	if !loaded.AIClassification {
		t.Error("AIClassification not preserved")
	}
	if loaded.WatchFolder != cfg.WatchFolder {
		t.Errorf("WatchFolder = %s, expected %s", loaded.WatchFolder, cfg.WatchFolder)
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	raw := `{
		"watch_folder": "inbox",
		"organized_folder": "organized",
		"duplicate_folder": "dupes",
		"max_file_size_mb": 100,
		"scan_interval_sec": 5
	}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, p := range []string{cfg.WatchFolder, cfg.OrganizedFolder, cfg.DuplicateFolder} {
		if !filepath.IsAbs(p) {
			t.Errorf("expected absolute path, got %s", p)
		}
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	raw := `{"watch_folder": "", "organized_folder": "o", "duplicate_folder": "d",
		"max_file_size_mb": 100, "scan_interval_sec": 5}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, util.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
