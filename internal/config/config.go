// Package config handles the persisted application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/franz/sfo/internal/util"
)

// Config is the persisted application configuration.
// The three folder fields are resolved to absolute paths on load.
type Config struct {
	WatchFolder     string `json:"watch_folder"`
	OrganizedFolder string `json:"organized_folder"`
	DuplicateFolder string `json:"duplicate_folder"`

	AutoRename       bool `json:"auto_rename"`
	EnableDuplicates bool `json:"enable_duplicates"`
	CloudBackup      bool `json:"cloud_backup"`
	AIClassification bool `json:"ai_classification"`

	MaxFileSizeMB   int `json:"max_file_size_mb"`
	ScanIntervalSec int `json:"scan_interval_sec"`
}

// Default returns a configuration with sensible defaults rooted under base.
func Default(base string) *Config {
	return &Config{
		WatchFolder:      filepath.Join(base, "Inbox"),
		OrganizedFolder:  filepath.Join(base, "Organized"),
		DuplicateFolder:  filepath.Join(base, "Duplicates"),
		AutoRename:       true,
		EnableDuplicates: true,
		CloudBackup:      false,
		AIClassification: false,
		MaxFileSizeMB:    1000,
		ScanIntervalSec:  5,
	}
}

// Load reads a configuration from a JSON file and resolves folder paths
// to absolute form.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if c.WatchFolder == "" || c.OrganizedFolder == "" || c.DuplicateFolder == "" {
		return fmt.Errorf("%w: watch_folder, organized_folder and duplicate_folder are required", util.ErrInvalidConfig)
	}
	if c.MaxFileSizeMB < 1 {
		return fmt.Errorf("%w: max_file_size_mb must be >= 1", util.ErrInvalidConfig)
	}
	if c.ScanIntervalSec < 1 {
		return fmt.Errorf("%w: scan_interval_sec must be >= 1", util.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) resolvePaths() error {
	for _, p := range []*string{&c.WatchFolder, &c.OrganizedFolder, &c.DuplicateFolder} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// JSON returns the configuration serialized for snapshotting.
func (c *Config) JSON() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}
