package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/sfo/internal/config"
	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks on the environment and configuration",
	Long: `Run diagnostic checks to ensure sfo can operate correctly.

This command checks:
- Optional analysis tools (tesseract, pdftotext, ffprobe, exiftool)
- Database accessibility and integrity
- SQLite version compatibility
- Configuration file validity
- Watch, organized and duplicate folders
- Disk space availability

Missing analysis tools only disable content-based classification; the
extension and filename tiers work without them.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	name    string
	message string
	error   bool
	warning bool
}

func runDoctor(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	util.InfoLog("=== SFO Doctor - System Diagnostics ===")
	util.InfoLog("")

	results := []checkResult{}

	// 1. Analysis tools (all optional)
	results = append(results,
		checkTool("tesseract", "--version", "image OCR"),
		checkTool("pdftotext", "-v", "PDF text extraction"),
		checkTool("ffprobe", "-version", "audio/video stream info"),
		checkTool("exiftool", "-ver", "EXIF metadata"),
	)

	// 2. SQLite
	results = append(results, checkSQLite())

	// 3. Database file
	results = append(results, checkDatabase(viper.GetString("db")))

	// 4. Configuration and folders
	cfg, cfgResult := checkConfig()
	results = append(results, cfgResult)
	if cfg != nil {
		results = append(results, checkFolder("Watch folder", cfg.WatchFolder, false))
		results = append(results, checkFolder("Organized folder", cfg.OrganizedFolder, true))
		results = append(results, checkFolder("Duplicate folder", cfg.DuplicateFolder, true))
		results = append(results, checkDiskSpace(cfg.OrganizedFolder))
	}

	// Print results
	util.InfoLog("")
	util.InfoLog("=== Diagnostic Results ===")
	util.InfoLog("")

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		symbol := "✓"
		if r.error {
			symbol = "✗"
			hasErrors = true
		} else if r.warning {
			symbol = "⚠"
			hasWarnings = true
		}

		line := fmt.Sprintf("[%s] %s", symbol, r.name)
		if r.message != "" {
			line += fmt.Sprintf(": %s", r.message)
		}

		if r.error {
			util.ErrorLog("%s", line)
		} else if r.warning {
			util.WarnLog("%s", line)
		} else {
			util.SuccessLog("%s", line)
		}
	}

	util.InfoLog("")
	if hasErrors {
		util.ErrorLog("Some critical checks failed. Please resolve errors before running sfo.")
		return fmt.Errorf("system diagnostics failed")
	} else if hasWarnings {
		util.WarnLog("Some checks produced warnings. Review them before proceeding.")
	} else {
		util.SuccessLog("All checks passed! System is ready.")
	}

	return nil
}

// checkTool probes an optional external analysis tool.
func checkTool(binary, versionFlag, purpose string) checkResult {
	name := fmt.Sprintf("%s (optional)", binary)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, versionFlag)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return checkResult{
			name:    name,
			warning: true,
			message: fmt.Sprintf("not found (needed for %s)", purpose),
		}
	}

	version := "unknown"
	if lines := strings.Split(strings.TrimSpace(string(output)), "\n"); len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return checkResult{name: name, message: version}
}

// checkSQLite verifies SQLite version
func checkSQLite() checkResult {
	version := store.SQLiteVersion()
	if version == "" {
		return checkResult{
			name:    "SQLite",
			error:   true,
			message: "unable to determine version",
		}
	}

	return checkResult{
		name:    "SQLite",
		message: fmt.Sprintf("version %s (built-in)", version),
	}
}

// checkDatabase verifies database file accessibility
func checkDatabase(dbPath string) checkResult {
	if dbPath == "" {
		return checkResult{
			name:    "Database",
			warning: true,
			message: "no database path specified (use --db flag)",
		}
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return checkResult{
				name:    "Database",
				message: fmt.Sprintf("%s (will be created on first run)", dbPath),
			}
		}
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", dbPath, err),
		}
	}

	if !info.Mode().IsRegular() {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("%s is not a regular file", dbPath),
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot open %s: %v", dbPath, err),
		}
	}
	defer db.Close()

	if err := db.CheckIntegrity(); err != nil {
		return checkResult{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("integrity check failed: %v", err),
		}
	}

	ops, _ := db.RecentOperations(1, 0)
	status := "empty ledger"
	if len(ops) > 0 {
		status = fmt.Sprintf("last operation %s", ops[0].Timestamp.Format("2006-01-02 15:04"))
	}

	return checkResult{
		name: "Database",
		message: fmt.Sprintf("%s (%s, %s)", dbPath,
			humanize.Bytes(uint64(info.Size())), status),
	}
}

// checkConfig loads and validates the configuration file.
func checkConfig() (*config.Config, checkResult) {
	path := configPath()

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, checkResult{
				name:    "Configuration",
				warning: true,
				message: fmt.Sprintf("%s missing (run 'sfo config init')", path),
			}
		}
		return nil, checkResult{
			name:    "Configuration",
			error:   true,
			message: err.Error(),
		}
	}

	return cfg, checkResult{name: "Configuration", message: path}
}

// checkFolder verifies a folder exists (creating destinations on demand)
// and is accessible.
func checkFolder(name, path string, createIfMissing bool) checkResult {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !createIfMissing {
				return checkResult{
					name:    name,
					warning: true,
					message: fmt.Sprintf("%s does not exist yet", path),
				}
			}
			if err := os.MkdirAll(path, 0755); err != nil {
				return checkResult{
					name:    name,
					error:   true,
					message: fmt.Sprintf("cannot create %s: %v", path, err),
				}
			}
			return checkResult{name: name, message: fmt.Sprintf("%s (created)", path)}
		}
		return checkResult{
			name:    name,
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", path, err),
		}
	}

	if !info.IsDir() {
		return checkResult{
			name:    name,
			error:   true,
			message: fmt.Sprintf("%s is not a directory", path),
		}
	}

	testFile := filepath.Join(path, ".sfo_write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return checkResult{
			name:    name,
			error:   true,
			message: fmt.Sprintf("cannot write to %s: %v", path, err),
		}
	}
	f.Close()
	os.Remove(testFile)

	return checkResult{name: name, message: fmt.Sprintf("%s (writable)", path)}
}

// checkDiskSpace verifies available disk space for the organized tree.
func checkDiskSpace(path string) checkResult {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return checkResult{
			name:    "Disk space",
			warning: true,
			message: fmt.Sprintf("cannot determine disk space: %v", err),
		}
	}

	availBytes := stat.Bavail * uint64(stat.Bsize)
	totalBytes := stat.Blocks * uint64(stat.Bsize)
	usedPercent := float64(totalBytes-stat.Bfree*uint64(stat.Bsize)) / float64(totalBytes) * 100

	availGB := float64(availBytes) / (1024 * 1024 * 1024)
	if availGB < 1 || usedPercent > 95 {
		return checkResult{
			name:    "Disk space",
			warning: true,
			message: fmt.Sprintf("only %s available (%.0f%% used)", humanize.Bytes(availBytes), usedPercent),
		}
	}

	return checkResult{
		name:    "Disk space",
		message: fmt.Sprintf("%s available (%.0f%% used)", humanize.Bytes(availBytes), usedPercent),
	}
}
