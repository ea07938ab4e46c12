package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/franz/sfo/internal/organize"
	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

var organizeCmd = &cobra.Command{
	Use:   "organize [files...]",
	Short: "Organize the watch folder, or specific files",
	Long: `Run one batch pass.

Without arguments every regular file in the watch folder is processed;
with arguments only the named files are. Each file is classified (custom
rules first, then content and filename heuristics, then the extension
table), checked against the duplicate index, and moved into the organized
folder tree. Each file produces exactly one audit ledger entry.`,
	RunE: runOrganize,
}

func init() {
	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	a.openEvents()

	files := args
	if len(files) == 0 {
		files, err = listInbox(a.cfg.WatchFolder)
		if err != nil {
			return err
		}
	}
	if len(files) == 0 {
		util.InfoLog("Nothing to organize in %s", a.cfg.WatchFolder)
		return nil
	}

	sessionID, err := a.store.StartSession(store.ModeBatch, a.cfg.WatchFolder)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	a.events.LogSession(sessionID, store.ModeBatch, "start", 0)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Organizing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)

	startTime := time.Now()
	var organized, duplicates, skipped, failed int
	var movedBytes int64

	for _, path := range files {
		res := a.organizer.Process(path)
		a.logOutcome(path, res)

		switch res.Outcome {
		case organize.OutcomeOrganized:
			organized++
			movedBytes += res.SizeBytes
		case organize.OutcomeDuplicate:
			duplicates++
		case organize.OutcomeTooLarge, organize.OutcomeNotFound:
			skipped++
		default:
			failed++
		}
		bar.Add(1)
	}

	processed := int64(organized + duplicates)
	if err := a.store.EndSession(sessionID, processed); err != nil {
		util.WarnLog("Failed to close session: %v", err)
	}
	a.events.LogSession(sessionID, store.ModeBatch, "end", processed)

	util.InfoLog("")
	util.SuccessLog("Batch complete in %v", time.Since(startTime).Round(time.Millisecond))
	util.InfoLog("  Organized:  %d (%s)", organized, humanize.Bytes(uint64(movedBytes)))
	util.InfoLog("  Duplicates: %d", duplicates)
	if skipped > 0 {
		util.WarnLog("  Skipped:    %d", skipped)
	}
	if failed > 0 {
		util.WarnLog("  Errors:     %d", failed)
	}

	return nil
}

// listInbox returns the regular files directly inside the watch folder.
// Subdirectories are left alone: users nest their own structure there.
func listInbox(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read watch folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
