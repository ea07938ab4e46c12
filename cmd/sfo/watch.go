package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/franz/sfo/internal/organize"
	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
	"github.com/franz/sfo/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox folder and organize files as they arrive",
	Long: `Run continuously, organizing files as they land in the watch folder.

Files are debounced by the configured scan interval so partially written
downloads settle before they are touched. Stop with Ctrl-C; the file
currently being processed is finished before shutdown.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	a.openEvents()

	if err := os.MkdirAll(a.cfg.WatchFolder, 0755); err != nil {
		return fmt.Errorf("failed to create watch folder: %w", err)
	}

	sessionID, err := a.store.StartSession(store.ModeContinuous, a.cfg.WatchFolder)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	a.events.LogSession(sessionID, store.ModeContinuous, "start", 0)

	var processed atomic.Int64
	interval := time.Duration(a.cfg.ScanIntervalSec) * time.Second

	watcher := watch.New(a.cfg.WatchFolder, interval, func(path string) {
		res := a.organizer.Process(path)
		a.logOutcome(path, res)
		if res.Outcome == organize.OutcomeOrganized || res.Outcome == organize.OutcomeDuplicate {
			processed.Add(1)
		}
	})

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	// Pick up whatever is already sitting in the inbox
	if files, err := listInbox(a.cfg.WatchFolder); err == nil {
		for _, path := range files {
			res := a.organizer.Process(path)
			a.logOutcome(path, res)
			if res.Outcome == organize.OutcomeOrganized || res.Outcome == organize.OutcomeDuplicate {
				processed.Add(1)
			}
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	util.InfoLog("")
	util.InfoLog("Shutting down...")
	watcher.Stop()

	total := processed.Load()
	if err := a.store.EndSession(sessionID, total); err != nil {
		util.WarnLog("Failed to close session: %v", err)
	}
	a.events.LogSession(sessionID, store.ModeContinuous, "end", total)

	util.SuccessLog("Session complete: %d files processed", total)
	return nil
}
