package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show organization statistics",
	Long: `Show per-category totals, a trailing daily window, duplicate index
figures and recent sessions.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int("days", 7, "size of the daily window")
	statsCmd.Flags().Int("sessions", 5, "number of recent sessions to show")
}

func runStats(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	days, _ := cmd.Flags().GetInt("days")
	sessionLimit, _ := cmd.Flags().GetInt("sessions")

	totals, err := st.CategorySummary()
	if err != nil {
		return err
	}

	util.InfoLog("=== Category Totals ===")
	if len(totals) == 0 {
		util.InfoLog("No files organized yet")
	}
	for _, ct := range totals {
		fmt.Printf("  %-20s %6d files  %10s\n",
			ct.Category, ct.TotalFiles, humanize.Bytes(uint64(ct.TotalSize)))
	}

	window, err := st.StatisticsWindow(days)
	if err != nil {
		return err
	}

	util.InfoLog("")
	util.InfoLog("=== Last %d Days ===", days)
	if len(window) == 0 {
		util.InfoLog("No activity")
	}
	for _, day := range window {
		fmt.Printf("  %s  %-20s %4d files  %10s", day.Date, day.Category,
			day.FilesProcessed, humanize.Bytes(uint64(day.TotalSize)))
		if day.DuplicatesFound > 0 {
			fmt.Printf("  %d dup", day.DuplicatesFound)
		}
		if day.ErrorsCount > 0 {
			fmt.Printf("  %d err", day.ErrorsCount)
		}
		fmt.Println()
	}

	dupes, err := st.GetDuplicateSummary()
	if err != nil {
		return err
	}

	util.InfoLog("")
	util.InfoLog("=== Duplicate Index ===")
	fmt.Printf("  Unique files tracked: %d\n", dupes.UniqueFiles)
	fmt.Printf("  Duplicates caught:    %d\n", dupes.TotalDuplicates)
	fmt.Printf("  Space reclaimable:    %s\n", humanize.Bytes(uint64(dupes.WastedBytes)))

	sessions, err := st.RecentSessions(sessionLimit)
	if err != nil {
		return err
	}

	if len(sessions) > 0 {
		util.InfoLog("")
		util.InfoLog("=== Recent Sessions ===")
		for _, sess := range sessions {
			status := sess.Status
			if status == "active" {
				status = "active (running)"
			}
			fmt.Printf("  %4d  %s  %-10s  %4d files  %s\n",
				sess.ID, sess.StartTime.Format("2006-01-02 15:04"),
				sess.Mode, sess.FilesProcessed, status)
		}
	}

	return nil
}
