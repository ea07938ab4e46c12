package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/sfo/internal/report"
	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old ledger entries",
	Long: `Delete operation ledger entries older than the cutoff.

Only the operation history shrinks. The duplicate index and statistics
are kept, so pruning never reintroduces already-seen files.`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().Int("days", 90, "delete entries older than this many days")
	pruneCmd.Flags().Bool("vacuum", false, "reclaim database space afterwards")
}

func runPrune(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	days, _ := cmd.Flags().GetInt("days")
	if days < 1 {
		return fmt.Errorf("--days must be >= 1")
	}

	deleted, err := st.PruneOlderThan(days)
	if err != nil {
		return err
	}
	util.SuccessLog("Pruned %d ledger entries older than %d days", deleted, days)

	if logger, err := report.NewEventLogger("artifacts", report.LevelInfo); err == nil {
		logger.LogPrune(days, deleted)
		logger.Close()
	}

	if vacuum, _ := cmd.Flags().GetBool("vacuum"); vacuum {
		if err := st.Vacuum(); err != nil {
			return fmt.Errorf("vacuum failed: %w", err)
		}
		util.SuccessLog("Database compacted")
	}

	return nil
}
