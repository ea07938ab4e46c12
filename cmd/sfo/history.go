package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the operation ledger",
	Long: `Show recorded operations, most recent first.

Every attempted move is in the ledger, including refused and failed ones.
Entries marked with * are still eligible for 'sfo undo'.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "number of entries to show")
	historyCmd.Flags().Int("offset", 0, "entries to skip")
	historyCmd.Flags().String("search", "", "filter by filename substring")
	historyCmd.Flags().Bool("undoable", false, "show only undo-eligible entries")
}

func runHistory(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	search, _ := cmd.Flags().GetString("search")
	undoableOnly, _ := cmd.Flags().GetBool("undoable")

	var ops []*store.Operation
	switch {
	case undoableOnly:
		ops, err = st.UndoableOperations(limit)
	case search != "":
		ops, err = st.SearchOperations(search, limit)
	default:
		ops, err = st.RecentOperations(limit, offset)
	}
	if err != nil {
		return err
	}

	if len(ops) == 0 {
		util.InfoLog("No matching operations")
		return nil
	}

	for _, op := range ops {
		printOperation(op)
	}
	return nil
}

func printOperation(op *store.Operation) {
	marker := " "
	if op.CanUndo {
		marker = "*"
	}

	when := op.Timestamp.Format("2006-01-02 15:04:05")

	if !op.Success {
		fmt.Printf("%s %5d  %s  %-9s  %s  FAILED: %s\n",
			marker, op.ID, when, op.Kind, op.Filename, op.ErrorMessage)
		return
	}

	fmt.Printf("%s %5d  %s  %-9s  %s (%s)\n",
		marker, op.ID, when, op.Kind, op.Filename, humanize.Bytes(uint64(op.FileSize)))
	fmt.Printf("         %s -> %s\n", op.OriginalPath, op.DestinationPath)
}
