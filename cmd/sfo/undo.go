package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/franz/sfo/internal/util"
)

var undoCmd = &cobra.Command{
	Use:   "undo [id]",
	Short: "Restore a moved file to its original location",
	Long: `Restore a file recorded in the ledger to where it came from.

Without an id the most recent eligible operation is undone. The restore is
itself recorded in the ledger, and the original entry loses its
eligibility so it cannot be undone twice.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()
	a.openEvents()

	if len(args) == 0 {
		op, err := a.organizer.UndoLast()
		if err != nil {
			return err
		}
		a.events.LogUndo(op.ID, op.DestinationPath, op.OriginalPath)
		util.InfoLog("Undid operation %d (%s)", op.ID, op.Filename)
		return nil
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid operation id %q", args[0])
	}

	op, err := a.organizer.Undo(id)
	if err != nil {
		return err
	}
	a.events.LogUndo(op.ID, op.DestinationPath, op.OriginalPath)
	util.InfoLog("Undid operation %d (%s)", op.ID, op.Filename)
	return nil
}
