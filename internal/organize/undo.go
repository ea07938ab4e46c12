package organize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

// Undo restores an organized or quarantined file to its recorded original
// location and retires the ledger entry. When the file is no longer at the
// recorded destination the entry keeps its eligibility, so a later manual
// restore can still be undone through the ledger.
func (o *Organizer) Undo(id int64) (*store.Operation, error) {
	op, err := o.store.GetOperation(id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: operation %d", util.ErrNotFound, id)
	}
	if !op.CanUndo || !op.Success || op.Kind == store.OpUndo {
		return nil, fmt.Errorf("%w: operation %d", util.ErrNotUndoable, id)
	}

	if _, err := os.Lstat(op.DestinationPath); err != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrUndoSourceMissing, op.DestinationPath)
	}

	if err := os.MkdirAll(filepath.Dir(op.OriginalPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrMove, err)
	}

	// The original slot may have been refilled since the move
	target, err := uniquePath(op.OriginalPath)
	if err != nil {
		return nil, err
	}

	if err := moveFile(op.DestinationPath, target); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrMove, err)
	}

	if err := o.store.MarkUndone(id); err != nil {
		util.ErrorLog("File restored but eligibility not cleared: %v", err)
	}

	o.store.LogOperation(&store.Operation{
		Filename:        op.Filename,
		OriginalPath:    op.DestinationPath,
		DestinationPath: target,
		Category:        op.Category,
		Kind:            store.OpUndo,
		FileSize:        op.FileSize,
		FileHash:        op.FileHash,
		Success:         true,
	})

	util.SuccessLog("Restored %s -> %s", op.Filename, target)
	return op, nil
}

// UndoLast undoes the most recent eligible operation.
func (o *Organizer) UndoLast() (*store.Operation, error) {
	ops, err := o.store.UndoableOperations(1)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: nothing to undo", util.ErrNotUndoable)
	}
	return o.Undo(ops[0].ID)
}
