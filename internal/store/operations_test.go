package store

import (
	"testing"
	"time"
)

func TestLogOperationAndRetrieve(t *testing.T) {
	s := openTestStore(t)

	id := s.LogOperation(&Operation{
		Filename:        "report.pdf",
		OriginalPath:    "/drop/report.pdf",
		DestinationPath: "/organized/Documents/report.pdf",
		Category:        "Documents",
		Kind:            OpOrganize,
		FileSize:        1024,
		FileHash:        "abc123",
		Success:         true,
	})
	if id <= 0 {
		t.Fatalf("expected positive operation id, got %d", id)
	}

	op, err := s.GetOperation(id)
	if err != nil {
		t.Fatalf("GetOperation failed: %v", err)
	}
	if op == nil {
		t.Fatal("operation not found")
	}
	if op.Category != "Documents" || op.Kind != OpOrganize {
		t.Errorf("unexpected entry: category=%q kind=%q", op.Category, op.Kind)
	}
	if !op.CanUndo {
		t.Error("fresh successful operation should be undo-eligible")
	}
	if op.FileHash != "abc123" {
		t.Errorf("FileHash = %q, expected abc123", op.FileHash)
	}
}

func TestFailedOperationInvariant(t *testing.T) {
	s := openTestStore(t)

	// A failure must carry an error message and an empty destination
	id := s.LogOperation(&Operation{
		Filename:        "gone.txt",
		OriginalPath:    "/drop/gone.txt",
		DestinationPath: "/should/be/cleared",
		Kind:            OpOrganize,
		Success:         false,
	})

	op, err := s.GetOperation(id)
	if err != nil {
		t.Fatal(err)
	}
	if op.DestinationPath != "" {
		t.Errorf("failed entry has destination %q, expected empty", op.DestinationPath)
	}
	if op.ErrorMessage == "" {
		t.Error("failed entry has no error message")
	}
}

func TestUndoableOperations(t *testing.T) {
	s := openTestStore(t)

	ok := s.LogOperation(&Operation{Filename: "a.txt", OriginalPath: "/d/a.txt",
		DestinationPath: "/o/a.txt", Category: "Documents", Kind: OpOrganize, Success: true})
	s.LogOperation(&Operation{Filename: "b.txt", OriginalPath: "/d/b.txt",
		Kind: OpOrganize, Success: false, ErrorMessage: "boom"})
	s.LogOperation(&Operation{Filename: "a.txt", OriginalPath: "/o/a.txt",
		DestinationPath: "/d/a.txt", Kind: OpUndo, Success: true})

	undoable, err := s.UndoableOperations(10)
	if err != nil {
		t.Fatalf("UndoableOperations failed: %v", err)
	}
	// Neither the failure nor the undo entry is eligible
	if len(undoable) != 1 {
		t.Fatalf("expected 1 undoable operation, got %d", len(undoable))
	}
	if undoable[0].ID != ok {
		t.Errorf("undoable id = %d, expected %d", undoable[0].ID, ok)
	}

	// MarkUndone removes eligibility and is idempotent
	if err := s.MarkUndone(ok); err != nil {
		t.Fatalf("MarkUndone failed: %v", err)
	}
	if err := s.MarkUndone(ok); err != nil {
		t.Errorf("second MarkUndone should be a no-op, got %v", err)
	}

	undoable, err = s.UndoableOperations(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(undoable) != 0 {
		t.Errorf("expected no undoable operations after MarkUndone, got %d", len(undoable))
	}
}

func TestSearchOperations(t *testing.T) {
	s := openTestStore(t)

	s.LogOperation(&Operation{Filename: "march_invoice.pdf", OriginalPath: "/d/march_invoice.pdf",
		DestinationPath: "/o/march_invoice.pdf", Kind: OpOrganize, Success: true})
	s.LogOperation(&Operation{Filename: "photo.jpg", OriginalPath: "/d/photo.jpg",
		DestinationPath: "/o/photo.jpg", Kind: OpOrganize, Success: true})

	found, err := s.SearchOperations("invoice", 10)
	if err != nil {
		t.Fatalf("SearchOperations failed: %v", err)
	}
	if len(found) != 1 || found[0].Filename != "march_invoice.pdf" {
		t.Errorf("unexpected search result: %+v", found)
	}
}

func TestRecentOperationsOrder(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		s.LogOperation(&Operation{
			Timestamp:       base.Add(time.Duration(i) * time.Minute),
			Filename:        "f.txt",
			OriginalPath:    "/d/f.txt",
			DestinationPath: "/o/f.txt",
			Kind:            OpOrganize,
			Success:         true,
		})
	}

	ops, err := s.RecentOperations(10, 0)
	if err != nil {
		t.Fatalf("RecentOperations failed: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(ops))
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1].Timestamp.Before(ops[i].Timestamp) {
			t.Error("operations not in most-recent-first order")
		}
	}
}

func TestPruneOlderThan(t *testing.T) {
	s := openTestStore(t)

	s.LogOperation(&Operation{
		Timestamp: time.Now().AddDate(0, 0, -100),
		Filename:  "ancient.txt", OriginalPath: "/d/ancient.txt",
		DestinationPath: "/o/ancient.txt", Kind: OpOrganize, Success: true,
	})
	s.LogOperation(&Operation{
		Filename: "recent.txt", OriginalPath: "/d/recent.txt",
		DestinationPath: "/o/recent.txt", Kind: OpOrganize, Success: true,
	})

	// Digest index must survive pruning
	if _, err := s.RecordDigestSighting("hash1", "/d/ancient.txt", 10); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.PruneOlderThan(90)
	if err != nil {
		t.Fatalf("PruneOlderThan failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned entry, got %d", deleted)
	}

	ops, err := s.RecentOperations(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 || ops[0].Filename != "recent.txt" {
		t.Errorf("unexpected survivors: %+v", ops)
	}

	isDup, _, err := s.IsDuplicateDigest("hash1")
	if err != nil {
		t.Fatal(err)
	}
	if !isDup {
		t.Error("duplicate index should be untouched by pruning")
	}
}
