package organize

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/franz/sfo/internal/analyze"
	"github.com/franz/sfo/internal/config"
	"github.com/franz/sfo/internal/rules"
	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

func newTestOrganizer(t *testing.T) (*Organizer, *config.Config, *store.Store) {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default(base)
	if err := os.MkdirAll(cfg.WatchFolder, 0755); err != nil {
		t.Fatal(err)
	}

	st, err := store.Open(filepath.Join(base, "ledger.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	// Empty rule set so the extension tier is deterministic
	rulesPath := filepath.Join(base, "rules.json")
	if err := os.WriteFile(rulesPath, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	engine, err := rules.Load(rulesPath)
	if err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}

	return New(cfg, st, engine, nil), cfg, st
}

func dropFile(t *testing.T, cfg *config.Config, name, content string) string {
	t.Helper()
	path := filepath.Join(cfg.WatchFolder, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func countLedger(t *testing.T, st *store.Store) int {
	t.Helper()
	ops, err := st.RecentOperations(1000, 0)
	if err != nil {
		t.Fatal(err)
	}
	return len(ops)
}

func TestProcessOrganizesByExtension(t *testing.T) {
	o, cfg, st := newTestOrganizer(t)
	path := dropFile(t, cfg, "notes.txt", "some notes")

	res := o.Process(path)
	if res.Outcome != OutcomeOrganized {
		t.Fatalf("outcome = %s (%s), expected organized", res.Outcome, res.Message)
	}
	if res.Category != "Documents" {
		t.Errorf("category = %q, expected Documents", res.Category)
	}

	want := filepath.Join(cfg.OrganizedFolder, "Documents", "notes.txt")
	if res.Destination != want {
		t.Errorf("destination = %q, expected %q", res.Destination, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("file not at destination: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("source still present after move")
	}

	if n := countLedger(t, st); n != 1 {
		t.Errorf("ledger has %d entries, expected 1", n)
	}
}

func TestProcessNameHeuristicNeedsAI(t *testing.T) {
	o, cfg, _ := newTestOrganizer(t)

	// Off by default: the extension table alone decides
	res := o.Process(dropFile(t, cfg, "tax_receipt_2025.pdf", "receipt body"))
	if res.Outcome != OutcomeOrganized {
		t.Fatalf("outcome = %s, expected organized", res.Outcome)
	}
	if res.Category != "Documents" {
		t.Errorf("category = %q, expected Documents with ai_classification off", res.Category)
	}

	cfg.AIClassification = true
	res = o.Process(dropFile(t, cfg, "tax_receipt_2024.pdf", "another receipt"))
	if res.Category != "Finance" {
		t.Errorf("category = %q, expected Finance with ai_classification on", res.Category)
	}
}

func TestProcessContentRuleWithoutAI(t *testing.T) {
	o, cfg, _ := newTestOrganizer(t)
	o.analyzer = analyze.New(analyze.Capabilities{})
	o.rules.Add(&rules.Rule{
		Name: "Contracts", Pattern: "*.txt", PatternKind: rules.PatternGlob,
		TargetFolder: "Legal",
		Conditions:   rules.Conditions{ContainsText: "contract"},
		Priority:     10, Enabled: true,
	})

	res := o.Process(dropFile(t, cfg, "agreement.txt", "signed contract with the vendor"))
	if res.Outcome != OutcomeOrganized {
		t.Fatalf("outcome = %s (%s)", res.Outcome, res.Message)
	}
	if res.Category != "Legal" {
		t.Errorf("category = %q, expected content rule target Legal", res.Category)
	}

	// With ai_classification off the extracted content feeds rules only:
	// a non-matching file falls through to the extension table, not to the
	// content suggestion
	res = o.Process(dropFile(t, cfg, "letter.txt", "invoice and payment details"))
	if res.Category != "Documents" {
		t.Errorf("category = %q, expected Documents", res.Category)
	}
}

func TestProcessFollowsSymlink(t *testing.T) {
	o, cfg, _ := newTestOrganizer(t)

	target := filepath.Join(filepath.Dir(cfg.WatchFolder), "target.txt")
	if err := os.WriteFile(target, []byte("linked body"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(cfg.WatchFolder, "notes.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	res := o.Process(link)
	if res.Outcome != OutcomeOrganized {
		t.Fatalf("outcome = %s (%s), expected symlink to a regular file organized", res.Outcome, res.Message)
	}
	if res.Category != "Documents" {
		t.Errorf("category = %q, expected Documents", res.Category)
	}
}

func TestProcessRuleBeatsHeuristics(t *testing.T) {
	o, cfg, _ := newTestOrganizer(t)
	o.rules.Add(&rules.Rule{
		Name: "Invoices", Pattern: "*invoice*", PatternKind: rules.PatternGlob,
		TargetFolder: "Finance/Invoices", Priority: 10, Enabled: true,
	})

	path := dropFile(t, cfg, "invoice_march.pdf", "invoice body")
	res := o.Process(path)
	if res.Outcome != OutcomeOrganized {
		t.Fatalf("outcome = %s, expected organized", res.Outcome)
	}
	if res.Category != "Finance/Invoices" {
		t.Errorf("category = %q, expected rule target Finance/Invoices", res.Category)
	}
	if _, err := os.Stat(filepath.Join(cfg.OrganizedFolder, "Finance/Invoices", "invoice_march.pdf")); err != nil {
		t.Errorf("file not under rule target: %v", err)
	}
}

func TestProcessDuplicate(t *testing.T) {
	o, cfg, st := newTestOrganizer(t)

	first := dropFile(t, cfg, "a.txt", "identical content")
	if res := o.Process(first); res.Outcome != OutcomeOrganized {
		t.Fatalf("first file outcome = %s, expected organized", res.Outcome)
	}

	second := dropFile(t, cfg, "b.txt", "identical content")
	res := o.Process(second)
	if res.Outcome != OutcomeDuplicate {
		t.Fatalf("second file outcome = %s, expected duplicate", res.Outcome)
	}
	if !strings.HasPrefix(res.Message, "Duplicate of ") {
		t.Errorf("unexpected message %q", res.Message)
	}
	if !strings.HasPrefix(res.Destination, cfg.DuplicateFolder) {
		t.Errorf("duplicate not quarantined: %q", res.Destination)
	}
	if _, err := os.Stat(res.Destination); err != nil {
		t.Errorf("quarantined file missing: %v", err)
	}

	if n := countLedger(t, st); n != 2 {
		t.Errorf("ledger has %d entries, expected one per invocation", n)
	}

	sum, err := st.GetDuplicateSummary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalDuplicates != 1 {
		t.Errorf("duplicate count = %d, expected 1", sum.TotalDuplicates)
	}
}

func TestProcessCollisionProbe(t *testing.T) {
	o, cfg, _ := newTestOrganizer(t)

	if res := o.Process(dropFile(t, cfg, "report.txt", "first")); res.Outcome != OutcomeOrganized {
		t.Fatalf("first outcome = %s", res.Outcome)
	}
	res := o.Process(dropFile(t, cfg, "report.txt", "second"))
	if res.Outcome != OutcomeOrganized {
		t.Fatalf("second outcome = %s (%s)", res.Outcome, res.Message)
	}
	if filepath.Base(res.Destination) != "report_1.txt" {
		t.Errorf("destination = %q, expected report_1.txt", filepath.Base(res.Destination))
	}

	res = o.Process(dropFile(t, cfg, "report.txt", "third"))
	if filepath.Base(res.Destination) != "report_2.txt" {
		t.Errorf("destination = %q, expected report_2.txt", filepath.Base(res.Destination))
	}
}

func TestProcessNoAutoRename(t *testing.T) {
	o, cfg, st := newTestOrganizer(t)
	cfg.AutoRename = false

	if res := o.Process(dropFile(t, cfg, "clip.mp4", "v1")); res.Outcome != OutcomeOrganized {
		t.Fatalf("first outcome = %s", res.Outcome)
	}
	second := dropFile(t, cfg, "clip.mp4", "v2")
	res := o.Process(second)
	if res.Outcome != OutcomeError {
		t.Fatalf("outcome = %s, expected error on occupied destination", res.Outcome)
	}
	if _, err := os.Stat(second); err != nil {
		t.Error("source should be untouched after refused move")
	}
	if n := errorStatCount(t, st); n != 1 {
		t.Errorf("error count = %d, expected 1 for the failed move", n)
	}
}

func TestProcessFailureKeepsDigest(t *testing.T) {
	o, cfg, st := newTestOrganizer(t)
	cfg.AutoRename = false

	if res := o.Process(dropFile(t, cfg, "a.txt", "same bytes")); res.Outcome != OutcomeOrganized {
		t.Fatalf("first outcome = %s", res.Outcome)
	}

	// Occupy the quarantine slot so the duplicate move fails
	if err := os.MkdirAll(cfg.DuplicateFolder, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.DuplicateFolder, "b.txt"), []byte("occupied"), 0644); err != nil {
		t.Fatal(err)
	}

	res := o.Process(dropFile(t, cfg, "b.txt", "same bytes"))
	if res.Outcome != OutcomeError {
		t.Fatalf("outcome = %s, expected error", res.Outcome)
	}

	op, err := st.GetOperation(res.OperationID)
	if err != nil || op == nil {
		t.Fatalf("failure not in ledger: %v", err)
	}
	if op.FileHash == "" {
		t.Error("failure entry lost the computed digest")
	}
	if op.Success || op.DestinationPath != "" {
		t.Error("failure logged as success or with a destination")
	}
}

func TestProcessTooLarge(t *testing.T) {
	o, cfg, st := newTestOrganizer(t)
	cfg.MaxFileSizeMB = 1

	// Exactly at the limit is accepted
	atLimit := filepath.Join(cfg.WatchFolder, "exact.bin")
	if err := os.WriteFile(atLimit, make([]byte, 1<<20), 0644); err != nil {
		t.Fatal(err)
	}
	if res := o.Process(atLimit); res.Outcome != OutcomeOrganized {
		t.Errorf("file at limit: outcome = %s (%s)", res.Outcome, res.Message)
	}

	// One byte over is refused
	over := filepath.Join(cfg.WatchFolder, "over.bin")
	if err := os.WriteFile(over, make([]byte, 1<<20+1), 0644); err != nil {
		t.Fatal(err)
	}
	res := o.Process(over)
	if res.Outcome != OutcomeTooLarge {
		t.Fatalf("outcome = %s, expected too_large", res.Outcome)
	}
	if !strings.HasPrefix(res.Message, "File too large (") {
		t.Errorf("unexpected message %q", res.Message)
	}
	if _, err := os.Stat(over); err != nil {
		t.Error("oversized file should stay in place")
	}

	op, err := st.GetOperation(res.OperationID)
	if err != nil || op == nil {
		t.Fatalf("refusal not in ledger: %v", err)
	}
	if op.Success || op.DestinationPath != "" {
		t.Error("refusal logged as success or with a destination")
	}

	// A size refusal is not an error: no counter moves
	if n := errorStatCount(t, st); n != 0 {
		t.Errorf("error count = %d, expected 0 after refusal", n)
	}
}

// errorStatCount sums today's errors_count across categories.
func errorStatCount(t *testing.T, st *store.Store) int64 {
	t.Helper()
	stats, err := st.StatisticsWindow(1)
	if err != nil {
		t.Fatal(err)
	}
	var n int64
	for _, row := range stats {
		n += row.ErrorsCount
	}
	return n
}

func TestProcessNotFound(t *testing.T) {
	o, cfg, st := newTestOrganizer(t)

	missing := filepath.Join(cfg.WatchFolder, "ghost.txt")
	for i := 0; i < 2; i++ {
		res := o.Process(missing)
		if res.Outcome != OutcomeNotFound {
			t.Fatalf("outcome = %s, expected not_found", res.Outcome)
		}
	}

	// One ledger entry per invocation, even for misses
	if n := countLedger(t, st); n != 2 {
		t.Errorf("ledger has %d entries, expected 2", n)
	}

	// Misses never count toward error statistics
	stats, err := st.StatisticsWindow(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 0 {
		t.Errorf("statistics touched by a miss: %+v", stats[0])
	}
}

func TestStatisticsAccumulate(t *testing.T) {
	o, cfg, st := newTestOrganizer(t)

	o.Process(dropFile(t, cfg, "one.txt", "alpha"))
	o.Process(dropFile(t, cfg, "two.txt", "beta"))
	o.Process(dropFile(t, cfg, "three.txt", "alpha")) // duplicate of one.txt

	totals, err := st.CategorySummary()
	if err != nil {
		t.Fatal(err)
	}

	byCategory := map[string]int64{}
	for _, ct := range totals {
		byCategory[ct.Category] = ct.TotalFiles
	}
	if byCategory["Documents"] != 2 {
		t.Errorf("Documents total = %d, expected 2", byCategory["Documents"])
	}
	if byCategory["Duplicates"] != 1 {
		t.Errorf("Duplicates total = %d, expected 1", byCategory["Duplicates"])
	}
}

func TestUndoRoundTrip(t *testing.T) {
	o, cfg, st := newTestOrganizer(t)
	original := dropFile(t, cfg, "notes.txt", "body")

	res := o.Process(original)
	if res.Outcome != OutcomeOrganized {
		t.Fatalf("outcome = %s", res.Outcome)
	}

	op, err := o.Undo(res.OperationID)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if op.ID != res.OperationID {
		t.Errorf("undid operation %d, expected %d", op.ID, res.OperationID)
	}
	if _, err := os.Stat(original); err != nil {
		t.Errorf("file not restored: %v", err)
	}
	if _, err := os.Stat(res.Destination); !os.IsNotExist(err) {
		t.Error("file still at organized destination")
	}

	// Entry retired, undo recorded
	entry, err := st.GetOperation(res.OperationID)
	if err != nil {
		t.Fatal(err)
	}
	if entry.CanUndo {
		t.Error("entry still undo-eligible after restore")
	}
	ops, _ := st.RecentOperations(10, 0)
	if len(ops) != 2 || ops[0].Kind != store.OpUndo {
		t.Errorf("undo not recorded as newest ledger entry: %+v", ops)
	}

	// A second undo of the same entry is refused
	if _, err := o.Undo(res.OperationID); !errors.Is(err, util.ErrNotUndoable) {
		t.Errorf("expected ErrNotUndoable, got %v", err)
	}
}

func TestUndoSourceMissing(t *testing.T) {
	o, cfg, st := newTestOrganizer(t)

	res := o.Process(dropFile(t, cfg, "notes.txt", "body"))
	if err := os.Remove(res.Destination); err != nil {
		t.Fatal(err)
	}

	_, err := o.Undo(res.OperationID)
	if !errors.Is(err, util.ErrUndoSourceMissing) {
		t.Fatalf("expected ErrUndoSourceMissing, got %v", err)
	}

	// Eligibility survives, so a manually restored file can be undone later
	op, err := st.GetOperation(res.OperationID)
	if err != nil {
		t.Fatal(err)
	}
	if !op.CanUndo {
		t.Error("eligibility cleared by a failed undo")
	}
}

func TestUndoLast(t *testing.T) {
	o, cfg, _ := newTestOrganizer(t)

	o.Process(dropFile(t, cfg, "first.txt", "1"))
	second := o.Process(dropFile(t, cfg, "second.txt", "2"))

	op, err := o.UndoLast()
	if err != nil {
		t.Fatalf("UndoLast failed: %v", err)
	}
	if op.ID != second.OperationID {
		t.Errorf("undid operation %d, expected most recent %d", op.ID, second.OperationID)
	}
}

func TestUniquePathExhaustion(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "f.txt")
	if _, err := os.Create(dest); err != nil {
		t.Fatal(err)
	}

	got, err := uniquePath(dest)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "f_1.txt" {
		t.Errorf("probe returned %q, expected f_1.txt", filepath.Base(got))
	}
}
