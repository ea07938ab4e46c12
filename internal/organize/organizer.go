// Package organize implements the file organization pipeline: duplicate
// detection, tiered classification and the audited move.
package organize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/franz/sfo/internal/analyze"
	"github.com/franz/sfo/internal/classify"
	"github.com/franz/sfo/internal/config"
	"github.com/franz/sfo/internal/hash"
	"github.com/franz/sfo/internal/rules"
	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

// Outcome classifies what happened to one file.
type Outcome string

const (
	OutcomeOrganized Outcome = "organized"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeTooLarge  Outcome = "too_large"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeError     Outcome = "error"
)

// Result describes one processed file.
type Result struct {
	Outcome     Outcome
	Message     string
	Category    string
	Destination string
	SizeBytes   int64
	OperationID int64
}

// Organizer runs the pipeline for individual files.
type Organizer struct {
	cfg        *config.Config
	store      *store.Store
	rules      *rules.Engine
	classifier *classify.Classifier
	analyzer   *analyze.Analyzer
}

// New assembles an organizer. The analyzer may be nil; content-conditioned
// rules and the content suggestion tier are then skipped.
func New(cfg *config.Config, st *store.Store, engine *rules.Engine, analyzer *analyze.Analyzer) *Organizer {
	return &Organizer{
		cfg:        cfg,
		store:      st,
		rules:      engine,
		classifier: classify.New(),
		analyzer:   analyzer,
	}
}

// Process runs one file through the pipeline. Every invocation writes
// exactly one ledger entry, whatever the outcome.
func (o *Organizer) Process(path string) *Result {
	filename := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return o.fail(path, 0, "", OutcomeNotFound, util.ErrNotFound.Error())
	}
	size := info.Size()

	sizeMB := float64(size) / (1 << 20)
	if sizeMB > float64(o.cfg.MaxFileSizeMB) {
		return o.fail(path, size, "", OutcomeTooLarge,
			fmt.Sprintf("File too large (%.1fMB)", sizeMB))
	}

	var digest string
	if o.cfg.EnableDuplicates {
		digest, err = hash.Digest(path)
		if err != nil {
			return o.fail(path, size, "", OutcomeError,
				fmt.Sprintf("%v: %v", util.ErrHash, err))
		}

		isDup, err := o.store.RecordDigestSighting(digest, path, size)
		if err != nil {
			return o.fail(path, size, digest, OutcomeError,
				fmt.Sprintf("duplicate check failed: %v", err))
		}
		if isDup {
			return o.quarantineDuplicate(path, size, digest)
		}
	}

	category := o.categorize(path)

	dest, err := o.moveInto(path, o.cfg.OrganizedFolder, category)
	if err != nil {
		return o.fail(path, size, digest, OutcomeError, err.Error())
	}

	id := o.store.LogOperation(&store.Operation{
		Filename:        filename,
		OriginalPath:    path,
		DestinationPath: dest,
		Category:        category,
		Kind:            store.OpOrganize,
		FileSize:        size,
		FileHash:        digest,
		Success:         true,
	})
	o.recordStats(category, 1, size, 0, 0)

	util.SuccessLog("Organized %s -> %s", filename, category)
	return &Result{
		Outcome:     OutcomeOrganized,
		Message:     fmt.Sprintf("Moved to %s", category),
		Category:    category,
		Destination: dest,
		SizeBytes:   size,
		OperationID: id,
	}
}

// categorize resolves the target category: custom rules first, then
// content suggestion and filename keywords, then the extension table.
// Content is extracted whenever an analyzer is present so content-conditioned
// rules can match; the suggestion and name-heuristic tiers additionally
// require ai_classification.
func (o *Organizer) categorize(path string) string {
	var analysis *analyze.Result
	if o.analyzer != nil {
		analysis = o.analyzer.Analyze(path)
	}

	if target := o.rules.Apply(path, analysis); target != "" {
		util.DebugLog("Rule matched for %s -> %s", filepath.Base(path), target)
		return target
	}

	if o.cfg.AIClassification && analysis != nil && analysis.SuggestedCategory != "" {
		util.DebugLog("Content suggestion for %s -> %s (confidence %.1f)",
			filepath.Base(path), analysis.SuggestedCategory, analysis.Confidence)
		return analysis.SuggestedCategory
	}

	return o.classifier.Classify(path, o.cfg.AIClassification)
}

// quarantineDuplicate moves a re-seen file into the duplicate folder.
func (o *Organizer) quarantineDuplicate(path string, size int64, digest string) *Result {
	filename := filepath.Base(path)

	_, firstPath, err := o.store.IsDuplicateDigest(digest)
	if err != nil {
		firstPath = "previously seen file"
	}

	dest, err := o.moveInto(path, o.cfg.DuplicateFolder, "")
	if err != nil {
		return o.fail(path, size, digest, OutcomeError, err.Error())
	}

	id := o.store.LogOperation(&store.Operation{
		Filename:        filename,
		OriginalPath:    path,
		DestinationPath: dest,
		Category:        "Duplicates",
		Kind:            store.OpDuplicate,
		FileSize:        size,
		FileHash:        digest,
		Success:         true,
	})
	o.recordStats("Duplicates", 1, size, 1, 0)

	util.WarnLog("Duplicate %s (original: %s)", filename, firstPath)
	return &Result{
		Outcome:     OutcomeDuplicate,
		Message:     fmt.Sprintf("Duplicate of %s", firstPath),
		Category:    "Duplicates",
		Destination: dest,
		SizeBytes:   size,
		OperationID: id,
	}
}

// moveInto moves path into base/category, probing for a free name when
// renaming is enabled.
func (o *Organizer) moveInto(path, base, category string) (string, error) {
	dir := filepath.Join(base, category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrMove, err)
	}

	dest := filepath.Join(dir, filepath.Base(path))
	if o.cfg.AutoRename {
		unique, err := uniquePath(dest)
		if err != nil {
			return "", err
		}
		dest = unique
	} else if _, err := os.Lstat(dest); err == nil {
		return "", fmt.Errorf("%w: destination exists: %s", util.ErrMove, dest)
	}

	if err := moveFile(path, dest); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrMove, err)
	}
	return dest, nil
}

func (o *Organizer) fail(path string, size int64, digest string, outcome Outcome, message string) *Result {
	id := o.store.LogOperation(&store.Operation{
		Filename:     filepath.Base(path),
		OriginalPath: path,
		Kind:         store.OpOrganize,
		FileSize:     size,
		FileHash:     digest,
		Success:      false,
		ErrorMessage: message,
	})

	// Only genuine move failures count toward error statistics; size
	// refusals and missing files never started processing
	if outcome == OutcomeError {
		o.recordStats("Errors", 0, 0, 0, 1)
	}

	util.WarnLog("Skipped %s: %s", filepath.Base(path), message)
	return &Result{
		Outcome:     outcome,
		Message:     message,
		SizeBytes:   size,
		OperationID: id,
	}
}

func (o *Organizer) recordStats(category string, files, size, duplicates, errors int64) {
	if err := o.store.UpsertDailyStatistic(category, files, size, duplicates, errors); err != nil {
		util.ErrorLog("Failed to record statistics: %v", err)
	}
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}

	return os.Remove(src)
}
