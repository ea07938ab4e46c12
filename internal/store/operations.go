package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/franz/sfo/internal/util"
)

// Operation kinds recorded in the ledger.
const (
	OpOrganize  = "organize"
	OpDuplicate = "duplicate"
	OpUndo      = "undo"
)

// SentinelFailedLog is returned by LogOperation when the ledger write itself
// failed. The caller treats it as "operation performed, audit record lost".
const SentinelFailedLog = int64(-1)

// timeFormat keeps stored timestamps lexically comparable.
const timeFormat = time.RFC3339

// Operation is one ledger entry.
type Operation struct {
	ID              int64
	Timestamp       time.Time
	Filename        string
	OriginalPath    string
	DestinationPath string
	Category        string
	Kind            string
	FileSize        int64
	FileHash        string
	Success         bool
	ErrorMessage    string
	CanUndo         bool
}

// LogOperation appends an operation entry and returns its id. A persistence
// failure is logged and reported as SentinelFailedLog, never as an error:
// losing an audit record must not unwind a move that already happened.
func (s *Store) LogOperation(op *Operation) int64 {
	id, err := s.logOperation(op)
	if err != nil {
		util.ErrorLog("Failed to log operation for %s: %v", op.Filename, err)
		return SentinelFailedLog
	}
	return id
}

func (s *Store) logOperation(op *Operation) (int64, error) {
	if op.Timestamp.IsZero() {
		op.Timestamp = time.Now()
	}

	// Failed entries always carry an error message and no destination
	if !op.Success {
		op.DestinationPath = ""
		if op.ErrorMessage == "" {
			op.ErrorMessage = "unknown error"
		}
	}

	// Only successful moves are undo candidates; undo entries themselves
	// are terminal
	op.CanUndo = op.Success && op.Kind != OpUndo

	result, err := s.db.Exec(`
		INSERT INTO file_operations
		(timestamp, filename, original_path, destination_path,
		 category, operation_type, file_size, file_hash,
		 success, error_message, can_undo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, op.Timestamp.Format(timeFormat), op.Filename, op.OriginalPath,
		op.DestinationPath, op.Category, op.Kind, op.FileSize,
		nullable(op.FileHash), boolInt(op.Success), nullable(op.ErrorMessage),
		boolInt(op.CanUndo))
	if err != nil {
		return 0, fmt.Errorf("failed to insert operation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get operation id: %w", err)
	}

	op.ID = id
	return id, nil
}

// GetOperation retrieves one entry by id, or nil when absent.
func (s *Store) GetOperation(id int64) (*Operation, error) {
	row := s.db.QueryRow(selectOperation+" WHERE id = ?", id)
	op, err := scanOperation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return op, err
}

// RecentOperations returns entries most recent first.
func (s *Store) RecentOperations(limit, offset int) ([]*Operation, error) {
	rows, err := s.db.Query(selectOperation+`
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// UndoableOperations returns successful, still-eligible entries, most
// recent first.
func (s *Store) UndoableOperations(limit int) ([]*Operation, error) {
	rows, err := s.db.Query(selectOperation+`
		WHERE can_undo = 1 AND success = 1
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query undoable operations: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// SearchOperations finds entries whose filename contains term.
func (s *Store) SearchOperations(term string, limit int) ([]*Operation, error) {
	rows, err := s.db.Query(selectOperation+`
		WHERE filename LIKE ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search operations: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// MarkUndone flips an entry's undo eligibility to false. Idempotent: marking
// an already-ineligible entry is a no-op.
func (s *Store) MarkUndone(id int64) error {
	_, err := s.db.Exec(`
		UPDATE file_operations SET can_undo = 0 WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark operation %d undone: %w", id, err)
	}
	return nil
}

// PruneOlderThan removes operation entries older than the cutoff.
// The duplicate index and statistics are untouched.
func (s *Store) PruneOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Format(timeFormat)

	result, err := s.db.Exec(`
		DELETE FROM file_operations WHERE timestamp < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune operations: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return deleted, nil
}

const selectOperation = `
	SELECT id, timestamp, filename, original_path, destination_path,
	       category, operation_type, file_size, COALESCE(file_hash, ''),
	       success, COALESCE(error_message, ''), can_undo
	FROM file_operations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(row rowScanner) (*Operation, error) {
	op := &Operation{}
	var ts string
	var success, canUndo int

	err := row.Scan(&op.ID, &ts, &op.Filename, &op.OriginalPath,
		&op.DestinationPath, &op.Category, &op.Kind, &op.FileSize,
		&op.FileHash, &success, &op.ErrorMessage, &canUndo)
	if err != nil {
		return nil, err
	}

	op.Timestamp, _ = time.Parse(timeFormat, ts)
	op.Success = success == 1
	op.CanUndo = canUndo == 1
	return op, nil
}

func scanOperations(rows *sql.Rows) ([]*Operation, error) {
	var ops []*Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
