package store

import (
	"database/sql"
	"fmt"
	"time"
)

// DuplicateEntry is one row of the content digest index. The first-seen path
// is canonical: it is never relocated by later duplicates.
type DuplicateEntry struct {
	ID             int64
	FileHash       string
	OriginalPath   string
	FileSize       int64
	FirstSeen      time.Time
	LastSeen       time.Time
	DuplicateCount int64
}

// RecordDigestSighting is the authoritative duplicate upsert. The first
// sighting of a digest inserts it and returns false; a repeat sighting
// increments the repeat counter, refreshes last-seen and returns true.
func (s *Store) RecordDigestSighting(digest, path string, size int64) (bool, error) {
	isDup := false

	err := s.Transaction(func(tx *sql.Tx) error {
		now := time.Now().Format(timeFormat)

		var id int64
		err := tx.QueryRow(`
			SELECT id FROM duplicate_hashes WHERE file_hash = ?
		`, digest).Scan(&id)

		if err == sql.ErrNoRows {
			_, err := tx.Exec(`
				INSERT INTO duplicate_hashes
				(file_hash, original_path, file_size, first_seen, last_seen)
				VALUES (?, ?, ?, ?, ?)
			`, digest, path, size, now, now)
			if err != nil {
				return fmt.Errorf("failed to insert digest: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up digest: %w", err)
		}

		_, err = tx.Exec(`
			UPDATE duplicate_hashes
			SET last_seen = ?, duplicate_count = duplicate_count + 1
			WHERE id = ?
		`, now, id)
		if err != nil {
			return fmt.Errorf("failed to update digest: %w", err)
		}

		isDup = true
		return nil
	})

	return isDup, err
}

// IsDuplicateDigest reports whether a digest has been seen and, if so, the
// canonical first-seen path.
func (s *Store) IsDuplicateDigest(digest string) (bool, string, error) {
	var path string
	err := s.db.QueryRow(`
		SELECT original_path FROM duplicate_hashes WHERE file_hash = ?
	`, digest).Scan(&path)

	if err == sql.ErrNoRows {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to check digest: %w", err)
	}

	return true, path, nil
}

// GetDuplicateEntry retrieves the index entry for a digest, or nil.
func (s *Store) GetDuplicateEntry(digest string) (*DuplicateEntry, error) {
	e := &DuplicateEntry{}
	var firstSeen, lastSeen string

	err := s.db.QueryRow(`
		SELECT id, file_hash, original_path, file_size,
		       first_seen, last_seen, duplicate_count
		FROM duplicate_hashes WHERE file_hash = ?
	`, digest).Scan(&e.ID, &e.FileHash, &e.OriginalPath, &e.FileSize,
		&firstSeen, &lastSeen, &e.DuplicateCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get duplicate entry: %w", err)
	}

	e.FirstSeen, _ = time.Parse(timeFormat, firstSeen)
	e.LastSeen, _ = time.Parse(timeFormat, lastSeen)
	return e, nil
}

// DuplicateSummary aggregates the duplicate index.
type DuplicateSummary struct {
	UniqueFiles     int64
	TotalDuplicates int64
	WastedBytes     int64
}

// GetDuplicateSummary returns totals across the whole index.
func (s *Store) GetDuplicateSummary() (*DuplicateSummary, error) {
	sum := &DuplicateSummary{}
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(duplicate_count), 0),
		       COALESCE(SUM(file_size * duplicate_count), 0)
		FROM duplicate_hashes
	`).Scan(&sum.UniqueFiles, &sum.TotalDuplicates, &sum.WastedBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize duplicates: %w", err)
	}
	return sum, nil
}

// ClearDuplicates empties the digest index.
func (s *Store) ClearDuplicates() error {
	if _, err := s.db.Exec("DELETE FROM duplicate_hashes"); err != nil {
		return fmt.Errorf("failed to clear duplicate index: %w", err)
	}
	return nil
}
