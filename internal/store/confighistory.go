package store

import (
	"fmt"
	"time"
)

// ConfigSnapshot is a timestamped configuration blob.
type ConfigSnapshot struct {
	ID          int64
	Timestamp   time.Time
	ConfigJSON  string
	Description string
}

// SaveConfigSnapshot stores a configuration blob with a free-text description.
func (s *Store) SaveConfigSnapshot(configJSON, description string) error {
	_, err := s.db.Exec(`
		INSERT INTO config_history (timestamp, config_json, description)
		VALUES (?, ?, ?)
	`, time.Now().Format(timeFormat), configJSON, description)
	if err != nil {
		return fmt.Errorf("failed to save config snapshot: %w", err)
	}
	return nil
}

// ConfigHistory returns snapshots, newest first.
func (s *Store) ConfigHistory(limit int) ([]*ConfigSnapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, timestamp, config_json, COALESCE(description, '')
		FROM config_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query config history: %w", err)
	}
	defer rows.Close()

	var snaps []*ConfigSnapshot
	for rows.Next() {
		snap := &ConfigSnapshot{}
		var ts string
		err := rows.Scan(&snap.ID, &ts, &snap.ConfigJSON, &snap.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to scan config snapshot: %w", err)
		}
		snap.Timestamp, _ = time.Parse(timeFormat, ts)
		snaps = append(snaps, snap)
	}

	return snaps, rows.Err()
}
