package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Session modes.
const (
	ModeContinuous = "continuous"
	ModeBatch      = "batch"
)

// Session is one organization run, bracketed by start/end.
type Session struct {
	ID             int64
	StartTime      time.Time
	EndTime        time.Time // zero while active
	Mode           string
	WatchFolder    string
	FilesProcessed int64
	Status         string // active | completed
}

// StartSession opens a session and returns its id.
func (s *Store) StartSession(mode, watchFolder string) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO sessions (start_time, mode, watch_folder)
		VALUES (?, ?, ?)
	`, time.Now().Format(timeFormat), mode, watchFolder)
	if err != nil {
		return 0, fmt.Errorf("failed to start session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session id: %w", err)
	}

	return id, nil
}

// EndSession closes a session with its final processed count.
func (s *Store) EndSession(id int64, filesProcessed int64) error {
	_, err := s.db.Exec(`
		UPDATE sessions
		SET end_time = ?, files_processed = ?, status = 'completed'
		WHERE id = ?
	`, time.Now().Format(timeFormat), filesProcessed, id)
	if err != nil {
		return fmt.Errorf("failed to end session %d: %w", id, err)
	}

	return nil
}

// RecentSessions returns session history, newest first.
func (s *Store) RecentSessions(limit int) ([]*Session, error) {
	rows, err := s.db.Query(`
		SELECT id, start_time, COALESCE(end_time, ''), mode, watch_folder,
		       files_processed, status
		FROM sessions
		ORDER BY start_time DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var start, end string
		err := rows.Scan(&sess.ID, &start, &end, &sess.Mode,
			&sess.WatchFolder, &sess.FilesProcessed, &sess.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sess.StartTime, _ = time.Parse(timeFormat, start)
		if end != "" {
			sess.EndTime, _ = time.Parse(timeFormat, end)
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// GetSession retrieves one session by id, or nil.
func (s *Store) GetSession(id int64) (*Session, error) {
	sess := &Session{}
	var start, end string

	err := s.db.QueryRow(`
		SELECT id, start_time, COALESCE(end_time, ''), mode, watch_folder,
		       files_processed, status
		FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &start, &end, &sess.Mode,
		&sess.WatchFolder, &sess.FilesProcessed, &sess.Status)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess.StartTime, _ = time.Parse(timeFormat, start)
	if end != "" {
		sess.EndTime, _ = time.Parse(timeFormat, end)
	}
	return sess, nil
}
