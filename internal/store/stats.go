package store

import (
	"fmt"
	"time"
)

// dateFormat keys daily statistics by calendar date.
const dateFormat = "2006-01-02"

// DailyStat is one (date, category) counter row.
type DailyStat struct {
	Date            string
	Category        string
	FilesProcessed  int64
	TotalSize       int64
	DuplicatesFound int64
	ErrorsCount     int64
}

// CategoryTotal is an all-time aggregate for one category.
type CategoryTotal struct {
	Category        string
	TotalFiles      int64
	TotalSize       int64
	TotalDuplicates int64
}

// UpsertDailyStatistic additively updates today's counters for a category.
func (s *Store) UpsertDailyStatistic(category string, files, size, duplicates, errors int64) error {
	date := time.Now().Format(dateFormat)

	_, err := s.db.Exec(`
		INSERT INTO statistics
		(date, category, files_processed, total_size, duplicates_found, errors_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, category) DO UPDATE SET
			files_processed = files_processed + excluded.files_processed,
			total_size = total_size + excluded.total_size,
			duplicates_found = duplicates_found + excluded.duplicates_found,
			errors_count = errors_count + excluded.errors_count
	`, date, category, files, size, duplicates, errors)
	if err != nil {
		return fmt.Errorf("failed to upsert statistics: %w", err)
	}

	return nil
}

// StatisticsWindow returns per-day rows within the trailing window.
func (s *Store) StatisticsWindow(days int) ([]*DailyStat, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Format(dateFormat)

	rows, err := s.db.Query(`
		SELECT date, category, files_processed, total_size,
		       duplicates_found, errors_count
		FROM statistics
		WHERE date >= ?
		ORDER BY date DESC, category
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query statistics: %w", err)
	}
	defer rows.Close()

	var stats []*DailyStat
	for rows.Next() {
		st := &DailyStat{}
		err := rows.Scan(&st.Date, &st.Category, &st.FilesProcessed,
			&st.TotalSize, &st.DuplicatesFound, &st.ErrorsCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statistics: %w", err)
		}
		stats = append(stats, st)
	}

	return stats, rows.Err()
}

// CategorySummary returns all-time totals grouped by category, most active
// category first.
func (s *Store) CategorySummary() ([]*CategoryTotal, error) {
	rows, err := s.db.Query(`
		SELECT category,
		       SUM(files_processed),
		       SUM(total_size),
		       SUM(duplicates_found)
		FROM statistics
		GROUP BY category
		ORDER BY SUM(files_processed) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category summary: %w", err)
	}
	defer rows.Close()

	var totals []*CategoryTotal
	for rows.Next() {
		ct := &CategoryTotal{}
		err := rows.Scan(&ct.Category, &ct.TotalFiles, &ct.TotalSize, &ct.TotalDuplicates)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}
