package store

import "testing"

func TestUpsertDailyStatistic(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpsertDailyStatistic("Documents", 1, 1000, 0, 0); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := s.UpsertDailyStatistic("Documents", 2, 3000, 1, 1); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if err := s.UpsertDailyStatistic("Images", 1, 500, 0, 0); err != nil {
		t.Fatalf("third upsert failed: %v", err)
	}

	stats, err := s.StatisticsWindow(7)
	if err != nil {
		t.Fatalf("StatisticsWindow failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}

	var docs *DailyStat
	for _, st := range stats {
		if st.Category == "Documents" {
			docs = st
		}
	}
	if docs == nil {
		t.Fatal("missing Documents row")
	}
	if docs.FilesProcessed != 3 || docs.TotalSize != 4000 {
		t.Errorf("counters not additive: files=%d size=%d", docs.FilesProcessed, docs.TotalSize)
	}
	if docs.DuplicatesFound != 1 || docs.ErrorsCount != 1 {
		t.Errorf("dup/error counters wrong: dup=%d err=%d", docs.DuplicatesFound, docs.ErrorsCount)
	}
}

func TestCategorySummary(t *testing.T) {
	s := openTestStore(t)

	s.UpsertDailyStatistic("Images", 5, 5000, 0, 0)
	s.UpsertDailyStatistic("Documents", 2, 2000, 1, 0)

	totals, err := s.CategorySummary()
	if err != nil {
		t.Fatalf("CategorySummary failed: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(totals))
	}
	// Most active category first
	if totals[0].Category != "Images" || totals[0].TotalFiles != 5 {
		t.Errorf("unexpected leading category: %+v", totals[0])
	}
}
