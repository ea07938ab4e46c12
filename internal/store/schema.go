package store

// Schema v1 - core tables
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Every attempted operation, success or failure
CREATE TABLE IF NOT EXISTS file_operations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  timestamp TEXT NOT NULL,
  filename TEXT NOT NULL,
  original_path TEXT NOT NULL,
  destination_path TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  operation_type TEXT NOT NULL,
  file_size INTEGER DEFAULT 0,
  file_hash TEXT,
  success INTEGER NOT NULL,
  error_message TEXT,
  can_undo INTEGER DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_operations_timestamp ON file_operations(timestamp);
CREATE INDEX IF NOT EXISTS idx_operations_filename ON file_operations(filename);

-- Content digest index for duplicate detection
CREATE TABLE IF NOT EXISTS duplicate_hashes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  file_hash TEXT UNIQUE NOT NULL,
  original_path TEXT NOT NULL,
  file_size INTEGER DEFAULT 0,
  first_seen TEXT NOT NULL,
  last_seen TEXT NOT NULL,
  duplicate_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_duplicate_hash ON duplicate_hashes(file_hash);

-- Per-day per-category counters
CREATE TABLE IF NOT EXISTS statistics (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL,
  category TEXT NOT NULL,
  files_processed INTEGER DEFAULT 0,
  total_size INTEGER DEFAULT 0,
  duplicates_found INTEGER DEFAULT 0,
  errors_count INTEGER DEFAULT 0,
  UNIQUE(date, category)
);

CREATE INDEX IF NOT EXISTS idx_statistics_date ON statistics(date);

-- Timestamped configuration snapshots
CREATE TABLE IF NOT EXISTS config_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  timestamp TEXT NOT NULL,
  config_json TEXT NOT NULL,
  description TEXT
);

-- Organization sessions (batch or continuous runs)
CREATE TABLE IF NOT EXISTS sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  start_time TEXT NOT NULL,
  end_time TEXT,
  mode TEXT NOT NULL,
  watch_folder TEXT NOT NULL,
  files_processed INTEGER DEFAULT 0,
  status TEXT DEFAULT 'active'
);
`

// Schema v2 - query indexes for undo and statistics lookups
const schemaV2 = `
CREATE INDEX IF NOT EXISTS idx_operations_undoable
  ON file_operations(can_undo, success, timestamp);

CREATE INDEX IF NOT EXISTS idx_statistics_category
  ON statistics(category);

CREATE INDEX IF NOT EXISTS idx_sessions_start_time
  ON sessions(start_time);
`
