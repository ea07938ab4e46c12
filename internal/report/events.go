// Package report writes machine-readable run logs as JSONL, one event per
// line, alongside the human-readable terminal output.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventOrganize  EventType = "organize"
	EventDuplicate EventType = "duplicate"
	EventUndo      EventType = "undo"
	EventSession   EventType = "session"
	EventPrune     EventType = "prune"
	EventError     EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event in the run log
type Event struct {
	Timestamp time.Time         `json:"ts"`
	RunID     string            `json:"run_id"`
	Level     EventLevel        `json:"level"`
	Event     EventType         `json:"event"`
	SrcPath   string            `json:"src_path,omitempty"`
	DestPath  string            `json:"dest_path,omitempty"`
	Category  string            `json:"category,omitempty"`
	Outcome   string            `json:"outcome,omitempty"`
	SizeBytes int64             `json:"size_bytes,omitempty"`
	Error     string            `json:"error,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file. All methods are safe on a nil
// receiver, so callers can pass NullLogger() when run logging is disabled.
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	runID    string
	minLevel EventLevel
}

// NewEventLogger creates a run log under outputDir. minLevel determines
// which events are written (e.g., LevelInfo skips LevelDebug).
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	path := filepath.Join(outputDir, fmt.Sprintf("events-%s.jsonl", timestamp))

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		runID:    uuid.NewString(),
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.RunID = l.runID

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogOrganize logs the outcome of one processed file
func (l *EventLogger) LogOrganize(srcPath, destPath, category, outcome string, sizeBytes int64) error {
	return l.Log(&Event{
		Level:     LevelInfo,
		Event:     EventOrganize,
		SrcPath:   srcPath,
		DestPath:  destPath,
		Category:  category,
		Outcome:   outcome,
		SizeBytes: sizeBytes,
	})
}

// LogDuplicate logs a quarantined duplicate
func (l *EventLogger) LogDuplicate(srcPath, destPath, firstSeenPath string, sizeBytes int64) error {
	return l.Log(&Event{
		Level:     LevelWarning,
		Event:     EventDuplicate,
		SrcPath:   srcPath,
		DestPath:  destPath,
		SizeBytes: sizeBytes,
		Extra: map[string]string{
			"first_seen_path": firstSeenPath,
		},
	})
}

// LogUndo logs a restore
func (l *EventLogger) LogUndo(operationID int64, srcPath, destPath string) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    EventUndo,
		SrcPath:  srcPath,
		DestPath: destPath,
		Extra: map[string]string{
			"operation_id": fmt.Sprintf("%d", operationID),
		},
	})
}

// LogSession logs a session boundary ("start" or "end")
func (l *EventLogger) LogSession(sessionID int64, mode, boundary string, filesProcessed int64) error {
	return l.Log(&Event{
		Level: LevelInfo,
		Event: EventSession,
		Extra: map[string]string{
			"session_id":      fmt.Sprintf("%d", sessionID),
			"mode":            mode,
			"boundary":        boundary,
			"files_processed": fmt.Sprintf("%d", filesProcessed),
		},
	})
}

// LogPrune logs a history prune
func (l *EventLogger) LogPrune(days int, deleted int64) error {
	return l.Log(&Event{
		Level: LevelInfo,
		Event: EventPrune,
		Extra: map[string]string{
			"days":    fmt.Sprintf("%d", days),
			"deleted": fmt.Sprintf("%d", deleted),
		},
	})
}

// LogError logs a processing failure
func (l *EventLogger) LogError(srcPath string, err error) error {
	return l.Log(&Event{
		Level:   LevelError,
		Event:   EventError,
		SrcPath: srcPath,
		Error:   err.Error(),
	})
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// RunID returns the identifier stamped on every event of this run
func (l *EventLogger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
