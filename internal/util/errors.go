package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates the source path vanished or is not a regular file
	ErrNotFound = errors.New("file not found")

	// ErrTooLarge indicates a file exceeds the configured size limit
	ErrTooLarge = errors.New("file too large")

	// ErrHash indicates an I/O failure while digesting file content
	ErrHash = errors.New("hash failed")

	// ErrMove indicates the filesystem move failed
	ErrMove = errors.New("move failed")

	// ErrCollisionExhausted indicates the collision probe ran out of suffixes
	ErrCollisionExhausted = errors.New("destination collision suffixes exhausted")

	// ErrUndoSourceMissing indicates the file to restore is no longer at the
	// recorded destination
	ErrUndoSourceMissing = errors.New("undo source missing")

	// ErrNotUndoable indicates the operation is not eligible for undo
	ErrNotUndoable = errors.New("operation not undoable")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
