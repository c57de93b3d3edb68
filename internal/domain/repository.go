package domain

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned by SlotStore.Get when the slot was never written
var ErrSlotNotFound = errors.New("storage slot not found")

// ErrNotInLibrary is returned when a record id is not saved
var ErrNotInLibrary = errors.New("record not in library")

// SlotStore is durable key-value storage holding whole serialized values
// under named slots. Writes replace the slot; last writer wins.
type SlotStore interface {
	// Get returns the slot value or ErrSlotNotFound
	Get(key string) (string, error)

	// Put overwrites the slot
	Put(key, value string) error

	// Ping checks the backend is reachable
	Ping() error
}

// TextGenerator is the remote text-generation service used for metadata lookups
type TextGenerator interface {
	// Generate returns the free-form text response for prompt
	Generate(ctx context.Context, prompt string) (string, error)
}

// DownloadRepository defines the interface for simulated download persistence
type DownloadRepository interface {
	// CreateTask creates a new task
	CreateTask(task *DownloadTask) error

	// UpdateTask updates an existing task
	UpdateTask(task *DownloadTask) error

	// FindTask finds a task by ID
	FindTask(id string) (*DownloadTask, error)

	// ListTasks lists tasks newest first, optionally filtered by status
	ListTasks(status DownloadStatus) ([]*DownloadTask, error)
}

// BlobStore receives the synthetic file of a completed download
type BlobStore interface {
	// Write stores size bytes under filename and returns the resulting path
	Write(filename string, size int64) (string, error)
}

// Notifier shows a short message to the local user
type Notifier interface {
	Send(title, message string) error
}
