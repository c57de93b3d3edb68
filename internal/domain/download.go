package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDownloadInProgress is returned when a download is started while another one is running
	ErrDownloadInProgress = errors.New("another download is in progress")
	// ErrDownloadNotFound is returned for unknown download ids
	ErrDownloadNotFound = errors.New("download not found")
)

// DownloadStatus represents the current status of a simulated download
type DownloadStatus string

const (
	StatusPending     DownloadStatus = "pending"
	StatusDownloading DownloadStatus = "downloading"
	StatusCompleted   DownloadStatus = "completed"
	StatusError       DownloadStatus = "error"
)

// DownloadTask is a simulated download of one format of a record. Progress
// only ever grows and ends at 100.
type DownloadTask struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	RecordTitle  string         `json:"record_title"`
	FormatID     string         `json:"format_id" gorm:"not null"`
	Quality      string         `json:"quality"`
	MimeType     string         `json:"mime_type"`
	Filename     string         `json:"filename"`
	Status       DownloadStatus `json:"status" gorm:"not null;index"`
	Progress     int            `json:"progress" gorm:"default:0"`
	FilePath     string         `json:"file_path,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// NewDownloadTask creates a pending task for format
func NewDownloadTask(title string, format FormatDescriptor, filename string) *DownloadTask {
	now := time.Now()
	return &DownloadTask{
		ID:          uuid.New().String(),
		RecordTitle: title,
		FormatID:    format.ID,
		Quality:     format.Quality,
		MimeType:    format.MimeType(),
		Filename:    filename,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkDownloading marks the task as running
func (d *DownloadTask) MarkDownloading() {
	d.Status = StatusDownloading
	d.UpdatedAt = time.Now()
}

// Advance raises progress by step, clamped to [current, 100]
func (d *DownloadTask) Advance(step int) int {
	if step < 0 {
		step = 0
	}
	d.Progress += step
	if d.Progress > 100 {
		d.Progress = 100
	}
	d.UpdatedAt = time.Now()
	return d.Progress
}

// MarkCompleted marks the task as completed
func (d *DownloadTask) MarkCompleted(filePath string) {
	d.Status = StatusCompleted
	d.Progress = 100
	d.FilePath = filePath
	now := time.Now()
	d.CompletedAt = &now
	d.UpdatedAt = now
}

// MarkFailed marks the task as failed
func (d *DownloadTask) MarkFailed(err error) {
	d.Status = StatusError
	d.ErrorMessage = err.Error()
	d.UpdatedAt = time.Now()
}

// IsTerminal checks if the task is finished
func (d *DownloadTask) IsTerminal() bool {
	return d.Status == StatusCompleted || d.Status == StatusError
}

// ProgressEvent is published on every progress change of a task
type ProgressEvent struct {
	TaskID   string         `json:"task_id"`
	Progress int            `json:"progress"`
	Status   DownloadStatus `json:"status"`
	FilePath string         `json:"file_path,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Event snapshots the task as a ProgressEvent
func (d *DownloadTask) Event() ProgressEvent {
	return ProgressEvent{
		TaskID:   d.ID,
		Progress: d.Progress,
		Status:   d.Status,
		FilePath: d.FilePath,
		Error:    d.ErrorMessage,
	}
}
