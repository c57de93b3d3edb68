package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testFormat() FormatDescriptor {
	return FormatsFor(false)[3] // 720p
}

func TestNewDownloadTask(t *testing.T) {
	task := NewDownloadTask("My Video", testFormat(), "My_Video_720p.mp4")

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "My Video", task.RecordTitle)
	assert.Equal(t, "720p-mp4", task.FormatID)
	assert.Equal(t, "720p", task.Quality)
	assert.Equal(t, "video/mp4", task.MimeType)
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, 0, task.Progress)
}

func TestDownloadTask_Advance(t *testing.T) {
	task := NewDownloadTask("t", testFormat(), "f")

	assert.Equal(t, 15, task.Advance(15))
	assert.Equal(t, 15, task.Advance(-4))
	assert.Equal(t, 100, task.Advance(200))
	assert.Equal(t, 100, task.Advance(5))
}

func TestDownloadTask_MarkCompleted(t *testing.T) {
	task := NewDownloadTask("t", testFormat(), "f")
	task.MarkDownloading()
	assert.Equal(t, StatusDownloading, task.Status)
	assert.False(t, task.IsTerminal())

	task.MarkCompleted("/tmp/f")

	assert.Equal(t, StatusCompleted, task.Status)
	assert.Equal(t, 100, task.Progress)
	assert.Equal(t, "/tmp/f", task.FilePath)
	assert.NotNil(t, task.CompletedAt)
	assert.True(t, task.IsTerminal())
}

func TestDownloadTask_MarkFailed(t *testing.T) {
	task := NewDownloadTask("t", testFormat(), "f")

	task.MarkFailed(errors.New("disk full"))

	assert.Equal(t, StatusError, task.Status)
	assert.Equal(t, "disk full", task.ErrorMessage)
	assert.True(t, task.IsTerminal())

	ev := task.Event()
	assert.Equal(t, task.ID, ev.TaskID)
	assert.Equal(t, StatusError, ev.Status)
	assert.Equal(t, "disk full", ev.Error)
}
