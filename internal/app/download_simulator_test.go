package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/streamfetch-go/internal/domain"
	"github.com/yourusername/streamfetch-go/internal/infrastructure"
)

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Send(title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title+": "+message)
	return nil
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.titles...)
}

type failingBlobs struct{}

func (failingBlobs) Write(string, int64) (string, error) {
	return "", errors.New("disk full")
}

func testDownloadConfig(dir string) *domain.DownloadConfig {
	return &domain.DownloadConfig{
		OutputDir:     dir,
		TickInterval:  time.Millisecond,
		SyntheticSize: 2048,
		MinStep:       5,
		MaxStep:       19,
	}
}

func waitTerminal(t *testing.T, sim *DownloadSimulator, id string) *domain.DownloadTask {
	t.Helper()
	var task *domain.DownloadTask
	require.Eventually(t, func() bool {
		got, err := sim.Get(id)
		if err != nil {
			return false
		}
		task = got
		return got.IsTerminal()
	}, 5*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return !sim.Busy() }, time.Second, time.Millisecond)
	return task
}

func TestDownloadFilename(t *testing.T) {
	mp4, err := domain.FindFormat(false, "720p-mp4")
	require.NoError(t, err)
	zip, err := domain.FindFormat(true, "pl-mp3-all")
	require.NoError(t, err)

	assert.Equal(t, "Never_Gonna_Give_You_Up_720p.mp4", DownloadFilename("Never Gonna Give You Up", mp4))
	assert.Equal(t, "a_b_c__720p.mp4", DownloadFilename("a/b.c!", mp4))
	assert.Equal(t, "Caf__720p.mp4", DownloadFilename("Café", mp4))
	assert.Equal(t, "Mix_Audio Only.zip", DownloadFilename("Mix", zip))

	long := DownloadFilename("abcdefghijklmnopqrstuvwxyz0123456789", mp4)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz0123_720p.mp4", long)
}

func TestDownloadSimulator_Completes(t *testing.T) {
	dir := t.TempDir()
	repo := newMockTaskRepo()
	notifier := &recordingNotifier{}
	sim := NewDownloadSimulator(repo, infrastructure.NewBlobWriter(dir), testDownloadConfig(dir), nil).
		WithNotifier(notifier)
	defer sim.Stop()

	task, err := sim.Start("My Song", false, "audio-mp3")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, "audio/mp3", task.MimeType)
	assert.Equal(t, "My_Song_320kbps.mp3", task.Filename)

	done := waitTerminal(t, sim, task.ID)
	assert.Equal(t, domain.StatusCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, filepath.Join(dir, "My_Song_320kbps.mp3"), done.FilePath)

	info, err := os.Stat(done.FilePath)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), info.Size())
	assert.Equal(t, []string{"Download Completed: My_Song_320kbps.mp3"}, notifier.sent())
}

func TestDownloadSimulator_OneAtATime(t *testing.T) {
	dir := t.TempDir()
	config := testDownloadConfig(dir)
	config.TickInterval = time.Hour
	sim := NewDownloadSimulator(newMockTaskRepo(), infrastructure.NewBlobWriter(dir), config, nil)
	defer sim.Stop()

	_, err := sim.Start("first", false, "720p-mp4")
	require.NoError(t, err)
	assert.True(t, sim.Busy())

	_, err = sim.Start("second", false, "480p-mp4")
	assert.ErrorIs(t, err, domain.ErrDownloadInProgress)
}

func TestDownloadSimulator_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	sim := NewDownloadSimulator(newMockTaskRepo(), infrastructure.NewBlobWriter(dir), testDownloadConfig(dir), nil)
	defer sim.Stop()

	_, err := sim.Start("x", true, "720p-mp4")
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
	assert.False(t, sim.Busy())
}

func TestDownloadSimulator_ProgressEvents(t *testing.T) {
	dir := t.TempDir()
	config := testDownloadConfig(dir)
	config.TickInterval = 20 * time.Millisecond
	sim := NewDownloadSimulator(newMockTaskRepo(), infrastructure.NewBlobWriter(dir), config, nil)
	sim.step = func() int { return 30 }
	defer sim.Stop()

	task, err := sim.Start("Clip", false, "1080p-mp4")
	require.NoError(t, err)
	events, unsubscribe := sim.Subscribe(task.ID)
	defer unsubscribe()

	var got []domain.ProgressEvent
	for event := range events {
		got = append(got, event)
	}

	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, domain.StatusCompleted, last.Status)
	assert.Equal(t, 100, last.Progress)
	assert.NotEmpty(t, last.FilePath)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Progress, got[i-1].Progress)
	}
	var progress []int
	for _, e := range got {
		if e.Status == domain.StatusDownloading && e.Progress > 0 {
			progress = append(progress, e.Progress)
		}
	}
	assert.Subset(t, []int{30, 60, 90}, progress)
}

func TestDownloadSimulator_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	sim := NewDownloadSimulator(newMockTaskRepo(), failingBlobs{}, testDownloadConfig(dir), nil)
	defer sim.Stop()

	task, err := sim.Start("x", false, "360p-mp4")
	require.NoError(t, err)

	done := waitTerminal(t, sim, task.ID)
	assert.Equal(t, domain.StatusError, done.Status)
	assert.Contains(t, done.ErrorMessage, "disk full")

	// the slot is free again
	_, err = sim.Start("y", false, "360p-mp4")
	assert.NoError(t, err)
}

func TestDownloadSimulator_StopInterrupts(t *testing.T) {
	dir := t.TempDir()
	config := testDownloadConfig(dir)
	config.TickInterval = time.Hour
	repo := newMockTaskRepo()
	sim := NewDownloadSimulator(repo, infrastructure.NewBlobWriter(dir), config, nil)

	task, err := sim.Start("x", false, "360p-mp4")
	require.NoError(t, err)

	sim.Stop()
	stored, err := repo.FindTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, stored.Status)

	_, err = sim.Start("y", false, "360p-mp4")
	assert.Error(t, err)
	sim.Stop()
}

func TestDownloadSimulator_ListAndGet(t *testing.T) {
	dir := t.TempDir()
	sim := NewDownloadSimulator(newMockTaskRepo(), infrastructure.NewBlobWriter(dir), testDownloadConfig(dir), nil)
	defer sim.Stop()

	task, err := sim.Start("a", false, "720p-mp4")
	require.NoError(t, err)
	waitTerminal(t, sim, task.ID)

	all, err := sim.List("")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	completed, err := sim.List(domain.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	_, err = sim.Get("missing")
	assert.ErrorIs(t, err, domain.ErrDownloadNotFound)
}

func TestDownloadSimulator_RandomStepInRange(t *testing.T) {
	sim := NewDownloadSimulator(newMockTaskRepo(), failingBlobs{}, testDownloadConfig(t.TempDir()), nil)

	for i := 0; i < 500; i++ {
		step := sim.randomStep()
		assert.GreaterOrEqual(t, step, 5)
		assert.LessOrEqual(t, step, 19)
	}
}
