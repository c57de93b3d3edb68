package app

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/internal/domain"
)

const (
	maxSafeTitleLength = 30
	subscriberBuffer   = 128
)

var (
	unsafeTitleChars = regexp.MustCompile(`[^A-Za-z0-9]`)

	errSimulatorStopped = errors.New("download interrupted by shutdown")
)

// DownloadSimulator runs synthetic downloads one at a time. Each tick raises
// progress by a random step; at 100 a zero-filled file is written.
type DownloadSimulator struct {
	repo      domain.DownloadRepository
	blobs     domain.BlobStore
	config    *domain.DownloadConfig
	logger    *zap.Logger
	notifier  domain.Notifier
	semaphore chan struct{} // one active download
	step      func() int

	mu          sync.Mutex
	subscribers map[string]map[chan domain.ProgressEvent]struct{}
	stopChan    chan struct{}
	stopped     bool
	workerWg    sync.WaitGroup
}

// NewDownloadSimulator creates a new download simulator
func NewDownloadSimulator(
	repo domain.DownloadRepository,
	blobs domain.BlobStore,
	config *domain.DownloadConfig,
	logger *zap.Logger,
) *DownloadSimulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DownloadSimulator{
		repo:        repo,
		blobs:       blobs,
		config:      config,
		logger:      logger,
		semaphore:   make(chan struct{}, 1),
		subscribers: make(map[string]map[chan domain.ProgressEvent]struct{}),
		stopChan:    make(chan struct{}),
	}
	s.step = s.randomStep
	return s
}

// WithNotifier makes the simulator announce finished downloads
func (s *DownloadSimulator) WithNotifier(notifier domain.Notifier) *DownloadSimulator {
	s.notifier = notifier
	return s
}

func (s *DownloadSimulator) randomStep() int {
	span := s.config.MaxStep - s.config.MinStep + 1
	if span <= 1 {
		return s.config.MinStep
	}
	return s.config.MinStep + rand.Intn(span)
}

// Start begins downloading formatID of a record titled title. It fails with
// domain.ErrUnknownFormat for ids outside the catalog and with
// domain.ErrDownloadInProgress while another download runs.
func (s *DownloadSimulator) Start(title string, isCollection bool, formatID string) (*domain.DownloadTask, error) {
	format, err := domain.FindFormat(isCollection, formatID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, errSimulatorStopped
	}
	s.workerWg.Add(1)
	s.mu.Unlock()

	select {
	case s.semaphore <- struct{}{}:
	default:
		s.workerWg.Done()
		return nil, domain.ErrDownloadInProgress
	}

	task := domain.NewDownloadTask(title, format, DownloadFilename(title, format))
	if err := s.repo.CreateTask(task); err != nil {
		<-s.semaphore
		s.workerWg.Done()
		return nil, fmt.Errorf("failed to create download: %w", err)
	}

	s.logger.Info("Download started",
		zap.String("id", task.ID),
		zap.String("format", format.ID),
		zap.String("file", task.Filename))

	snapshot := *task
	go s.run(task)

	return &snapshot, nil
}

func (s *DownloadSimulator) run(task *domain.DownloadTask) {
	defer s.workerWg.Done()
	defer func() { <-s.semaphore }()

	task.MarkDownloading()
	s.save(task)
	s.publish(task.Event())

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.finish(task, errSimulatorStopped)
			return
		case <-ticker.C:
			if task.Advance(s.step()) < 100 {
				s.save(task)
				s.publish(task.Event())
				continue
			}

			path, err := s.blobs.Write(task.Filename, s.config.SyntheticSize)
			if err != nil {
				s.finish(task, err)
				return
			}
			task.MarkCompleted(path)
			s.finish(task, nil)
			return
		}
	}
}

// finish persists the terminal state and closes the task's subscribers
func (s *DownloadSimulator) finish(task *domain.DownloadTask, err error) {
	if err != nil {
		task.MarkFailed(err)
		s.logger.Error("Download failed",
			zap.String("id", task.ID),
			zap.Int("progress", task.Progress),
			zap.Error(err))
		s.notify("Download Failed", task.Filename)
	} else {
		s.logger.Info("Download completed",
			zap.String("id", task.ID),
			zap.String("file", task.FilePath))
		s.notify("Download Completed", task.Filename)
	}

	s.save(task)
	s.publish(task.Event())

	s.mu.Lock()
	for ch := range s.subscribers[task.ID] {
		close(ch)
	}
	delete(s.subscribers, task.ID)
	s.mu.Unlock()
}

func (s *DownloadSimulator) notify(title, message string) {
	if s.notifier != nil {
		_ = s.notifier.Send(title, message)
	}
}

func (s *DownloadSimulator) save(task *domain.DownloadTask) {
	if err := s.repo.UpdateTask(task); err != nil {
		s.logger.Error("Failed to update download status", zap.String("id", task.ID), zap.Error(err))
	}
}

func (s *DownloadSimulator) publish(event domain.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers[event.TaskID] {
		select {
		case ch <- event:
		default:
			s.logger.Warn("Dropping progress event for slow subscriber",
				zap.String("id", event.TaskID),
				zap.Int("progress", event.Progress))
		}
	}
}

// Subscribe returns a channel of progress events for task id. The channel
// is closed after the terminal event. Callers must call the returned
// function once they stop reading.
func (s *DownloadSimulator) Subscribe(id string) (<-chan domain.ProgressEvent, func()) {
	ch := make(chan domain.ProgressEvent, subscriberBuffer)

	s.mu.Lock()
	if s.subscribers[id] == nil {
		s.subscribers[id] = make(map[chan domain.ProgressEvent]struct{})
	}
	s.subscribers[id][ch] = struct{}{}
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if subs, ok := s.subscribers[id]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(s.subscribers, id)
			}
		}
	}
	return ch, unsubscribe
}

// Get returns the task with id
func (s *DownloadSimulator) Get(id string) (*domain.DownloadTask, error) {
	return s.repo.FindTask(id)
}

// List returns tasks newest first, optionally filtered by status
func (s *DownloadSimulator) List(status domain.DownloadStatus) ([]*domain.DownloadTask, error) {
	return s.repo.ListTasks(status)
}

// Busy reports whether a download is running
func (s *DownloadSimulator) Busy() bool {
	return len(s.semaphore) > 0
}

// Stop interrupts the active download and waits for it to record its state
func (s *DownloadSimulator) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopChan)
	s.mu.Unlock()

	s.workerWg.Wait()
}

// DownloadFilename is <safeTitle>_<quality>.<ext>, where safeTitle keeps
// ASCII letters and digits, replaces everything else with '_' and is cut
// to 30 characters.
func DownloadFilename(title string, format domain.FormatDescriptor) string {
	safe := unsafeTitleChars.ReplaceAllString(title, "_")
	if len(safe) > maxSafeTitleLength {
		safe = safe[:maxSafeTitleLength]
	}
	return fmt.Sprintf("%s_%s.%s", safe, format.Quality, format.Extension())
}
