package app

import (
	"context"
	"errors"
	"sync"

	"github.com/yourusername/streamfetch-go/internal/domain"
)

var errStorage = errors.New("storage unavailable")

// mockSlots implements domain.SlotStore for testing
type mockSlots struct {
	mu      sync.Mutex
	values  map[string]string
	failGet bool
	failPut bool
	puts    int
}

func newMockSlots() *mockSlots {
	return &mockSlots{values: make(map[string]string)}
}

func (m *mockSlots) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", errStorage
	}
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrSlotNotFound
	}
	return v, nil
}

func (m *mockSlots) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errStorage
	}
	m.puts++
	m.values[key] = value
	return nil
}

func (m *mockSlots) Ping() error {
	if m.failGet {
		return errStorage
	}
	return nil
}

// mockGenerator implements domain.TextGenerator for testing
type mockGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
	// block, when set, is waited on before answering
	block chan struct{}
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.text, m.err
}

// mockTaskRepo implements domain.DownloadRepository for testing
type mockTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]domain.DownloadTask
	order []string
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]domain.DownloadTask)}
}

func (m *mockTaskRepo) CreateTask(task *domain.DownloadTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = *task
	m.order = append([]string{task.ID}, m.order...)
	return nil
}

func (m *mockTaskRepo) UpdateTask(task *domain.DownloadTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = *task
	return nil
}

func (m *mockTaskRepo) FindTask(id string) (*domain.DownloadTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, domain.ErrDownloadNotFound
	}
	return &task, nil
}

func (m *mockTaskRepo) ListTasks(status domain.DownloadStatus) ([]*domain.DownloadTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.DownloadTask
	for _, id := range m.order {
		task := m.tasks[id]
		if status == "" || task.Status == status {
			out = append(out, &task)
		}
	}
	return out, nil
}
