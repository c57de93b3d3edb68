package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/internal/domain"
)

// ErrSearchFailed is reported when a search ends without a record
var ErrSearchFailed = errors.New("failed to fetch video details")

// Session drives the UI state machine for one user. Searches may overlap;
// only the most recently started one is allowed to publish its result.
type Session struct {
	mu      sync.Mutex
	state   domain.UIState
	seq     uint64
	fetcher *MetadataFetcher
	library *LibraryStore
	logger  *zap.Logger
}

// NewSession creates a session in the initial state
func NewSession(fetcher *MetadataFetcher, library *LibraryStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		state:   domain.InitialState(),
		fetcher: fetcher,
		library: library,
		logger:  logger,
	}
}

// State returns a snapshot of the current state
func (s *Session) State() domain.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Search validates rawURL and resolves it. An invalid URL returns
// domain.ErrInvalidURL and leaves the state untouched.
func (s *Session) Search(ctx context.Context, rawURL string) (domain.MetadataRecord, error) {
	link, err := domain.ParseLink(rawURL)
	if err != nil {
		s.logger.Debug("Rejected search", zap.String("url", rawURL))
		return domain.MetadataRecord{}, err
	}

	s.mu.Lock()
	s.seq++
	ticket := s.seq
	s.state = s.state.StartSearch()
	s.mu.Unlock()

	record := s.fetcher.FetchMetadata(ctx, link)
	ctxErr := ctx.Err()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.seq {
		s.logger.Debug("Discarding superseded search", zap.String("id", record.ID))
		if ctxErr != nil {
			return domain.MetadataRecord{}, ctxErr
		}
		return record, nil
	}

	if ctxErr != nil {
		s.state = s.state.SearchFailed(ErrSearchFailed.Error())
		s.logger.Warn("Search abandoned", zap.String("url", link.URL), zap.Error(ctxErr))
		return domain.MetadataRecord{}, ctxErr
	}

	s.state = s.state.SearchSucceeded(record)
	return record, nil
}

// ShowHome switches to the home view
func (s *Session) ShowHome() domain.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ShowHome()
	return s.state
}

// ShowLibrary switches to the library view and returns a fresh read of the
// saved records
func (s *Session) ShowLibrary() (domain.UIState, []domain.MetadataRecord) {
	records := s.library.List()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ShowLibrary()
	return s.state, records
}

// Open loads a saved record as the current result
func (s *Session) Open(id string) (domain.UIState, error) {
	record, err := s.library.Find(id)
	if err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// an in-flight search must not overwrite the opened record
	s.seq++
	s.state = s.state.LoadFromLibrary(record)
	return s.state, nil
}

// ToggleCurrent saves or removes the record currently shown. It returns
// domain.ErrNotInLibrary when nothing is shown.
func (s *Session) ToggleCurrent() (bool, []domain.MetadataRecord, error) {
	current := s.State().Current
	if current == nil {
		return false, nil, domain.ErrNotInLibrary
	}
	saved, records := s.library.Toggle(*current)
	return saved, records, nil
}
