package app

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/internal/domain"
)

// LibraryStore keeps the user's saved records, newest first, as one JSON
// array in a single storage slot. Every mutation rewrites the whole slot.
// Failures never reach the caller; they are logged and degrade to defaults.
type LibraryStore struct {
	slots  domain.SlotStore
	key    string
	logger *zap.Logger
}

// NewLibraryStore creates a library persisted under key in slots
func NewLibraryStore(slots domain.SlotStore, key string, logger *zap.Logger) *LibraryStore {
	if key == "" {
		key = domain.DefaultLibraryKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryStore{
		slots:  slots,
		key:    key,
		logger: logger,
	}
}

// List returns the saved records. A missing, unreadable or malformed slot
// yields an empty list.
func (s *LibraryStore) List() []domain.MetadataRecord {
	raw, err := s.slots.Get(s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrSlotNotFound) {
			s.logger.Error("Failed to read library", zap.String("key", s.key), zap.Error(err))
		}
		return []domain.MetadataRecord{}
	}

	var records []domain.MetadataRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Error("Failed to decode library", zap.String("key", s.key), zap.Error(err))
		return []domain.MetadataRecord{}
	}
	if records == nil {
		return []domain.MetadataRecord{}
	}
	return records
}

// Contains reports whether a record with id is saved
func (s *LibraryStore) Contains(id string) bool {
	return indexOf(s.List(), id) >= 0
}

// Find returns the saved record with id
func (s *LibraryStore) Find(id string) (domain.MetadataRecord, error) {
	records := s.List()
	if i := indexOf(records, id); i >= 0 {
		return records[i], nil
	}
	return domain.MetadataRecord{}, domain.ErrNotInLibrary
}

// Add prepends record. It returns false without writing when the id is
// already saved, and false when the write fails.
func (s *LibraryStore) Add(record domain.MetadataRecord) bool {
	records := s.List()
	if indexOf(records, record.ID) >= 0 {
		return false
	}

	updated := make([]domain.MetadataRecord, 0, len(records)+1)
	updated = append(updated, record)
	updated = append(updated, records...)

	if err := s.write(updated); err != nil {
		s.logger.Error("Failed to save record", zap.String("id", record.ID), zap.Error(err))
		return false
	}

	s.logger.Info("Record saved", zap.String("id", record.ID), zap.Int("size", len(updated)))
	return true
}

// Remove drops every record with id and returns the remaining list. The slot
// is rewritten even when nothing matched. A failed write returns an empty list.
func (s *LibraryStore) Remove(id string) []domain.MetadataRecord {
	records := s.List()

	updated := make([]domain.MetadataRecord, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			updated = append(updated, r)
		}
	}

	if err := s.write(updated); err != nil {
		s.logger.Error("Failed to remove record", zap.String("id", id), zap.Error(err))
		return []domain.MetadataRecord{}
	}

	s.logger.Info("Record removed", zap.String("id", id), zap.Int("size", len(updated)))
	return updated
}

// Toggle removes record when it is saved and saves it otherwise. It returns
// whether the record is saved afterwards together with the library.
func (s *LibraryStore) Toggle(record domain.MetadataRecord) (bool, []domain.MetadataRecord) {
	if s.Contains(record.ID) {
		return false, s.Remove(record.ID)
	}
	saved := s.Add(record)
	return saved, s.List()
}

// Ping checks the underlying storage
func (s *LibraryStore) Ping() error {
	return s.slots.Ping()
}

func (s *LibraryStore) write(records []domain.MetadataRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.slots.Put(s.key, string(data))
}

func indexOf(records []domain.MetadataRecord, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
