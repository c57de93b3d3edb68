package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yourusername/streamfetch-go/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// StorageSlot is one named slot holding a serialized value
type StorageSlot struct {
	Key       string    `gorm:"column:slot_key;primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (StorageSlot) TableName() string {
	return "storage_slots"
}

// SQLiteRepository implements SlotStore and DownloadRepository using SQLite
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository opens (and migrates) the database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&StorageSlot{}, &domain.DownloadTask{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Get returns the value stored under key
func (r *SQLiteRepository) Get(key string) (string, error) {
	var slot StorageSlot
	err := r.db.Where("slot_key = ?", key).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrSlotNotFound
		}
		return "", err
	}
	return slot.Value, nil
}

// Put replaces the value stored under key
func (r *SQLiteRepository) Put(key, value string) error {
	slot := StorageSlot{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
}

// Ping checks the database connection
func (r *SQLiteRepository) Ping() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateTask creates a new download task
func (r *SQLiteRepository) CreateTask(task *domain.DownloadTask) error {
	return r.db.Create(task).Error
}

// UpdateTask updates an existing download task
func (r *SQLiteRepository) UpdateTask(task *domain.DownloadTask) error {
	return r.db.Save(task).Error
}

// FindTask finds a download task by ID
func (r *SQLiteRepository) FindTask(id string) (*domain.DownloadTask, error) {
	var task domain.DownloadTask
	err := r.db.First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDownloadNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListTasks lists download tasks newest first; an empty status matches all
func (r *SQLiteRepository) ListTasks(status domain.DownloadStatus) ([]*domain.DownloadTask, error) {
	var tasks []*domain.DownloadTask
	query := r.db
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
