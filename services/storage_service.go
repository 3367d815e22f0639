package services

import (
	"encoding/json"
	"errors"
	"sync"

	"roomify-client/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage keys. Other tools read the same keys, so the names are fixed.
const (
	KeyUserToken          = "token"
	KeyUserProfile        = "user"
	KeyAdminToken         = "adminToken"
	KeyAdminProfile       = "adminData"
	KeyRedirectAfterLogin = "redirectAfterLogin"
	KeyProfileExtras      = "additionalProfileData"

	// KeyBookingDraft lets the CLI carry the draft between invocations.
	KeyBookingDraft = "bookingDraft"
)

// LocalStorage is a string key/value store that outlives the process.
type LocalStorage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(keys ...string) error
}

// ----------------------------------------------------
// MemoryStorage
// ----------------------------------------------------

type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (s *MemoryStorage) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// ----------------------------------------------------
// GormStorage
// ----------------------------------------------------

// GormStorage keeps entries in the local_entries table.
type GormStorage struct {
	DB *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{DB: db}
}

func (s *GormStorage) Get(key string) (string, bool, error) {
	var entry models.LocalEntry
	err := s.DB.Where(map[string]interface{}{"key": key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *GormStorage) Set(key, value string) error {
	entry := models.LocalEntry{Key: key, Value: value}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormStorage) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.DB.Where(map[string]interface{}{"key": keys}).Delete(&models.LocalEntry{}).Error
}

// ----------------------------------------------------
// JSON helpers
// ----------------------------------------------------

// loadJSON decodes key into v. Missing keys report false with no error.
func loadJSON(s LocalStorage, key string, v interface{}) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, err
	}
	return true, nil
}

func saveJSON(s LocalStorage, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, string(b))
}
