package services

import (
	"path/filepath"
	"testing"

	"roomify-client/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStorage(t *testing.T) *GormStorage {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "roomify.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.LocalEntry{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewGormStorage(db)
}

func TestLocalStorage(t *testing.T) {
	backends := map[string]func(t *testing.T) LocalStorage{
		"memory": func(*testing.T) LocalStorage { return NewMemoryStorage() },
		"sqlite": func(t *testing.T) LocalStorage { return newSQLiteStorage(t) },
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)

			_, ok, err := s.Get(KeyUserToken)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(KeyUserToken, "one"))
			require.NoError(t, s.Set(KeyUserToken, "two"))
			require.NoError(t, s.Set(KeyUserProfile, `{"id":1}`))
			require.NoError(t, s.Set(KeyProfileExtras, `{}`))

			v, ok, err := s.Get(KeyUserToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "two", v)

			require.NoError(t, s.Remove(KeyUserToken, KeyUserProfile, "never-set"))
			_, ok, _ = s.Get(KeyUserToken)
			assert.False(t, ok)
			_, ok, _ = s.Get(KeyUserProfile)
			assert.False(t, ok)
			_, ok, _ = s.Get(KeyProfileExtras)
			assert.True(t, ok)

			require.NoError(t, s.Remove())
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	s := NewMemoryStorage()

	var p models.Profile
	found, err := loadJSON(s, KeyUserProfile, &p)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, saveJSON(s, KeyUserProfile, guestProfile))
	found, err = loadJSON(s, KeyUserProfile, &p)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, guestProfile, p)

	require.NoError(t, s.Set(KeyUserProfile, "nope"))
	_, err = loadJSON(s, KeyUserProfile, &p)
	assert.Error(t, err)
}
