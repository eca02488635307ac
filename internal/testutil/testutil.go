package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	migration "foodgram/cmd/database/migrate"
	"foodgram/entities"
	"foodgram/internal/utils/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// PixelPNG is a 1x1 PNG, base64 encoded.
const PixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var dbSeq atomic.Int64

// DB returns a fresh in-memory SQLite database with the full schema and
// foreign keys enforced.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:foodgram_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}

func CreateUser(tb testing.TB, db *gorm.DB, username string) *entities.User {
	tb.Helper()
	user := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Tester",
		Password:  "not-a-hash",
		Role:      "user",
	}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func CreateIngredient(tb testing.TB, db *gorm.DB, name, unit string) *entities.Ingredient {
	tb.Helper()
	ingredient := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		tb.Fatalf("create ingredient %s: %v", name, err)
	}
	return ingredient
}

func CreateTag(tb testing.TB, db *gorm.DB, name, color, slug string) *entities.Tag {
	tb.Helper()
	tag := &entities.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		tb.Fatalf("create tag %s: %v", name, err)
	}
	return tag
}

// MemoryCache is a process-local cache.Cache for tests.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	Hits  int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string][]byte)}
}

func (m *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return false, nil
	}
	m.Hits++
	return true, json.Unmarshal(raw, dest)
}

func (m *MemoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}
