package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"krishimitra/internal/model"
)

// SQLiteStore persists cache entries to a local sqlite database so cached
// responses survive gateway restarts.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	path := filepath.Join(dir, "cache.db")
	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := db.AutoMigrate(&model.CacheEntry{}); err != nil {
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, namespace, url string) (*Entry, error) {
	var rec model.CacheEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND url = ?", namespace, url).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}

	header := http.Header{}
	if rec.Header != "" {
		json.Unmarshal([]byte(rec.Header), &header)
	}
	return &Entry{
		URL:      rec.URL,
		Status:   rec.Status,
		Header:   header,
		Body:     rec.Body,
		StoredAt: rec.StoredAt,
	}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, namespace string, e *Entry) error {
	header, _ := json.Marshal(e.Header)
	rec := model.CacheEntry{
		Namespace: namespace,
		URL:       e.URL,
		Status:    e.Status,
		Header:    string(header),
		Body:      e.Body,
		StoredAt:  e.StoredAt,
	}
	if rec.StoredAt.IsZero() {
		rec.StoredAt = time.Now()
	}

	// Single-statement upsert on (namespace, url): concurrent writers to the
	// same key must resolve last-writer-wins, never a unique-index error.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "url"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Namespaces(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&model.CacheEntry{}).
		Distinct("namespace").Pluck("namespace", &out).Error
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteNamespace(ctx context.Context, namespace string) error {
	err := s.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Delete(&model.CacheEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete namespace: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
