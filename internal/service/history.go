package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"krishimitra/internal/model"
)

// HistoryService persists transcript messages to the local database so a
// conversation can be reviewed across CLI sessions.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) (*HistoryService, error) {
	if err := db.AutoMigrate(&model.HistoryRecord{}); err != nil {
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return &HistoryService{db: db}, nil
}

func (s *HistoryService) Append(ctx context.Context, sessionID string, m model.ChatMessage) error {
	rec := model.HistoryRecord{
		SessionID:  sessionID,
		Sender:     string(m.Sender),
		Text:       m.Text,
		IsError:    m.Metadata.IsError,
		Confidence: m.Metadata.Confidence,
		CreatedAt:  m.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// Recent returns the last limit messages of a session in chronological
// order. An empty sessionID spans all sessions.
func (s *HistoryService) Recent(ctx context.Context, sessionID string, limit int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Model(&model.HistoryRecord{})
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}
	var recs []model.HistoryRecord
	if err := q.Order("id DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs, nil
}

// Sessions lists the distinct session IDs present in the store.
func (s *HistoryService) Sessions(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.HistoryRecord{}).
		Distinct("session_id").Order("session_id").Pluck("session_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}

func (s *HistoryService) Clear(ctx context.Context, sessionID string) error {
	q := s.db.WithContext(ctx)
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	} else {
		q = q.Where("1 = 1")
	}
	if err := q.Delete(&model.HistoryRecord{}).Error; err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
