package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"krishimitra/internal/model"
)

func newHistory(t *testing.T) *HistoryService {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "history.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	h, err := NewHistoryService(db)
	if err != nil {
		t.Fatalf("new history: %v", err)
	}
	return h
}

func TestHistoryAppendRecent(t *testing.T) {
	h := newHistory(t)
	ctx := context.Background()

	msgs := []model.ChatMessage{
		{Sender: model.SenderUser, Text: "Should I irrigate?", Timestamp: time.Now()},
		{Sender: model.SenderAI, Text: "Yes, early morning.", Timestamp: time.Now(), Metadata: model.Metadata{Confidence: 0.9}},
		{Sender: model.SenderUser, Text: "Thanks", Timestamp: time.Now()},
	}
	for _, m := range msgs {
		if err := h.Append(ctx, "sess-1", m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recs, err := h.Recent(ctx, "sess-1", 50)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	// Chronological order, oldest first.
	if recs[0].Text != "Should I irrigate?" || recs[2].Text != "Thanks" {
		t.Errorf("order = [%q, %q, %q]", recs[0].Text, recs[1].Text, recs[2].Text)
	}
	if recs[1].Sender != "ai" || recs[1].Confidence != 0.9 {
		t.Errorf("ai record = %+v", recs[1])
	}
}

func TestHistoryRecentLimit(t *testing.T) {
	h := newHistory(t)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		m := model.ChatMessage{Sender: model.SenderUser, Text: "msg", Timestamp: time.Now()}
		if err := h.Append(ctx, "sess-1", m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	recs, err := h.Recent(ctx, "sess-1", 4)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 4 {
		t.Errorf("got %d records, want 4", len(recs))
	}
}

func TestHistorySessionsAndClear(t *testing.T) {
	h := newHistory(t)
	ctx := context.Background()

	for _, sid := range []string{"sess-a", "sess-b", "sess-a"} {
		m := model.ChatMessage{Sender: model.SenderUser, Text: "hi", Timestamp: time.Now()}
		if err := h.Append(ctx, sid, m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	ids, err := h.Sessions(ctx)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("sessions = %v", ids)
	}

	if err := h.Clear(ctx, "sess-a"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	recs, err := h.Recent(ctx, "", 50)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 1 || recs[0].SessionID != "sess-b" {
		t.Errorf("after clear = %+v", recs)
	}

	if err := h.Clear(ctx, ""); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	recs, _ = h.Recent(ctx, "", 50)
	if len(recs) != 0 {
		t.Errorf("store not empty after clear all: %d records", len(recs))
	}
}
