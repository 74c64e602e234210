package model

import "time"

// CacheEntry is one cached GET response inside a versioned namespace.
// (namespace, url) is the cache key; overwrites are last-writer-wins.
type CacheEntry struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Namespace string    `gorm:"uniqueIndex:uk_ns_url;size:128" json:"namespace"`
	URL       string    `gorm:"uniqueIndex:uk_ns_url;size:1024" json:"url"`
	Status    int       `json:"status"`
	Header    string    `json:"header"`
	Body      []byte    `json:"body"`
	StoredAt  time.Time `json:"stored_at"`
}

// HistoryRecord persists one transcript message across CLI sessions.
type HistoryRecord struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"index" json:"session_id"`
	Sender     string    `json:"sender"`
	Text       string    `json:"text"`
	IsError    bool      `json:"is_error"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

func (CacheEntry) TableName() string    { return "cache_entries" }
func (HistoryRecord) TableName() string { return "history_records" }
