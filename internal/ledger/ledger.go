// Package ledger persists subscription lifecycle metadata (not book
// content) for operational visibility: when a BookSummary subscription
// started, which venues it used, and why it ended. Book content itself
// is never stored.
package ledger

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SubscriptionRow is one BookSummary subscription's lifecycle record.
type SubscriptionRow struct {
	ID               string `gorm:"primaryKey"`
	Symbol           string
	Depth            int
	Venues           string
	StartedAt        time.Time
	EndedAt          *time.Time
	DisconnectReason string
}

// Ledger wraps a *gorm.DB scoped to the subscriptions table: a thin
// struct around gorm.Open(postgres.Open(dsn)) with one method per
// query the caller needs.
type Ledger struct {
	db *gorm.DB
}

// New opens a Postgres connection with the given DSN and migrates the
// subscriptions table.
func New(dsn string) (*Ledger, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	if err := db.AutoMigrate(&SubscriptionRow{}); err != nil {
		return nil, fmt.Errorf("ledger: migrate: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Start records a new subscription's opening row.
func (l *Ledger) Start(id, symbol string, depth int, venues string) error {
	row := SubscriptionRow{
		ID:        id,
		Symbol:    symbol,
		Depth:     depth,
		Venues:    venues,
		StartedAt: time.Now(),
	}
	return l.db.Create(&row).Error
}

// End records a subscription's closure and the reason it ended (client
// cancel, upstream exhaustion, or a build/stream error's message).
func (l *Ledger) End(id, reason string) error {
	now := time.Now()
	return l.db.Model(&SubscriptionRow{}).
		Where("id = ?", id).
		Updates(map[string]any{"ended_at": now, "disconnect_reason": reason}).Error
}
