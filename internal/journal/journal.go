// internal/journal/journal.go

// Package journal records bot activity for offline analysis. Recording is
// best effort: a journal failure is logged, never fatal to the bot.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one record of bot activity.
type Entry struct {
	RunID     uuid.UUID              `json:"run_id"`
	Bot       string                 `json:"bot"`
	Event     string                 `json:"event"`
	Detail    map[string]interface{} `json:"detail,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// NewEntry stamps an entry with the current time.
func NewEntry(runID uuid.UUID, bot, event string, detail map[string]interface{}) Entry {
	return Entry{
		RunID:     runID,
		Bot:       bot,
		Event:     event,
		Detail:    detail,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Journal receives activity records. Implementations must be safe for
// concurrent use by all bots in a swarm.
type Journal interface {
	Record(ctx context.Context, e Entry)
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(context.Context, Entry) {}
