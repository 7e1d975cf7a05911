// Package events publishes a summary of every completed render pass.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	PanelZone     = "clima"
	PanelLocation = "ubicacion"
	PanelNews     = "noticias"
)

// RenderEvent summarises one render pass of a panel.
type RenderEvent struct {
	ID         string    `json:"id"`
	Panel      string    `json:"panel"`
	Key        string    `json:"key,omitempty"`
	Outcome    string    `json:"outcome"`
	Cards      int       `json:"cards"`
	Errors     int       `json:"errors"`
	DurationMs int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

func NewRenderEvent(panel, key, outcome string, cards, errs int, took time.Duration) RenderEvent {
	return RenderEvent{
		ID:         uuid.NewString(),
		Panel:      panel,
		Key:        key,
		Outcome:    outcome,
		Cards:      cards,
		Errors:     errs,
		DurationMs: took.Milliseconds(),
		At:         time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev RenderEvent) error
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, RenderEvent) error { return nil }
