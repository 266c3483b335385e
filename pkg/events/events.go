// Package events publishes session lifecycle events. Publishing is
// best-effort: callers log failures and carry on.
package events

import (
	"context"
	"time"
)

const (
	TypeLoggedIn           = "logged_in"
	TypeSessionRevoked     = "session_revoked"
	TypeSessionsRevokedAll = "sessions_revoked_all"
)

type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Count     int64     `json:"count,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
