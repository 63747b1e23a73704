// Package storage persists conversation transcripts. Recording is
// write-behind relative to the in-memory session: the session remains
// the source of truth for an active conversation, the recorder is the
// durable mirror.
package storage

import (
	"context"

	"github.com/pitchdeskco/pitchdesk/pkg/chat"
)

// Recorder defines the interface for persisting and retrieving session
// transcripts from a storage backend.
type Recorder interface {
	// Record stores one message under its session at the given
	// sequence number. Recording the same (session, seq) twice
	// overwrites the earlier message.
	Record(ctx context.Context, sessionID string, seq int, msg chat.Message) error

	// History returns a session's messages in sequence order. An
	// unknown session yields an empty history, not an error.
	History(ctx context.Context, sessionID string) ([]chat.Message, error)

	// Clear removes every message recorded for the session.
	Clear(ctx context.Context, sessionID string) error

	// Close closes the recorder and releases any resources.
	Close() error
}
