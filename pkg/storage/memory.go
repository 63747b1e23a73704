package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/pitchdeskco/pitchdesk/pkg/chat"
)

// MemoryRecorder keeps transcripts in process memory. Useful for tests
// and for running without a database path configured.
type MemoryRecorder struct {
	mu       sync.RWMutex
	sessions map[string]map[int]chat.Message
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{sessions: make(map[string]map[int]chat.Message)}
}

func (r *MemoryRecorder) Record(_ context.Context, sessionID string, seq int, msg chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		s = make(map[int]chat.Message)
		r.sessions[sessionID] = s
	}
	s[seq] = msg
	return nil
}

func (r *MemoryRecorder) History(_ context.Context, sessionID string) ([]chat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	seqs := make([]int, 0, len(s))
	for seq := range s {
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)
	out := make([]chat.Message, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, s[seq])
	}
	return out, nil
}

func (r *MemoryRecorder) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *MemoryRecorder) Close() error {
	return nil
}

var _ Recorder = (*MemoryRecorder)(nil)
