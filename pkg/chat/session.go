package chat

import "sync"

// Session is the ordered, append-only record of one conversation. It
// lives for the lifetime of the session and is destroyed only by a
// confirmed clear. Destructive clearing is a two-step flow: a clear
// request raises the pending flag, and only a confirm empties the
// messages; cancel resets the flag and leaves the messages untouched.
//
// Session state is guarded internally so that a concurrent server can
// share it between handlers; LockTurn serializes whole turns so one
// user turn finishes before the next mutates state.
type Session struct {
	mu           sync.Mutex
	turn         sync.Mutex
	messages     []Message
	pendingClear bool
}

func NewSession() *Session {
	return &Session{}
}

// Append adds a message at the end of the conversation and returns its
// sequence number.
func (s *Session) Append(msg Message) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return len(s.messages) - 1
}

// Messages returns a copy of the conversation in chat order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// RequestClear raises the confirmation flag for a destructive clear.
func (s *Session) RequestClear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingClear = true
}

// ConfirmClear empties the conversation and resets the flag.
func (s *Session) ConfirmClear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.pendingClear = false
}

// CancelClear resets the flag without touching the messages.
func (s *Session) CancelClear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingClear = false
}

// ClearPending reports whether a clear is awaiting confirmation.
func (s *Session) ClearPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingClear
}

// LockTurn serializes turn execution on this session.
func (s *Session) LockTurn() { s.turn.Lock() }

// UnlockTurn releases the turn lock.
func (s *Session) UnlockTurn() { s.turn.Unlock() }
