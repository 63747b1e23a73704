package gateway

import (
	"context"
	"sync"

	"github.com/pitchdeskco/pitchdesk/pkg/chat"
	"github.com/pitchdeskco/pitchdesk/pkg/prompt"
)

// Dummy is an in-process gateway for tests and offline runs. It
// records every call and answers with canned values or injected
// errors.
type Dummy struct {
	mu sync.Mutex

	Reply string
	Image *chat.ImagePayload

	TextErr  error
	ImageErr error

	TextCalls  []prompt.Payload
	ImageCalls []string
}

func (d *Dummy) GenerateText(_ context.Context, payload prompt.Payload) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.TextCalls = append(d.TextCalls, payload)
	if d.TextErr != nil {
		return "", d.TextErr
	}
	return d.Reply, nil
}

func (d *Dummy) GenerateImage(_ context.Context, promptText string) (*chat.ImagePayload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ImageCalls = append(d.ImageCalls, promptText)
	if d.ImageErr != nil {
		return nil, d.ImageErr
	}
	if d.Image == nil {
		return nil, ErrNoImage
	}
	return d.Image, nil
}

var _ Gateway = (*Dummy)(nil)
