// Package gateway wraps the external generative-AI endpoints. The two
// operations are deliberately asymmetric: text generation receives the
// assembled conversation payload, image generation receives only the
// raw prompt. Faults come back as Go errors; rendering them into
// user-visible strings is the caller's job.
package gateway

import (
	"context"
	"errors"

	"github.com/pitchdeskco/pitchdesk/pkg/chat"
	"github.com/pitchdeskco/pitchdesk/pkg/prompt"
)

// TextGenerator invokes the external text model with an assembled
// request. No retry, no backoff: a fault is local and terminal for
// the turn.
type TextGenerator interface {
	GenerateText(ctx context.Context, payload prompt.Payload) (string, error)
}

// ImageGenerator invokes the external image model with the raw prompt
// only.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*chat.ImagePayload, error)
}

// Gateway is the full model surface the chat service depends on.
type Gateway interface {
	TextGenerator
	ImageGenerator
}

// ErrNoImage is returned when the image endpoint answered without a
// usable image payload.
var ErrNoImage = errors.New("no valid image returned")
