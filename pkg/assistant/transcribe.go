package assistant

import (
	"context"
	"errors"
)

// Transcriber converts an audio attachment into text. Audio is
// accepted at the boundary, but real transcription is an unimplemented
// capability: the shipped implementation always declines, and the
// service folds a filename note into the turn instead.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, data []byte) (string, error)
}

// ErrTranscriptionUnavailable signals that no transcription backend is
// wired in.
var ErrTranscriptionUnavailable = errors.New("transcription not available")

// StubTranscriber is the placeholder Transcriber.
type StubTranscriber struct{}

func (StubTranscriber) Transcribe(context.Context, string, []byte) (string, error) {
	return "", ErrTranscriptionUnavailable
}
