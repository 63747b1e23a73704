// Package chat holds the conversation domain model: messages, image
// payloads, and the session they accumulate in.
package chat

import "errors"

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImagePayload is an opaque image: raw bytes plus the MIME type they
// were declared with. Payloads are never mutated after attachment.
type ImagePayload struct {
	Data []byte `json:"data"`
	MIME string `json:"mime"`
}

// Message represents a single turn half in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`

	// Image is an image uploaded by the user alongside the prompt.
	Image *ImagePayload `json:"image,omitempty"`

	// GeneratedImage is an image produced by the model. In practice it
	// excludes Content on assistant turns, but both may be set.
	GeneratedImage *ImagePayload `json:"generated_image,omitempty"`
}

// ErrEmptyMessage is returned by Validate for a message that carries
// neither content nor any image payload.
var ErrEmptyMessage = errors.New("message has no content and no image")

// Validate checks the message invariant: at least one of Content,
// Image, or GeneratedImage must be set.
func (m Message) Validate() error {
	if m.Content == "" && m.Image == nil && m.GeneratedImage == nil {
		return ErrEmptyMessage
	}
	return nil
}
