// Package prompt assembles the outbound model payload from the persona
// instruction, the conversation so far, and the current turn's
// attachments. Assembly is a pure function: identical inputs always
// produce an identical payload.
package prompt

import (
	"fmt"
	"strings"

	"github.com/pitchdeskco/pitchdesk/pkg/chat"
)

// Payload is a single outbound text-generation request: an optional
// leading image followed by one flattened text block.
type Payload struct {
	Image *chat.ImagePayload
	Text  string
}

// Assemble flattens the conversation into a payload. The text block
// starts with the persona instruction, followed by one "<role>: <content>"
// line per history message with non-empty content, in chronological
// order. The image slot is filled only when the current user turn
// carries an uploaded image.
func Assemble(instruction string, history []chat.Message, img *chat.ImagePayload) Payload {
	lines := make([]string, 0, len(history)+1)
	lines = append(lines, instruction)
	for _, m := range history {
		if m.Content == "" {
			continue
		}
		lines = append(lines, string(m.Role)+": "+m.Content)
	}
	return Payload{
		Image: img,
		Text:  strings.Join(lines, "\n"),
	}
}

// FoldFileContext embeds extracted file text into the message content
// itself, so file context travels inside the conversation rather than
// as a separate channel.
func FoldFileContext(filename, extracted, prompt string) string {
	return fmt.Sprintf("Context from file '%s':\n---\n%s\n---\nUser's question: %s",
		filename, extracted, prompt)
}
