// Package assistant runs chat turns: it classifies the attachment,
// extracts file context, appends the user message, assembles the model
// payload, calls the gateway, and appends the reply. A turn is
// processed fully before the next one touches the session.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pitchdeskco/pitchdesk/pkg/chat"
	"github.com/pitchdeskco/pitchdesk/pkg/extract"
	"github.com/pitchdeskco/pitchdesk/pkg/gateway"
	"github.com/pitchdeskco/pitchdesk/pkg/persona"
	"github.com/pitchdeskco/pitchdesk/pkg/prompt"
	"github.com/pitchdeskco/pitchdesk/pkg/storage"
)

// ErrUnknownPersona is returned when a turn names a persona outside
// the catalog.
var ErrUnknownPersona = errors.New("unknown persona")

var imageMIMEs = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

var audioExts = map[string]bool{
	".wav": true,
	".mp3": true,
	".ogg": true,
}

// TurnInput is one user turn: the prompt plus an optional attachment.
type TurnInput struct {
	Persona  string
	Prompt   string
	FileName string
	FileData []byte
}

// TurnResult holds the two messages a completed turn appended.
type TurnResult struct {
	User      chat.Message `json:"user"`
	Assistant chat.Message `json:"assistant"`
}

// Service executes turns against a gateway, mirroring every stored
// message to the recorder.
type Service struct {
	personas    *persona.Catalog
	gw          gateway.Gateway
	recorder    storage.Recorder
	transcriber Transcriber
	logger      *zap.Logger
}

// New creates a Service. A nil transcriber falls back to the stub.
func New(personas *persona.Catalog, gw gateway.Gateway, recorder storage.Recorder, transcriber Transcriber, logger *zap.Logger) *Service {
	if transcriber == nil {
		transcriber = StubTranscriber{}
	}
	return &Service{
		personas:    personas,
		gw:          gw,
		recorder:    recorder,
		transcriber: transcriber,
		logger:      logger,
	}
}

// RunTurn processes one user turn end to end. The user message is
// appended before the model call, so a gateway fault never loses the
// user's input: the fault is rendered into the stored assistant
// message and the turn completes normally.
func (s *Service) RunTurn(ctx context.Context, sessionID string, sess *chat.Session, in TurnInput) (*TurnResult, error) {
	p, ok := s.personas.Get(in.Persona)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPersona, in.Persona)
	}

	sess.LockTurn()
	defer sess.UnlockTurn()

	userMsg := s.buildUserMessage(ctx, p, in)
	s.append(ctx, sessionID, sess, userMsg)

	var reply chat.Message
	if p.ImageGeneration {
		reply = s.imageTurn(ctx, in.Prompt)
	} else {
		reply = s.textTurn(ctx, p, sess, userMsg)
	}
	s.append(ctx, sessionID, sess, reply)

	return &TurnResult{User: userMsg, Assistant: reply}, nil
}

// buildUserMessage classifies the attachment and folds context into
// the message content. Image-generation personas ignore attachments
// entirely: their turns pass the raw prompt straight through.
func (s *Service) buildUserMessage(ctx context.Context, p persona.Persona, in TurnInput) chat.Message {
	msg := chat.Message{Role: chat.RoleUser, Content: in.Prompt}
	if p.ImageGeneration || in.FileName == "" {
		return msg
	}

	ext := strings.ToLower(filepath.Ext(in.FileName))
	switch {
	case imageMIMEs[ext] != "":
		// Image and text are independent channels, both present.
		msg.Image = &chat.ImagePayload{Data: in.FileData, MIME: imageMIMEs[ext]}
	case audioExts[ext]:
		transcript, err := s.transcriber.Transcribe(ctx, in.FileName, in.FileData)
		if err == nil && transcript != "" {
			msg.Content = prompt.FoldFileContext(in.FileName, transcript, in.Prompt)
			break
		}
		if err != nil && !errors.Is(err, ErrTranscriptionUnavailable) {
			s.logger.Warn("transcription failed", zap.String("file", in.FileName), zap.Error(err))
		}
		msg.Content = fmt.Sprintf("[Audio file: %s] %s", in.FileName, in.Prompt)
	default:
		result := extract.File(in.FileName, in.FileData)
		if !result.OK() {
			s.logger.Warn("file extraction degraded",
				zap.String("file", in.FileName),
				zap.Error(result.Err),
			)
		}
		msg.Content = prompt.FoldFileContext(in.FileName, result.Render(), in.Prompt)
	}
	return msg
}

// textTurn assembles the payload from the full history (including the
// just-appended user message) and renders any gateway fault into the
// reply content.
func (s *Service) textTurn(ctx context.Context, p persona.Persona, sess *chat.Session, userMsg chat.Message) chat.Message {
	payload := prompt.Assemble(p.Instruction, sess.Messages(), userMsg.Image)

	text, err := s.gw.GenerateText(ctx, payload)
	if err != nil {
		s.logger.Warn("text generation failed", zap.Error(err))
		text = fmt.Sprintf("Sorry, an error occurred: %v", err)
	}
	return chat.Message{Role: chat.RoleAssistant, Content: text}
}

// imageTurn calls the image endpoint with the raw prompt only.
func (s *Service) imageTurn(ctx context.Context, promptText string) chat.Message {
	img, err := s.gw.GenerateImage(ctx, promptText)
	if err != nil {
		s.logger.Warn("image generation failed", zap.Error(err))
		if errors.Is(err, gateway.ErrNoImage) {
			return chat.Message{Role: chat.RoleAssistant, Content: "Failed to generate image. No valid image returned."}
		}
		return chat.Message{Role: chat.RoleAssistant, Content: fmt.Sprintf("Error generating image: %v", err)}
	}
	return chat.Message{Role: chat.RoleAssistant, GeneratedImage: img}
}

// append stores the message in the session and mirrors it to the
// recorder. Recorder failures are logged, never fatal to the turn.
func (s *Service) append(ctx context.Context, sessionID string, sess *chat.Session, msg chat.Message) {
	seq := sess.Append(msg)
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, sessionID, seq, msg); err != nil {
		s.logger.Warn("transcript record failed",
			zap.String("session", sessionID),
			zap.Int("seq", seq),
			zap.Error(err),
		)
	}
}

// ConfirmClear performs the confirmed destructive clear on both the
// session and its recorded transcript.
func (s *Service) ConfirmClear(ctx context.Context, sessionID string, sess *chat.Session) error {
	sess.ConfirmClear()
	if s.recorder == nil {
		return nil
	}
	if err := s.recorder.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}
