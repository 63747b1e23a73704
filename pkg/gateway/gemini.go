package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/pitchdeskco/pitchdesk/pkg/chat"
	"github.com/pitchdeskco/pitchdesk/pkg/prompt"
)

const (
	DefaultTextModel  = "gemini-1.5-flash"
	DefaultImageModel = "imagen-3.0"
)

// Gemini talks to Google's generative-AI API.
type Gemini struct {
	client     *genai.Client
	textModel  string
	imageModel string
	logger     *zap.Logger
}

// NewGemini creates a gateway backed by the given API key. Empty model
// names fall back to the defaults.
func NewGemini(ctx context.Context, apiKey, textModel, imageModel string, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	return &Gemini{
		client:     client,
		textModel:  textModel,
		imageModel: imageModel,
		logger:     logger,
	}, nil
}

// GenerateText sends the assembled payload to the text model: the
// uploaded image first when present, then the flattened text block.
func (g *Gemini) GenerateText(ctx context.Context, payload prompt.Payload) (string, error) {
	model := g.client.GenerativeModel(g.textModel)

	parts := make([]genai.Part, 0, 2)
	if payload.Image != nil {
		parts = append(parts, genai.ImageData(imageFormat(payload.Image.MIME), payload.Image.Data))
	}
	parts = append(parts, genai.Text(payload.Text))

	g.logger.Debug("text generation request",
		zap.String("model", g.textModel),
		zap.Int("text_len", len(payload.Text)),
		zap.Bool("has_image", payload.Image != nil),
	)

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// GenerateImage asks the image model for a single image from the raw
// prompt. The response candidates are scanned for an image blob; a
// response without one is ErrNoImage.
func (g *Gemini) GenerateImage(ctx context.Context, promptText string) (*chat.ImagePayload, error) {
	model := g.client.GenerativeModel(g.imageModel)

	g.logger.Debug("image generation request",
		zap.String("model", g.imageModel),
		zap.Int("prompt_len", len(promptText)),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(promptText))
	if err != nil {
		return nil, fmt.Errorf("gemini generate image: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			blob, ok := part.(genai.Blob)
			if !ok || !strings.HasPrefix(blob.MIMEType, "image/") {
				continue
			}
			return &chat.ImagePayload{Data: blob.Data, MIME: blob.MIMEType}, nil
		}
	}
	return nil, ErrNoImage
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// imageFormat strips the "image/" prefix: the SDK wants the bare
// format name ("png", "jpeg"), not a full MIME type.
func imageFormat(mime string) string {
	return strings.TrimPrefix(mime, "image/")
}

var _ Gateway = (*Gemini)(nil)
