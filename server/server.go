// Package server exposes the chat pipeline over HTTP: persona listing,
// session lifecycle, chat turns with optional file uploads, and the
// two-step clear confirmation.
package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pitchdeskco/pitchdesk/pkg/assistant"
	"github.com/pitchdeskco/pitchdesk/pkg/chat"
	"github.com/pitchdeskco/pitchdesk/pkg/persona"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// Server owns the HTTP surface and the in-memory session registry.
// Sessions are created per client, never shared between them, and live
// until the process exits.
type Server struct {
	config   Config
	svc      *assistant.Service
	personas *persona.Catalog
	logger   *zap.Logger
	app      *fiber.App

	mu       sync.Mutex
	sessions map[string]*chat.Session
}

// New creates a Server and registers its routes.
func New(config Config, svc *assistant.Service, personas *persona.Catalog, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		// Room for document and image uploads
		BodyLimit: 32 * 1024 * 1024,
	})

	s := &Server{
		config:   config,
		svc:      svc,
		personas: personas,
		logger:   logger,
		app:      app,
		sessions: make(map[string]*chat.Session),
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	app.Get("/api/personas", s.handlePersonas)
	app.Post("/api/sessions", s.handleCreateSession)
	app.Get("/api/sessions/:id/history", s.handleHistory)
	app.Post("/api/sessions/:id/clear", s.handleClearRequest)
	app.Post("/api/sessions/:id/clear/confirm", s.handleClearConfirm)
	app.Post("/api/sessions/:id/clear/cancel", s.handleClearCancel)
	app.Post("/api/chat", s.handleChat)

	return s
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting chat server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) session(id string) (*chat.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Server) handlePersonas(c *fiber.Ctx) error {
	return c.JSON(map[string]any{
		"personas": s.personas.All(),
	})
}

func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = chat.NewSession()
	s.mu.Unlock()

	s.logger.Info("session created", zap.String("session", id))
	return c.JSON(map[string]string{"session_id": id})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	sess, ok := s.session(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "session not found"})
	}
	return c.JSON(map[string]any{
		"messages":      sess.Messages(),
		"pending_clear": sess.ClearPending(),
	})
}

func (s *Server) handleClearRequest(c *fiber.Ctx) error {
	sess, ok := s.session(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "session not found"})
	}
	sess.RequestClear()
	return c.JSON(map[string]any{"pending_clear": true})
}

func (s *Server) handleClearConfirm(c *fiber.Ctx) error {
	id := c.Params("id")
	sess, ok := s.session(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "session not found"})
	}
	if err := s.svc.ConfirmClear(c.Context(), id, sess); err != nil {
		s.logger.Error("clear failed", zap.String("session", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to clear transcript"})
	}
	s.logger.Info("session cleared", zap.String("session", id))
	return c.JSON(map[string]any{"pending_clear": false, "messages": []chat.Message{}})
}

func (s *Server) handleClearCancel(c *fiber.Ctx) error {
	sess, ok := s.session(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "session not found"})
	}
	sess.CancelClear()
	return c.JSON(map[string]any{"pending_clear": false})
}

// handleChat runs one turn. The request is a multipart form with
// session_id, persona, prompt, and an optional file part.
func (s *Server) handleChat(c *fiber.Ctx) error {
	sessionID := c.FormValue("session_id")
	sess, ok := s.session(sessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "session not found"})
	}

	in := assistant.TurnInput{
		Persona: c.FormValue("persona"),
		Prompt:  c.FormValue("prompt"),
	}
	if in.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "prompt is required"})
	}

	if fh, err := c.FormFile("file"); err == nil && fh != nil {
		data, err := readUpload(fh)
		if err != nil {
			s.logger.Error("failed to read upload", zap.String("file", fh.Filename), zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "could not read uploaded file"})
		}
		in.FileName = fh.Filename
		in.FileData = data
	}

	s.logger.Debug("chat turn",
		zap.String("session", sessionID),
		zap.String("persona", in.Persona),
		zap.Int("prompt_len", len(in.Prompt)),
		zap.String("file", in.FileName),
	)

	result, err := s.svc.RunTurn(c.Context(), sessionID, sess, in)
	if err != nil {
		if errors.Is(err, assistant.ErrUnknownPersona) {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
		}
		s.logger.Error("turn failed", zap.String("session", sessionID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "turn failed"})
	}

	return c.JSON(result)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}
