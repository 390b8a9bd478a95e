package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/oneq/backend/internal/dialogue"
	"github.com/oneq/backend/internal/metrics"
	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/pkg/logger"
)

type ChatHandler struct {
	sessions *dialogue.Manager
	orch     *dialogue.Orchestrator
}

func NewChatHandler(sessions *dialogue.Manager, orch *dialogue.Orchestrator) *ChatHandler {
	return &ChatHandler{sessions: sessions, orch: orch}
}

// CreateSession opens a new quote conversation and returns the opening
// question.
func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	sess, err := h.sessions.Create(req.UserID)
	if err != nil {
		logger.Error("Failed to create session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}
	metrics.SessionsActive.Inc()

	prompt, _ := schema.NextMissing(sess.Slots)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": sess.ID,
		"question":   prompt.Question,
		"choices":    prompt.Choices,
	})
}

// HandleMessage runs one chat turn.
func (h *ChatHandler) HandleMessage(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}
	if !sess.Active {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Session is closed",
		})
	}

	resp, err := h.orch.HandleTurn(c.Context(), sess, req.Message)
	if err != nil {
		logger.Error("Failed to process chat turn",
			zap.String("session_id", sessionID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	if err := h.sessions.Save(sess); err != nil {
		logger.Error("Failed to save session",
			zap.String("session_id", sessionID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save session",
		})
	}
	if !sess.Active {
		metrics.SessionsActive.Dec()
	}

	return c.JSON(resp)
}

// ResetSession clears the collected slots so the user can start over.
func (h *ChatHandler) ResetSession(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	if err := h.sessions.Reset(sess); err != nil {
		logger.Error("Failed to reset session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset session",
		})
	}

	prompt, _ := schema.NextMissing(sess.Slots)
	return c.JSON(fiber.Map{
		"session_id": sess.ID,
		"question":   prompt.Question,
		"choices":    prompt.Choices,
	})
}
