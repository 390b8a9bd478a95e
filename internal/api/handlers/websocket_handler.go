package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/oneq/backend/internal/dialogue"
	"github.com/oneq/backend/pkg/logger"
)

// WebSocketHandler runs the chat flow over a socket, streaming each assistant
// reply in word chunks so the client can render it progressively.
type WebSocketHandler struct {
	sessions *dialogue.Manager
	orch     *dialogue.Orchestrator
}

func NewWebSocketHandler(sessions *dialogue.Manager, orch *dialogue.Orchestrator) *WebSocketHandler {
	return &WebSocketHandler{sessions: sessions, orch: orch}
}

type wsMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
}

type wsChunk struct {
	Type    string             `json:"type"`
	Content string             `json:"content,omitempty"`
	Done    bool               `json:"done,omitempty"`
	Reply   *dialogue.Response `json:"reply,omitempty"`
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg wsMessage
		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}
		if msg.Type != "message" || msg.Content == "" {
			continue
		}

		if err := h.handleTurn(c, msg); err != nil {
			logger.Error("Failed to process WebSocket turn", zap.Error(err))
			h.send(c, wsChunk{Type: "error", Content: "메시지 처리에 실패했어요."})
		}
	}
}

func (h *WebSocketHandler) handleTurn(c *websocket.Conn, msg wsMessage) error {
	sess, err := h.resolveSession(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	resp, err := h.orch.HandleTurn(ctx, sess, msg.Content)
	if err != nil {
		return err
	}
	if err := h.sessions.Save(sess); err != nil {
		return err
	}

	h.send(c, wsChunk{Type: "session", Content: sess.ID})
	h.streamText(c, replyText(resp))
	h.send(c, wsChunk{Type: "complete", Done: true, Reply: &resp})
	return nil
}

func (h *WebSocketHandler) resolveSession(msg wsMessage) (*dialogue.Session, error) {
	if msg.SessionID == "" {
		return h.sessions.Create(msg.UserID)
	}
	return h.sessions.Get(msg.SessionID)
}

func (h *WebSocketHandler) streamText(c *websocket.Conn, text string) {
	words := strings.Fields(text)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		h.send(c, wsChunk{Type: "chunk", Content: chunk})
	}
}

func (h *WebSocketHandler) send(c *websocket.Conn, chunk wsChunk) {
	if err := c.WriteJSON(chunk); err != nil {
		logger.Debug("WebSocket write failed", zap.Error(err))
	}
}

func replyText(resp dialogue.Response) string {
	switch {
	case resp.Message != "":
		return resp.Message
	case resp.Question != "":
		return resp.Question
	case resp.Text != "":
		return resp.Text
	default:
		return resp.Summary
	}
}
