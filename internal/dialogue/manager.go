// Package dialogue runs the quote conversation: it keeps per-session state,
// drives the slot-collection flow and hands completed requirement sets to the
// ranking engine.
package dialogue

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/storage/models"
)

// Conversation states.
const (
	StateCollecting = "collecting"
	StateConfirming = "confirming"
	StateDone       = "done"
)

// maxHistoryTurns bounds the prompt context carried per session.
const maxHistoryTurns = 8

type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is one conversation's working state, decoded from its persisted
// record.
type Session struct {
	ID      string
	UserID  string
	State   string
	Active  bool
	Slots   schema.Slots
	History []Turn
}

// Append records one turn and prunes the history window.
func (s *Session) Append(role, text string) {
	s.History = append(s.History, Turn{Role: role, Text: text})
	if len(s.History) > maxHistoryTurns {
		s.History = s.History[len(s.History)-maxHistoryTurns:]
	}
}

// SessionStore is the persistence surface the manager needs.
type SessionStore interface {
	SaveSession(s *models.ChatSession) error
	GetSession(id string) (*models.ChatSession, error)
}

// Manager loads and saves sessions, translating between the working Session
// and its stored JSON form.
type Manager struct {
	store SessionStore
}

func NewManager(store SessionStore) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Create(userID string) (*Session, error) {
	s := &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		State:  StateCollecting,
		Active: true,
		Slots:  schema.Slots{},
	}
	if err := m.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	rec, err := m.store.GetSession(id)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:     rec.ID,
		UserID: rec.UserID,
		State:  rec.State,
		Active: rec.Active,
		Slots:  schema.Slots{},
	}
	if rec.Slots != "" {
		if err := json.Unmarshal([]byte(rec.Slots), &s.Slots); err != nil {
			return nil, fmt.Errorf("malformed session slots: %w", err)
		}
	}
	if rec.History != "" {
		if err := json.Unmarshal([]byte(rec.History), &s.History); err != nil {
			return nil, fmt.Errorf("malformed session history: %w", err)
		}
	}
	return s, nil
}

func (m *Manager) Save(s *Session) error {
	slots, err := json.Marshal(s.Slots)
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}
	history, err := json.Marshal(s.History)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	return m.store.SaveSession(&models.ChatSession{
		ID:      s.ID,
		UserID:  s.UserID,
		History: string(history),
		Slots:   string(slots),
		State:   s.State,
		Active:  s.Active,
	})
}

// Reset clears the collected slots and history so the user can start a fresh
// request in the same session.
func (m *Manager) Reset(s *Session) error {
	s.Slots = schema.Slots{}
	s.History = nil
	s.State = StateCollecting
	s.Active = true
	return m.Save(s)
}
