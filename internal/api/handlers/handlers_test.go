package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneq/backend/internal/dialogue"
	"github.com/oneq/backend/internal/llm"
	"github.com/oneq/backend/internal/storage/models"
)

type memStore struct {
	sessions map[string]models.ChatSession
	vendors  map[int64]*models.Vendor
	quotes   []models.QuoteRecord
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[string]models.ChatSession),
		vendors:  make(map[int64]*models.Vendor),
		nextID:   1,
	}
}

func (s *memStore) SaveSession(rec *models.ChatSession) error {
	s.sessions[rec.ID] = *rec
	return nil
}

func (s *memStore) GetSession(id string) (*models.ChatSession, error) {
	rec, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return &rec, nil
}

func (s *memStore) InsertQuoteRecord(q *models.QuoteRecord) error {
	s.quotes = append(s.quotes, *q)
	return nil
}

func (s *memStore) GetQuoteHistory(sessionID string, limit int) ([]models.QuoteRecord, error) {
	var out []models.QuoteRecord
	for _, q := range s.quotes {
		if q.SessionID == sessionID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *memStore) InsertVendor(v *models.Vendor) error {
	v.ID = s.nextID
	s.nextID++
	s.vendors[v.ID] = v
	return nil
}

func (s *memStore) GetVendor(id int64) (*models.Vendor, error) {
	v, ok := s.vendors[id]
	if !ok {
		return nil, fmt.Errorf("vendor %d not found", id)
	}
	return v, nil
}

func (s *memStore) ListVendors() ([]*models.Vendor, error) {
	out := make([]*models.Vendor, 0, len(s.vendors))
	for _, v := range s.vendors {
		out = append(out, v)
	}
	return out, nil
}

func (s *memStore) ListVendorsByCategory(category string) ([]*models.Vendor, error) {
	all, _ := s.ListVendors()
	out := make([]*models.Vendor, 0, len(all))
	for _, v := range all {
		for _, c := range v.Categories {
			if c == category {
				out = append(out, v)
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) UpdateVendorStatus(id int64, status string, active bool) error {
	v, ok := s.vendors[id]
	if !ok {
		return fmt.Errorf("vendor %d not found", id)
	}
	v.RegistrationStatus = status
	v.Active = active
	return nil
}

func seedVendor(s *memStore, name string) {
	s.InsertVendor(&models.Vendor{
		Name:               name,
		Address:            "서울-중구 을지로 1",
		Active:             true,
		RegistrationStatus: models.RegistrationCompleted,
		Categories:         []string{"business_card"},
	})
}

func newTestApp(store *memStore) *fiber.App {
	sessions := dialogue.NewManager(store)
	orch := dialogue.NewOrchestrator(llm.NewFallback(), llm.NewExplainCache(), store, nil, store)

	chat := NewChatHandler(sessions, orch)
	vendors := NewVendorHandler(store, nil)
	quotes := NewQuoteHandler(store, nil, store)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/chat/sessions", chat.CreateSession)
	api.Post("/chat/sessions/:id/messages", chat.HandleMessage)
	api.Post("/chat/sessions/:id/reset", chat.ResetSession)
	api.Get("/vendors", vendors.ListVendors)
	api.Get("/vendors/:id", vendors.GetVendor)
	api.Post("/vendors", vendors.RegisterVendor)
	api.Post("/vendors/:id/approve", vendors.ApproveVendor)
	api.Post("/rank", quotes.HandleRank)
	api.Get("/quotes/history", quotes.GetQuoteHistory)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := make(map[string]any)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestChatSessionFlow(t *testing.T) {
	store := newMemStore()
	seedVendor(store, "한빛인쇄")
	app := newTestApp(store)

	resp, created := doJSON(t, app, http.MethodPost, "/api/v1/chat/sessions", map[string]string{"user_id": "u1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sessionID, _ := created["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Contains(t, created["question"], "인쇄물")

	resp, turn := doJSON(t, app, http.MethodPost,
		"/api/v1/chat/sessions/"+sessionID+"/messages",
		map[string]string{"message": "명함 500부 필요해요"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ask", turn["type"])

	slots, ok := turn["slots"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "business_card", slots["category"])
	assert.Equal(t, "500", slots["quantity"])
}

func TestChatMessageValidation(t *testing.T) {
	store := newMemStore()
	app := newTestApp(store)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/chat/sessions/nope/messages",
		map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/chat/sessions/nope/messages",
		map[string]string{"message": "명함"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRankEndpoint(t *testing.T) {
	store := newMemStore()
	seedVendor(store, "한빛인쇄")
	seedVendor(store, "모던프린트")
	app := newTestApp(store)

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/rank", map[string]any{
		"slots": map[string]string{
			"category": "명함",
			"quantity": "500부",
			"due_days": "3일",
			"region":   "서울 중구",
			"budget":   "15만원",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, out["count"])

	items, ok := out["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestRankEndpointRequiresCategory(t *testing.T) {
	app := newTestApp(newMemStore())

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/rank", map[string]any{
		"slots": map[string]string{"quantity": "500"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVendorRegistrationAndApproval(t *testing.T) {
	store := newMemStore()
	app := newTestApp(store)

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/vendors", map[string]any{
		"name":       "새로운인쇄",
		"categories": []string{"명함", "포스터"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", out["status"])

	id := int64(out["vendor_id"].(float64))
	v, err := store.GetVendor(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"business_card", "poster"}, v.Categories)

	resp, out = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/vendors/%d/approve", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.RegistrationCompleted, out["status"])
}

func TestVendorRegistrationRejectsUnknownCategory(t *testing.T) {
	app := newTestApp(newMemStore())

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/vendors", map[string]any{
		"name":       "이상한인쇄",
		"categories": []string{"티셔츠"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVendorListFiltersByCategory(t *testing.T) {
	store := newMemStore()
	seedVendor(store, "한빛인쇄")
	store.InsertVendor(&models.Vendor{
		Name:               "배너월드",
		Active:             true,
		RegistrationStatus: models.RegistrationCompleted,
		Categories:         []string{"banner"},
	})
	app := newTestApp(store)

	resp, out := doJSON(t, app, http.MethodGet, "/api/v1/vendors?category=배너", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, out["count"])
}
