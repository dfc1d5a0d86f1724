package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/johnknash2025/vrcompanion/internal/dialogue"
	"github.com/johnknash2025/vrcompanion/internal/models"
)

// SessionFactory creates a fully wired dialogue session.
type SessionFactory func() *dialogue.Session

// SessionStore keeps live dialogue sessions keyed by ID. Sessions live until
// process exit; there is no expiry.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*dialogue.Session
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*dialogue.Session)}
}

// Add registers a session under its ID
func (s *SessionStore) Add(session *dialogue.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// Get returns the session for an ID, or nil
func (s *SessionStore) Get(id string) *dialogue.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// SessionHandler handles dialogue session HTTP requests
type SessionHandler struct {
	store   *SessionStore
	factory SessionFactory
}

// NewSessionHandler creates a session handler
func NewSessionHandler(store *SessionStore, factory SessionFactory) *SessionHandler {
	return &SessionHandler{store: store, factory: factory}
}

// SessionResponse represents a session's state in API responses
type SessionResponse struct {
	SessionID string                    `json:"session_id"`
	Emotion   models.EmotionTag         `json:"emotion"`
	Intimacy  float64                   `json:"intimacy_level"`
	History   []models.ConversationTurn `json:"history"`
}

// SendMessageRequest represents the request body for one dialogue turn
type SendMessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse pairs the dialogue response with its session
type MessageResponse struct {
	SessionID string `json:"session_id"`
	models.DialogueResponse
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := h.factory()
	h.store.Add(session)

	emotion, intimacy, history := session.State()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SessionResponse{
		SessionID: session.ID,
		Emotion:   emotion,
		Intimacy:  intimacy,
		History:   history,
	})
}

// Get handles GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := h.store.Get(r.PathValue("id"))
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	emotion, intimacy, history := session.State()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionResponse{
		SessionID: session.ID,
		Emotion:   emotion,
		Intimacy:  intimacy,
		History:   history,
	})
}

// SendMessage handles POST /api/sessions/{id}/messages
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	session := h.store.Get(r.PathValue("id"))
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}

	response := session.Process(r.Context(), req.Text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{
		SessionID:        session.ID,
		DialogueResponse: *response,
	})
}
