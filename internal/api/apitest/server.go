// Package apitest provides an in-memory fake of the remote chat service,
// routed with chi. Tests mount it on httptest; parley-mock serves it.
package apitest

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/matheus3301/parley/internal/api"
	"github.com/matheus3301/parley/internal/chat"
)

// Saved records one POST /api/chat/save.
type Saved struct {
	Sender string
	Text   string
}

// AskFunc computes the answer for a prompt. Returning a non-zero status
// makes the fake respond with that status instead.
type AskFunc func(prompt string) (answer string, status int)

// Echo answers every prompt with "echo: <prompt>".
func Echo(prompt string) (string, int) {
	return "echo: " + prompt, 0
}

// Server is a fake chat service. All fields are safe to change between
// requests through the setter methods.
type Server struct {
	mu            sync.Mutex
	token         string
	credentials   map[string]string
	profile       api.User
	history       []api.HistoryMessage
	conversations []api.Conversation
	ask           AskFunc
	askDelay      time.Duration
	rawAsk        string
	failPaths     map[string]int
	saves         []Saved
	hits          map[string]int
}

// New returns a fake that accepts token and knows a single user.
func New(token string, profile chat.UserProfile) *Server {
	return &Server{
		token:       token,
		credentials: make(map[string]string),
		profile:     api.UserFromProfile(profile),
		ask:         Echo,
		failPaths:   make(map[string]int),
		hits:        make(map[string]int),
	}
}

// AddCredentials lets SignIn succeed for identifier/password.
func (s *Server) AddCredentials(identifier, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[identifier] = password
}

// SetHistory replaces the stored assistant history.
func (s *Server) SetHistory(msgs []api.HistoryMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]api.HistoryMessage(nil), msgs...)
}

// SetConversations replaces the peer conversations.
func (s *Server) SetConversations(convs []api.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = append([]api.Conversation(nil), convs...)
}

// SetAsk replaces the answer function.
func (s *Server) SetAsk(fn AskFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ask = fn
}

// SetAskDelay delays every Ask response.
func (s *Server) SetAskDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.askDelay = d
}

// SetRawAsk makes Ask respond 200 with body verbatim. Empty restores AskFunc.
func (s *Server) SetRawAsk(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawAsk = body
}

// Fail makes every request to path answer with status. Zero clears it.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failPaths, path)
		return
	}
	s.failPaths[path] = status
}

// Saves returns the recorded saves in arrival order.
func (s *Server) Saves() []Saved {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Saved(nil), s.saves...)
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests received on any path.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// Handler returns the chi router serving the service API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)

	r.Post(api.PathSignIn, s.handleSignIn)
	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get(api.PathProfile, s.handleProfile)
		r.Get(api.PathHistory, s.handleHistory)
		r.Get(api.PathConversations, s.handleConversations)
		r.Post(api.PathSave, s.handleSave)
		r.Post(api.PathAsk, s.handleAsk)
	})
	return r
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		status := s.failPaths[r.URL.Path]
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		want := s.token
		s.mu.Unlock()
		if got == "" || got != want {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req api.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	pw, ok := s.credentials[req.Identifier]
	token := s.token
	s.mu.Unlock()
	if !ok || pw != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	p := s.profile
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	msgs := append([]api.HistoryMessage{}, s.history...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleConversations(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	convs := append([]api.Conversation{}, s.conversations...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req api.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	s.saves = append(s.saves, Saved{Sender: req.Sender, Text: req.Text})
	s.history = append(s.history, api.NewHistoryMessage(uuid.NewString(), chat.Sender(req.Sender), req.Text, time.Now()))
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	fn, delay, raw := s.ask, s.askDelay, s.rawAsk
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if raw != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(raw))
		return
	}

	answer, status := fn(req.Prompt)
	if status != 0 {
		writeError(w, status, "assistant unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
