// Package apitest runs an in-memory strings collection service for tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/idilsaglam/stringlist/internal/model"
)

// Operation names used by Fail and Requests.
const (
	OpList   = "list"
	OpCreate = "create"
	OpDelete = "delete"
)

// Server is a fake collection service. Entries keep insertion order.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	entries  []model.Entry
	failures map[string]int
	counts   map[string]int
	lastBody map[string]string
	newID    func() model.ID
}

// NewServer starts a Server seeded with entries. Callers must Close it.
func NewServer(seed ...model.Entry) *Server {
	s := &Server{
		entries:  append([]model.Entry(nil), seed...),
		failures: make(map[string]int),
		counts:   make(map[string]int),
		lastBody: make(map[string]string),
		newID:    func() model.ID { return model.ID(uuid.New().String()) },
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// SetIDFunc overrides id generation, e.g. for deterministic ids.
func (s *Server) SetIDFunc(fn func() model.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newID = fn
}

// Fail makes every subsequent call to op answer with code. Zero clears it.
func (s *Server) Fail(op string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.failures, op)
		return
	}
	s.failures[op] = code
}

// Requests returns how many times op was called.
func (s *Server) Requests(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[op]
}

// LastBody returns the raw request body of the most recent call to op.
func (s *Server) LastBody(op string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody[op]
}

// Entries returns a copy of the stored entries.
func (s *Server) Entries() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Entry(nil), s.entries...)
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/strings", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/api/strings", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/strings/{id}", s.handleDelete).Methods(http.MethodDelete)
	return r
}

// begin records the call and reports whether a forced failure was written.
func (s *Server) begin(w http.ResponseWriter, op string) bool {
	s.counts[op]++
	if code, ok := s.failures[op]; ok {
		http.Error(w, op+" failed", code)
		return true
	}
	return false
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.begin(w, OpList) {
		return
	}
	list := s.entries
	if list == nil {
		list = []model.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"strings": list})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	var raw strings.Builder
	err := json.NewDecoder(io.TeeReader(r.Body, &raw)).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastBody[OpCreate] = raw.String()
	if s.begin(w, OpCreate) {
		return
	}
	if err != nil || strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	e := model.Entry{ID: s.newID(), Text: req.Text}
	s.entries = append(s.entries, e)
	writeJSON(w, http.StatusCreated, map[string]any{"string": e})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := model.ID(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.begin(w, OpDelete) {
		return
	}
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
