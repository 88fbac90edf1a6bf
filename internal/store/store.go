// Package store keeps each editing session's working invoice in memory.
// State lives for the lifetime of the process; closing the browser and
// returning with the same session cookie resumes the same draft.
package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"factorsaz.org/invoice-web/internal/invoice"
)

var (
	// ErrNotFound is returned when no draft exists for the session.
	ErrNotFound = errors.New("store: session not found")

	// ErrGenerationPending rejects a second assistant call while one is
	// already outstanding for the session.
	ErrGenerationPending = errors.New("store: generation already pending")
)

// generation tracks one outstanding assistant call. The token makes stale
// results detectable: only the holder of the current token may apply.
type generation struct {
	token  string
	itemID string
}

type entry struct {
	data invoice.InvoiceData
	gen  *generation
}

// Store is a concurrency-safe map from session ID to draft invoice. All
// reads hand out deep copies; callers mutate their copy and Replace it.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

func New() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// Get returns a deep copy of the session's draft.
func (s *Store) Get(sessionID string) (invoice.InvoiceData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return invoice.InvoiceData{}, ErrNotFound
	}
	return e.data.Clone(), nil
}

// GetOrCreate returns the session's draft, seeding it with seed() on first
// access.
func (s *Store) GetOrCreate(sessionID string, seed func() invoice.InvoiceData) invoice.InvoiceData {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{data: seed()}
		s.sessions[sessionID] = e
	}
	return e.data.Clone()
}

// Replace swaps the session's draft wholesale. Edits are whole-value: the
// handler rebuilds the draft from the form and stores it in one step.
func (s *Store) Replace(sessionID string, data invoice.InvoiceData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{}
		s.sessions[sessionID] = e
	}
	e.data = data.Clone()
}

// BeginGeneration registers an outstanding assistant call for the item and
// returns its token. Only one call may be outstanding per session.
func (s *Store) BeginGeneration(sessionID, itemID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrNotFound
	}
	if e.gen != nil {
		return "", ErrGenerationPending
	}
	if _, ok := e.data.ItemByID(itemID); !ok {
		return "", ErrNotFound
	}
	token := uuid.NewString()
	e.gen = &generation{token: token, itemID: itemID}
	return token, nil
}

// ApplyGeneration writes the drafted content onto the targeted item. It
// reports false, without error, when the result has gone stale: the token
// was cancelled or superseded, or the item was removed in the meantime.
// Stale results are discarded silently and never touch the draft.
func (s *Store) ApplyGeneration(sessionID, token string, content invoice.GeneratedContent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok || e.gen == nil || e.gen.token != token {
		return false
	}
	itemID := e.gen.itemID
	e.gen = nil
	updated, ok := e.data.WithItemContent(itemID, content)
	if !ok {
		return false
	}
	e.data = updated
	return true
}

// FailGeneration clears the pending call after an assistant error so the
// session can retry.
func (s *Store) FailGeneration(sessionID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if ok && e.gen != nil && e.gen.token == token {
		e.gen = nil
	}
}

// CancelGeneration invalidates any outstanding call for the session. A
// result that later arrives with the old token is discarded.
func (s *Store) CancelGeneration(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[sessionID]; ok {
		e.gen = nil
	}
}

// PendingItem reports the item targeted by the outstanding call, if any.
func (s *Store) PendingItem(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok || e.gen == nil {
		return "", false
	}
	return e.gen.itemID, true
}
