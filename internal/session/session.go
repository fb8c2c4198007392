// Package session holds per-login state: who is logged in, with what role,
// which batch is active, and unsaved grid edits. A session is created at
// login and discarded at logout.
package session

import (
	"errors"
	"sync"
	"time"

	"go-slab-ws/internal/model"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID            string     `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Username      string     `json:"username"`
	Role          model.Role `json:"role"`
	SelectedBatch string     `json:"selected_batch,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	drafts        map[string][]model.Slab
}

func (s *Session) expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Can reports whether the session's role grants p
func (s *Session) Can(p model.Privilege) bool {
	return s != nil && s.Role.Can(p)
}

// DraftBatches lists batches with an unsaved edit buffer
func (s *Session) DraftBatches() []string {
	batches := make([]string, 0, len(s.drafts))
	for b := range s.drafts {
		batches = append(batches, b)
	}
	return batches
}

func (s *Session) clone() *Session {
	c := *s
	c.drafts = make(map[string][]model.Slab, len(s.drafts))
	for b, rows := range s.drafts {
		c.drafts[b] = append([]model.Slab(nil), rows...)
	}
	return &c
}

// DefaultTTL matches the default token lifetime
const DefaultTTL = 24 * time.Hour

// Store keeps sessions in process memory. Callers get copies; every
// mutation goes through the store. A session lives for ttl after login,
// the same as its token; expired sessions are pruned on Create.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{sessions: make(map[string]*Session), ttl: ttl, now: time.Now}
}

func (st *Store) Create(user *model.User) *Session {
	now := st.now()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(st.ttl),
		drafts:    make(map[string][]model.Slab),
	}
	st.mu.Lock()
	st.prune(now)
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s.clone()
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok || s.expired(st.now()) {
		return nil, ErrNotFound
	}
	return s.clone(), nil
}

func (st *Store) update(id string, fn func(s *Session)) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(st.now()) {
		delete(st.sessions, id)
		return nil, ErrNotFound
	}
	fn(s)
	return s.clone(), nil
}

// prune drops expired sessions; st.mu must be held for writing
func (st *Store) prune(now time.Time) int {
	n := 0
	for id, s := range st.sessions {
		if s.expired(now) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Prune drops expired sessions and returns how many were removed
func (st *Store) Prune() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.prune(st.now())
}

// SelectBatch makes batchNumber the active batch
func (st *Store) SelectBatch(id, batchNumber string) (*Session, error) {
	return st.update(id, func(s *Session) { s.SelectedBatch = batchNumber })
}

// SetDraft replaces the edit buffer for batchNumber
func (st *Store) SetDraft(id, batchNumber string, rows []model.Slab) (*Session, error) {
	rows = append([]model.Slab(nil), rows...)
	return st.update(id, func(s *Session) { s.drafts[batchNumber] = rows })
}

func (st *Store) Draft(id, batchNumber string) ([]model.Slab, bool, error) {
	s, err := st.Get(id)
	if err != nil {
		return nil, false, err
	}
	rows, ok := s.drafts[batchNumber]
	return rows, ok, nil
}

func (st *Store) ClearDraft(id, batchNumber string) error {
	_, err := st.update(id, func(s *Session) { delete(s.drafts, batchNumber) })
	return err
}

// Delete ends a session and everything scoped to it
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// DeleteByUser ends every session of userID and returns how many were live
func (st *Store) DeleteByUser(userID uuid.UUID) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if s.UserID == userID {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
