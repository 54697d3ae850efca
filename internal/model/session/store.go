package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store exposes session lifecycle for the dispatcher.
type Store interface {
	Create(userID int64, state DialogState) Session
	Get(userID int64) (Session, bool)
	Put(s Session)
	Delete(userID int64)
}

// MemoryStore implements Store with a mutex-guarded map keyed by user ID.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore bootstraps an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

// Create provisions a fresh session for the user, replacing any existing one.
func (m *MemoryStore) Create(userID int64, state DialogState) Session {
	now := time.Now().UTC()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sessions[userID] = s
	m.mu.Unlock()

	return s
}

// Get retrieves the session for a user, if one is active.
func (m *MemoryStore) Get(userID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Put stores the updated session back under its user key.
func (m *MemoryStore) Put(s Session) {
	s.UpdatedAt = time.Now().UTC()

	m.mu.Lock()
	m.sessions[s.UserID] = s
	m.mu.Unlock()
}

// Delete evicts the user's session. Deleting a missing session is a no-op.
func (m *MemoryStore) Delete(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}
