package draft

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used in tests and single-node dev
// setups. It round-trips through JSON so malformed-blob behavior matches
// the redis store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID][]byte)}
}

// Load returns the stored session, or (nil, nil) on absence or a blob
// that no longer parses.
func (s *MemoryStore) Load(_ context.Context, userID uuid.UUID) (*State, error) {
	s.mu.RLock()
	raw, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, nil
	}
	return &st, nil
}

// Save serializes and stores the session.
func (s *MemoryStore) Save(_ context.Context, userID uuid.UUID, st *State) error {
	st.UpdatedAt = time.Now()
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[userID] = raw
	s.mu.Unlock()
	return nil
}

// Clear removes the session.
func (s *MemoryStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites a stored session with an unparseable blob. Test hook
// for the malformed-draft path.
func (s *MemoryStore) Corrupt(userID uuid.UUID) {
	s.mu.Lock()
	s.sessions[userID] = []byte("{not json")
	s.mu.Unlock()
}
