package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/farmapunto/pos-backend/internal/pos"
)

// MemoryStore holds sessions in process memory. Used in tests and as a
// fallback when no redis is configured. Sessions are stored serialized so
// callers get copies, matching the redis behavior.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, registerID string) (*pos.Session, error) {
	s.mu.RLock()
	payload, ok := s.sessions[registerID]
	s.mu.RUnlock()
	if !ok {
		return nil, pos.ErrSessionNotFound
	}
	var session pos.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *MemoryStore) Save(_ context.Context, session *pos.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	s.mu.Lock()
	s.sessions[session.RegisterID] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, registerID string) error {
	s.mu.Lock()
	delete(s.sessions, registerID)
	s.mu.Unlock()
	return nil
}
