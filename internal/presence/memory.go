package presence

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and when durability
// is not required. State is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byToken map[string]*Record
	byName  map[string]*Record

	// FailWrites makes SetPlaying and Upsert return err, for
	// exercising persistence-failure paths in tests.
	FailWrites error
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken: make(map[string]*Record),
		byName:  make(map[string]*Record),
	}
}

func (m *MemoryStore) GetByToken(ctx context.Context, token string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.byToken[token]; ok {
		return *r, nil
	}
	return Record{}, ErrNotFound
}

func (m *MemoryStore) GetByUsername(ctx context.Context, username string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.byName[username]; ok {
		return *r, nil
	}
	return Record{}, ErrNotFound
}

func (m *MemoryStore) Upsert(ctx context.Context, username, token string, isPlaying bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	if old, ok := m.byName[username]; ok {
		delete(m.byToken, old.Token)
	}
	r := &Record{Username: username, Token: token, IsPlaying: isPlaying}
	m.byName[username] = r
	m.byToken[token] = r
	return nil
}

func (m *MemoryStore) SetPlaying(ctx context.Context, tokens []string, playing bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	for _, t := range tokens {
		if r, ok := m.byToken[t]; ok {
			r.IsPlaying = playing
		}
	}
	return nil
}

func (m *MemoryStore) ListAvailable(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for _, r := range m.byToken {
		if !r.IsPlaying {
			out = append(out, *r)
		}
	}
	return out, nil
}
