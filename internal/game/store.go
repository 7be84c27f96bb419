package game

import (
	"sync"

	"tictacarena/internal/models"
)

// Store owns every active or finished-but-unreaped game. Callers never
// see the underlying map; reads return snapshots and mutations go
// through Update so the read-modify-write span of a transition is a
// single critical section.
type Store struct {
	games map[string]*models.Game
	mu    sync.RWMutex
}

// NewStore creates an empty game store.
func NewStore() *Store {
	return &Store{
		games: make(map[string]*models.Game),
	}
}

// Create adds a game to the store.
func (s *Store) Create(g *models.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g
}

// Get returns a snapshot of the game with the given id.
func (s *Store) Get(id string) (models.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.games[id]
	if !exists {
		return models.Game{}, false
	}
	return *g, true
}

// Update applies fn to the stored game under the store lock and returns
// the resulting snapshot. If fn returns an error the game is left
// untouched only insofar as fn itself made no changes before failing;
// fn must validate before mutating.
func (s *Store) Update(id string, fn func(*models.Game) error) (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, exists := s.games[id]
	if !exists {
		return models.Game{}, ErrGameNotFound
	}
	if err := fn(g); err != nil {
		return models.Game{}, err
	}
	return *g, nil
}

// Delete removes a game from the store. No-op for unknown ids.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Len reports how many games the store currently holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
