package session

import (
	"sync"

	"macrolens/domain/core"
)

type entry struct {
	mu    sync.Mutex
	state *State
}

// Store keeps session states in memory keyed by session ID. Updates to one
// session are serialized; different sessions proceed independently.
type Store struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*entry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{sessions: make(map[core.SessionID]*entry)}
}

// Put stores a new session state
func (s *Store) Put(st *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[st.ID] = &entry{state: st}
}

// Get returns the current state of a session
func (s *Store) Get(id core.SessionID) (*State, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, nil
}

// Update derives a new state with fn and swaps it in. When fn fails the
// stored state is left as it was.
func (s *Store) Update(id core.SessionID, fn func(*State) (*State, error)) (*State, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.state)
	if err != nil {
		return nil, err
	}
	e.state = next
	return next, nil
}

// Delete removes a session
func (s *Store) Delete(id core.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) lookup(id core.SessionID) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return e, nil
}
