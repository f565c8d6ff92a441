package device

import (
	"fmt"
	"sync"
)

// Mutator derives the next state from the current one. It receives a private
// copy and must be pure: no I/O, no hardware access, no blocking.
type Mutator func(State) (State, error)

// Checker is an additional invariant enforced on every committed state.
type Checker func(State) error

// Store owns the single authoritative State of a controller process.
type Store struct {
	mu       sync.Mutex
	state    State
	checks   []Checker
	revision uint64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithChecker adds an invariant that every committed state must satisfy.
func WithChecker(check Checker) StoreOption {
	return func(s *Store) {
		s.checks = append(s.checks, check)
	}
}

// NewStore creates a store holding initial. It fails if initial already
// violates an invariant.
func NewStore(initial State, opts ...StoreOption) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.verify(initial); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	s.state = initial.Clone()
	return s, nil
}

// Read returns a consistent snapshot. Callers may modify the result freely.
func (s *Store) Read() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Snapshot returns a consistent snapshot together with the revision that
// produced it.
func (s *Store) Snapshot() (State, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), s.revision
}

// Revision returns the number of committed updates so far.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Update applies mutate atomically with respect to every other Read and
// Update and returns the committed state with its revision. Revisions grow
// by one per commit, so they order snapshots that are delivered out of
// order. On any error the stored state is unchanged and the current snapshot
// and revision are returned alongside the error.
func (s *Store) Update(mutate Mutator) (State, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mutate(s.state.Clone())
	if err != nil {
		return s.state.Clone(), s.revision, err
	}
	if next.LEDCount != s.state.LEDCount || next.Pin != s.state.Pin {
		return s.state.Clone(), s.revision, &ValidationError{Field: "hardware", Message: "led_count and pin are read-only"}
	}
	if err := s.verify(next); err != nil {
		return s.state.Clone(), s.revision, err
	}

	s.state = next.Clone()
	s.revision++
	return s.state.Clone(), s.revision, nil
}

func (s *Store) verify(st State) error {
	if err := st.Validate(); err != nil {
		return err
	}
	for _, check := range s.checks {
		if err := check(st); err != nil {
			return err
		}
	}
	return nil
}
