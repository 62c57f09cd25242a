package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-chi-calculator/internal/engine"
)

var ErrNotFound = errors.New("session not found")

// Recorder receives every completed calculation.
type Recorder interface {
	Record(ctx context.Context, c Calculation) error
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, Calculation) error { return nil }

// Option configures a Store.
type Option func(*Store)

// WithRecorder sends completed calculations to r.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithEngineOptions applies opts to every engine the store creates.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Store) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store holds the live sessions of a process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	recorder   Recorder
	engineOpts []engine.Option
	now        func() time.Time
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session with a fresh engine.
func (s *Store) Create() *Session {
	sess := s.Scratch()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Scratch returns a session that is not tracked by the store, for one-shot
// evaluations. Its calculations still reach the recorder.
func (s *Store) Scratch() *Session {
	now := s.now()
	return &Session{
		ID:       uuid.New().String(),
		Created:  now,
		store:    s,
		eng:      engine.New(s.engineOpts...),
		lastUsed: now,
	}
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions that have been idle for longer than ttl and returns
// their ids. Sessions with an attached stream are kept.
func (s *Store) Sweep(ttl time.Duration) []string {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, sess := range s.sessions {
		if sess.idle(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// Run sweeps idle sessions every interval until ctx is done. onEvict, when
// non-nil, is called with the ids removed by each sweep.
func (s *Store) Run(ctx context.Context, interval, ttl time.Duration, onEvict func([]string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := s.Sweep(ttl); len(evicted) > 0 && onEvict != nil {
				onEvict(evicted)
			}
		}
	}
}
