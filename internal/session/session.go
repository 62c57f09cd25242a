package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-chi-calculator/internal/engine"
)

// Step is the outcome of one key press.
type Step struct {
	Command engine.Command `json:"command"`
	Display string         `json:"display"`
	State   string         `json:"state"`
	Error   string         `json:"error,omitempty"`
	// Result is set when the step completed a calculation.
	Result string `json:"result,omitempty"`
	// EnteredError is set on the one step that moved the engine into the
	// error state.
	EnteredError bool `json:"-"`
}

// Calculation is a completed "a op b ... = result" run, emitted when equals
// commits a result.
type Calculation struct {
	SessionID  string
	Expression string
	Result     string
	At         time.Time
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID      string   `json:"session_id"`
	Display string   `json:"display"`
	State   string   `json:"state"`
	History []string `json:"history"`
	Error   string   `json:"error,omitempty"`
}

// Session owns one engine and serializes every command sent to it.
type Session struct {
	ID      string
	Created time.Time

	store *Store

	mu       sync.Mutex
	eng      *engine.Engine
	mark     int // history index where the current calculation starts
	lastUsed time.Time
	streams  int
}

// Press applies cmd and returns the resulting step. A non-nil error means the
// step was applied but the completed calculation could not be recorded.
func (s *Session) Press(ctx context.Context, cmd engine.Command) (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = s.store.now()
	wasFailed := s.eng.State() == engine.Failed
	s.eng.Apply(cmd)
	step := s.step(cmd)
	step.EnteredError = !wasFailed && s.eng.State() == engine.Failed

	if cmd == engine.ClearAll {
		s.mark = 0
		return step, nil
	}

	calc, ok := s.completed(cmd)
	if !ok {
		return step, nil
	}
	step.Result = calc.Result
	if err := s.store.recorder.Record(ctx, calc); err != nil {
		return step, fmt.Errorf("record calculation: %w", err)
	}
	return step, nil
}

// Snapshot returns the current display, state and history.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:      s.ID,
		Display: s.eng.Display(),
		State:   s.eng.State().String(),
		History: s.eng.History(),
	}
	if err := s.eng.Err(); err != nil {
		snap.Error = err.Error()
	}
	return snap
}

// Attach marks the session as driven by a long-lived stream. An attached
// session is never swept; the returned func detaches it and counts as use.
func (s *Session) Attach() (detach func()) {
	s.mu.Lock()
	s.streams++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.streams--
			s.lastUsed = s.store.now()
			s.mu.Unlock()
		})
	}
}

// idle reports whether the session has no attached stream and was last used
// before cutoff.
func (s *Session) idle(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams == 0 && s.lastUsed.Before(cutoff)
}

func (s *Session) step(cmd engine.Command) Step {
	st := Step{
		Command: cmd,
		Display: s.eng.Display(),
		State:   s.eng.State().String(),
	}
	if err := s.eng.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// completed reports the calculation that cmd just finished, if any. History
// ends in "=", result after a successful equals.
func (s *Session) completed(cmd engine.Command) (Calculation, bool) {
	if cmd != engine.Equals || s.eng.Err() != nil {
		return Calculation{}, false
	}
	h := s.eng.History()
	n := len(h)
	if n < 2 || n <= s.mark || h[n-2] != "=" {
		return Calculation{}, false
	}

	calc := Calculation{
		SessionID:  s.ID,
		Expression: strings.Join(h[s.mark:n-2], " "),
		Result:     h[n-1],
		At:         s.lastUsed,
	}
	s.mark = n
	return calc, true
}
