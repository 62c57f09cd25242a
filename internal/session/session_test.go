package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-chi-calculator/internal/engine"
)

type recorderFunc func(ctx context.Context, c Calculation) error

func (f recorderFunc) Record(ctx context.Context, c Calculation) error { return f(ctx, c) }

func pressAll(t *testing.T, s *Session, cmds ...engine.Command) Step {
	t.Helper()
	var step Step
	for _, c := range cmds {
		var err error
		step, err = s.Press(context.Background(), c)
		if err != nil {
			t.Fatalf("pressing %s: %v", c, err)
		}
	}
	return step
}

func TestPressReturnsStep(t *testing.T) {
	s := NewStore().Create()

	step := pressAll(t, s, engine.Digit5, engine.Add)
	if step.Display != "5" {
		t.Fatalf("expected display %q, got %q", "5", step.Display)
	}
	if step.State != "pending_operator" {
		t.Fatalf("expected state %q, got %q", "pending_operator", step.State)
	}
	if step.Command != engine.Add {
		t.Fatalf("expected command %q, got %q", engine.Add, step.Command)
	}
}

func TestPressReportsEngineError(t *testing.T) {
	s := NewStore().Create()

	step := pressAll(t, s, engine.Digit1, engine.Divide, engine.Digit0, engine.Equals)
	if step.Display != engine.ErrorDisplay {
		t.Fatalf("expected display %q, got %q", engine.ErrorDisplay, step.Display)
	}
	if step.Error != engine.ErrDivideByZero.Error() {
		t.Fatalf("expected error %q, got %q", engine.ErrDivideByZero.Error(), step.Error)
	}

	snap := s.Snapshot()
	if snap.State != "error" || snap.Error == "" {
		t.Fatalf("expected error snapshot, got %+v", snap)
	}
}

func TestCompletedCalculationsAreRecorded(t *testing.T) {
	var got []Calculation
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewStore(
		WithClock(func() time.Time { return at }),
		WithRecorder(recorderFunc(func(_ context.Context, c Calculation) error {
			got = append(got, c)
			return nil
		})),
	)
	s := store.Create()

	pressAll(t, s,
		engine.Digit2, engine.Add, engine.Digit3, engine.Multiply, engine.Digit4, engine.Equals,
		engine.Equals, // no pending operator: nothing new to record
		engine.Subtract, engine.Digit5, engine.Equals,
	)

	if len(got) != 2 {
		t.Fatalf("expected 2 calculations, got %d: %+v", len(got), got)
	}

	first := got[0]
	if first.Expression != "2 + 3 * 4" || first.Result != "20" {
		t.Fatalf("unexpected first calculation: %+v", first)
	}
	if first.SessionID != s.ID {
		t.Fatalf("expected session id %q, got %q", s.ID, first.SessionID)
	}
	if !first.At.Equal(at) {
		t.Fatalf("expected timestamp %v, got %v", at, first.At)
	}

	second := got[1]
	if second.Expression != "20 - 5" || second.Result != "15" {
		t.Fatalf("unexpected second calculation: %+v", second)
	}
}

func TestClearAllRestartsExpression(t *testing.T) {
	var got []Calculation
	store := NewStore(WithRecorder(recorderFunc(func(_ context.Context, c Calculation) error {
		got = append(got, c)
		return nil
	})))
	s := store.Create()

	pressAll(t, s, engine.Digit1, engine.Add, engine.Digit1, engine.Equals, engine.ClearAll,
		engine.Digit9, engine.Divide, engine.Digit3, engine.Equals)

	if len(got) != 2 {
		t.Fatalf("expected 2 calculations, got %d", len(got))
	}
	if got[1].Expression != "9 / 3" || got[1].Result != "3" {
		t.Fatalf("unexpected calculation after clear-all: %+v", got[1])
	}
}

func TestRecorderErrorIsReturnedWithStep(t *testing.T) {
	boom := errors.New("disk full")
	store := NewStore(WithRecorder(recorderFunc(func(context.Context, Calculation) error {
		return boom
	})))
	s := store.Create()

	pressAll(t, s, engine.Digit1, engine.Add, engine.Digit2)
	step, err := s.Press(context.Background(), engine.Equals)
	if !errors.Is(err, boom) {
		t.Fatalf("expected recorder error, got %v", err)
	}
	if step.Display != "3" {
		t.Fatalf("expected step to be applied, got display %q", step.Display)
	}
}

func TestConcurrentPressesAreSerialized(t *testing.T) {
	s := NewStore(WithEngineOptions(engine.WithMaxDigits(64))).Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Press(context.Background(), engine.Digit1)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	if got := len(s.Snapshot().Display); got != 50 {
		t.Fatalf("expected 50 digits, got %d", got)
	}
}

func TestStepCarriesCompletedResult(t *testing.T) {
	s := NewStore().Create()

	step := pressAll(t, s, engine.Digit6, engine.Multiply, engine.Digit7)
	if step.Result != "" {
		t.Fatalf("expected no result before equals, got %q", step.Result)
	}

	step = pressAll(t, s, engine.Equals)
	if step.Result != "42" {
		t.Fatalf("expected result %q, got %q", "42", step.Result)
	}
}

func TestScratchSessionIsNotTracked(t *testing.T) {
	store := NewStore()
	s := store.Scratch()

	if store.Len() != 0 {
		t.Fatalf("expected no tracked sessions, got %d", store.Len())
	}
	if _, err := store.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if step := pressAll(t, s, engine.Digit4); step.Display != "4" {
		t.Fatalf("expected display %q, got %q", "4", step.Display)
	}
}

func TestEnteredErrorMarksOnlyTheFailingStep(t *testing.T) {
	s := NewStore().Create()

	steps := make([]Step, 0, 6)
	for _, c := range []engine.Command{engine.Digit5, engine.Divide, engine.Add, engine.Digit2, engine.ClearAll, engine.Digit1} {
		step, err := s.Press(context.Background(), c)
		if err != nil {
			t.Fatalf("pressing %s: %v", c, err)
		}
		steps = append(steps, step)
	}

	for i, step := range steps {
		want := i == 2
		if step.EnteredError != want {
			t.Fatalf("step %d (%s): expected EnteredError %v, got %v", i, step.Command, want, step.EnteredError)
		}
	}
}

func TestEnteredErrorIsReportedOnceUnderConcurrency(t *testing.T) {
	s := NewStore().Create()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		entered int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			step, _ := s.Press(context.Background(), engine.Command("bogus"))
			if step.EnteredError {
				mu.Lock()
				entered++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if entered != 1 {
		t.Fatalf("expected exactly one step to enter the error state, got %d", entered)
	}
}
