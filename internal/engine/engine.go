package engine

import (
	"errors"
	"strings"
)

// ErrorDisplay is what the display shows while the engine is in the Error
// state.
const ErrorDisplay = "Error"

// DefaultMaxDigits caps the number of digits a single entry may hold.
const DefaultMaxDigits = 16

var (
	ErrDivideByZero   = errors.New("division by zero")
	ErrUnknownCommand = errors.New("unknown command")
	ErrOverflow       = errors.New("result out of range")
)

// State is the coarse state of the engine.
type State int

const (
	Entering State = iota
	PendingOperator
	Failed
)

func (s State) String() string {
	switch s {
	case Entering:
		return "entering"
	case PendingOperator:
		return "pending_operator"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDigits caps entries at n digits. Values below 1 are ignored.
func WithMaxDigits(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDigits = n
		}
	}
}

// Engine is a single-pending-operation calculator. It is not safe for
// concurrent use; callers serialize Apply.
type Engine struct {
	maxDigits int

	entry       string
	fresh       bool // entry holds an equals result, the next digit starts over
	accumulator float64
	pending     Command
	err         error
	display     string
	history     []string
}

// New returns an engine in the Entering state with an empty entry.
func New(opts ...Option) *Engine {
	e := &Engine{maxDigits: DefaultMaxDigits}
	for _, opt := range opts {
		opt(e)
	}
	e.reset()
	return e
}

// Apply feeds one command to the engine and returns the resulting display.
func (e *Engine) Apply(cmd Command) string {
	if e.err != nil {
		if cmd == ClearAll {
			e.reset()
		}
		return e.display
	}

	if d, ok := cmd.DigitValue(); ok {
		e.digit(d)
		return e.display
	}

	switch cmd {
	case Point:
		e.point()
	case Add, Subtract, Multiply, Divide:
		e.operator(cmd)
	case Equals:
		e.equals()
	case Percent:
		e.percent()
	case ClearEntry:
		e.entry = ""
		e.fresh = false
		e.display = "0"
	case ClearAll:
		e.reset()
	default:
		e.fail(ErrUnknownCommand)
	}
	return e.display
}

// Display returns the current display string.
func (e *Engine) Display() string { return e.display }

// State reports the engine's current state.
func (e *Engine) State() State {
	switch {
	case e.err != nil:
		return Failed
	case e.pending != "":
		return PendingOperator
	}
	return Entering
}

// Err returns the error that put the engine into the Error state, or nil.
func (e *Engine) Err() error { return e.err }

// History returns a copy of the committed operands, operators and results
// since the last clear-all.
func (e *Engine) History() []string {
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) reset() {
	e.entry = ""
	e.fresh = false
	e.accumulator = 0
	e.pending = ""
	e.err = nil
	e.display = "0"
	e.history = nil
}

func (e *Engine) fail(err error) {
	e.err = err
	e.display = ErrorDisplay
}

func (e *Engine) digit(d byte) {
	if e.fresh {
		e.entry = ""
		e.fresh = false
	}
	if countDigits(e.entry) >= e.maxDigits {
		return
	}
	if e.entry == "0" {
		e.entry = string(d)
	} else {
		e.entry += string(d)
	}
	e.display = e.entry
}

func (e *Engine) point() {
	if strings.Contains(e.entry, ".") {
		return
	}
	if e.fresh {
		e.entry = ""
		e.fresh = false
	}
	if e.entry == "" {
		e.entry = "0."
	} else {
		e.entry += "."
	}
	e.display = e.entry
}

func (e *Engine) operator(op Command) {
	// An empty entry is 0 here too, so "5 / +" divides by zero.
	operand := parseEntry(e.entry)
	e.history = append(e.history, FormatNumber(operand))

	if e.pending != "" {
		result, err := compute(e.pending, e.accumulator, operand)
		if err != nil {
			e.fail(err)
			return
		}
		e.accumulator = result
	} else {
		e.accumulator = operand
	}

	e.pending = op
	e.history = append(e.history, op.symbol())
	e.entry = ""
	e.fresh = false
	e.display = FormatNumber(e.accumulator)
}

func (e *Engine) equals() {
	if e.pending == "" {
		return
	}

	operand := parseEntry(e.entry)
	e.history = append(e.history, FormatNumber(operand))

	result, err := compute(e.pending, e.accumulator, operand)
	if err != nil {
		e.fail(err)
		return
	}

	e.accumulator = result
	e.pending = ""
	e.entry = FormatNumber(result)
	e.fresh = true
	e.display = e.entry
	e.history = append(e.history, "=", e.entry)
}

func (e *Engine) percent() {
	if e.entry == "" {
		return
	}
	e.entry = FormatNumber(parseEntry(e.entry) / 100)
	e.display = e.entry
}

func compute(op Command, a, b float64) (float64, error) {
	var r float64
	switch op {
	case Add:
		r = a + b
	case Subtract:
		r = a - b
	case Multiply:
		r = a * b
	case Divide:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		r = a / b
	default:
		return 0, ErrUnknownCommand
	}
	if !finite(r) {
		return 0, ErrOverflow
	}
	return r, nil
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
