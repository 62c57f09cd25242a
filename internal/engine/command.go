package engine

import "strings"

// Command is a normalized key press. The closed set is the ten digit tokens
// plus the operator and control tokens below; anything else is out of
// contract and drives the engine into the Error state.
type Command string

const (
	Digit0 Command = "digit:0"
	Digit1 Command = "digit:1"
	Digit2 Command = "digit:2"
	Digit3 Command = "digit:3"
	Digit4 Command = "digit:4"
	Digit5 Command = "digit:5"
	Digit6 Command = "digit:6"
	Digit7 Command = "digit:7"
	Digit8 Command = "digit:8"
	Digit9 Command = "digit:9"

	Point      Command = "point"
	Add        Command = "add"
	Subtract   Command = "subtract"
	Multiply   Command = "multiply"
	Divide     Command = "divide"
	Equals     Command = "equals"
	Percent    Command = "percent"
	ClearAll   Command = "clear-all"
	ClearEntry Command = "clear-entry"
)

const digitPrefix = "digit:"

// Digit returns the command for digit d. It panics if d is outside 0..9.
func Digit(d int) Command {
	if d < 0 || d > 9 {
		panic("engine: digit out of range")
	}
	return Command(digitPrefix + string(rune('0'+d)))
}

// DigitValue reports the digit carried by c.
func (c Command) DigitValue() (byte, bool) {
	s := string(c)
	if len(s) != len(digitPrefix)+1 || !strings.HasPrefix(s, digitPrefix) {
		return 0, false
	}
	d := s[len(digitPrefix)]
	if d < '0' || d > '9' {
		return 0, false
	}
	return d, true
}

// IsOperator reports whether c is one of the four binary operators.
func (c Command) IsOperator() bool {
	switch c {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

// Valid reports whether c belongs to the closed token set.
func (c Command) Valid() bool {
	if _, ok := c.DigitValue(); ok {
		return true
	}
	switch c {
	case Point, Add, Subtract, Multiply, Divide, Equals, Percent, ClearAll, ClearEntry:
		return true
	}
	return false
}

// Kind groups commands for metrics and logging: "digit", "operator",
// "control" or "invalid".
func (c Command) Kind() string {
	switch {
	case !c.Valid():
		return "invalid"
	case c.IsOperator():
		return "operator"
	}
	if _, ok := c.DigitValue(); ok {
		return "digit"
	}
	return "control"
}

// symbol is the history rendering of an operator.
func (c Command) symbol() string {
	switch c {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	}
	return string(c)
}

func (c Command) String() string { return string(c) }
