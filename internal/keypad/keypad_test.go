package keypad

import (
	"reflect"
	"testing"

	"go-chi-calculator/internal/engine"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want engine.Command
	}{
		{raw: "7", want: engine.Digit7},
		{raw: "digit:3", want: engine.Digit3},
		{raw: " 0 ", want: engine.Digit0},
		{raw: ".", want: engine.Point},
		{raw: ",", want: engine.Point},
		{raw: "+", want: engine.Add},
		{raw: "-", want: engine.Subtract},
		{raw: "x", want: engine.Multiply},
		{raw: "X", want: engine.Multiply},
		{raw: "*", want: engine.Multiply},
		{raw: "÷", want: engine.Divide},
		{raw: "=", want: engine.Equals},
		{raw: "Enter", want: engine.Equals},
		{raw: "%", want: engine.Percent},
		{raw: "Escape", want: engine.ClearAll},
		{raw: "AC", want: engine.ClearAll},
		{raw: "clear-all", want: engine.ClearAll},
		{raw: "CE", want: engine.ClearEntry},
		{raw: "Backspace", want: engine.ClearEntry},
		{raw: "clear-entry", want: engine.ClearEntry},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := Normalize(tc.raw)
			if !ok {
				t.Fatalf("expected %q to be recognised", tc.raw)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeUnknownPassesThrough(t *testing.T) {
	got, ok := Normalize("sqrt")
	if ok {
		t.Fatal("expected sqrt to be unrecognised")
	}
	if got != engine.Command("sqrt") {
		t.Fatalf("expected raw key to pass through, got %q", got)
	}

	e := engine.New()
	if display := e.Apply(got); display != engine.ErrorDisplay {
		t.Fatalf("expected engine to reject %q, got display %q", got, display)
	}
}

func TestNormalizeAll(t *testing.T) {
	cmds, unknown := NormalizeAll([]string{"2", "+", "nope", "="})

	want := []engine.Command{engine.Digit2, engine.Add, engine.Command("nope"), engine.Equals}
	if !reflect.DeepEqual(cmds, want) {
		t.Fatalf("expected %v, got %v", want, cmds)
	}
	if !reflect.DeepEqual(unknown, []string{"nope"}) {
		t.Fatalf("expected unknown [nope], got %v", unknown)
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: "12 + 3 =", want: []string{"1", "2", "+", "3", "="}},
		{line: "1.5 x 2", want: []string{"1", ".", "5", "x", "2"}},
		{line: "  7 ", want: []string{"7"}},
		{line: "digit:4 add ce", want: []string{"digit:4", "add", "ce"}},
		{line: "", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got := Fields(tc.line)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
