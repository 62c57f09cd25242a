// Package keypad translates raw key names coming from a presentation layer
// (HTTP bodies, WebSocket frames, command-line arguments) into engine
// commands.
package keypad

import (
	"strings"

	"go-chi-calculator/internal/engine"
)

var aliases = map[string]engine.Command{
	".":         engine.Point,
	",":         engine.Point,
	"dot":       engine.Point,
	"+":         engine.Add,
	"plus":      engine.Add,
	"-":         engine.Subtract,
	"minus":     engine.Subtract,
	"*":         engine.Multiply,
	"x":         engine.Multiply,
	"×":         engine.Multiply,
	"times":     engine.Multiply,
	"/":         engine.Divide,
	"÷":         engine.Divide,
	"=":         engine.Equals,
	"enter":     engine.Equals,
	"%":         engine.Percent,
	"ac":        engine.ClearAll,
	"c":         engine.ClearAll,
	"clear":     engine.ClearAll,
	"esc":       engine.ClearAll,
	"escape":    engine.ClearAll,
	"ce":        engine.ClearEntry,
	"backspace": engine.ClearEntry,
	"delete":    engine.ClearEntry,
}

// Normalize maps a raw key to an engine command. Canonical tokens
// ("digit:7", "add", "clear-all") and bare digits pass through; keyboard
// symbols and the word aliases above are translated. Matching ignores case
// and surrounding whitespace.
//
// Keys that match nothing are returned unchanged so the engine can reject
// them; ok reports whether the key was recognised.
func Normalize(raw string) (cmd engine.Command, ok bool) {
	key := strings.ToLower(strings.TrimSpace(raw))

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return engine.Digit(int(key[0] - '0')), true
	}
	if c := engine.Command(key); c.Valid() {
		return c, true
	}
	if c, found := aliases[key]; found {
		return c, true
	}
	return engine.Command(raw), false
}

// NormalizeAll maps every key in keys. The returned slice has the same
// length as keys; unknown lists the keys that were not recognised.
func NormalizeAll(keys []string) (cmds []engine.Command, unknown []string) {
	cmds = make([]engine.Command, 0, len(keys))
	for _, k := range keys {
		c, ok := Normalize(k)
		if !ok {
			unknown = append(unknown, k)
		}
		cmds = append(cmds, c)
	}
	return cmds, unknown
}

// Fields splits a free-form key line ("12 + 3 =") into keys. Runs of digits
// are split into single digit keys so "12" is two presses.
func Fields(line string) []string {
	var keys []string
	for _, f := range strings.Fields(line) {
		if isNumber(f) {
			for _, r := range f {
				keys = append(keys, string(r))
			}
			continue
		}
		keys = append(keys, f)
	}
	return keys
}

func isNumber(s string) bool {
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '.' {
			return false
		}
	}
	return len(s) > 1
}
