// Package scenario runs scripted key sequences against a fresh engine and
// checks the resulting display, state and history. Scenarios are written in
// YAML so calculator behaviour can be pinned down without writing Go.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/keypad"
)

// File is the top-level YAML document.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one key sequence and the outcome it must produce.
type Scenario struct {
	// Name uniquely identifies the scenario within its file.
	Name string `yaml:"name"`

	// Description explains the behaviour being pinned down.
	Description string `yaml:"description,omitempty"`

	// Keys are raw key names, normalized the same way HTTP input is.
	Keys []string `yaml:"keys"`

	// Displays, when set, lists the display expected after every key.
	Displays []string `yaml:"displays,omitempty"`

	Expect Expectation `yaml:"expect"`
}

// Expectation describes the final engine state. Empty fields are not
// checked.
type Expectation struct {
	Display string   `yaml:"display"`
	State   string   `yaml:"state,omitempty"`
	History []string `yaml:"history,omitempty"`
}

// Result is the outcome of running one scenario.
type Result struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Display  string   `json:"display"`
	Failures []string `json:"failures,omitempty"`
}

// Load parses and validates a scenario document.
func Load(data []byte) ([]Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if err := validate(f.Scenarios); err != nil {
		return nil, err
	}
	return f.Scenarios, nil
}

// LoadFile reads and parses the scenario file at path.
func LoadFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	scenarios, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

func validate(scenarios []Scenario) error {
	if len(scenarios) == 0 {
		return errors.New("no scenarios defined")
	}

	seen := make(map[string]bool, len(scenarios))
	for i, s := range scenarios {
		switch {
		case s.Name == "":
			return fmt.Errorf("scenario %d: name is required", i)
		case seen[s.Name]:
			return fmt.Errorf("scenario %q: duplicate name", s.Name)
		case len(s.Keys) == 0:
			return fmt.Errorf("scenario %q: keys are required", s.Name)
		case s.Expect.Display == "":
			return fmt.Errorf("scenario %q: expect.display is required", s.Name)
		case s.Displays != nil && len(s.Displays) != len(s.Keys):
			return fmt.Errorf("scenario %q: %d displays for %d keys", s.Name, len(s.Displays), len(s.Keys))
		}
		seen[s.Name] = true
	}
	return nil
}

// Run executes s on a new engine built with opts.
func Run(s Scenario, opts ...engine.Option) Result {
	e := engine.New(opts...)
	res := Result{Name: s.Name}

	for i, k := range s.Keys {
		cmd, _ := keypad.Normalize(k)
		got := e.Apply(cmd)
		if s.Displays != nil && got != s.Displays[i] {
			res.Failures = append(res.Failures,
				fmt.Sprintf("key %d (%s): display %q, want %q", i, k, got, s.Displays[i]))
		}
	}

	res.Display = e.Display()
	if res.Display != s.Expect.Display {
		res.Failures = append(res.Failures,
			fmt.Sprintf("display %q, want %q", res.Display, s.Expect.Display))
	}
	if s.Expect.State != "" && e.State().String() != s.Expect.State {
		res.Failures = append(res.Failures,
			fmt.Sprintf("state %q, want %q", e.State(), s.Expect.State))
	}
	if s.Expect.History != nil {
		got, want := strings.Join(e.History(), " "), strings.Join(s.Expect.History, " ")
		if got != want {
			res.Failures = append(res.Failures, fmt.Sprintf("history %q, want %q", got, want))
		}
	}

	res.Passed = len(res.Failures) == 0
	return res
}

// RunAll executes every scenario in order.
func RunAll(scenarios []Scenario, opts ...engine.Option) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, Run(s, opts...))
	}
	return results
}
