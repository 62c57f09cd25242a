package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chi-calculator/internal/engine"
)

func TestPropertiesFilePasses(t *testing.T) {
	scenarios, err := LoadFile(filepath.Join("testdata", "properties.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, res := range RunAll(scenarios) {
		t.Run(res.Name, func(t *testing.T) {
			assert.True(t, res.Passed, "failures: %v", res.Failures)
		})
	}
}

func TestRunReportsEveryMismatch(t *testing.T) {
	res := Run(Scenario{
		Name:     "wrong",
		Keys:     []string{"1", "+", "1", "="},
		Displays: []string{"1", "1", "1", "3"},
		Expect: Expectation{
			Display: "3",
			State:   "pending_operator",
			History: []string{"1", "+", "1"},
		},
	})

	assert.False(t, res.Passed)
	assert.Equal(t, "2", res.Display)
	assert.Len(t, res.Failures, 4)
	assert.Contains(t, res.Failures[0], "key 3")
}

func TestRunAppliesEngineOptions(t *testing.T) {
	res := Run(Scenario{
		Name:   "capped",
		Keys:   []string{"1", "2", "3"},
		Expect: Expectation{Display: "12"},
	}, engine.WithMaxDigits(2))

	assert.True(t, res.Passed, "failures: %v", res.Failures)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "empty", doc: "scenarios: []", wantErr: "no scenarios"},
		{name: "missing name", doc: "scenarios:\n  - keys: [\"1\"]\n    expect: {display: \"1\"}", wantErr: "name is required"},
		{name: "duplicate", doc: "scenarios:\n  - {name: a, keys: [\"1\"], expect: {display: \"1\"}}\n  - {name: a, keys: [\"1\"], expect: {display: \"1\"}}", wantErr: "duplicate"},
		{name: "no keys", doc: "scenarios:\n  - {name: a, expect: {display: \"1\"}}", wantErr: "keys are required"},
		{name: "no display", doc: "scenarios:\n  - {name: a, keys: [\"1\"]}", wantErr: "expect.display"},
		{name: "display count", doc: "scenarios:\n  - {name: a, keys: [\"1\", \"2\"], displays: [\"1\"], expect: {display: \"12\"}}", wantErr: "1 displays for 2 keys"},
		{name: "unknown field", doc: "scenarios:\n  - {name: a, keys: [\"1\"], expect: {display: \"1\"}, bogus: true}", wantErr: "bogus"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
