package cli

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalPrintsDisplay(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "chained", args: []string{"2", "+", "3", "x", "4", "="}, want: "20\n"},
		{name: "joined argument", args: []string{"12.5 + 0.5 ="}, want: "13\n"},
		{name: "divide by zero", args: []string{"5 / 0 ="}, want: "Error\n"},
		{name: "unknown key", args: []string{"4", "sqrt"}, want: "Error\n"},
		{name: "percent", args: []string{"50 %"}, want: "0.5\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, "", append([]string{"eval"}, tc.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestEvalReadsStdin(t *testing.T) {
	out, err := execute(t, "9 -\n4 =\n", "eval")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestEvalWithoutKeys(t *testing.T) {
	_, err := execute(t, "", "eval")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEvalMaxDigits(t *testing.T) {
	out, err := execute(t, "", "--max-digits", "3", "eval", "123456")
	require.NoError(t, err)
	assert.Equal(t, "123\n", out)
}

func TestEvalTraceGolden(t *testing.T) {
	out, err := execute(t, "", "eval", "--trace", "2 + 3 x 4 =")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "eval_trace", []byte(out))
}

func TestEvalJSON(t *testing.T) {
	out, err := execute(t, "", "--format", "json", "eval", "5 / 0 =")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   evalResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Error", resp.Data.Display)
	assert.Equal(t, "error", resp.Data.State)
	assert.Equal(t, "division by zero", resp.Data.Error)
	assert.Equal(t, []string{"5", "/", "0"}, resp.Data.History)
}
