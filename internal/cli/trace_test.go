package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceSingleSymbol(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "1,2,3",
		"--positions", "AAA",
		"--reflector", "B",
		"A",
	})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "A -> B")
	assert.Contains(t, out, "window AAA -> AAB")
	assert.Contains(t, out, "reflector B")
	assert.Contains(t, out, "plugboard")
}

func TestTraceJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "json"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "1,2,3",
		"--positions", "AAA",
		"--reflector", "B",
		"--token", "trace-test",
		"AA",
	})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result TraceResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "trace-test", result.Token)
	assert.Equal(t, "AA", result.Input)
	require.Len(t, result.Traces, 2)

	// Each symbol's trace carries the complete signal path.
	first := result.Traces[0]
	assert.Equal(t, "A", first.Input)
	assert.Len(t, first.Forward, 3)
	assert.Len(t, first.Backward, 3)
	assert.Equal(t, "B", first.Reflector.ReflectorID)
}

func TestTraceRejectsBadSettings(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "1,2,9",
		"--positions", "AAA",
		"--reflector", "B",
		"A",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "UNKNOWN_ROTOR")
}
