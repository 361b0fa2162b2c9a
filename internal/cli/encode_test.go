package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scherbius/enigma/internal/store"
)

func TestEncodeReferenceVector(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "1,2,3",
		"--positions", "AAA",
		"--reflector", "B",
		"AAAAA",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "BDZGO\n", buf.String())
}

func TestEncodeNormalizesFreeFormInput(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "json"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "1,2,3",
		"--positions", "AAA",
		"--reflector", "B",
		"--token", "cli-test",
		"aa aaa!",
	})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result EncodeResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "cli-test", result.Token)
	assert.Equal(t, "AAAAA", result.Input)
	assert.Equal(t, "BDZGO", result.Output)
	assert.Equal(t, "AAA", result.WindowBefore)
	assert.Equal(t, "AAF", result.WindowAfter)
	assert.False(t, result.Recorded)
}

func TestEncodeStrictRejectsForeignSymbols(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "1,2,3",
		"--positions", "AAA",
		"--reflector", "B",
		"--strict",
		"AA AA",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "SYMBOL_NOT_IN_ALPHABET")
}

func TestEncodeRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{
			"duplicate rotor",
			[]string{"--rotors", "1,2,2", "--positions", "AAA", "--reflector", "B", "AAAAA"},
			"DUPLICATE_ROTOR",
		},
		{
			"unknown reflector",
			[]string{"--rotors", "1,2,3", "--positions", "AAA", "--reflector", "Q", "AAAAA"},
			"UNKNOWN_REFLECTOR",
		},
		{
			"count mismatch",
			[]string{"--rotors", "1,2", "--positions", "AA", "--reflector", "B", "AAAAA"},
			"COUNT_MISMATCH",
		},
		{
			"plugboard self mapping",
			[]string{"--rotors", "1,2,3", "--positions", "AAA", "--reflector", "B", "--plugboard", "AA", "AAAAA"},
			"PLUGBOARD_SELF_MAPPING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			cmd := NewEncodeCommand(&RootOptions{Format: "text"}, envDefaults{})
			cmd.SetOut(buf)
			cmd.SetArgs(append([]string{"--defs", shippedDefs()}, tt.args...))

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, buf.String(), tt.wantCode)
		})
	}
}

func TestEncodeUnknownMachine(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--machine", "enigma-m4",
		"--rotors", "1,2,3",
		"--positions", "AAA",
		"--reflector", "B",
		"AAAAA",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEncodeRecordsToDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "enigma.db")

	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "1,2,3",
		"--positions", "AAA",
		"--reflector", "B",
		"--db", dbPath,
		"--token", "recorded-session",
		"AAAAA",
	})
	require.NoError(t, cmd.Execute())

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	rec, err := st.ReadSession(ctx, "recorded-session")
	require.NoError(t, err)
	assert.Equal(t, "enigma-i", rec.Machine)
	assert.Equal(t, []int{1, 2, 3}, rec.RotorIDs)

	messages, err := st.ReadMessages(ctx, "recorded-session")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "AAAAA", messages[0].Input)
	assert.Equal(t, "BDZGO", messages[0].Output)
}

func TestEncodeResumesRecordedSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "enigma.db")
	encodeInto(t, dbPath, "resumed-session", "AAAAA")

	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "json"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "1,2,3",
		"--positions", "AAA",
		"--reflector", "B",
		"--db", dbPath,
		"--token", "resumed-session",
		"AAAAA",
	})
	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result EncodeResult
	require.NoError(t, json.Unmarshal(data, &result))

	// The rerun continues the recorded session instead of restarting
	// at seq 1: the rotors resume from AAF and the output equals the
	// second half of one uninterrupted ten-symbol message.
	assert.Equal(t, int64(2), result.Seq)
	assert.Equal(t, "WCXLT", result.Output)
	assert.Equal(t, "AAF", result.WindowBefore)
	assert.Equal(t, "AAK", result.WindowAfter)
	assert.True(t, result.Recorded)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	messages, err := st.ReadMessages(context.Background(), "resumed-session")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "BDZGO", messages[0].Output)
	assert.Equal(t, "WCXLT", messages[1].Output)
}

func TestEncodeRejectsChangedSettingsForRecordedToken(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "enigma.db")
	encodeInto(t, dbPath, "resumed-session", "AAAAA")

	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "3,2,1",
		"--positions", "AAA",
		"--reflector", "B",
		"--db", dbPath,
		"--token", "resumed-session",
		"AAAAA",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "different settings")
}
