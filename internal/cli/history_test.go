package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeInto records one encode run into the given database.
func encodeInto(t *testing.T, dbPath, token, text string) {
	t.Helper()
	cmd := NewEncodeCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--defs", shippedDefs(),
		"--rotors", "1,2,3",
		"--positions", "AAA",
		"--reflector", "B",
		"--db", dbPath,
		"--token", token,
		text,
	})
	require.NoError(t, cmd.Execute())
}

func TestHistoryListsSessions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "enigma.db")
	encodeInto(t, dbPath, "session-one", "AAAAA")
	encodeInto(t, dbPath, "session-two", "HELLO")

	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "session-one")
	assert.Contains(t, out, "session-two")
	assert.Contains(t, out, "messages=1")
}

func TestHistoryShowsSessionMessages(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "enigma.db")
	encodeInto(t, dbPath, "session-one", "AAAAA")

	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "session-one"})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "AAAAA -> BDZGO")
	assert.Contains(t, out, "window AAA -> AAF")
}

func TestHistoryUnknownSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "enigma.db")
	encodeInto(t, dbPath, "session-one", "AAAAA")

	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "nope"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryRequiresDatabase(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "enigma.db")

	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: "text"}, envDefaults{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "No sessions recorded")
}
