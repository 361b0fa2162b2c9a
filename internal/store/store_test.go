package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "enigma.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleSession(token string) SessionRecord {
	return SessionRecord{
		Token:         token,
		Machine:       "enigma-i",
		SpecHash:      "aaaa1111",
		RotorIDs:      []int{1, 2, 3},
		Positions:     "AAA",
		ReflectorID:   "B",
		Plugboard:     "AQBZ",
		EngineVersion: "0.3.0",
	}
}

func sampleMessage(token string, seq int64) MessageRecord {
	return MessageRecord{
		ID:           "msg-" + token + "-" + string(rune('0'+seq)),
		SessionToken: token,
		Seq:          seq,
		Input:        "AAAAA",
		Output:       "BDZGO",
		WindowBefore: "AAA",
		WindowAfter:  "AAF",
		TraceJSON:    "[]",
	}
}

func TestWriteAndReadSession(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rec := sampleSession("tok-1")
	require.NoError(t, st.WriteSession(ctx, rec))

	got, err := st.ReadSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestReadSessionNotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.ReadSession(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWriteSessionIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rec := sampleSession("tok-1")
	require.NoError(t, st.WriteSession(ctx, rec))

	// Re-inserting the same token is a no-op, not an error, and does
	// not overwrite the original row.
	dup := rec
	dup.Positions = "ZZZ"
	require.NoError(t, st.WriteSession(ctx, dup))

	got, err := st.ReadSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "AAA", got.Positions)
}

func TestListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteSession(ctx, sampleSession("tok-b")))
	require.NoError(t, st.WriteSession(ctx, sampleSession("tok-a")))

	sessions, err := st.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "tok-a", sessions[0].Token)
	assert.Equal(t, "tok-b", sessions[1].Token)
}

func TestWriteAndReadMessages(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteSession(ctx, sampleSession("tok-1")))
	require.NoError(t, st.WriteMessage(ctx, sampleMessage("tok-1", 2)))
	require.NoError(t, st.WriteMessage(ctx, sampleMessage("tok-1", 1)))

	messages, err := st.ReadMessages(ctx, "tok-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, int64(1), messages[0].Seq)
	assert.Equal(t, int64(2), messages[1].Seq)

	count, err := st.CountMessages(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWriteMessageIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteSession(ctx, sampleSession("tok-1")))
	msg := sampleMessage("tok-1", 1)
	require.NoError(t, st.WriteMessage(ctx, msg))
	require.NoError(t, st.WriteMessage(ctx, msg))

	count, err := st.CountMessages(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWriteMessageRejectsConflictingContent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteSession(ctx, sampleSession("tok-1")))
	require.NoError(t, st.WriteMessage(ctx, sampleMessage("tok-1", 1)))

	// A second message claiming seq 1 with different content must not
	// be swallowed as a duplicate: silently dropping it would lose the
	// message while the caller believes it was stored.
	forged := sampleMessage("tok-1", 1)
	forged.ID = "msg-tok-1-forged"
	forged.Output = "XXXXX"

	err := st.WriteMessage(ctx, forged)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))

	messages, err := st.ReadMessages(ctx, "tok-1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "BDZGO", messages[0].Output)
}

func TestOpenIsIdempotentOnExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enigma.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.WriteSession(context.Background(), sampleSession("tok-1")))
	require.NoError(t, st.Close())

	// Reopening applies the schema again without clobbering data.
	st2, err := Open(path)
	require.NoError(t, err)
	defer st2.Close()

	got, err := st2.ReadSession(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "enigma-i", got.Machine)
}
