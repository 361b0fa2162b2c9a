package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrConflict is returned when an insert collides with an existing row
// holding different content. Re-inserting an identical record stays a
// silent no-op.
var ErrConflict = errors.New("conflicting record")

// SessionRecord is the persisted snapshot of one configured session:
// the machine it ran on and the full configuration request, enough to
// rebuild the machine for a replay audit.
type SessionRecord struct {
	Token         string `json:"token"`
	Machine       string `json:"machine"`
	SpecHash      string `json:"spec_hash"`
	RotorIDs      []int  `json:"rotor_ids"`
	Positions     string `json:"positions"`
	ReflectorID   string `json:"reflector_id"`
	Plugboard     string `json:"plugboard,omitempty"`
	EngineVersion string `json:"engine_version"`
}

// MessageRecord is one processed message: input, output, the window
// movement, and the canonical per-symbol trace JSON.
type MessageRecord struct {
	ID           string `json:"id"`
	SessionToken string `json:"session_token"`
	Seq          int64  `json:"seq"`
	Input        string `json:"input"`
	Output       string `json:"output"`
	WindowBefore string `json:"window_before"`
	WindowAfter  string `json:"window_after"`
	TraceJSON    string `json:"trace"`
}

// WriteSession inserts a session record.
// Uses ON CONFLICT(token) DO NOTHING for idempotency.
func (s *Store) WriteSession(ctx context.Context, rec SessionRecord) error {
	rotorIDs, err := json.Marshal(rec.RotorIDs)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions
		(token, machine, spec_hash, rotor_ids, positions, reflector_id, plugboard, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		rec.Token,
		rec.Machine,
		rec.SpecHash,
		string(rotorIDs),
		rec.Positions,
		rec.ReflectorID,
		rec.Plugboard,
		rec.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteMessage inserts a message record.
//
// Duplicate writes of the same record after a crash are silently
// ignored: the id is content-addressed and (session, seq) is unique.
// A colliding write with *different* content is never ignored — that
// would lose a message while reporting success — and returns
// ErrConflict instead.
//
// The session referenced by SessionToken must exist (foreign key).
func (s *Store) WriteMessage(ctx context.Context, rec MessageRecord) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages
		(id, session_token, seq, input, output, window_before, window_after, trace)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		rec.ID,
		rec.SessionToken,
		rec.Seq,
		rec.Input,
		rec.Output,
		rec.WindowBefore,
		rec.WindowAfter,
		rec.TraceJSON,
	)
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// The insert was swallowed by ON CONFLICT. Only a true duplicate
	// (same content-addressed id at the same seq) may pass as a no-op.
	var existingID string
	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM messages WHERE session_token = ? AND seq = ?
	`, rec.SessionToken, rec.Seq).Scan(&existingID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("write message: id %s already used by another message: %w", rec.ID, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if existingID != rec.ID {
		return fmt.Errorf("write message: session %s seq %d already holds different content: %w",
			rec.SessionToken, rec.Seq, ErrConflict)
	}
	return nil
}
