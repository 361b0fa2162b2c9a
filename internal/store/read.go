package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ReadSession retrieves one session by token.
// Returns ErrNotFound if the token is unknown.
func (s *Store) ReadSession(ctx context.Context, token string) (SessionRecord, error) {
	var rec SessionRecord
	var rotorIDs string

	err := s.db.QueryRowContext(ctx, `
		SELECT token, machine, spec_hash, rotor_ids, positions, reflector_id, plugboard, engine_version
		FROM sessions WHERE token = ?
	`, token).Scan(
		&rec.Token,
		&rec.Machine,
		&rec.SpecHash,
		&rotorIDs,
		&rec.Positions,
		&rec.ReflectorID,
		&rec.Plugboard,
		&rec.EngineVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("session %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return rec, fmt.Errorf("read session: %w", err)
	}

	if err := json.Unmarshal([]byte(rotorIDs), &rec.RotorIDs); err != nil {
		return rec, fmt.Errorf("read session: parse rotor ids: %w", err)
	}
	return rec, nil
}

// ListSessions returns all sessions in token order.
func (s *Store) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, machine, spec_hash, rotor_ids, positions, reflector_id, plugboard, engine_version
		FROM sessions ORDER BY token
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var rotorIDs string
		if err := rows.Scan(
			&rec.Token,
			&rec.Machine,
			&rec.SpecHash,
			&rotorIDs,
			&rec.Positions,
			&rec.ReflectorID,
			&rec.Plugboard,
			&rec.EngineVersion,
		); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if err := json.Unmarshal([]byte(rotorIDs), &rec.RotorIDs); err != nil {
			return nil, fmt.Errorf("list sessions: parse rotor ids: %w", err)
		}
		sessions = append(sessions, rec)
	}
	return sessions, rows.Err()
}

// ReadMessages returns a session's messages in seq order.
func (s *Store) ReadMessages(ctx context.Context, sessionToken string) ([]MessageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_token, seq, input, output, window_before, window_after, trace
		FROM messages WHERE session_token = ? ORDER BY seq
	`, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	defer rows.Close()

	var messages []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionToken,
			&rec.Seq,
			&rec.Input,
			&rec.Output,
			&rec.WindowBefore,
			&rec.WindowAfter,
			&rec.TraceJSON,
		); err != nil {
			return nil, fmt.Errorf("read messages: %w", err)
		}
		messages = append(messages, rec)
	}
	return messages, rows.Err()
}

// CountMessages returns the number of messages in a session.
func (s *Store) CountMessages(ctx context.Context, sessionToken string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages WHERE session_token = ?
	`, sessionToken).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}
