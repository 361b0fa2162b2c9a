// Package store provides durable SQLite storage for cipher sessions
// and their processed-message history.
//
// The cipher core never touches this package: it only emits the data a
// caller needs to record history (output symbols, windows, traces), and
// the session layer decides what to persist.
//
// Writes are idempotent (ON CONFLICT DO NOTHING on content-addressed
// ids), so re-recording a message after a crash is harmless. The replay
// audit re-runs a stored session through a fresh machine and compares
// outputs, which is the end-to-end proof that processing is
// deterministic.
package store
