// Package session is the orchestration layer above the cipher core.
//
// One Session owns one enigma.Machine. The core provides no
// synchronization, so the Session serializes Encode/Reset calls with a
// mutex and stamps every message with a logical sequence number; the
// Manager maps session tokens to live sessions.
//
// Random configuration sampling lives here too: the core only defines
// what a structurally valid configuration is, the sampling policy is an
// orchestration decision.
package session
