// Package model provides the foundational machine-definition types for
// the simulator.
//
// This package contains type definitions and structural validation only.
// All other internal packages import model; model imports nothing
// internal. This keeps the definition layer free of circular
// dependencies.
//
// Key design constraints:
//   - Definitions are immutable after construction; runtime state lives
//     in the enigma package, never here
//   - Wiring is stored as index permutations, not symbol strings
//   - Canonical JSON (RFC 8785) is the only serialization used for
//     content-addressed identity and golden traces
package model
