// Package enigma implements the rotor cipher engine: the runtime
// rotor/reflector/plugboard model, configuration validation and
// construction, and the per-character signal path.
//
// The engine is a deterministic finite-state machine. Every call to
// Machine.Process steps the rotors, threads the signal
// plugboard → rotors (right to left) → reflector → rotors (left to
// right) → plugboard, and returns the output symbol together with a
// SignalTrace recording every intermediate contact index.
//
// Thread-safety model:
//   - A Machine owns exactly one Code at a time; Configure swaps it
//     atomically (build-then-assign, never field-by-field)
//   - Process and Reset mutate rotor positions and must be serialized
//     by the caller; one logical session = one Machine
//   - Validation never mutates: a failed Configure leaves the previous
//     Code fully usable
//
// INVARIANTS:
//   - Rotor storage order is left to right (index 0 = leftmost window)
//   - Stepping starts at the rightmost rotor and propagates left only
//     while the stepped rotor sat on its notch before advancing
//   - Rotor wiring permutations are mutual inverses; the reflector is a
//     fixed-point-free involution (established by model.Validate)
package enigma
