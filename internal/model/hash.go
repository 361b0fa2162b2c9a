package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainMessage = "enigma/message/v1"
	DomainMachine = "enigma/machine/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// MessageID computes a content-addressed id for one processed message.
// The id is stable across restarts and replays given the same inputs,
// which is what makes the replay audit meaningful.
func MessageID(sessionToken string, seq int64, input, output string) (string, error) {
	obj := map[string]any{
		"session": sessionToken,
		"seq":     seq,
		"input":   input,
		"output":  output,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("MessageID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMessage, canonical), nil
}

// SpecHash computes a content-addressed hash of a machine definition.
// Stored alongside sessions so history can detect definition drift.
func SpecHash(spec *MachineSpec) (string, error) {
	rotors := make([]any, 0, len(spec.Rotors))
	for _, id := range spec.RotorIDs() {
		r := spec.Rotors[id]
		rotors = append(rotors, map[string]any{
			"id":            r.ID,
			"notch":         r.Notch,
			"right_to_left": r.RightToLeft,
			"left_to_right": r.LeftToRight,
		})
	}
	reflectors := make([]any, 0, len(spec.Reflectors))
	for _, id := range spec.ReflectorIDs() {
		r := spec.Reflectors[id]
		reflectors = append(reflectors, map[string]any{
			"id":      r.ID,
			"mapping": r.Mapping,
		})
	}

	obj := map[string]any{
		"name":        spec.Name,
		"alphabet":    spec.Alphabet.String(),
		"rotor_count": spec.RotorCount,
		"rotors":      rotors,
		"reflectors":  reflectors,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMachine, canonical), nil
}
