package model

import (
	"slices"
	"strings"
)

// RotorSpec defines the fixed wiring of one rotor.
//
// RightToLeft and LeftToRight are parallel permutations over alphabet
// indices, mutual inverses of one another: for all i,
// LeftToRight[RightToLeft[i]] == i. RightToLeft carries the signal from
// the entry (right) side toward the reflector; LeftToRight carries it
// back.
//
// Notch is the window index that, when passed, advances the next rotor
// in the stepping chain.
type RotorSpec struct {
	ID          int   `json:"id"`
	Notch       int   `json:"notch"`
	RightToLeft []int `json:"right_to_left"`
	LeftToRight []int `json:"left_to_right"`
}

// ReflectorSpec defines one reflector: a fixed involution over alphabet
// indices with no fixed point (Mapping[Mapping[i]] == i, Mapping[i] != i).
type ReflectorSpec struct {
	ID      string `json:"id"`
	Mapping []int  `json:"mapping"`
}

// MachineSpec is a complete, already-compiled machine definition: the
// alphabet, the rotor and reflector catalogs, and how many rotor slots
// the machine has.
//
// A MachineSpec is trusted by the cipher core; structural facts
// (bijective wiring, reflector symmetry, contiguous rotor ids) are
// established once by Validate and never re-derived downstream.
type MachineSpec struct {
	Name       string
	Alphabet   *Alphabet
	Rotors     map[int]RotorSpec
	Reflectors map[string]ReflectorSpec
	RotorCount int
}

// RotorIDs returns the catalog's rotor ids in ascending order.
func (m *MachineSpec) RotorIDs() []int {
	ids := make([]int, 0, len(m.Rotors))
	for id := range m.Rotors {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ReflectorIDs returns the catalog's reflector ids in lexical order.
func (m *MachineSpec) ReflectorIDs() []string {
	ids := make([]string, 0, len(m.Reflectors))
	for id := range m.Reflectors {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, strings.Compare)
	return ids
}
