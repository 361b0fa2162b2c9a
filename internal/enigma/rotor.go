package enigma

import "github.com/scherbius/enigma/internal/model"

// Direction selects which wiring permutation a rotor applies.
type Direction int

const (
	// Forward is the entry pass: right side toward the reflector.
	Forward Direction = iota
	// Backward is the return pass: reflector back toward the exit.
	Backward
)

// Rotor is one runtime rotor: a fixed wiring spec plus the mutable
// window position. Created at configuration time, mutated only by
// Advance during processing, and owned by exactly one Code.
type Rotor struct {
	spec     model.RotorSpec
	size     int
	position int
}

// newRotor creates a rotor at the given initial window position.
// The position is pre-validated by the configuration builder.
func newRotor(spec model.RotorSpec, size, position int) *Rotor {
	return &Rotor{spec: spec, size: size, position: position}
}

// ID returns the rotor's catalog id.
func (r *Rotor) ID() int {
	return r.spec.ID
}

// Position returns the index currently at the window.
func (r *Rotor) Position() int {
	return r.position
}

// SetPosition moves the rotor directly to a window position.
// Used at configuration and reset time, never during processing.
func (r *Rotor) SetPosition(position int) {
	r.position = position
}

// Advance rotates the rotor one step.
//
// Returns true iff the rotor sat exactly on its notch BEFORE the
// increment. The pre-increment check is what produces the historical
// double-stepping behavior: the caller keeps propagating leftward only
// while Advance reports true.
func (r *Rotor) Advance() bool {
	atNotch := r.position == r.spec.Notch
	r.position = (r.position + 1) % r.size
	return atNotch
}

// Transform maps a contact index through the rotor's wiring.
//
// The +position / -position offsets model the physical rotation of the
// wiring core relative to the fixed entry contacts; this is the only
// way position influences the substitution.
func (r *Rotor) Transform(index int, dir Direction) int {
	shifted := (index + r.position) % r.size
	var out int
	if dir == Forward {
		out = r.spec.RightToLeft[shifted]
	} else {
		out = r.spec.LeftToRight[shifted]
	}
	return (out - r.position + r.size) % r.size
}
