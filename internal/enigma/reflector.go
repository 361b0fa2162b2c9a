package enigma

import "github.com/scherbius/enigma/internal/model"

// Reflector applies a fixed symmetric permutation once per character,
// in the middle of the signal path. Stateless after construction.
type Reflector struct {
	spec model.ReflectorSpec
}

// newReflector wraps a reflector spec for use inside a Code.
func newReflector(spec model.ReflectorSpec) *Reflector {
	return &Reflector{spec: spec}
}

// ID returns the reflector's catalog id.
func (r *Reflector) ID() string {
	return r.spec.ID
}

// Transform maps a contact index through the reflector.
// No direction parameter: the signal passes through exactly once.
func (r *Reflector) Transform(index int) int {
	return r.spec.Mapping[index]
}
