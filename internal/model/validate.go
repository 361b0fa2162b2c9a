package model

import "fmt"

// Structural validation error codes (E1xx).
const (
	ErrSpecNoName            = "E101" // machine name is required
	ErrSpecNoAlphabet        = "E102" // alphabet is required
	ErrSpecNoRotors          = "E103" // at least one rotor required
	ErrSpecNoReflectors      = "E104" // at least one reflector required
	ErrSpecRotorCount        = "E105" // rotor count out of range
	ErrSpecRotorIDs          = "E106" // rotor ids not contiguous from 1
	ErrSpecWiringLength      = "E107" // wiring length != alphabet size
	ErrSpecWiringBijection   = "E108" // wiring is not a bijection
	ErrSpecWiringInverse     = "E109" // forward/backward wiring not mutual inverses
	ErrSpecNotchRange        = "E110" // notch index out of range
	ErrSpecReflectorSymmetry = "E111" // reflector mapping not an involution
	ErrSpecReflectorFixpoint = "E112" // reflector maps a contact to itself
)

// SpecError describes one structural defect in a machine definition.
type SpecError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e SpecError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the structural invariants of a machine definition.
// Returns all defects found (does not fail-fast).
//
// A MachineSpec that passes Validate is trusted by every downstream
// layer: the cipher core checks selections against the catalogs but
// never re-checks wiring structure.
func Validate(spec *MachineSpec) []SpecError {
	var errs []SpecError

	if spec.Name == "" {
		errs = append(errs, SpecError{
			Field:   "name",
			Message: "machine name is required",
			Code:    ErrSpecNoName,
		})
	}
	if spec.Alphabet == nil {
		errs = append(errs, SpecError{
			Field:   "alphabet",
			Message: "alphabet is required",
			Code:    ErrSpecNoAlphabet,
		})
		// Every remaining check needs the alphabet size.
		return errs
	}
	n := spec.Alphabet.Len()

	if len(spec.Rotors) == 0 {
		errs = append(errs, SpecError{
			Field:   "rotors",
			Message: "at least one rotor is required",
			Code:    ErrSpecNoRotors,
		})
	}
	if len(spec.Reflectors) == 0 {
		errs = append(errs, SpecError{
			Field:   "reflectors",
			Message: "at least one reflector is required",
			Code:    ErrSpecNoReflectors,
		})
	}
	if spec.RotorCount < 1 || spec.RotorCount > len(spec.Rotors) {
		errs = append(errs, SpecError{
			Field:   "rotor_count",
			Message: fmt.Sprintf("rotor count %d must be between 1 and the catalog size %d", spec.RotorCount, len(spec.Rotors)),
			Code:    ErrSpecRotorCount,
		})
	}

	// Rotor ids must be contiguous from 1 so selections can be described
	// with small stable integers.
	for i, id := range spec.RotorIDs() {
		if id != i+1 {
			errs = append(errs, SpecError{
				Field:   "rotors",
				Message: fmt.Sprintf("rotor ids must be contiguous from 1, found %d at position %d", id, i),
				Code:    ErrSpecRotorIDs,
			})
			break
		}
	}

	for _, id := range spec.RotorIDs() {
		errs = append(errs, validateRotor(spec.Rotors[id], n)...)
	}
	for _, id := range spec.ReflectorIDs() {
		errs = append(errs, validateReflector(spec.Reflectors[id], n)...)
	}

	return errs
}

// validateRotor checks one rotor's wiring against alphabet size n.
func validateRotor(r RotorSpec, n int) []SpecError {
	var errs []SpecError
	field := fmt.Sprintf("rotors[%d]", r.ID)

	if len(r.RightToLeft) != n || len(r.LeftToRight) != n {
		errs = append(errs, SpecError{
			Field:   field,
			Message: fmt.Sprintf("wiring length must equal alphabet size %d, got %d/%d", n, len(r.RightToLeft), len(r.LeftToRight)),
			Code:    ErrSpecWiringLength,
		})
		return errs
	}

	if !isPermutation(r.RightToLeft, n) || !isPermutation(r.LeftToRight, n) {
		errs = append(errs, SpecError{
			Field:   field,
			Message: "wiring must be a bijection over alphabet indices",
			Code:    ErrSpecWiringBijection,
		})
		return errs
	}

	for i := 0; i < n; i++ {
		if r.LeftToRight[r.RightToLeft[i]] != i {
			errs = append(errs, SpecError{
				Field:   field,
				Message: fmt.Sprintf("left-to-right wiring is not the inverse of right-to-left at contact %d", i),
				Code:    ErrSpecWiringInverse,
			})
			break
		}
	}

	if r.Notch < 0 || r.Notch >= n {
		errs = append(errs, SpecError{
			Field:   field,
			Message: fmt.Sprintf("notch index %d out of range [0,%d)", r.Notch, n),
			Code:    ErrSpecNotchRange,
		})
	}

	return errs
}

// validateReflector checks one reflector's mapping against alphabet size n.
func validateReflector(r ReflectorSpec, n int) []SpecError {
	var errs []SpecError
	field := fmt.Sprintf("reflectors[%s]", r.ID)

	if len(r.Mapping) != n {
		errs = append(errs, SpecError{
			Field:   field,
			Message: fmt.Sprintf("mapping length must equal alphabet size %d, got %d", n, len(r.Mapping)),
			Code:    ErrSpecWiringLength,
		})
		return errs
	}
	if !isPermutation(r.Mapping, n) {
		errs = append(errs, SpecError{
			Field:   field,
			Message: "mapping must be a bijection over alphabet indices",
			Code:    ErrSpecWiringBijection,
		})
		return errs
	}

	for i := 0; i < n; i++ {
		if r.Mapping[i] == i {
			errs = append(errs, SpecError{
				Field:   field,
				Message: fmt.Sprintf("contact %d maps to itself", i),
				Code:    ErrSpecReflectorFixpoint,
			})
			break
		}
	}
	for i := 0; i < n; i++ {
		if r.Mapping[r.Mapping[i]] != i {
			errs = append(errs, SpecError{
				Field:   field,
				Message: fmt.Sprintf("mapping is not an involution at contact %d", i),
				Code:    ErrSpecReflectorSymmetry,
			})
			break
		}
	}

	return errs
}

// isPermutation reports whether p is a bijection over 0..n-1.
func isPermutation(p []int, n int) bool {
	if len(p) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
