package compiler

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/scherbius/enigma/internal/model"
)

// CompileError reports a defect in a CUE machine definition, with the
// source position when CUE can provide one.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileMachines parses every machine declared under the "machine"
// field of a CUE value. Uses the CUE SDK's Go API directly, not a CLI
// subprocess.
func CompileMachines(v cue.Value) ([]*model.MachineSpec, error) {
	if err := v.Err(); err != nil {
		return nil, &CompileError{Field: "machine", Message: err.Error(), Pos: v.Pos()}
	}

	machinesVal := v.LookupPath(cue.ParsePath("machine"))
	if !machinesVal.Exists() {
		return nil, &CompileError{Field: "machine", Message: "no machine definitions found", Pos: v.Pos()}
	}

	iter, err := machinesVal.Fields()
	if err != nil {
		return nil, &CompileError{Field: "machine", Message: err.Error(), Pos: machinesVal.Pos()}
	}

	var specs []*model.MachineSpec
	for iter.Next() {
		spec, err := CompileMachine(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, &CompileError{Field: "machine", Message: "no machine definitions found", Pos: machinesVal.Pos()}
	}
	return specs, nil
}

// CompileMachine parses one machine definition struct and checks its
// structural invariants, failing on the first defect. Use Validate for
// the collect-all-errors path.
func CompileMachine(name string, v cue.Value) (*model.MachineSpec, error) {
	spec, err := parseMachine(name, v)
	if err != nil {
		return nil, err
	}
	if errs := model.Validate(spec); len(errs) > 0 {
		// Report the first structural defect with the definition's position.
		return nil, &CompileError{Field: "machine." + name + "." + errs[0].Field, Message: errs[0].Message, Pos: v.Pos()}
	}
	return spec, nil
}

// parseMachine parses a machine struct without structural validation.
func parseMachine(name string, v cue.Value) (*model.MachineSpec, error) {
	field := "machine." + name

	alphabetStr, err := requireString(v, "alphabet", field)
	if err != nil {
		return nil, err
	}
	alphabet, aerr := model.NewAlphabet(alphabetStr)
	if aerr != nil {
		return nil, &CompileError{Field: field + ".alphabet", Message: aerr.Error(), Pos: v.Pos()}
	}

	rotorCount, err := requireInt(v, "rotor_count", field)
	if err != nil {
		return nil, err
	}

	rotors, err := compileRotors(v, alphabet, field)
	if err != nil {
		return nil, err
	}
	reflectors, err := compileReflectors(v, alphabet, field)
	if err != nil {
		return nil, err
	}

	return &model.MachineSpec{
		Name:       name,
		Alphabet:   alphabet,
		Rotors:     rotors,
		Reflectors: reflectors,
		RotorCount: int(rotorCount),
	}, nil
}

// compileRotors parses the rotors struct: catalog id -> wiring + notch.
func compileRotors(v cue.Value, alphabet *model.Alphabet, field string) (map[int]model.RotorSpec, error) {
	rotorsVal := v.LookupPath(cue.ParsePath("rotors"))
	if !rotorsVal.Exists() {
		return nil, &CompileError{Field: field + ".rotors", Message: "rotors are required", Pos: v.Pos()}
	}
	iter, err := rotorsVal.Fields()
	if err != nil {
		return nil, &CompileError{Field: field + ".rotors", Message: err.Error(), Pos: rotorsVal.Pos()}
	}

	rotors := make(map[int]model.RotorSpec)
	for iter.Next() {
		label := iter.Label()
		rotorField := fmt.Sprintf("%s.rotors[%s]", field, label)

		id, convErr := strconv.Atoi(label)
		if convErr != nil {
			return nil, &CompileError{Field: rotorField, Message: "rotor id must be a positive integer label", Pos: iter.Value().Pos()}
		}

		wiring, werr := requireString(iter.Value(), "wiring", rotorField)
		if werr != nil {
			return nil, werr
		}
		rtl, ltr, perr := wiringTables(alphabet, wiring)
		if perr != nil {
			return nil, &CompileError{Field: rotorField + ".wiring", Message: perr.Error(), Pos: iter.Value().Pos()}
		}

		notchStr, nerr := requireString(iter.Value(), "notch", rotorField)
		if nerr != nil {
			return nil, nerr
		}
		notchRunes := []rune(notchStr)
		if len(notchRunes) != 1 {
			return nil, &CompileError{Field: rotorField + ".notch", Message: "notch must be a single symbol", Pos: iter.Value().Pos()}
		}
		notch, ok := alphabet.Index(notchRunes[0])
		if !ok {
			return nil, &CompileError{Field: rotorField + ".notch", Message: fmt.Sprintf("notch symbol %q not in alphabet", notchRunes[0]), Pos: iter.Value().Pos()}
		}

		rotors[id] = model.RotorSpec{ID: id, Notch: notch, RightToLeft: rtl, LeftToRight: ltr}
	}
	return rotors, nil
}

// compileReflectors parses the reflectors struct: id -> wiring.
func compileReflectors(v cue.Value, alphabet *model.Alphabet, field string) (map[string]model.ReflectorSpec, error) {
	reflectorsVal := v.LookupPath(cue.ParsePath("reflectors"))
	if !reflectorsVal.Exists() {
		return nil, &CompileError{Field: field + ".reflectors", Message: "reflectors are required", Pos: v.Pos()}
	}
	iter, err := reflectorsVal.Fields()
	if err != nil {
		return nil, &CompileError{Field: field + ".reflectors", Message: err.Error(), Pos: reflectorsVal.Pos()}
	}

	reflectors := make(map[string]model.ReflectorSpec)
	for iter.Next() {
		id := iter.Label()
		reflField := fmt.Sprintf("%s.reflectors[%s]", field, id)

		wiring, werr := requireString(iter.Value(), "wiring", reflField)
		if werr != nil {
			return nil, werr
		}
		mapping, _, perr := wiringTables(alphabet, wiring)
		if perr != nil {
			return nil, &CompileError{Field: reflField + ".wiring", Message: perr.Error(), Pos: iter.Value().Pos()}
		}
		reflectors[id] = model.ReflectorSpec{ID: id, Mapping: mapping}
	}
	return reflectors, nil
}

// wiringTables converts a wiring string into the forward permutation
// and its inverse. Symbols must all be alphabet members; bijectivity is
// re-checked structurally by model.Validate.
func wiringTables(alphabet *model.Alphabet, wiring string) (rtl, ltr []int, err error) {
	runes := []rune(wiring)
	n := alphabet.Len()
	if len(runes) != n {
		return nil, nil, fmt.Errorf("wiring length %d does not match alphabet size %d", len(runes), n)
	}
	rtl = make([]int, n)
	ltr = make([]int, n)
	seen := make([]bool, n)
	for i, r := range runes {
		out, ok := alphabet.Index(r)
		if !ok {
			return nil, nil, fmt.Errorf("wiring symbol %q not in alphabet", r)
		}
		if seen[out] {
			return nil, nil, fmt.Errorf("wiring symbol %q appears twice", r)
		}
		seen[out] = true
		rtl[i] = out
		ltr[out] = i
	}
	return rtl, ltr, nil
}

// requireString reads a required string field from a CUE struct.
func requireString(v cue.Value, name, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", &CompileError{Field: field + "." + name, Message: name + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: field + "." + name, Message: err.Error(), Pos: fv.Pos()}
	}
	return s, nil
}

// requireInt reads a required integer field from a CUE struct.
func requireInt(v cue.Value, name, field string) (int64, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return 0, &CompileError{Field: field + "." + name, Message: name + " is required", Pos: v.Pos()}
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, &CompileError{Field: field + "." + name, Message: err.Error(), Pos: fv.Pos()}
	}
	return n, nil
}
