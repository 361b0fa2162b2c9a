package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scherbius/enigma/internal/model"
)

func TestValidateMachinesCleanDefs(t *testing.T) {
	v := cuecontext.New().CompileString(validDefs)
	require.NoError(t, v.Err())

	assert.Empty(t, ValidateMachines(v))
}

func TestValidateMachinesCollectsAcrossMachines(t *testing.T) {
	// One machine with a parse defect, one with a structural defect:
	// validation reports both instead of stopping at the first.
	src := `
machine: "broken-parse": {
	alphabet:    "ABCD"
	rotor_count: 1
	rotors: "1": {notch: "A"}
	reflectors: "R": {wiring: "BADC"}
}
machine: "broken-reflector": {
	alphabet:    "ABCD"
	rotor_count: 1
	rotors: "1": {wiring: "BCDA", notch: "A"}
	reflectors: "R": {wiring: "ABDC"}
}
`
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())

	errs := ValidateMachines(v)
	require.Len(t, errs, 2)

	machines := map[string]string{}
	for _, e := range errs {
		machines[e.Machine] = e.Code
	}
	assert.Equal(t, ErrMissingField, machines["broken-parse"])
	assert.Equal(t, model.ErrSpecReflectorFixpoint, machines["broken-reflector"])
}

func TestValidateMachinesCollectsMultipleStructuralDefects(t *testing.T) {
	// Reflector with a fixed point AND rotor count above the catalog
	// size: both structural codes surface in one pass.
	src := `
machine: "m": {
	alphabet:    "ABCD"
	rotor_count: 2
	rotors: "1": {wiring: "BCDA", notch: "A"}
	reflectors: "R": {wiring: "ABDC"}
}
`
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())

	errs := ValidateMachines(v)
	require.Len(t, errs, 2)

	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.Contains(t, codes, model.ErrSpecRotorCount)
	assert.Contains(t, codes, model.ErrSpecReflectorFixpoint)
}

func TestValidateMachinesNoMachineField(t *testing.T) {
	v := cuecontext.New().CompileString(`other: true`)
	require.NoError(t, v.Err())

	errs := ValidateMachines(v)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrMissingField, errs[0].Code)
	assert.Equal(t, "machine", errs[0].Field)
}
