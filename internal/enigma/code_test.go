package enigma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scherbius/enigma/internal/testutil"
)

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	spec := testutil.EnigmaI()

	tests := []struct {
		name string
		req  Request
	}{
		{"no plugboard", Request{RotorIDs: []int{1, 2, 3}, Positions: "AAA", ReflectorID: "B"}},
		{"with plugboard", Request{RotorIDs: []int{2, 4, 5}, Positions: "BLA", ReflectorID: "C", Plugboard: "AQBZ"}},
		{"reversed rotor order", Request{RotorIDs: []int{3, 2, 1}, Positions: "ZZZ", ReflectorID: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Validate(spec, tt.req))
		})
	}
}

func TestValidateRejections(t *testing.T) {
	spec := testutil.EnigmaI()

	tests := []struct {
		name     string
		req      Request
		wantCode ConfigErrorCode
	}{
		{
			"no rotors",
			Request{Positions: "AAA", ReflectorID: "B"},
			ErrCodeMissingField,
		},
		{
			"no positions",
			Request{RotorIDs: []int{1, 2, 3}, ReflectorID: "B"},
			ErrCodeMissingField,
		},
		{
			"no reflector",
			Request{RotorIDs: []int{1, 2, 3}, Positions: "AAA"},
			ErrCodeMissingField,
		},
		{
			"two rotors for three slots",
			Request{RotorIDs: []int{1, 2}, Positions: "AA", ReflectorID: "B"},
			ErrCodeCountMismatch,
		},
		{
			"position count mismatch",
			Request{RotorIDs: []int{1, 2, 3}, Positions: "AA", ReflectorID: "B"},
			ErrCodeCountMismatch,
		},
		{
			"rotor not in catalog",
			Request{RotorIDs: []int{1, 2, 9}, Positions: "AAA", ReflectorID: "B"},
			ErrCodeUnknownRotor,
		},
		{
			"duplicate rotor",
			Request{RotorIDs: []int{1, 2, 2}, Positions: "AAA", ReflectorID: "B"},
			ErrCodeDuplicateRotor,
		},
		{
			"reflector not in catalog",
			Request{RotorIDs: []int{1, 2, 3}, Positions: "AAA", ReflectorID: "Q"},
			ErrCodeUnknownReflector,
		},
		{
			"position outside alphabet",
			Request{RotorIDs: []int{1, 2, 3}, Positions: "AA?", ReflectorID: "B"},
			ErrCodeSymbolNotInAlphabet,
		},
		{
			"plugboard odd length",
			Request{RotorIDs: []int{1, 2, 3}, Positions: "AAA", ReflectorID: "B", Plugboard: "ABC"},
			ErrCodePlugboardOddLength,
		},
		{
			"plugboard symbol outside alphabet",
			Request{RotorIDs: []int{1, 2, 3}, Positions: "AAA", ReflectorID: "B", Plugboard: "A?"},
			ErrCodePlugboardUnknownSymbol,
		},
		{
			"plugboard self mapping",
			Request{RotorIDs: []int{1, 2, 3}, Positions: "AAA", ReflectorID: "B", Plugboard: "AA"},
			ErrCodePlugboardSelfMapping,
		},
		{
			"plugboard duplicate symbol",
			Request{RotorIDs: []int{1, 2, 3}, Positions: "AAA", ReflectorID: "B", Plugboard: "ABAC"},
			ErrCodePlugboardDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(spec, tt.req)
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
			assert.Equal(t, tt.wantCode, ConfigCode(err))
		})
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	spec := testutil.EnigmaI()

	// Duplicate rotor AND unknown reflector AND bad plugboard: the
	// rotor check runs first, so its code is the one reported.
	err := Validate(spec, Request{
		RotorIDs:    []int{1, 1, 3},
		Positions:   "AAA",
		ReflectorID: "Q",
		Plugboard:   "AA",
	})
	require.Error(t, err)
	assert.Equal(t, ErrCodeDuplicateRotor, ConfigCode(err))
}

func TestNewCodeSnapshotAccessors(t *testing.T) {
	spec := testutil.EnigmaI()
	code, err := NewCode(spec, Request{
		RotorIDs:    []int{2, 4, 5},
		Positions:   "BLA",
		ReflectorID: "C",
		Plugboard:   "AQBZ",
	})
	require.NoError(t, err)

	assert.Equal(t, "BLA", code.Window())
	assert.Equal(t, "BLA", code.InitialWindow())
	assert.Equal(t, []int{2, 4, 5}, code.RotorIDs())
	assert.Equal(t, "C", code.ReflectorID())
	assert.Equal(t, []string{"AQ", "BZ"}, code.PlugboardPairs())
}

func TestNewCodeRejectsInvalidRequest(t *testing.T) {
	spec := testutil.EnigmaI()
	code, err := NewCode(spec, Request{RotorIDs: []int{1, 2, 3}, Positions: "AAA", ReflectorID: "X"})
	require.Error(t, err)
	assert.Nil(t, code)
}

func TestCodeRequestRoundTrip(t *testing.T) {
	spec := testutil.EnigmaI()
	req := Request{RotorIDs: []int{3, 1, 2}, Positions: "QEV", ReflectorID: "B", Plugboard: "AQBZ"}

	code, err := NewCode(spec, req)
	require.NoError(t, err)
	assert.Equal(t, req, code.Request())

	// The reconstructed request reports as-configured positions even
	// after the rotors have moved.
	m := NewMachine()
	m.Configure(code)
	_, _, err = m.Process('A')
	require.NoError(t, err)
	assert.Equal(t, "QEV", code.Request().Positions)
}
