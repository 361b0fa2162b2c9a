package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scherbius/enigma/internal/enigma"
	"github.com/scherbius/enigma/internal/testutil"
)

func TestRandomRequestAlwaysValid(t *testing.T) {
	spec := testutil.EnigmaI()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		req, err := RandomRequest(spec, rng, 3)
		require.NoError(t, err)
		require.NoError(t, enigma.Validate(spec, req))

		assert.Len(t, req.RotorIDs, 3)
		assert.Len(t, req.Positions, 3)
		assert.Len(t, req.Plugboard, 6)
	}
}

func TestRandomRequestDeterministicUnderSeed(t *testing.T) {
	spec := testutil.EnigmaI()

	first, err := RandomRequest(spec, rand.New(rand.NewSource(42)), 2)
	require.NoError(t, err)
	second, err := RandomRequest(spec, rand.New(rand.NewSource(42)), 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRandomRequestNoPlugboard(t *testing.T) {
	spec := testutil.EnigmaI()

	req, err := RandomRequest(spec, rand.New(rand.NewSource(7)), 0)
	require.NoError(t, err)
	assert.Empty(t, req.Plugboard)
}

func TestRandomRequestRejectsImpossiblePairCounts(t *testing.T) {
	spec := testutil.EnigmaI()
	rng := rand.New(rand.NewSource(1))

	_, err := RandomRequest(spec, rng, -1)
	assert.Error(t, err)

	// 14 pairs would need 28 symbols from a 26-symbol alphabet.
	_, err = RandomRequest(spec, rng, 14)
	assert.Error(t, err)
}

func TestRandomRequestCoversCatalog(t *testing.T) {
	// Over many samples every rotor and reflector should appear.
	spec := testutil.EnigmaI()
	rng := rand.New(rand.NewSource(3))

	rotors := make(map[int]bool)
	reflectors := make(map[string]bool)
	for i := 0; i < 300; i++ {
		req, err := RandomRequest(spec, rng, 0)
		require.NoError(t, err)
		for _, id := range req.RotorIDs {
			rotors[id] = true
		}
		reflectors[req.ReflectorID] = true
	}

	assert.Len(t, rotors, 5)
	assert.Len(t, reflectors, 3)
}
