package session

import (
	"fmt"
	"math/rand"

	"github.com/scherbius/enigma/internal/enigma"
	"github.com/scherbius/enigma/internal/model"
)

// RandomRequest samples a structurally valid configuration from a
// machine definition: distinct rotors, uniform starting positions, and
// the requested number of disjoint plugboard pairs.
//
// The rng is caller-supplied so sampling stays reproducible under a
// fixed seed. The returned request always passes enigma.Validate.
func RandomRequest(spec *model.MachineSpec, rng *rand.Rand, plugPairs int) (enigma.Request, error) {
	n := spec.Alphabet.Len()
	if plugPairs < 0 || 2*plugPairs > n {
		return enigma.Request{}, fmt.Errorf("cannot wire %d plug pairs over a %d-symbol alphabet", plugPairs, n)
	}

	// Distinct rotors: a prefix of a permutation of the catalog.
	catalog := spec.RotorIDs()
	perm := rng.Perm(len(catalog))
	rotorIDs := make([]int, spec.RotorCount)
	for i := range rotorIDs {
		rotorIDs[i] = catalog[perm[i]]
	}

	positions := make([]rune, spec.RotorCount)
	for i := range positions {
		positions[i] = spec.Alphabet.Symbol(rng.Intn(n))
	}

	// Disjoint plug pairs: consecutive symbols of an alphabet
	// permutation can never collide or self-map.
	plugs := make([]rune, 0, 2*plugPairs)
	if plugPairs > 0 {
		symPerm := rng.Perm(n)
		for i := 0; i < 2*plugPairs; i++ {
			plugs = append(plugs, spec.Alphabet.Symbol(symPerm[i]))
		}
	}

	req := enigma.Request{
		RotorIDs:    rotorIDs,
		Positions:   string(positions),
		ReflectorID: randomReflector(spec, rng),
		Plugboard:   string(plugs),
	}
	if err := enigma.Validate(spec, req); err != nil {
		// Sampling is constructed to be valid; a failure here is a bug.
		return enigma.Request{}, fmt.Errorf("sampled invalid configuration: %w", err)
	}
	return req, nil
}

// randomReflector picks a reflector id uniformly from the catalog.
func randomReflector(spec *model.MachineSpec, rng *rand.Rand) string {
	ids := spec.ReflectorIDs()
	return ids[rng.Intn(len(ids))]
}
