package enigma

import "github.com/scherbius/enigma/internal/model"

// Plugboard is an involutive partial permutation built from disjoint
// swapped symbol pairs. The default (no cables) is the identity, and a
// machine with an identity plugboard is indistinguishable from one with
// no plugboard at all.
type Plugboard struct {
	mapping []int
	pairs   []string
}

// newIdentityPlugboard builds a plugboard with no cables.
func newIdentityPlugboard(size int) *Plugboard {
	mapping := make([]int, size)
	for i := range mapping {
		mapping[i] = i
	}
	return &Plugboard{mapping: mapping}
}

// newPlugboard builds a plugboard from a pre-validated pair string:
// consecutive symbol pairs, e.g. "AQBZ" swaps A<->Q and B<->Z.
func newPlugboard(alphabet *model.Alphabet, pairs string) *Plugboard {
	p := newIdentityPlugboard(alphabet.Len())
	runes := []rune(pairs)
	for i := 0; i+1 < len(runes); i += 2 {
		a, _ := alphabet.Index(runes[i])
		b, _ := alphabet.Index(runes[i+1])
		p.mapping[a] = b
		p.mapping[b] = a
		p.pairs = append(p.pairs, string(runes[i:i+2]))
	}
	return p
}

// Transform returns the paired index if the symbol is swapped, else the
// index unchanged. Applied exactly twice per character: once before the
// forward rotor pass and once after the backward pass.
func (p *Plugboard) Transform(index int) int {
	return p.mapping[index]
}

// Pairs returns the configured swap pairs as two-symbol strings, in
// configuration order. Empty for the identity plugboard.
func (p *Plugboard) Pairs() []string {
	out := make([]string, len(p.pairs))
	copy(out, p.pairs)
	return out
}
