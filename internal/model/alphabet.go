package model

import "fmt"

// Alphabet is the fixed ordered symbol set a machine operates over.
//
// The size must be even: the reflector is a fixed-point-free involution,
// which cannot exist over an odd number of contacts.
//
// Alphabet is immutable after construction and safe for concurrent reads.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// NewAlphabet builds an Alphabet from an ordered symbol string.
//
// The string must contain at least two symbols, an even number of them,
// and no duplicates.
func NewAlphabet(symbols string) (*Alphabet, error) {
	runes := []rune(symbols)
	if len(runes) < 2 {
		return nil, fmt.Errorf("alphabet must contain at least 2 symbols, got %d", len(runes))
	}
	if len(runes)%2 != 0 {
		return nil, fmt.Errorf("alphabet size must be even for reflector symmetry, got %d", len(runes))
	}

	index := make(map[rune]int, len(runes))
	for i, r := range runes {
		if _, dup := index[r]; dup {
			return nil, fmt.Errorf("duplicate symbol %q at position %d", r, i)
		}
		index[r] = i
	}

	return &Alphabet{symbols: runes, index: index}, nil
}

// Len returns the number of symbols.
func (a *Alphabet) Len() int {
	return len(a.symbols)
}

// Index returns the position of a symbol, and whether it is a member.
func (a *Alphabet) Index(r rune) (int, bool) {
	i, ok := a.index[r]
	return i, ok
}

// Contains reports whether the symbol is a member of the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Symbol returns the symbol at position i.
// Panics if i is out of range; callers hold pre-validated indices.
func (a *Alphabet) Symbol(i int) rune {
	return a.symbols[i]
}

// String returns the alphabet as its ordered symbol string.
func (a *Alphabet) String() string {
	return string(a.symbols)
}
