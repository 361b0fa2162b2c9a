// Package testutil provides shared fixtures for tests: the historical
// Enigma I machine definition constructed in-memory, so core, store,
// and CLI tests agree on one well-known reference machine.
package testutil

import (
	"fmt"

	"github.com/scherbius/enigma/internal/model"
)

// Latin is the 26-letter alphabet of the historical machines.
const Latin = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Historical Enigma I rotor wiring, entry side right to left.
// The notch letter is the window position whose passing advances the
// next rotor in the chain.
var enigmaIRotors = []struct {
	wiring string
	notch  rune
}{
	{"EKMFLGDQVZNTOWYHXUSPAIBRCJ", 'Q'}, // I
	{"AJDKSIRUXBLHWTMCQGZNPYFVOE", 'E'}, // II
	{"BDFHJLCPRTXVZNYEIWGAKMUSQO", 'V'}, // III
	{"ESOVPZJAYQUIRHXLNFTGKDCMWB", 'J'}, // IV
	{"VZBRGITYUPSDNHLXAWMJQOFECK", 'Z'}, // V
}

// Historical Enigma I reflector wiring.
var enigmaIReflectors = map[string]string{
	"A": "EJMZALYXVBWFCRQUONTSPIKHGD",
	"B": "YRUHQSLDPXNGOKMIEBFZCWVJAT",
	"C": "FVPJIAOYEDRZXWGCTKUQSBNMHL",
}

// EnigmaI builds the complete Enigma I definition: rotors I-V,
// reflectors A/B/C, three rotor slots. Panics on construction failure;
// the wiring tables above are constants.
func EnigmaI() *model.MachineSpec {
	alphabet, err := model.NewAlphabet(Latin)
	if err != nil {
		panic(fmt.Sprintf("testutil: bad alphabet: %v", err))
	}

	rotors := make(map[int]model.RotorSpec, len(enigmaIRotors))
	for i, r := range enigmaIRotors {
		rtl, ltr := wiringTables(alphabet, r.wiring)
		notch, _ := alphabet.Index(r.notch)
		rotors[i+1] = model.RotorSpec{
			ID:          i + 1,
			Notch:       notch,
			RightToLeft: rtl,
			LeftToRight: ltr,
		}
	}

	reflectors := make(map[string]model.ReflectorSpec, len(enigmaIReflectors))
	for id, wiring := range enigmaIReflectors {
		mapping, _ := wiringTables(alphabet, wiring)
		reflectors[id] = model.ReflectorSpec{ID: id, Mapping: mapping}
	}

	spec := &model.MachineSpec{
		Name:       "enigma-i",
		Alphabet:   alphabet,
		Rotors:     rotors,
		Reflectors: reflectors,
		RotorCount: 3,
	}
	if errs := model.Validate(spec); len(errs) > 0 {
		panic(fmt.Sprintf("testutil: invalid Enigma I fixture: %v", errs[0]))
	}
	return spec
}

// wiringTables converts a wiring string (output symbol at each contact)
// into the forward permutation and its inverse.
func wiringTables(alphabet *model.Alphabet, wiring string) (rtl, ltr []int) {
	n := alphabet.Len()
	rtl = make([]int, n)
	ltr = make([]int, n)
	for i, r := range wiring {
		out, ok := alphabet.Index(r)
		if !ok {
			panic(fmt.Sprintf("testutil: wiring symbol %q not in alphabet", r))
		}
		rtl[i] = out
		ltr[out] = i
	}
	return rtl, ltr
}
