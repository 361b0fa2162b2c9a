// Package compiler turns CUE machine-definition files into
// model.MachineSpec values.
//
// A definition file declares one or more machines under the "machine"
// field:
//
//	machine: "enigma-i": {
//		alphabet:    "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
//		rotor_count: 3
//		rotors: "1": {wiring: "EKMFLGDQVZNTOWYHXUSPAIBRCJ", notch: "Q"}
//		reflectors: "B": {wiring: "YRUHQSLDPXNGOKMIEBFZCWVJAT"}
//	}
//
// Wiring is written as the output symbol at each contact, in alphabet
// order; the compiler derives the index permutations and their
// inverses. Structural legality (bijective wiring, reflector symmetry)
// is checked by model.Validate after compilation, so everything past
// this package trusts the definition.
package compiler
