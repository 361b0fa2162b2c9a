// Package harness provides a conformance testing framework for the
// cipher engine.
//
// A scenario is a YAML file naming a machine definition, a
// configuration request, and a list of steps (encode text, reset) with
// expected outputs and window positions. The harness runs the scenario
// through a real Session and produces an ordered trace of events; the
// trace serializes to canonical JSON and is compared against golden
// fixtures under testdata/golden.
//
// Scenarios run against the engine itself, not a mock: every expected
// output in a scenario file is an independent, literal regression
// vector for the stepping and signal-path implementation.
package harness
