package enigma

import "fmt"

// Machine is the cipher orchestrator. It holds the single current Code
// and advances it one character at a time.
//
// Lifecycle: Unconfigured until the first Configure call, Configured
// afterwards. Configure may be called again at any time and replaces
// the whole Code atomically; there is no partially-applied state.
//
// Process is synchronous and fully completes before returning: there is
// no queue, no suspension, and no internal parallelism. Callers that
// share a Machine across goroutines must serialize access themselves.
type Machine struct {
	code *Code
}

// NewMachine creates an unconfigured machine.
func NewMachine() *Machine {
	return &Machine{}
}

// Configure installs a configuration, replacing any previous one.
// The swap is atomic: the new Code is fully built before assignment,
// and no rotor object is ever shared between old and new Codes.
func (m *Machine) Configure(code *Code) {
	m.code = code
}

// IsConfigured reports whether the machine holds a configuration.
func (m *Machine) IsConfigured() bool {
	return m.code != nil
}

// Code returns the current configuration for read-only snapshot access
// (rotor ids, window, reflector id, plugboard pairs). Nil before the
// first Configure.
func (m *Machine) Code() *Code {
	return m.code
}

// Process enciphers one symbol and returns the output together with the
// full signal trace.
//
// The rotors step BEFORE the signal path, mimicking the mechanical
// key press: starting at the rightmost rotor, each rotor advances, and
// propagation continues leftward only while the advanced rotor sat on
// its notch before moving. Because the notch check happens before the
// increment, a middle rotor sitting on its notch advances its left
// neighbor and itself in the same keystroke.
//
// Returns a StateError before the first Configure, and a ConfigError
// with code SYMBOL_NOT_IN_ALPHABET for symbols outside the alphabet.
func (m *Machine) Process(input rune) (rune, *SignalTrace, error) {
	if m.code == nil {
		return 0, nil, &StateError{Op: "process"}
	}
	c := m.code

	index, ok := c.alphabet.Index(input)
	if !ok {
		return 0, nil, &ConfigError{
			Code:    ErrCodeSymbolNotInAlphabet,
			Field:   "input",
			Message: fmt.Sprintf("symbol %q is not in the alphabet", input),
		}
	}

	trace := &SignalTrace{
		Input:        string(input),
		WindowBefore: c.Window(),
	}

	// Stepping phase. Rightmost rotor first, carry propagates left.
	for i := len(c.rotors) - 1; i >= 0; i-- {
		carry := c.rotors[i].Advance()
		trace.Advanced = append(trace.Advanced, AdvancedRotor{
			RotorID:  c.rotors[i].ID(),
			Position: c.rotors[i].Position(),
		})
		if !carry {
			break
		}
	}

	// Entry plugboard.
	signal := c.plugboard.Transform(index)
	trace.PlugboardIn = PlugboardStep{Entry: index, Exit: signal}

	// Forward pass: rightmost rotor down to leftmost.
	for i := len(c.rotors) - 1; i >= 0; i-- {
		out := c.rotors[i].Transform(signal, Forward)
		trace.Forward = append(trace.Forward, RotorStep{
			RotorID: c.rotors[i].ID(),
			Slot:    i,
			Entry:   signal,
			Exit:    out,
		})
		signal = out
	}

	// Reflector.
	out := c.reflector.Transform(signal)
	trace.Reflector = ReflectorStep{
		ReflectorID: c.reflector.ID(),
		Entry:       signal,
		Exit:        out,
	}
	signal = out

	// Backward pass: leftmost rotor up to rightmost.
	for i := 0; i < len(c.rotors); i++ {
		out := c.rotors[i].Transform(signal, Backward)
		trace.Backward = append(trace.Backward, RotorStep{
			RotorID: c.rotors[i].ID(),
			Slot:    i,
			Entry:   signal,
			Exit:    out,
		})
		signal = out
	}

	// Exit plugboard.
	final := c.plugboard.Transform(signal)
	trace.PlugboardOut = PlugboardStep{Entry: signal, Exit: final}

	outputSymbol := c.alphabet.Symbol(final)
	trace.Output = string(outputSymbol)
	trace.WindowAfter = c.Window()

	return outputSymbol, trace, nil
}

// ProcessText enciphers a string symbol by symbol. Processing stops at
// the first invalid symbol; rotor movement from already-processed
// symbols is NOT rolled back, matching the physical machine.
func (m *Machine) ProcessText(input string) (string, []*SignalTrace, error) {
	output := make([]rune, 0, len(input))
	traces := make([]*SignalTrace, 0, len(input))
	for _, r := range input {
		out, trace, err := m.Process(r)
		if err != nil {
			return string(output), traces, err
		}
		output = append(output, out)
		traces = append(traces, trace)
	}
	return string(output), traces, nil
}

// Reset restores every rotor to its as-configured position. Rotor
// selection, reflector, and plugboard are untouched. Returns a
// StateError before the first Configure.
func (m *Machine) Reset() error {
	if m.code == nil {
		return &StateError{Op: "reset"}
	}
	m.code.reset()
	return nil
}
