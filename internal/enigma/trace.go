package enigma

// AdvancedRotor records one rotor that moved during the stepping phase,
// in stepping order (rightmost first), with its position after the step.
type AdvancedRotor struct {
	RotorID  int `json:"rotor_id"`
	Position int `json:"position"`
}

// RotorStep records one rotor's contribution to a signal pass: the slot
// it occupies (0 = leftmost window), and the contact indices where the
// signal entered and left.
type RotorStep struct {
	RotorID int `json:"rotor_id"`
	Slot    int `json:"slot"`
	Entry   int `json:"entry"`
	Exit    int `json:"exit"`
}

// ReflectorStep records the single reflector crossing.
type ReflectorStep struct {
	ReflectorID string `json:"reflector_id"`
	Entry       int    `json:"entry"`
	Exit        int    `json:"exit"`
}

// PlugboardStep records one plugboard crossing. Entry == Exit unless
// the symbol is swapped.
type PlugboardStep struct {
	Entry int `json:"entry"`
	Exit  int `json:"exit"`
}

// SignalTrace is the full record of one Process call: the stepping that
// preceded the signal, and every intermediate contact index from input
// symbol to output symbol.
//
// A trace is purely a reporting artifact. It is assembled incrementally
// during the passes and never fed back into machine state.
type SignalTrace struct {
	Input        string          `json:"input"`
	Output       string          `json:"output"`
	WindowBefore string          `json:"window_before"`
	WindowAfter  string          `json:"window_after"`
	Advanced     []AdvancedRotor `json:"advanced"`
	PlugboardIn  PlugboardStep   `json:"plugboard_in"`
	Forward      []RotorStep     `json:"forward"`
	Reflector    ReflectorStep   `json:"reflector"`
	Backward     []RotorStep     `json:"backward"`
	PlugboardOut PlugboardStep   `json:"plugboard_out"`
}

// ToCanonical converts the trace to the plain map shape accepted by
// model.MarshalCanonical, for golden fixtures and content addressing.
func (t *SignalTrace) ToCanonical() map[string]any {
	advanced := make([]any, len(t.Advanced))
	for i, a := range t.Advanced {
		advanced[i] = map[string]any{
			"rotor_id": a.RotorID,
			"position": a.Position,
		}
	}
	forward := make([]any, len(t.Forward))
	for i, s := range t.Forward {
		forward[i] = rotorStepMap(s)
	}
	backward := make([]any, len(t.Backward))
	for i, s := range t.Backward {
		backward[i] = rotorStepMap(s)
	}

	return map[string]any{
		"input":         t.Input,
		"output":        t.Output,
		"window_before": t.WindowBefore,
		"window_after":  t.WindowAfter,
		"advanced":      advanced,
		"plugboard_in": map[string]any{
			"entry": t.PlugboardIn.Entry,
			"exit":  t.PlugboardIn.Exit,
		},
		"forward": forward,
		"reflector": map[string]any{
			"reflector_id": t.Reflector.ReflectorID,
			"entry":        t.Reflector.Entry,
			"exit":         t.Reflector.Exit,
		},
		"backward": backward,
		"plugboard_out": map[string]any{
			"entry": t.PlugboardOut.Entry,
			"exit":  t.PlugboardOut.Exit,
		},
	}
}

func rotorStepMap(s RotorStep) map[string]any {
	return map[string]any{
		"rotor_id": s.RotorID,
		"slot":     s.Slot,
		"entry":    s.Entry,
		"exit":     s.Exit,
	}
}
