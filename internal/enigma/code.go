package enigma

import (
	"fmt"

	"github.com/scherbius/enigma/internal/model"
)

// Request is a user-supplied configuration choice made against a
// machine's catalogs: which rotors (left to right), their starting
// window symbols, which reflector, and an optional plugboard pair
// string ("AQBZ" swaps A<->Q and B<->Z).
type Request struct {
	RotorIDs    []int  `json:"rotor_ids"`
	Positions   string `json:"positions"`
	ReflectorID string `json:"reflector_id"`
	Plugboard   string `json:"plugboard,omitempty"`
}

// Validate checks a request against a trusted machine definition.
//
// Checks run in a fixed order and the first failure wins. Validate is
// pure: it never builds anything and never touches machine state, so a
// rejected request leaves any previously active configuration usable.
func Validate(spec *model.MachineSpec, req Request) error {
	// Presence.
	if len(req.RotorIDs) == 0 {
		return &ConfigError{Code: ErrCodeMissingField, Field: "rotor_ids", Message: "rotor selection is required"}
	}
	if req.Positions == "" {
		return &ConfigError{Code: ErrCodeMissingField, Field: "positions", Message: "starting positions are required"}
	}
	if req.ReflectorID == "" {
		return &ConfigError{Code: ErrCodeMissingField, Field: "reflector_id", Message: "reflector selection is required"}
	}

	// Counts.
	positions := []rune(req.Positions)
	if len(req.RotorIDs) != spec.RotorCount || len(positions) != spec.RotorCount {
		return &ConfigError{
			Code:    ErrCodeCountMismatch,
			Field:   "rotor_ids",
			Message: fmt.Sprintf("machine %q takes %d rotors, got %d ids and %d positions", spec.Name, spec.RotorCount, len(req.RotorIDs), len(positions)),
		}
	}

	// Rotor existence and uniqueness.
	seen := make(map[int]bool, len(req.RotorIDs))
	for i, id := range req.RotorIDs {
		if _, ok := spec.Rotors[id]; !ok {
			return &ConfigError{
				Code:    ErrCodeUnknownRotor,
				Field:   fmt.Sprintf("rotor_ids[%d]", i),
				Message: fmt.Sprintf("rotor %d is not in the catalog", id),
			}
		}
		if seen[id] {
			return &ConfigError{
				Code:    ErrCodeDuplicateRotor,
				Field:   fmt.Sprintf("rotor_ids[%d]", i),
				Message: fmt.Sprintf("rotor %d selected more than once", id),
			}
		}
		seen[id] = true
	}

	// Reflector existence.
	if _, ok := spec.Reflectors[req.ReflectorID]; !ok {
		return &ConfigError{
			Code:    ErrCodeUnknownReflector,
			Field:   "reflector_id",
			Message: fmt.Sprintf("reflector %q is not in the catalog", req.ReflectorID),
		}
	}

	// Position membership.
	for i, r := range positions {
		if !spec.Alphabet.Contains(r) {
			return &ConfigError{
				Code:    ErrCodeSymbolNotInAlphabet,
				Field:   fmt.Sprintf("positions[%d]", i),
				Message: fmt.Sprintf("symbol %q is not in the alphabet", r),
			}
		}
	}

	return validatePlugboard(spec.Alphabet, req.Plugboard)
}

// validatePlugboard checks plugboard legality: even length, alphabet
// membership, no self-pairs, no symbol in more than one pair.
func validatePlugboard(alphabet *model.Alphabet, pairs string) error {
	if pairs == "" {
		return nil
	}
	runes := []rune(pairs)
	if len(runes)%2 != 0 {
		return &ConfigError{
			Code:    ErrCodePlugboardOddLength,
			Field:   "plugboard",
			Message: fmt.Sprintf("pair string must have even length, got %d", len(runes)),
		}
	}
	for i, r := range runes {
		if !alphabet.Contains(r) {
			return &ConfigError{
				Code:    ErrCodePlugboardUnknownSymbol,
				Field:   fmt.Sprintf("plugboard[%d]", i),
				Message: fmt.Sprintf("symbol %q is not in the alphabet", r),
			}
		}
	}
	seen := make(map[rune]bool, len(runes))
	for i := 0; i+1 < len(runes); i += 2 {
		a, b := runes[i], runes[i+1]
		if a == b {
			return &ConfigError{
				Code:    ErrCodePlugboardSelfMapping,
				Field:   fmt.Sprintf("plugboard[%d]", i),
				Message: fmt.Sprintf("symbol %q cannot be paired with itself", a),
			}
		}
		if seen[a] {
			return &ConfigError{
				Code:    ErrCodePlugboardDuplicate,
				Field:   fmt.Sprintf("plugboard[%d]", i),
				Message: fmt.Sprintf("symbol %q appears in more than one pair", a),
			}
		}
		if seen[b] {
			return &ConfigError{
				Code:    ErrCodePlugboardDuplicate,
				Field:   fmt.Sprintf("plugboard[%d]", i+1),
				Message: fmt.Sprintf("symbol %q appears in more than one pair", b),
			}
		}
		seen[a] = true
		seen[b] = true
	}
	return nil
}

// Code is a complete, immutable-from-outside configuration: the
// selected rotors in left-to-right window order, the reflector, the
// plugboard, and the as-configured starting positions kept separately
// from the live ones so the machine can reset.
//
// A Code is built atomically by NewCode and handed to a Machine whole;
// it is replaced wholesale by later Configure calls, never mutated
// field-by-field from outside.
type Code struct {
	alphabet  *model.Alphabet
	rotors    []*Rotor // left to right; index 0 = leftmost
	rotorIDs  []int
	reflector *Reflector
	plugboard *Plugboard
	initial   []int // as-configured positions, for reset
}

// NewCode validates a request and builds the runtime configuration.
// All validation happens before any object is built; on error the
// returned Code is nil and nothing has been constructed.
func NewCode(spec *model.MachineSpec, req Request) (*Code, error) {
	if err := Validate(spec, req); err != nil {
		return nil, err
	}

	positions := []rune(req.Positions)
	rotors := make([]*Rotor, len(req.RotorIDs))
	initial := make([]int, len(req.RotorIDs))
	for i, id := range req.RotorIDs {
		pos, _ := spec.Alphabet.Index(positions[i])
		rotors[i] = newRotor(spec.Rotors[id], spec.Alphabet.Len(), pos)
		initial[i] = pos
	}

	plugboard := newIdentityPlugboard(spec.Alphabet.Len())
	if req.Plugboard != "" {
		plugboard = newPlugboard(spec.Alphabet, req.Plugboard)
	}

	return &Code{
		alphabet:  spec.Alphabet,
		rotors:    rotors,
		rotorIDs:  append([]int(nil), req.RotorIDs...),
		reflector: newReflector(spec.Reflectors[req.ReflectorID]),
		plugboard: plugboard,
		initial:   initial,
	}, nil
}

// Window returns the current rotor positions as the user-visible
// window string, left to right.
func (c *Code) Window() string {
	runes := make([]rune, len(c.rotors))
	for i, r := range c.rotors {
		runes[i] = c.alphabet.Symbol(r.Position())
	}
	return string(runes)
}

// RotorIDs returns the selected rotor ids in window order.
func (c *Code) RotorIDs() []int {
	return append([]int(nil), c.rotorIDs...)
}

// ReflectorID returns the selected reflector id.
func (c *Code) ReflectorID() string {
	return c.reflector.ID()
}

// PlugboardPairs returns the configured plugboard pairs, empty for the
// identity plugboard.
func (c *Code) PlugboardPairs() []string {
	return c.plugboard.Pairs()
}

// InitialWindow returns the as-configured starting window string.
func (c *Code) InitialWindow() string {
	runes := make([]rune, len(c.initial))
	for i, pos := range c.initial {
		runes[i] = c.alphabet.Symbol(pos)
	}
	return string(runes)
}

// Request reconstructs the configuration request that built this Code.
// Used by the history layer to snapshot sessions.
func (c *Code) Request() Request {
	return Request{
		RotorIDs:    c.RotorIDs(),
		Positions:   c.InitialWindow(),
		ReflectorID: c.ReflectorID(),
		Plugboard:   joinPairs(c.plugboard.Pairs()),
	}
}

// reset restores every rotor to its as-configured position. Rotor
// selection, reflector, and plugboard are untouched.
func (c *Code) reset() {
	for i, r := range c.rotors {
		r.SetPosition(c.initial[i])
	}
}

func joinPairs(pairs []string) string {
	var s string
	for _, p := range pairs {
		s += p
	}
	return s
}
