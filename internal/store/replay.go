package store

import (
	"context"
	"fmt"

	"github.com/scherbius/enigma/internal/enigma"
	"github.com/scherbius/enigma/internal/model"
)

// Divergence is one replayed message whose recomputed output differs
// from the stored one. An empty divergence list is the determinism
// proof; a non-empty one means the definition drifted or the history
// was tampered with.
type Divergence struct {
	Seq        int64  `json:"seq"`
	Input      string `json:"input"`
	Stored     string `json:"stored"`
	Recomputed string `json:"recomputed"`
}

// ReplayReport summarizes a session replay audit.
type ReplayReport struct {
	Token       string       `json:"token"`
	Machine     string       `json:"machine"`
	Messages    int          `json:"messages"`
	SpecDrift   bool         `json:"spec_drift"`
	Divergences []Divergence `json:"divergences,omitempty"`
}

// Clean reports whether the replay reproduced every stored output from
// an unchanged machine definition.
func (r ReplayReport) Clean() bool {
	return !r.SpecDrift && len(r.Divergences) == 0
}

// VerifySession replays a stored session through a fresh machine built
// from the given definition and compares every output byte-for-byte.
//
// The stored spec hash is checked first: a drifted definition makes
// output comparison meaningless, so divergences are still collected but
// SpecDrift is flagged.
func (s *Store) VerifySession(ctx context.Context, spec *model.MachineSpec, token string) (ReplayReport, error) {
	session, err := s.ReadSession(ctx, token)
	if err != nil {
		return ReplayReport{}, err
	}

	report := ReplayReport{Token: token, Machine: session.Machine}

	specHash, err := model.SpecHash(spec)
	if err != nil {
		return report, fmt.Errorf("verify session: %w", err)
	}
	report.SpecDrift = specHash != session.SpecHash

	code, err := enigma.NewCode(spec, enigma.Request{
		RotorIDs:    session.RotorIDs,
		Positions:   session.Positions,
		ReflectorID: session.ReflectorID,
		Plugboard:   session.Plugboard,
	})
	if err != nil {
		return report, fmt.Errorf("verify session: rebuild configuration: %w", err)
	}

	machine := enigma.NewMachine()
	machine.Configure(code)

	messages, err := s.ReadMessages(ctx, token)
	if err != nil {
		return report, err
	}
	report.Messages = len(messages)

	for _, msg := range messages {
		recomputed, _, perr := machine.ProcessText(msg.Input)
		if perr != nil {
			return report, fmt.Errorf("verify session: replay seq %d: %w", msg.Seq, perr)
		}
		if recomputed != msg.Output {
			report.Divergences = append(report.Divergences, Divergence{
				Seq:        msg.Seq,
				Input:      msg.Input,
				Stored:     msg.Output,
				Recomputed: recomputed,
			})
		}
	}
	return report, nil
}
