package harness

import (
	"fmt"

	"github.com/scherbius/enigma/internal/enigma"
	"github.com/scherbius/enigma/internal/model"
	"github.com/scherbius/enigma/internal/session"
	"github.com/scherbius/enigma/internal/testutil"
)

// TraceEvent is one executed scenario step with its observable outcome.
type TraceEvent struct {
	Type         string // "encode" or "reset"
	Seq          int64
	Input        string
	Output       string
	WindowBefore string
	WindowAfter  string
	Traces       []*enigma.SignalTrace
}

// Result collects a scenario execution: the ordered event trace and any
// expectation failures.
type Result struct {
	Scenario string
	Token    string
	Events   []TraceEvent
	Failures []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// fixtures maps machine names usable in scenarios to their definitions.
// Scenarios run against real definitions, not mocks.
var fixtures = map[string]func() *model.MachineSpec{
	"enigma-i": testutil.EnigmaI,
}

// Run executes a scenario through a real session and returns the result.
//
// Execution flow:
//  1. Resolve the machine definition from the fixture catalog
//  2. Open a session with the scenario's fixed token
//  3. Execute steps in order, recording one TraceEvent each
//  4. Evaluate expectations into Failures (execution continues past a
//     failed expectation so one run reports every divergence)
func Run(scenario *Scenario) (*Result, error) {
	build, ok := fixtures[scenario.Machine]
	if !ok {
		return nil, fmt.Errorf("scenario %s: unknown machine %q", scenario.Name, scenario.Machine)
	}
	spec := build()

	token := scenario.SessionToken
	if token == "" {
		token = "scenario-session"
	}

	sess, err := session.New(spec, enigma.Request{
		RotorIDs:    scenario.Config.Rotors,
		Positions:   scenario.Config.Positions,
		ReflectorID: scenario.Config.Reflector,
		Plugboard:   scenario.Config.Plugboard,
	}, session.NewFixedGenerator(token))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: configure: %w", scenario.Name, err)
	}

	result := &Result{Scenario: scenario.Name, Token: token}

	for i, step := range scenario.Steps {
		if step.Reset {
			if err := sess.Reset(); err != nil {
				return nil, fmt.Errorf("scenario %s: step %d reset: %w", scenario.Name, i, err)
			}
			result.Events = append(result.Events, TraceEvent{
				Type:        "reset",
				WindowAfter: sess.Window(),
			})
			continue
		}

		msg, err := sess.Encode(step.Encode)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: step %d encode: %w", scenario.Name, i, err)
		}
		result.Events = append(result.Events, TraceEvent{
			Type:         "encode",
			Seq:          msg.Seq,
			Input:        msg.Input,
			Output:       msg.Output,
			WindowBefore: msg.WindowBefore,
			WindowAfter:  msg.WindowAfter,
			Traces:       msg.Traces,
		})

		assertStep(result, i, step, msg)
	}

	if scenario.FinalWindow != "" && sess.Window() != scenario.FinalWindow {
		result.Failures = append(result.Failures,
			fmt.Sprintf("final window: expected %q, got %q", scenario.FinalWindow, sess.Window()))
	}

	return result, nil
}
