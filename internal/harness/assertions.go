package harness

import (
	"fmt"

	"github.com/scherbius/enigma/internal/session"
)

// assertStep evaluates a step's expect clause against the encoded
// message, appending one failure per divergence. A step with no expect
// clause only contributes to the trace.
func assertStep(result *Result, index int, step Step, msg session.Message) {
	if step.Expect == nil {
		return
	}
	if msg.Output != step.Expect.Output {
		result.Failures = append(result.Failures,
			fmt.Sprintf("step %d: output: expected %q, got %q", index, step.Expect.Output, msg.Output))
	}
	if step.Expect.Window != "" && msg.WindowAfter != step.Expect.Window {
		result.Failures = append(result.Failures,
			fmt.Sprintf("step %d: window: expected %q, got %q", index, step.Expect.Window, msg.WindowAfter))
	}
}
