package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/scherbius/enigma/internal/model"
)

// Snapshot converts a result to the plain map shape accepted by
// model.MarshalCanonical. Canonical JSON keeps golden files stable
// across runs and platforms.
func Snapshot(result *Result) map[string]any {
	events := make([]any, len(result.Events))
	for i, ev := range result.Events {
		m := map[string]any{
			"type":         ev.Type,
			"window_after": ev.WindowAfter,
		}
		if ev.Type == "encode" {
			m["seq"] = ev.Seq
			m["input"] = ev.Input
			m["output"] = ev.Output
			m["window_before"] = ev.WindowBefore

			traces := make([]any, len(ev.Traces))
			for j, t := range ev.Traces {
				traces[j] = t.ToCanonical()
			}
			m["traces"] = traces
		}
		events[i] = m
	}

	return map[string]any{
		"scenario": result.Scenario,
		"token":    result.Token,
		"events":   events,
	}
}

// RunWithGolden executes a scenario and compares its canonical trace
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Expectation failures inside the scenario fail the test before the
// golden comparison; a stale golden file then shows exactly which
// intermediate index moved.
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}
	for _, failure := range result.Failures {
		t.Errorf("scenario %s: %s", scenario.Name, failure)
	}

	traceJSON, err := model.MarshalCanonical(Snapshot(result))
	if err != nil {
		t.Fatalf("marshal snapshot for %s: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)
}
