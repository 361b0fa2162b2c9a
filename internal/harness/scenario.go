package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Machine names the machine definition to run on.
	// Resolved against the harness's fixture catalog.
	Machine string `yaml:"machine"`

	// SessionToken is an optional fixed token for deterministic golden
	// comparison. Defaults to "scenario-session".
	SessionToken string `yaml:"session_token,omitempty"`

	// Config is the configuration request for the session.
	Config ConfigStep `yaml:"config"`

	// Steps is the ordered list of actions to execute.
	Steps []Step `yaml:"steps"`

	// FinalWindow optionally asserts the window string after the last
	// step.
	FinalWindow string `yaml:"final_window,omitempty"`
}

// ConfigStep mirrors a configuration request in scenario form.
type ConfigStep struct {
	Rotors    []int  `yaml:"rotors"`
	Positions string `yaml:"positions"`
	Reflector string `yaml:"reflector"`
	Plugboard string `yaml:"plugboard,omitempty"`
}

// Step is one scenario action: either an encode or a reset.
type Step struct {
	// Encode is the text to process, already alphabet-normalized.
	Encode string `yaml:"encode,omitempty"`

	// Reset restores the as-configured rotor positions when true.
	Reset bool `yaml:"reset,omitempty"`

	// Expect optionally validates the encode outcome.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of an encode step.
type Expect struct {
	// Output is the expected ciphertext.
	Output string `yaml:"output"`

	// Window is the expected window string after the step; empty skips
	// the check.
	Window string `yaml:"window,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if s.Machine == "" {
		return nil, fmt.Errorf("scenario %s: machine is required", path)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one step is required", path)
	}
	for i, step := range s.Steps {
		if step.Encode == "" && !step.Reset {
			return nil, fmt.Errorf("scenario %s: step %d is neither encode nor reset", path, i)
		}
	}
	return &s, nil
}
