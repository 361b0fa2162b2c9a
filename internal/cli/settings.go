package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scherbius/enigma/internal/enigma"
)

// SettingsFlags are the machine settings shared by encode, trace and
// other commands that configure a machine from the command line.
type SettingsFlags struct {
	Defs      string
	Machine   string
	Rotors    string // comma-separated rotor ids, leftmost first
	Positions string
	Reflector string
	Plugboard string
}

// addSettingsFlags registers the shared settings flags on a command.
func addSettingsFlags(cmd *cobra.Command, flags *SettingsFlags, defaults envDefaults) {
	cmd.Flags().StringVar(&flags.Defs, "defs", defaults.Defs, "machine definitions directory")
	cmd.Flags().StringVar(&flags.Machine, "machine", "enigma-i", "machine definition name")
	cmd.Flags().StringVar(&flags.Rotors, "rotors", "", "comma-separated rotor ids, leftmost first (e.g. 1,2,3)")
	cmd.Flags().StringVar(&flags.Positions, "positions", "", "initial window positions (e.g. AAA)")
	cmd.Flags().StringVar(&flags.Reflector, "reflector", "", "reflector id (e.g. B)")
	cmd.Flags().StringVar(&flags.Plugboard, "plugboard", "", "plugboard pairs as a flat string (e.g. AQBZ)")
}

// request converts parsed flags into a configuration request. Rotor id
// syntax errors are reported here; semantic validation happens in the
// engine so its error codes stay authoritative.
func (f *SettingsFlags) request() (enigma.Request, error) {
	var rotorIDs []int
	if f.Rotors != "" {
		for _, part := range strings.Split(f.Rotors, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return enigma.Request{}, fmt.Errorf("invalid rotor id %q", part)
			}
			rotorIDs = append(rotorIDs, id)
		}
	}
	return enigma.Request{
		RotorIDs:    rotorIDs,
		Positions:   f.Positions,
		ReflectorID: f.Reflector,
		Plugboard:   f.Plugboard,
	}, nil
}

// reportConfigError renders an engine configuration error with its
// stable code and returns the matching exit error.
func reportConfigError(formatter *OutputFormatter, err error) error {
	var cfgErr *enigma.ConfigError
	if errors.As(err, &cfgErr) {
		_ = formatter.Error(string(cfgErr.Code), cfgErr.Error(), map[string]string{"field": cfgErr.Field})
		return NewExitError(ExitFailure, cfgErr.Error())
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitFailure, err.Error())
}
