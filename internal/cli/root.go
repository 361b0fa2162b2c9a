package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// envDefaults are flag defaults read from the environment. Flags always
// win over environment variables.
type envDefaults struct {
	Format   string `env:"ENIGMA_FORMAT" envDefault:"text"`
	Defs     string `env:"ENIGMA_DEFS" envDefault:"defs"`
	Database string `env:"ENIGMA_DB"`
}

// NewRootCommand creates the root command for the enigma CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	var defaults envDefaults
	_ = env.Parse(&defaults)

	cmd := &cobra.Command{
		Use:   "enigma",
		Short: "Rotor cipher machine simulator",
		Long: `Simulate historical rotor cipher machines: configure rotors, reflector
and plugboard, encode text symbol by symbol, and audit recorded sessions
for determinism.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", defaults.Format, "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewMachinesCommand(opts, defaults))
	cmd.AddCommand(NewEncodeCommand(opts, defaults))
	cmd.AddCommand(NewTraceCommand(opts, defaults))
	cmd.AddCommand(NewRandomCommand(opts, defaults))
	cmd.AddCommand(NewHistoryCommand(opts, defaults))
	cmd.AddCommand(NewReplayCommand(opts, defaults))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
