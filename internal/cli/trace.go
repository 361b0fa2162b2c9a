package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scherbius/enigma/internal/enigma"
	"github.com/scherbius/enigma/internal/session"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Settings SettingsFlags
	Token    string
}

// TraceResult holds the traced encode run.
type TraceResult struct {
	Token        string                `json:"token"`
	Machine      string                `json:"machine"`
	Input        string                `json:"input"`
	Output       string                `json:"output"`
	WindowBefore string                `json:"window_before"`
	WindowAfter  string                `json:"window_after"`
	Traces       []*enigma.SignalTrace `json:"traces"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions, defaults envDefaults) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <text>",
		Short: "Encode text and show the full signal path per symbol",
		Long: `Encode text and print, for every symbol, the rotors that stepped and
each contact index the signal crossed: plugboard in, right-to-left
through the rotors, reflector, left-to-right back, plugboard out.

Examples:
  enigma trace --rotors 1,2,3 --positions AAA --reflector B A
  enigma trace --rotors 1,2,3 --positions ADU --reflector B --format json AA`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	addSettingsFlags(cmd, &opts.Settings, defaults)
	cmd.Flags().StringVar(&opts.Token, "token", "", "fixed session token (default: generated UUIDv7)")

	return cmd
}

func runTrace(opts *TraceOptions, text string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sess, err := openSession(opts.Settings, opts.Token, formatter)
	if err != nil {
		return err
	}

	input := session.Normalize(sess.Alphabet(), text)
	msg, err := sess.Encode(input)
	if err != nil {
		return reportConfigError(formatter, err)
	}

	result := TraceResult{
		Token:        sess.Token(),
		Machine:      sess.Machine(),
		Input:        msg.Input,
		Output:       msg.Output,
		WindowBefore: msg.WindowBefore,
		WindowAfter:  msg.WindowAfter,
		Traces:       msg.Traces,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s -> %s  (window %s -> %s)\n",
		result.Input, result.Output, result.WindowBefore, result.WindowAfter)
	for _, t := range result.Traces {
		printTrace(formatter, t)
	}
	return nil
}

// printTrace renders one symbol's signal path in text form.
func printTrace(formatter *OutputFormatter, t *enigma.SignalTrace) {
	fmt.Fprintf(formatter.Writer, "\n%s -> %s  window %s -> %s\n", t.Input, t.Output, t.WindowBefore, t.WindowAfter)
	for _, a := range t.Advanced {
		fmt.Fprintf(formatter.Writer, "  step      rotor %d -> position %d\n", a.RotorID, a.Position)
	}
	fmt.Fprintf(formatter.Writer, "  plugboard %d -> %d\n", t.PlugboardIn.Entry, t.PlugboardIn.Exit)
	for _, s := range t.Forward {
		fmt.Fprintf(formatter.Writer, "  rotor %d   slot %d: %d -> %d\n", s.RotorID, s.Slot, s.Entry, s.Exit)
	}
	fmt.Fprintf(formatter.Writer, "  reflector %s: %d -> %d\n", t.Reflector.ReflectorID, t.Reflector.Entry, t.Reflector.Exit)
	for _, s := range t.Backward {
		fmt.Fprintf(formatter.Writer, "  rotor %d   slot %d: %d -> %d\n", s.RotorID, s.Slot, s.Entry, s.Exit)
	}
	fmt.Fprintf(formatter.Writer, "  plugboard %d -> %d\n", t.PlugboardOut.Entry, t.PlugboardOut.Exit)
}
