package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/scherbius/enigma/internal/session"
	"github.com/scherbius/enigma/internal/store"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	Settings SettingsFlags
	Database string
	Token    string
	Strict   bool
}

// EncodeResult holds the outcome of an encode run.
type EncodeResult struct {
	Token        string `json:"token"`
	Machine      string `json:"machine"`
	Seq          int64  `json:"seq"`
	Input        string `json:"input"`
	Output       string `json:"output"`
	WindowBefore string `json:"window_before"`
	WindowAfter  string `json:"window_after"`
	Recorded     bool   `json:"recorded"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions, defaults envDefaults) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <text>",
		Short: "Encode text through a configured machine",
		Long: `Configure a machine from flags and encode the given text.

Input is uppercased and stripped of symbols outside the machine's
alphabet unless --strict is set, in which case a foreign symbol aborts
the run. The cipher is reciprocal: running the ciphertext through the
same settings restores the plaintext.

With --db the session and message are recorded for later history and
replay auditing. Reusing --token with the same settings continues the
recorded session: the stored messages are replayed to restore the
rotor positions and the new message is appended with the next seq.

Exit codes:
  0 - Encoded successfully
  1 - Settings rejected or input invalid
  2 - Command error (definitions or database unreadable)

Examples:
  enigma encode --rotors 1,2,3 --positions AAA --reflector B AAAAA
  enigma encode --rotors 2,4,5 --positions BLA --reflector C --plugboard AQBZ "ATTACK AT DAWN"
  enigma encode --rotors 1,2,3 --positions AAA --reflector B --db ./enigma.db HELLO`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], cmd)
		},
	}

	addSettingsFlags(cmd, &opts.Settings, defaults)
	cmd.Flags().StringVar(&opts.Database, "db", defaults.Database, "record session and message to this SQLite database")
	cmd.Flags().StringVar(&opts.Token, "token", "", "fixed session token (default: generated UUIDv7)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject symbols outside the alphabet instead of dropping them")

	return cmd
}

func runEncode(opts *EncodeOptions, text string, cmd *cobra.Command) error {
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

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening database", err)
		}
		defer st.Close()

		if err := resumeSession(context.Background(), st, sess, formatter); err != nil {
			return err
		}
	}

	input := text
	if !opts.Strict {
		input = session.Normalize(sess.Alphabet(), text)
	}
	formatter.VerboseLog("Encoding %d symbol(s) on %s at window %s", len(input), sess.Machine(), sess.Window())

	msg, err := sess.Encode(input)
	if err != nil {
		return reportConfigError(formatter, err)
	}

	recorded := false
	if st != nil {
		if err := recordMessage(context.Background(), st, sess, msg); err != nil {
			return WrapExitError(ExitCommandError, "recording message", err)
		}
		recorded = true
	}

	result := EncodeResult{
		Token:        sess.Token(),
		Machine:      sess.Machine(),
		Seq:          msg.Seq,
		Input:        msg.Input,
		Output:       msg.Output,
		WindowBefore: msg.WindowBefore,
		WindowAfter:  msg.WindowAfter,
		Recorded:     recorded,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, result.Output)
	formatter.VerboseLog("token=%s seq=%d window %s -> %s", result.Token, result.Seq, result.WindowBefore, result.WindowAfter)
	return nil
}

// openSession loads the catalog, resolves the machine and configures a
// session from the shared settings flags.
func openSession(flags SettingsFlags, token string, formatter *OutputFormatter) (*session.Session, error) {
	catalog, err := loadCatalogOrExit(flags.Defs, formatter)
	if err != nil {
		return nil, err
	}

	spec := catalog.Find(flags.Machine)
	if spec == nil {
		msg := fmt.Sprintf("unknown machine %q (have %d definition(s))", flags.Machine, len(catalog.Machines))
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}

	req, err := flags.request()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, NewExitError(ExitFailure, err.Error())
	}

	var gen session.TokenGenerator = session.UUIDv7Generator{}
	if token != "" {
		gen = session.NewFixedGenerator(token)
	}

	sess, err := session.New(spec, req, gen)
	if err != nil {
		return nil, reportConfigError(formatter, err)
	}
	return sess, nil
}

// resumeSession continues a previously recorded session. If the token
// already exists in the database, the flags must repeat the recorded
// settings, and the stored messages are replayed through the fresh
// machine so the next message picks up the rotor positions and seq
// where the last run stopped. A fresh token is a no-op.
func resumeSession(ctx context.Context, st *store.Store, sess *session.Session, formatter *OutputFormatter) error {
	stored, err := st.ReadSession(ctx, sess.Token())
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "reading session", err)
	}

	current, err := sess.Record()
	if err != nil {
		return WrapExitError(ExitCommandError, "reading session", err)
	}
	if !sameSettings(stored, current) {
		msg := fmt.Sprintf("session %q was recorded with different settings; repeat them or pick a new token", sess.Token())
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	messages, err := st.ReadMessages(ctx, sess.Token())
	if err != nil {
		return WrapExitError(ExitCommandError, "reading session", err)
	}
	if err := sess.Resume(messages); err != nil {
		return WrapExitError(ExitCommandError, "resuming session", err)
	}

	formatter.VerboseLog("Resumed session %s past %d message(s) at window %s", sess.Token(), len(messages), sess.Window())
	return nil
}

// sameSettings reports whether two session records describe the same
// machine and configuration. EngineVersion is deliberately ignored;
// the replay check in Resume catches behavioral drift.
func sameSettings(a, b store.SessionRecord) bool {
	return a.Machine == b.Machine &&
		a.SpecHash == b.SpecHash &&
		slices.Equal(a.RotorIDs, b.RotorIDs) &&
		a.Positions == b.Positions &&
		a.ReflectorID == b.ReflectorID &&
		a.Plugboard == b.Plugboard
}

// recordMessage persists the session and one encoded message.
func recordMessage(ctx context.Context, st *store.Store, sess *session.Session, msg session.Message) error {
	sessRec, err := sess.Record()
	if err != nil {
		return err
	}
	if err := st.WriteSession(ctx, sessRec); err != nil {
		return err
	}

	msgRec, err := sess.MessageRecord(msg)
	if err != nil {
		return err
	}
	return st.WriteMessage(ctx, msgRec)
}
