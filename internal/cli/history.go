package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scherbius/enigma/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// SessionSummary is one session in history listings.
type SessionSummary struct {
	Token     string `json:"token"`
	Machine   string `json:"machine"`
	Rotors    []int  `json:"rotors"`
	Positions string `json:"positions"`
	Reflector string `json:"reflector"`
	Plugboard string `json:"plugboard,omitempty"`
	Messages  int    `json:"messages"`
}

// SessionHistory is the message log of one session.
type SessionHistory struct {
	Session  store.SessionRecord   `json:"session"`
	Messages []store.MessageRecord `json:"messages"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions, defaults envDefaults) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [session-token]",
		Short: "List recorded sessions and messages",
		Long: `List the sessions recorded in the database, or with a session token,
the ordered message log of that session.

Examples:
  enigma history --db ./enigma.db
  enigma history --db ./enigma.db 0192f3a1-7c2e-7f00-b000-000000000001`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return runHistory(opts, token, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", defaults.Database, "path to SQLite database (required)")

	return cmd
}

func runHistory(opts *HistoryOptions, token string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Database == "" {
		_ = formatter.Error(ErrCodeNotFound, "database path is required (--db or ENIGMA_DB)", nil)
		return NewExitError(ExitCommandError, "database path is required")
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("opening database: %v", err), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	ctx := context.Background()
	if token != "" {
		return historyMessages(ctx, st, token, formatter)
	}
	return historySessions(ctx, st, formatter)
}

func historySessions(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing sessions", err)
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, rec := range sessions {
		count, err := st.CountMessages(ctx, rec.Token)
		if err != nil {
			return WrapExitError(ExitCommandError, "counting messages", err)
		}
		summaries = append(summaries, SessionSummary{
			Token:     rec.Token,
			Machine:   rec.Machine,
			Rotors:    rec.RotorIDs,
			Positions: rec.Positions,
			Reflector: rec.ReflectorID,
			Plugboard: rec.Plugboard,
			Messages:  count,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No sessions recorded")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%s  %s  rotors=%v  positions=%s  reflector=%s  messages=%d\n",
			s.Token, s.Machine, s.Rotors, s.Positions, s.Reflector, s.Messages)
	}
	return nil
}

func historyMessages(ctx context.Context, st *store.Store, token string, formatter *OutputFormatter) error {
	rec, err := st.ReadSession(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			msg := fmt.Sprintf("session not found: %s", token)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		return WrapExitError(ExitCommandError, "reading session", err)
	}

	messages, err := st.ReadMessages(ctx, token)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading messages", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(SessionHistory{Session: rec, Messages: messages})
	}

	fmt.Fprintf(formatter.Writer, "%s  %s  rotors=%v  positions=%s  reflector=%s\n",
		rec.Token, rec.Machine, rec.RotorIDs, rec.Positions, rec.ReflectorID)
	for _, m := range messages {
		fmt.Fprintf(formatter.Writer, "  %3d  %s -> %s  window %s -> %s\n",
			m.Seq, m.Input, m.Output, m.WindowBefore, m.WindowAfter)
	}
	return nil
}
