package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scherbius/enigma/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Defs     string
	Database string
	Token    string // optional - specific session only
}

// ReplayResult holds the overall replay audit result.
type ReplayResult struct {
	Reports          []store.ReplayReport `json:"reports"`
	TotalSessions    int                  `json:"total_sessions"`
	AllDeterministic bool                 `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions, defaults envDefaults) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded messages and verify determinism",
		Long: `Re-run every recorded message from its session's stored settings on a
fresh machine and compare the recomputed ciphertext against the stored
one. Also flags sessions whose machine definition hash no longer
matches the current catalog.

Exit codes:
  0 - Every session replayed identically
  1 - Divergence or definition drift detected
  2 - Command error (database or definitions unreadable)

Examples:
  enigma replay --db ./enigma.db
  enigma replay --db ./enigma.db --session 0192f3a1-7c2e-7f00-b000-000000000001
  enigma replay --db ./enigma.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Defs, "defs", defaults.Defs, "machine definitions directory")
	cmd.Flags().StringVar(&opts.Database, "db", defaults.Database, "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Token, "session", "", "replay a specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
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

	catalog, err := loadCatalogOrExit(opts.Defs, formatter)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("opening database: %v", err), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	ctx := context.Background()

	var tokens []string
	if opts.Token != "" {
		tokens = []string{opts.Token}
	} else {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "listing sessions", err)
		}
		for _, rec := range sessions {
			tokens = append(tokens, rec.Token)
		}
	}

	result := ReplayResult{AllDeterministic: true}
	for _, token := range tokens {
		rec, err := st.ReadSession(ctx, token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				msg := fmt.Sprintf("session not found: %s", token)
				_ = formatter.Error(ErrCodeNotFound, msg, nil)
				return NewExitError(ExitCommandError, msg)
			}
			return WrapExitError(ExitCommandError, "reading session", err)
		}

		spec := catalog.Find(rec.Machine)
		if spec == nil {
			msg := fmt.Sprintf("session %s: machine %q is not in the catalog", token, rec.Machine)
			_ = formatter.Error(ErrCodeGeneric, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}

		formatter.VerboseLog("Replaying session %s on %s", token, rec.Machine)
		report, err := st.VerifySession(ctx, spec, token)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("replaying session %s", token), err)
		}

		result.Reports = append(result.Reports, report)
		if !report.Clean() {
			result.AllDeterministic = false
		}
	}
	result.TotalSessions = len(result.Reports)

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, r := range result.Reports {
			status := "ok"
			if r.SpecDrift {
				status = "definition drift"
			} else if len(r.Divergences) > 0 {
				status = fmt.Sprintf("%d divergence(s)", len(r.Divergences))
			}
			fmt.Fprintf(formatter.Writer, "%s  %s  messages=%d  %s\n", r.Token, r.Machine, r.Messages, status)
			for _, d := range r.Divergences {
				fmt.Fprintf(formatter.Writer, "  seq %d: stored %s, recomputed %s\n", d.Seq, d.Stored, d.Recomputed)
			}
		}
		fmt.Fprintf(formatter.Writer, "Replayed %d session(s): deterministic=%t\n",
			result.TotalSessions, result.AllDeterministic)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay detected divergence")
	}
	return nil
}
