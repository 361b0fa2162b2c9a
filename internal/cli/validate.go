package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scherbius/enigma/internal/compiler"
)

// ValidationResult holds validation results for a definitions directory.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <defs-dir>",
		Short: "Validate machine definitions",
		Long: `Validate CUE machine definitions without running anything.

Checks wiring permutations, notch positions, reflector involutions and
alphabet consistency, and reports every defect found rather than
stopping at the first.

Exit codes:
  0 - All definitions are valid
  1 - Validation errors found
  2 - Command error (directory not found, unparsable CUE, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, defsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Collect-all mode: a validation run should report every defect.
	loadResult, loadErrors := LoadCatalog(defsDir, LoadModeCollectAll)

	// Hard load errors (directory not found, unparsable CUE) are command
	// errors, not validation findings.
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		_ = formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, defsDir)

	validationErrors := compiler.ValidateMachines(loadResult.CUEValue)

	if len(validationErrors) > 0 {
		if formatter.Format == "json" {
			if err := formatter.Error("VALIDATION_FAILED",
				fmt.Sprintf("%d validation error(s)", len(validationErrors)),
				ValidationResult{Valid: false, Errors: validationErrors}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(formatter.Writer, "Validation failed: %d error(s)\n", len(validationErrors))
			for _, ve := range validationErrors {
				fmt.Fprintf(formatter.Writer, "  [%s] %s: %s: %s\n", ve.Code, ve.Machine, ve.Field, ve.Message)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(validationErrors)))
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	return formatter.Success(fmt.Sprintf("Valid: %d machine definition(s)", len(loadResult.Machines)))
}
