package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/plotstore/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Path   string                   `json:"path"`
	Valid  bool                     `json:"valid"`
	Addr   string                   `json:"addr,omitempty"`
	Errors []config.ValidationError `json:"errors,omitempty"`
}

// WriteText implements texter.
func (r ValidationResult) WriteText(w io.Writer) {
	if r.Valid {
		fmt.Fprintf(w, "✓ %s is valid (listen on %s)\n", r.Path, r.Addr)
		return
	}
	fmt.Fprintf(w, "✗ %s is invalid\n", r.Path)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e.Error())
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Validate a server config file",
		Long: `Decode a YAML config file and check it against the config schema
without starting the server.

Exit codes:
  0 - Config is valid
  1 - Config has schema violations
  2 - File missing or not valid YAML`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if _, err := os.Stat(path); err != nil {
		msg := fmt.Sprintf("config file not found: %s", path)
		if outErr := formatter.Error(ErrCodeConfig, msg, nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitCommandError, msg)
	}

	cfg, err := config.Load(path)
	if err != nil {
		var verrs config.ValidationErrors
		if !errors.As(err, &verrs) {
			if outErr := formatter.Error(ErrCodeConfig, err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}

		if outErr := formatter.Success(ValidationResult{Path: path, Errors: verrs}); outErr != nil {
			return outErr
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(verrs)))
	}

	formatter.VerboseLog("config %s: history=%t scenarios=%d", path, cfg.History.Enabled, len(cfg.Scenarios))
	return formatter.Success(ValidationResult{Path: path, Valid: true, Addr: cfg.Addr()})
}
