package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/typeql/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Fingerprint string // show only the latest check of this query
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <catalog.db>",
		Short: "List recorded checks",
		Long: `List the checks recorded by "typeql check --record" in write order.

With --fingerprint, print only the latest check of that query.

Examples:
  typeql history checks.db
  typeql history checks.db --fingerprint 53c86512...
  typeql history checks.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "show the latest check with this fingerprint")

	return cmd
}

func runHistory(opts *HistoryOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	// Open would create a missing catalog.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("catalog not found: %s", path), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("catalog not found: %s", path))
	}

	s, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	var checks []store.Check
	if opts.Fingerprint != "" {
		c, err := s.LatestByFingerprint(ctx, opts.Fingerprint)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			msg := fmt.Sprintf("no check recorded for %s", opts.Fingerprint)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitFailure, msg)
		case err != nil:
			return WrapExitError(ExitCommandError, "failed to read catalog", err)
		}
		checks = []store.Check{c}
	} else {
		checks, err = s.ListChecks(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read catalog", err)
		}
	}

	if formatter.JSON() {
		return formatter.Success(checks)
	}
	writeHistoryText(cmd.OutOrStdout(), checks)
	return nil
}

func writeHistoryText(w io.Writer, checks []store.Check) {
	if len(checks) == 0 {
		fmt.Fprintln(w, "No checks recorded.")
		return
	}
	for _, c := range checks {
		line := fmt.Sprintf("%4d %s %s#%s %s %s", c.Seq, mark(c.Valid), c.Document, c.Query, c.Kind, dim(shortFingerprint(c.Fingerprint)))
		if len(c.ErrorCodes) > 0 {
			line += " " + strings.Join(c.ErrorCodes, ",")
		}
		fmt.Fprintln(w, line)
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
