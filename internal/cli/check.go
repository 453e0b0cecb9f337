package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/typeql/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Record string // catalog path; empty disables recording
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Documents []DocumentReport `json:"documents"`
	Valid     int              `json:"valid"`
	Invalid   int              `json:"invalid"`
	Total     int              `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <document>...",
		Short: "Compile and validate queries",
		Long: `Compile every query of each CUE document and validate it.

Each query is reported as valid or invalid with every error found. Define
queries are also checked for recursive rules.

Exit codes:
  0 - All queries valid
  1 - One or more queries invalid or failed to compile
  2 - Command error (document not found, catalog unwritable, etc.)

Examples:
  typeql check school.cue
  typeql check ./queries other.cue --record checks.db
  typeql check school.cue --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Record = rootOpts.v.GetString("record")
			return runCheck(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().String("record", "", "record results to a SQLite catalog")
	bindFlags(rootOpts.v, cmd.Flags(), "record")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, paths []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger

	reports, err := checkDocuments(ctx, paths, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "check interrupted", err)
	}

	result := CheckResult{Documents: reports}
	loadFailed := false
	for _, doc := range reports {
		if doc.Error != nil {
			loadFailed = true
		}
		for _, q := range doc.Queries {
			result.Total++
			if q.Valid {
				result.Valid++
			} else {
				result.Invalid++
			}
		}
	}

	if opts.Record != "" {
		if err := recordChecks(ctx, opts.Record, reports, logger); err != nil {
			return WrapExitError(ExitCommandError, "failed to record checks", err)
		}
	}

	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if loadFailed || result.Invalid > 0 {
			resp.Status = "error"
			resp.Error = firstCheckError(reports)
		}
		if err := formatter.Encode(resp); err != nil {
			return err
		}
	} else {
		writeCheckText(cmd.OutOrStdout(), result)
	}

	switch {
	case loadFailed:
		return NewExitError(ExitCommandError, "one or more documents could not be loaded")
	case result.Invalid > 0:
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d queries invalid", result.Invalid, result.Total))
	}
	return nil
}

// checkDocuments checks each document concurrently. Reports keep the order
// of paths.
func checkDocuments(ctx context.Context, paths []string, logger *zap.Logger) ([]DocumentReport, error) {
	reports := make([]DocumentReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			logger.Debug("checking document", zap.String("path", path))
			reports[i] = checkDocument(path)
			if reports[i].Error != nil {
				logger.Warn("document failed to load",
					zap.String("path", path),
					zap.String("code", reports[i].Error.Code),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// recordChecks appends one catalog row per compiled query.
func recordChecks(ctx context.Context, path string, reports []DocumentReport, logger *zap.Logger) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, doc := range reports {
		for _, q := range doc.Queries {
			if q.CompileError != "" {
				continue
			}
			written, err := s.Write(ctx, store.Check{
				Document:    doc.Path,
				Query:       q.Name,
				Kind:        q.Kind,
				Fingerprint: q.Fingerprint,
				Canonical:   q.Text,
				Valid:       q.Valid,
				ErrorCodes:  q.Codes,
			})
			if err != nil {
				return err
			}
			logger.Debug("recorded check",
				zap.String("query", q.Name),
				zap.Int64("seq", written.Seq),
				zap.String("id", written.ID),
			)
		}
	}
	return nil
}

func firstCheckError(reports []DocumentReport) *CLIError {
	for _, doc := range reports {
		if doc.Error != nil {
			return &CLIError{Code: doc.Error.Code, Message: doc.Error.Message}
		}
		for _, q := range doc.Queries {
			switch {
			case q.CompileError != "":
				return &CLIError{Code: ErrCodeGeneric, Message: q.CompileError}
			case len(q.Codes) > 0:
				return &CLIError{Code: q.Codes[0], Message: q.Errors[0]}
			case !q.Valid && len(q.Warnings) > 0:
				return &CLIError{Code: ErrCodeGeneric, Message: q.Warnings[0]}
			}
		}
	}
	return nil
}

func writeCheckText(w io.Writer, result CheckResult) {
	for _, doc := range result.Documents {
		fmt.Fprintln(w, doc.Path)
		if doc.Error != nil {
			fmt.Fprintf(w, "  %s %s: %s\n", mark(false), doc.Error.Code, doc.Error.Message)
			continue
		}
		for _, q := range doc.Queries {
			switch {
			case q.CompileError != "":
				fmt.Fprintf(w, "  %s %s\n", mark(false), q.Name)
				fmt.Fprintf(w, "      %s\n", q.CompileError)
			default:
				fmt.Fprintf(w, "  %s %s %s\n", mark(q.Valid), q.Name, dim("("+q.Kind+")"))
				for _, e := range q.Errors {
					fmt.Fprintf(w, "      %s\n", e)
				}
			}
			for _, warning := range q.Warnings {
				fmt.Fprintf(w, "      %s %s\n", yellow("!"), warning)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check Summary: %d valid, %d invalid, %d total\n", result.Valid, result.Invalid, result.Total)
}
