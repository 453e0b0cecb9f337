package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// FormattedQuery is one query of fmt output.
type FormattedQuery struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Fingerprint string `json:"fingerprint"`
	Text        string `json:"text"`
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt <document>",
		Short: "Print the canonical text of each query",
		Long: `Print the canonical text of every valid query in a CUE document.

Queries that fail to compile or validate are skipped and reported on
stderr; the command then exits 1.

Examples:
  typeql fmt school.cue
  typeql fmt school.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runFmt(opts *RootOptions, path string, cmd *cobra.Command) error {
	report := checkDocument(path)
	formatter := newFormatter(opts, cmd.OutOrStdout())
	if report.Error != nil {
		_ = formatter.Error(report.Error.Code, report.Error.Message, nil)
		return NewExitError(ExitCommandError, report.Error.Message)
	}

	var (
		formatted = []FormattedQuery{}
		skipped   int
	)
	for _, q := range report.Queries {
		if !q.Valid {
			skipped++
			reportSkipped(cmd.ErrOrStderr(), q)
			opts.Logger.Debug("skipping invalid query", zap.String("query", q.Name))
			continue
		}
		formatted = append(formatted, FormattedQuery{
			Name:        q.Name,
			Kind:        q.Kind,
			Fingerprint: q.Fingerprint,
			Text:        q.Text,
		})
	}

	if formatter.JSON() {
		if err := formatter.Success(formatted); err != nil {
			return err
		}
	} else {
		sections := make([]string, len(formatted))
		for i, q := range formatted {
			sections[i] = fmt.Sprintf("# %s\n%s\n", q.Name, q.Text)
		}
		fmt.Fprint(cmd.OutOrStdout(), strings.Join(sections, "\n"))
	}

	if skipped > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d queries skipped", skipped))
	}
	return nil
}

func reportSkipped(w io.Writer, q QueryReport) {
	fmt.Fprintf(w, "%s %s skipped\n", mark(false), q.Name)
	if q.CompileError != "" {
		fmt.Fprintf(w, "    %s\n", q.CompileError)
	}
	for _, e := range q.Errors {
		fmt.Fprintf(w, "    %s\n", e)
	}
	for _, warning := range q.Warnings {
		fmt.Fprintf(w, "    %s\n", warning)
	}
}
