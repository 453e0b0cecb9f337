package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/typeql/internal/canon"
)

// NormalisedQuery is one query of normalise output.
type NormalisedQuery struct {
	Name            string   `json:"name"`
	BodyFingerprint string   `json:"body_fingerprint"`
	Branches        []string `json:"branches"`
}

// NewNormaliseCommand creates the normalise command.
func NewNormaliseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "normalise <document>",
		Aliases: []string{"normalize"},
		Short:   "Print the normalised match body of each query",
		Long: `Print the disjunctive normal form of every query with a match body.

Each branch is a conjunction free of disjunctions. Queries whose bodies
normalise to the same branches share a body fingerprint.

Examples:
  typeql normalise school.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalise(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runNormalise(opts *RootOptions, path string, cmd *cobra.Command) error {
	report := checkDocument(path)
	formatter := newFormatter(opts, cmd.OutOrStdout())
	if report.Error != nil {
		_ = formatter.Error(report.Error.Code, report.Error.Message, nil)
		return NewExitError(ExitCommandError, report.Error.Message)
	}

	var (
		normalised = []NormalisedQuery{}
		skipped    int
	)
	for _, q := range report.Queries {
		if q.query == nil {
			skipped++
			reportSkipped(cmd.ErrOrStderr(), q)
			continue
		}
		m := canon.MatchOf(q.query)
		if m == nil || m.Conjunction == nil {
			continue
		}
		fp, err := canon.BodyFingerprint(m.Conjunction)
		if err != nil {
			return WrapExitError(ExitFailure, q.Name, err)
		}
		n := NormalisedQuery{Name: q.Name, BodyFingerprint: fp, Branches: []string{}}
		for _, b := range m.Normalised().Patterns {
			n.Branches = append(n.Branches, b.String())
		}
		normalised = append(normalised, n)
	}

	if formatter.JSON() {
		if err := formatter.Success(normalised); err != nil {
			return err
		}
	} else {
		sections := make([]string, len(normalised))
		for i, n := range normalised {
			sections[i] = fmt.Sprintf("# %s\n%s\n", n.Name, strings.Join(n.Branches, " or\n"))
		}
		fmt.Fprint(cmd.OutOrStdout(), strings.Join(sections, "\n"))
	}

	if skipped > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d queries failed to compile", skipped))
	}
	return nil
}
