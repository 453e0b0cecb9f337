package harness

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// ExpectationError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type ExpectationError struct {
	Field    string // Expectation key
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Diff     string // Line diff for text expectations, -want +got
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Expectation failed: %s\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Diff != "" {
		fmt.Fprintf(&buf, "\nDiff (-want +got):\n%s", e.Diff)
	}

	return buf.String()
}

// evaluate checks every set expectation against the result and returns the
// failures in a fixed order.
func evaluate(r *Result, e Expectation) []*ExpectationError {
	var failures []*ExpectationError
	fail := func(err *ExpectationError) {
		failures = append(failures, err)
	}

	if r.CompileError != "" && e.CompileError == "" {
		fail(&ExpectationError{
			Field:    "compile_error",
			Expected: "query compiles",
			Actual:   r.CompileError,
		})
	}
	if e.CompileError != "" && !strings.Contains(r.CompileError, e.CompileError) {
		fail(&ExpectationError{
			Field:    "compile_error",
			Expected: strconv.Quote(e.CompileError),
			Actual:   orNone(r.CompileError),
		})
	}

	if e.Valid != nil && *e.Valid != r.Valid() {
		fail(&ExpectationError{
			Field:    "valid",
			Expected: strconv.FormatBool(*e.Valid),
			Actual:   fmt.Sprintf("%t %s", r.Valid(), describeErrors(r)),
		})
	}

	if e.Kind != "" && e.Kind != r.Kind {
		fail(&ExpectationError{Field: "kind", Expected: e.Kind, Actual: orNone(r.Kind)})
	}

	if e.Text != "" {
		want := strings.TrimRight(e.Text, "\n")
		if want != r.Text {
			fail(&ExpectationError{
				Field:    "text",
				Expected: fmt.Sprintf("%d lines", strings.Count(want, "\n")+1),
				Actual:   fmt.Sprintf("%d lines", strings.Count(r.Text, "\n")+1),
				Diff:     cmp.Diff(strings.Split(want, "\n"), strings.Split(r.Text, "\n")),
			})
		}
	}

	if len(e.Branches) > 0 {
		want := make([]string, len(e.Branches))
		for i, b := range e.Branches {
			want[i] = strings.TrimRight(b, "\n")
		}
		if !slices.Equal(want, r.Branches) {
			fail(&ExpectationError{
				Field:    "branches",
				Expected: fmt.Sprintf("%d branches", len(want)),
				Actual:   fmt.Sprintf("%d branches", len(r.Branches)),
				Diff:     cmp.Diff(want, r.Branches),
			})
		}
	}

	if len(e.Errors) > 0 && !slices.Equal(e.Errors, r.Codes) {
		fail(&ExpectationError{
			Field:    "errors",
			Expected: strings.Join(e.Errors, ", "),
			Actual:   describeErrors(r),
		})
	}

	for _, w := range e.Warnings {
		found := slices.ContainsFunc(r.Warnings, func(got string) bool {
			return strings.Contains(got, w)
		})
		if !found {
			fail(&ExpectationError{
				Field:    "warnings",
				Expected: strconv.Quote(w),
				Actual:   orNone(strings.Join(r.Warnings, "; ")),
			})
		}
	}

	return failures
}

func describeErrors(r *Result) string {
	if r.CompileError != "" {
		return "(compile error: " + r.CompileError + ")"
	}
	if len(r.Codes) == 0 {
		return "(no errors)"
	}
	return "(" + strings.Join(r.Codes, ", ") + ")"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
