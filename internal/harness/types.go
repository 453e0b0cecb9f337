package harness

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expectations match.
	Pass bool `json:"pass"`

	Scenario string `json:"scenario"`

	// CompileError is set when the query did not compile; the fields
	// describing the query are then empty.
	CompileError string `json:"compile_error,omitempty"`

	Kind        string   `json:"kind,omitempty"`
	Text        string   `json:"text,omitempty"`
	Branches    []string `json:"branches,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`

	// Codes and Messages are the TQL errors returned by Validate.
	Codes    []string `json:"codes,omitempty"`
	Messages []string `json:"messages,omitempty"`

	// Warnings are rule cycle warnings of define queries.
	Warnings []string `json:"warnings,omitempty"`

	// Errors contains expectation failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(scenario string) *Result {
	return &Result{
		Pass:     true,
		Scenario: scenario,
		Errors:   []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Valid reports whether the query compiled and validated cleanly.
func (r *Result) Valid() bool {
	return r.CompileError == "" && len(r.Codes) == 0
}
