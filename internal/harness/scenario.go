package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one query of a CUE document
// and what compiling, validating and rendering it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document is the path to the CUE query document.
	// Relative paths are resolved against the scenario file location.
	Document string `yaml:"document"`

	// Query is the key of the query under test in the document.
	Query string `yaml:"query"`

	// Expect lists the expectations. At least one must be set.
	Expect Expectation `yaml:"expect"`
}

// Expectation specifies the expected outcome of a scenario.
type Expectation struct {
	// Valid is nil when validity is not checked.
	Valid *bool `yaml:"valid,omitempty"`

	Kind string `yaml:"kind,omitempty"`

	// Text is compared after trimming trailing newlines, so YAML block
	// scalars can be used.
	Text string `yaml:"text,omitempty"`

	// Branches are the rendered branches of the normalised match body.
	Branches []string `yaml:"branches,omitempty"`

	// Errors are the expected TQL codes, in order.
	Errors []string `yaml:"errors,omitempty"`

	// CompileError is a substring of the expected compile error.
	CompileError string `yaml:"compile_error,omitempty"`

	// Warnings are substrings of expected rule cycle warnings.
	Warnings []string `yaml:"warnings,omitempty"`
}

func (e Expectation) empty() bool {
	return e.Valid == nil && e.Kind == "" && e.Text == "" && len(e.Branches) == 0 &&
		len(e.Errors) == 0 && e.CompileError == "" && len(e.Warnings) == 0
}

// LoadScenario reads and parses a scenario YAML file. The document path is
// resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the document path relative to the provided base path.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "error:" vs "errors:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the document path relative to base path BEFORE validation
	if scenario.Document != "" && !filepath.IsAbs(scenario.Document) && basePath != "" {
		scenario.Document = filepath.Join(basePath, scenario.Document)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Document == "" {
		return fmt.Errorf("document is required")
	}
	if _, err := os.Stat(s.Document); os.IsNotExist(err) {
		return fmt.Errorf("document not found: %s", s.Document)
	}

	if s.Query == "" {
		return fmt.Errorf("query is required")
	}

	if s.Expect.empty() {
		return fmt.Errorf("expect: at least one expectation is required")
	}
	if s.Expect.Valid != nil && *s.Expect.Valid {
		if len(s.Expect.Errors) > 0 {
			return fmt.Errorf("expect: valid is true but errors are listed")
		}
		if s.Expect.CompileError != "" {
			return fmt.Errorf("expect: valid is true but a compile error is expected")
		}
	}
	if s.Expect.CompileError != "" && (s.Expect.Text != "" || len(s.Expect.Branches) > 0) {
		return fmt.Errorf("expect: compile_error cannot be combined with text or branches")
	}

	return nil
}
