package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/typeql/internal/canon"
)

// Snapshot is the part of a result recorded in golden files. Expectation
// failures are left out so that a snapshot describes the query, not the
// scenario.
type Snapshot struct {
	Scenario     string   `json:"scenario"`
	CompileError string   `json:"compile_error,omitempty"`
	Kind         string   `json:"kind,omitempty"`
	Text         string   `json:"text,omitempty"`
	Branches     []string `json:"branches,omitempty"`
	Fingerprint  string   `json:"fingerprint,omitempty"`
	Codes        []string `json:"codes,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

// SnapshotOf extracts the snapshot of a result.
func SnapshotOf(r *Result) Snapshot {
	return Snapshot{
		Scenario:     r.Scenario,
		CompileError: r.CompileError,
		Kind:         r.Kind,
		Text:         r.Text,
		Branches:     r.Branches,
		Fingerprint:  r.Fingerprint,
		Codes:        r.Codes,
		Warnings:     r.Warnings,
	}
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization. Empty fields are omitted.
func (s Snapshot) toCanonicalMap() map[string]any {
	result := map[string]any{"scenario": s.Scenario}
	for key, value := range map[string]string{
		"compile_error": s.CompileError,
		"kind":          s.Kind,
		"text":          s.Text,
		"fingerprint":   s.Fingerprint,
	} {
		if value != "" {
			result[key] = value
		}
	}
	for key, value := range map[string][]string{
		"branches": s.Branches,
		"codes":    s.Codes,
		"warnings": s.Warnings,
	} {
		if len(value) > 0 {
			result[key] = value
		}
	}
	return result
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	return canon.Marshal(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := SnapshotOf(result)
	snapshot.Scenario = scenarioName
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
