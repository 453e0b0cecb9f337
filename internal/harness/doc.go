// Package harness runs conformance scenarios against CUE query documents.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: adults-over-18
//	description: "match with has predicate renders canonically"
//	document: queries.cue
//	query: adults
//	expect:
//	  valid: true
//	  kind: match
//	  text: |
//	    match
//	    $x isa person, has age >= 18;
//	  branches:
//	    - "{\n    $x isa person, has age >= 18;\n}"
//	  errors: [TQL05]
//	  compile_error: "unknown field"
//	  warnings: ["Recursive rule"]
//
// Unknown keys are rejected so that a typo never silently disables an
// expectation.
//
// # Expectations
//
//   - valid: the query compiled and Validate returned no error
//   - kind: the query kind (match, insert, delete, update, define, undefine)
//   - text: the canonical rendering, trailing newlines ignored
//   - branches: the rendered branches of the normalised match body
//   - errors: the TQL codes returned by Validate, in order
//   - compile_error: a substring of the compile error
//   - warnings: substrings of rule cycle warnings, for define queries
//
// # Deterministic Testing
//
// Rendering and validation are pure, so a scenario produces the same result
// on every run. RunWithGolden snapshots the result as canonical JSON in
// testdata/golden/{scenario.Name}.golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/adults.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
