package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/typeql/internal/canon"
	"github.com/roach88/typeql/internal/compiler"
	"github.com/roach88/typeql/internal/query"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeLoadFailed  = "E004" // CUE load or build failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeNoQueries   = "E006" // Document declares no queries
	ErrCodeStoreFailed = "E007" // Catalog read or write error
)

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// loadDocument loads and compiles every query of the document at path.
// Only a document that cannot be read at all is an error; per-query
// compile failures stay on their entries.
func loadDocument(path string) ([]compiler.Compiled, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("document not found: %s", path)}
	}

	v, err := compiler.Load(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
	}

	queries, err := compiler.CompileDocument(v)
	if err != nil {
		var compileErr *compiler.CompileError
		if errors.As(err, &compileErr) && compileErr.Field == "query" {
			return nil, &LoadError{Code: ErrCodeNoQueries, Message: compileErr.Error()}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	return queries, nil
}

// QueryReport is the outcome of checking one query.
type QueryReport struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind,omitempty"`
	Valid        bool     `json:"valid"`
	Fingerprint  string   `json:"fingerprint,omitempty"`
	Text         string   `json:"text,omitempty"`
	CompileError string   `json:"compile_error,omitempty"`
	Codes        []string `json:"codes,omitempty"`
	Errors       []string `json:"errors,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`

	query query.Query
}

// DocumentReport is the outcome of checking one document.
type DocumentReport struct {
	Path    string        `json:"path"`
	Error   *LoadError    `json:"error,omitempty"`
	Queries []QueryReport `json:"queries"`
}

// checkDocument compiles and validates every query of the document at path.
func checkDocument(path string) DocumentReport {
	report := DocumentReport{Path: path, Queries: []QueryReport{}}

	queries, err := loadDocument(path)
	if err != nil {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			loadErr = &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
		}
		report.Error = loadErr
		return report
	}

	for _, entry := range queries {
		report.Queries = append(report.Queries, checkQuery(entry))
	}
	return report
}

func checkQuery(entry compiler.Compiled) QueryReport {
	r := QueryReport{Name: entry.Name}
	if entry.Err != nil {
		r.CompileError = entry.Err.Error()
		return r
	}

	q := entry.Query
	r.query = q
	r.Kind = q.Kind().String()
	r.Text = q.String()
	fp, err := canon.Fingerprint(q)
	if err != nil {
		r.CompileError = err.Error()
		return r
	}
	r.Fingerprint = fp

	verr := q.Validate()
	r.Codes = typeqlerr.Codes(verr)
	for _, e := range typeqlerr.List(verr) {
		r.Errors = append(r.Errors, e.Error())
	}
	r.Valid = verr == nil

	if def, ok := q.(*query.Define); ok {
		for _, w := range compiler.AnalyzeCycles(def.Rules) {
			r.Warnings = append(r.Warnings, w.Message)
			if w.Level == "error" {
				r.Valid = false
			}
		}
	}
	return r
}
