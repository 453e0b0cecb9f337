package harness

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/roach88/typeql/internal/canon"
	"github.com/roach88/typeql/internal/compiler"
	"github.com/roach88/typeql/internal/query"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// Harness is the test execution engine. It compiles each document once and
// is safe for concurrent use.
type Harness struct {
	logger *zap.Logger

	mu   sync.Mutex
	docs map[string]*document
}

type document struct {
	once    sync.Once
	queries []compiler.Compiled
	err     error
}

// New returns a harness logging to logger.
func New(logger *zap.Logger) *Harness {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{logger: logger, docs: make(map[string]*document)}
}

// Run executes a test scenario on a fresh harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Load and compile the scenario's document (cached per path)
// 2. Look up the query by name
// 3. Validate, render and normalise it
// 4. Evaluate the expectations
//
// The error is non-nil only when the scenario cannot be executed at all: a
// document that fails to load, or a query name it does not contain.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	queries, err := h.load(scenario.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var entry *compiler.Compiled
	for i := range queries {
		if queries[i].Name == scenario.Query {
			entry = &queries[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("query %q not found in %s", scenario.Query, scenario.Document)
	}

	result := NewResult(scenario.Name)
	if entry.Err != nil {
		result.CompileError = entry.Err.Error()
	} else {
		describe(result, entry.Query)
	}

	for _, failure := range evaluate(result, scenario.Expect) {
		result.AddError(failure.Error())
	}

	h.logger.Debug("scenario finished",
		zap.String("scenario", scenario.Name),
		zap.String("query", scenario.Query),
		zap.Bool("pass", result.Pass),
		zap.Strings("codes", result.Codes),
	)
	return result, nil
}

// describe fills result from a compiled query.
func describe(result *Result, q query.Query) {
	result.Kind = q.Kind().String()
	result.Text = q.String()
	result.Fingerprint = canon.MustFingerprint(q)

	if m := canon.MatchOf(q); m != nil && m.Conjunction != nil {
		for _, b := range m.Normalised().Patterns {
			result.Branches = append(result.Branches, b.String())
		}
	}

	err := q.Validate()
	result.Codes = typeqlerr.Codes(err)
	for _, e := range typeqlerr.List(err) {
		result.Messages = append(result.Messages, e.Error())
	}

	if def, ok := q.(*query.Define); ok {
		for _, w := range compiler.AnalyzeCycles(def.Rules) {
			result.Warnings = append(result.Warnings, w.Message)
		}
	}
}

func (h *Harness) load(path string) ([]compiler.Compiled, error) {
	h.mu.Lock()
	doc, ok := h.docs[path]
	if !ok {
		doc = &document{}
		h.docs[path] = doc
	}
	h.mu.Unlock()

	doc.once.Do(func() {
		h.logger.Debug("compiling document", zap.String("path", path))
		v, err := compiler.Load(path)
		if err != nil {
			doc.err = err
			return
		}
		doc.queries, doc.err = compiler.CompileDocument(v)
	})
	return doc.queries, doc.err
}
