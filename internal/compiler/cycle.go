package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/typeql/internal/pattern"
)

// CycleWarning represents a potential cycle between rules.
//
// Cycles are warnings, not errors: recursive rules such as transitive
// closure are legitimate. A cycle through a negated condition cannot be
// stratified and is reported at level "error".
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["rule-a", "rule-b", "rule-a"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning" or "error"
}

// AnalyzeCycles performs static cycle analysis on rules.
//
// The algorithm:
//  1. Build a rule → rule dependency graph: a rule depends on every rule
//     whose conclusion names a type its condition reads
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or self-loops as a potential cycle
//
// Rules without cycles return an empty warning list.
func AnalyzeCycles(rules []*pattern.RuleDefinition) []CycleWarning {
	if len(rules) == 0 {
		return []CycleWarning{}
	}

	graph, negated := buildDependencyGraph(rules)
	sccs := tarjanSCC(graph, ruleOrder(rules))

	var warnings []CycleWarning
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph, negated))
		}
	}
	return warnings
}

// dependencyGraph maps rule label → labels of rules whose inference it can
// trigger.
type dependencyGraph map[string][]string

// edge is a dependency between two rules.
type edge struct{ from, to string }

// buildDependencyGraph links rule A to rule B when A concludes a type that
// B's condition reads. Edges through a negation are recorded separately.
func buildDependencyGraph(rules []*pattern.RuleDefinition) (dependencyGraph, map[edge]bool) {
	graph := make(dependencyGraph)
	negated := make(map[edge]bool)

	readers := make(map[string][]string)
	negatedReaders := make(map[string]map[string]bool)
	for _, r := range rules {
		graph[r.Label] = []string{}
		plain, neg := conditionLabels(r.When)
		for _, label := range plain {
			readers[label] = append(readers[label], r.Label)
		}
		for _, label := range neg {
			readers[label] = append(readers[label], r.Label)
			if negatedReaders[label] == nil {
				negatedReaders[label] = make(map[string]bool)
			}
			negatedReaders[label][r.Label] = true
		}
	}

	for _, r := range rules {
		for _, label := range conclusionLabels(r.Then) {
			for _, reader := range readers[label] {
				if !slices.Contains(graph[r.Label], reader) {
					graph[r.Label] = append(graph[r.Label], reader)
				}
				if negatedReaders[label][reader] {
					negated[edge{r.Label, reader}] = true
				}
			}
		}
	}
	return graph, negated
}

func ruleOrder(rules []*pattern.RuleDefinition) []string {
	order := make([]string, len(rules))
	for i, r := range rules {
		order[i] = r.Label
	}
	return order
}

// conclusionLabels returns the types a rule's conclusion infers: the
// relation type or the attribute types it owns.
func conclusionLabels(then *pattern.ThingStatement) []string {
	if then == nil {
		return nil
	}
	var labels []string
	if then.Relation != nil && then.IsaConstraint != nil {
		labels = appendLabel(labels, then.IsaConstraint.Type)
	}
	for _, h := range then.HasConstraints {
		labels = appendLabel(labels, h.Type)
		if h.Attribute != nil && h.Attribute.IsaConstraint != nil {
			labels = appendLabel(labels, h.Attribute.IsaConstraint.Type)
		}
	}
	return labels
}

// conditionLabels returns the types a condition reads, split into those
// read positively and those read under a negation.
func conditionLabels(when *pattern.Conjunction) (plain, negated []string) {
	var walk func(p pattern.Pattern, neg bool)
	walk = func(p pattern.Pattern, neg bool) {
		switch p := p.(type) {
		case *pattern.Conjunction:
			for _, q := range p.Patterns {
				walk(q, neg)
			}
		case *pattern.Disjunction:
			for _, q := range p.Patterns {
				walk(q, neg)
			}
		case *pattern.Negation:
			walk(p.Pattern, true)
		case *pattern.ThingStatement:
			var labels []string
			if p.IsaConstraint != nil {
				labels = appendLabel(labels, p.IsaConstraint.Type)
			}
			for _, h := range p.HasConstraints {
				labels = appendLabel(labels, h.Type)
			}
			if neg {
				negated = append(negated, labels...)
			} else {
				plain = append(plain, labels...)
			}
		}
	}
	if when != nil {
		walk(when, false)
	}
	return plain, negated
}

func appendLabel(labels []string, t *pattern.TypeStatement) []string {
	if t == nil || t.Label == nil {
		return labels
	}
	return append(labels, t.Label.Label.String())
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph dependencyGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in order so the result is deterministic.
func tarjanSCC(graph dependencyGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// If v is a root node, pop the stack and create an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Reverse(scc)
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// cycleSCCToWarning converts an SCC to a CycleWarning.
func cycleSCCToWarning(scc []string, graph dependencyGraph, negated map[edge]bool) CycleWarning {
	var path []string
	if len(scc) == 1 {
		path = []string{scc[0], scc[0]}
	} else {
		path = reconstructCyclePath(scc, graph)
	}

	for i := 0; i+1 < len(path); i++ {
		if negated[edge{path[i], path[i+1]}] {
			return CycleWarning{
				Path:    path,
				Message: fmt.Sprintf("Rule cycle through negation cannot be stratified: %s", strings.Join(path, " → ")),
				Level:   "error",
			}
		}
	}

	if len(scc) == 1 {
		return CycleWarning{
			Path:    path,
			Message: fmt.Sprintf("Recursive rule detected: %s → %s", scc[0], scc[0]),
			Level:   "warning",
		}
	}
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("Potential rule cycle detected: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Strategy: Start at first node in SCC, follow edges to other SCC members,
// continue until we return to start node.
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
