package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typeql/internal/pattern"
)

func v(name string) pattern.UnboundConceptVariable { return pattern.NewConceptVariable(name) }

// implies builds "when $x has from true then $x has to true".
func implies(label, from, to string) *pattern.RuleDefinition {
	return pattern.NewRule(label).
		When(pattern.NewConjunction(v("x").Has(from, true))).
		Then(v("x").Has(to, true))
}

// TestAnalyzeCycles_Empty tests that empty input produces no warnings.
func TestAnalyzeCycles_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeCycles(nil))
}

// TestAnalyzeCycles_DAG tests that a chain of rules produces no warnings.
func TestAnalyzeCycles_DAG(t *testing.T) {
	rules := []*pattern.RuleDefinition{
		implies("a-to-b", "a", "b"),
		implies("b-to-c", "b", "c"),
	}
	assert.Empty(t, AnalyzeCycles(rules), "DAG should produce no cycle warnings")
}

// TestAnalyzeCycles_SelfLoop tests detection of a recursive rule.
func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	reach := func(from, to string) *pattern.ThingStatement {
		return pattern.HiddenVariable().Rel("from", from).Rel("to", to).Isa("reach")
	}
	transitive := pattern.NewRule("transitive-reach").
		When(pattern.NewConjunction(reach("a", "b"), reach("b", "c"))).
		Then(reach("a", "c"))

	warnings := AnalyzeCycles([]*pattern.RuleDefinition{transitive})
	require.Len(t, warnings, 1)

	warning := warnings[0]
	assert.Equal(t, []string{"transitive-reach", "transitive-reach"}, warning.Path)
	assert.Contains(t, warning.Message, "Recursive rule")
	assert.Equal(t, "warning", warning.Level)
}

// TestAnalyzeCycles_TwoNodeCycle tests detection of A → B → A cycle.
func TestAnalyzeCycles_TwoNodeCycle(t *testing.T) {
	rules := []*pattern.RuleDefinition{
		implies("a-to-b", "a", "b"),
		implies("b-to-a", "b", "a"),
	}

	warnings := AnalyzeCycles(rules)
	require.Len(t, warnings, 1)

	warning := warnings[0]
	assert.Equal(t, []string{"a-to-b", "b-to-a", "a-to-b"}, warning.Path)
	assert.Contains(t, warning.Message, "Potential rule cycle")
	assert.Equal(t, "warning", warning.Level)
}

// TestAnalyzeCycles_ThroughNegation tests that a cycle through a negated
// condition is an error.
func TestAnalyzeCycles_ThroughNegation(t *testing.T) {
	unless := pattern.NewRule("a-unless-b").
		When(pattern.NewConjunction(
			v("x").Isa("person"),
			pattern.NewNegation(v("x").Has("b", true)),
		)).
		Then(v("x").Has("a", true))

	rules := []*pattern.RuleDefinition{unless, implies("a-to-b", "a", "b")}

	warnings := AnalyzeCycles(rules)
	require.Len(t, warnings, 1)
	assert.Equal(t, "error", warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "negation")
	assert.Equal(t, warnings[0].Path[0], warnings[0].Path[len(warnings[0].Path)-1], "cycle should return to start")
}

// TestAnalyzeCycles_MultipleIndependentCycles tests that separate cycles are
// reported separately, in rule order.
func TestAnalyzeCycles_MultipleIndependentCycles(t *testing.T) {
	rules := []*pattern.RuleDefinition{
		implies("a-to-b", "a", "b"),
		implies("b-to-a", "b", "a"),
		implies("x-to-y", "x", "y"),
		implies("y-to-x", "y", "x"),
		implies("c-to-d", "c", "d"),
	}

	warnings := AnalyzeCycles(rules)
	require.Len(t, warnings, 2)
	assert.Equal(t, "a-to-b", warnings[0].Path[0])
	assert.Equal(t, "x-to-y", warnings[1].Path[0])
}
