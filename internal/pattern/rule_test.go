package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typeql/internal/typeqlerr"
)

// ============================================================================
// Rules
// ============================================================================

func TestRuleValidAndRendered(t *testing.T) {
	rule := NewRule("r").
		When(NewConjunction(cvar("x").Isa("person"))).
		Then(cvar("x").Has("age", 30))

	require.NoError(t, rule.Validate())

	want := "rule r:\n" +
		"    when {\n" +
		"        $x isa person;\n" +
		"    }\n" +
		"    then {\n" +
		"        $x has age 30;\n" +
		"    }"
	assert.Equal(t, want, rule.String())

	// Keywords appear in this order.
	text := rule.String()
	last := -1
	for _, part := range []string{"rule r:", "when {", "$x isa person;", "then {", "$x has age 30;", "}"} {
		idx := strings.Index(text[last+1:], part)
		require.GreaterOrEqual(t, idx, 0, "%q missing after offset %d", part, last)
		last += idx + 1
	}
}

func TestRuleDisjunctionInWhen(t *testing.T) {
	thens := map[string]*ThingStatement{
		"valid then":   cvar("x").Has("age", 30),
		"invalid then": cvar("x").Isa("person").Has("age", 30),
	}
	for name, then := range thens {
		t.Run(name, func(t *testing.T) {
			rule := NewRule("r").
				When(NewConjunction(NewDisjunction(cvar("x").Isa("person"), cvar("x").Isa("company")))).
				Then(then)
			assert.True(t, typeqlerr.Has(rule.Validate(), typeqlerr.InvalidRuleWhenContainsDisjunction))
		})
	}
}

func TestRuleDisjunctionNestedInNegation(t *testing.T) {
	rule := NewRule("r").
		When(NewConjunction(
			cvar("x").Isa("person"),
			NewNegation(NewDisjunction(cvar("x").Has("a", 1), cvar("x").Has("b", 1))),
		)).
		Then(cvar("x").Has("age", 30))

	assert.Equal(t, []string{"TQL21"}, typeqlerr.Codes(rule.Validate()))
}

func TestRuleValidation(t *testing.T) {
	person := cvar("x").Isa("person")
	tests := []struct {
		name  string
		when  *Conjunction
		then  *ThingStatement
		codes []string
	}{
		{
			name:  "relation with roles",
			when:  NewConjunction(person, cvar("y").Isa("person")),
			then:  HiddenVariable().Rel("friend", "x").Rel("friend", "y").Isa("friendship"),
			codes: nil,
		},
		{
			name:  "top level negation allowed",
			when:  NewConjunction(person, NewNegation(cvar("x").Has("age", 0))),
			then:  cvar("x").Has("age", 30),
			codes: nil,
		},
		{
			name:  "empty when",
			when:  NewConjunction(),
			then:  cvar("x").Has("age", 30),
			codes: []string{"TQL20", "TQL25"},
		},
		{
			name:  "nested negation",
			when:  NewConjunction(person, NewNegation(NewConjunction(cvar("x").Has("a", 1), NewNegation(cvar("x").Has("b", 1))))),
			then:  cvar("x").Has("age", 30),
			codes: []string{"TQL22"},
		},
		{
			name:  "then with isa and has",
			when:  NewConjunction(person),
			then:  cvar("x").Isa("person").Has("age", 30),
			codes: []string{"TQL23"},
		},
		{
			name:  "then with two has",
			when:  NewConjunction(person),
			then:  cvar("x").Has("age", 30).Has("name", "n"),
			codes: []string{"TQL23"},
		},
		{
			name:  "relation without isa",
			when:  NewConjunction(person, cvar("y").Isa("person")),
			then:  HiddenVariable().Rel("friend", "x").Rel("friend", "y"),
			codes: []string{"TQL23"},
		},
		{
			name:  "typed has of bound attribute",
			when:  NewConjunction(person, cvar("a").Isa("age")),
			then:  cvar("x").Has("age", cvar("a")),
			codes: []string{"TQL24"},
		},
		{
			name:  "untyped has of bound attribute",
			when:  NewConjunction(person, cvar("a").Isa("age")),
			then:  cvar("x").HasVar(cvar("a")),
			codes: nil,
		},
		{
			name:  "missing role",
			when:  NewConjunction(person, cvar("y").Isa("person")),
			then:  HiddenVariable().Rel("friend", "x").Rel("", "y").Isa("friendship"),
			codes: []string{"TQL26"},
		},
		{
			name:  "then variable not in when",
			when:  NewConjunction(person),
			then:  HiddenVariable().Rel("friend", "x").Rel("friend", "y").Isa("friendship"),
			codes: []string{"TQL25"},
		},
		{
			name:  "then variable only in nested pattern",
			when:  NewConjunction(person, NewNegation(cvar("y").Isa("person"))),
			then:  HiddenVariable().Rel("friend", "x").Rel("friend", "y").Isa("friendship"),
			codes: []string{"TQL25"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRule("r").When(tt.when).Then(tt.then).Validate()
			if tt.codes == nil {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.codes, typeqlerr.Codes(err))
		})
	}
}

func TestRuleDeclaration(t *testing.T) {
	decl := NewRule("adult-rule")
	assert.Equal(t, "rule adult-rule", decl.String())
	assert.NoError(t, decl.Validate())
	assert.Equal(t, []string{"TQL15"}, typeqlerr.Codes(NewRule("1bad").Validate()))

	def := decl.When(NewConjunction(cvar("x").Isa("person"))).Then(cvar("x").Has("adult", true))
	assert.Equal(t, decl, def.Declaration())
}
