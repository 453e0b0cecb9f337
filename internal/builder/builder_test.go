package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/typeqlerr"
)

func TestOrCollapsesSingleArgument(t *testing.T) {
	s := Var("x").Isa("person")
	assert.Same(t, s, Or(s))

	d, ok := Or(s, Var("x").Isa("company")).(*pattern.Disjunction)
	require.True(t, ok)
	assert.Len(t, d.Patterns, 2)
}

func TestMatchInsertBoundedness(t *testing.T) {
	newPerson := Var("y").Isa("person").Has("name", "Bob")

	q := Match(Var("x").Isa("person")).Insert(newPerson)
	err := q.Validate()
	require.Error(t, err)
	assert.True(t, typeqlerr.Has(err, typeqlerr.NoVariableInScopeInsert))

	q = Match(Var("x").Isa("person"), Var("y").Isa("person")).Insert(newPerson)
	assert.NoError(t, q.Validate())
}

func TestRuleWithDisjunctionInWhen(t *testing.T) {
	rule := Rule("r").
		When(And(Or(Var("x").Isa("person"), Var("x").Isa("company")))).
		Then(Var("x").Has("age", 30))

	assert.True(t, typeqlerr.Has(rule.Validate(), typeqlerr.InvalidRuleWhenContainsDisjunction))
}

func TestRuleRendersInOrder(t *testing.T) {
	rule := Rule("r").When(And(Var("x").Isa("person"))).Then(Var("x").Has("age", 30))
	require.NoError(t, rule.Validate())

	text := rule.String()
	pos := 0
	for _, part := range []string{"rule r:", "when {", "$x isa person;", "then {", "$x has age 30;", "}"} {
		idx := strings.Index(text[pos:], part)
		require.GreaterOrEqual(t, idx, 0, "%q not found after offset %d in\n%s", part, pos, text)
		pos += idx + len(part)
	}
}

func TestDeleteOutOfScope(t *testing.T) {
	m := Match(Var("x").Isa("person"))

	err := m.Delete(Var("y").Isa("person")).Validate()
	list := typeqlerr.List(err)
	require.Len(t, list, 1)
	assert.Same(t, typeqlerr.VariableOutOfScopeDelete, list[0].Kind)
	assert.Contains(t, list[0].Error(), "$y")

	assert.NoError(t, m.Delete(Var("x").Isa("person")).Validate())
}

func TestUndefineRuleDefinitionIsNeverSilent(t *testing.T) {
	def := Rule("r").When(And(Var("x").Isa("person"))).Then(Var("x").Has("age", 30))

	q, err := Undefine(def)
	assert.Nil(t, q)
	assert.True(t, typeqlerr.Has(err, typeqlerr.UndefineRuleDefinition))
	assert.Panics(t, func() { MustUndefine(def) })

	q, err = Undefine(Rule("r"))
	require.NoError(t, err)
	assert.Equal(t, "undefine\nrule r;", q.String())
}

func TestDefineSchema(t *testing.T) {
	q := MustDefine(
		Type("employment").Sub("relation").Relates("employee").Relates("employer"),
		Type("person").Sub("entity").Plays("employment:employee"),
	)
	require.NoError(t, q.Validate())
	want := "define\n" +
		"employment sub relation,\n    relates employee,\n    relates employer;\n" +
		"person sub entity,\n    plays employment:employee;"
	assert.Equal(t, want, q.String())

	_, err := Define(Rule("r"))
	assert.True(t, typeqlerr.Has(err, typeqlerr.DefineRuleDeclaration))
}

func TestPredicatesInHas(t *testing.T) {
	q := Match(
		Var("x").Isa("person").Has("age", Gt(18)).Has("name", Contains("li")),
		Var("x").Has("email", Like(".*@example\\.com")),
		Var("x").Has("score", Lte(Var("s"))),
		Var("s").Isa("score"),
	)
	require.NoError(t, q.Validate())
	want := "match\n" +
		"$x isa person, has age > 18, has name contains \"li\";\n" +
		"$x has email like \".*@example\\\\.com\";\n" +
		"$x has score <= $s;\n" +
		"$s isa score;"
	assert.Equal(t, want, q.String())
}

func TestExpressions(t *testing.T) {
	stmt := VVar("r").Assign(Round(Div(Paren(Add(VVar("a"), Constant(2))), Max(VVar("b"), 1, Abs(-3)))))
	assert.Equal(t, "?r = round((?a + 2) / max(?b, 1, abs(-3)))", stmt.String())

	pow := VVar("p").Assign(Pow(Mod(VVar("a"), 3), Sub(Mul(2, Ceil(1.5)), Floor(VVar("f")))))
	assert.Equal(t, "?p = (?a % 3) ^ (2 * ceil(1.5) - floor(?f))", pow.String())
	assert.Equal(t, "min(1, 2)", Min(1, 2).String())
}

func TestExpressionPrecedence(t *testing.T) {
	a, b, c := VVar("a"), VVar("b"), VVar("c")
	tests := []struct {
		name string
		expr pattern.Expression
		want string
	}{
		{"looser left operand", Mul(Add(b, 1), 2), "(?b + 1) * 2"},
		{"tighter right operand", Add(b, Mul(1, 2)), "?b + 1 * 2"},
		{"left chain", Sub(Sub(a, b), c), "?a - ?b - ?c"},
		{"right chain of subtraction", Sub(a, Sub(b, c)), "?a - (?b - ?c)"},
		{"right chain of addition", Add(a, Add(b, c)), "?a + (?b + ?c)"},
		{"divide by product", Div(a, Mul(b, c)), "?a / (?b * ?c)"},
		{"modulo of quotient", Mod(Div(a, b), c), "?a / ?b % ?c"},
		{"power groups right", Pow(a, Pow(b, c)), "?a ^ ?b ^ ?c"},
		{"power of power", Pow(Pow(a, b), c), "(?a ^ ?b) ^ ?c"},
		{"explicit parens kept", Mul(Paren(Add(a, b)), c), "(?a + ?b) * ?c"},
		{"function argument", Max(Add(a, b), Mul(b, c)), "max(?a + ?b, ?b * ?c)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}

	assign := VVar("a").Assign(Mul(Add(VVar("b"), 1), 2))
	assert.Equal(t, "?a = (?b + 1) * 2", assign.String())
}

func TestGetSortWithVariables(t *testing.T) {
	q := Match(Var("x").Isa("person").Has("name", Var("n")), VVar("l").Assign(1)).
		Get(Var("x"), VVar("l"))
	require.NoError(t, q.Validate())
	assert.True(t, strings.HasSuffix(q.String(), "get $x, ?l;"))
}
