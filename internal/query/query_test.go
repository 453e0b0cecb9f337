package query

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

func v(name string) pattern.UnboundConceptVariable { return pattern.NewConceptVariable(name) }

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// ============================================================================
// Match
// ============================================================================

func TestMatchString(t *testing.T) {
	q := NewMatch(
		v("x").Isa("person").Has("name", v("n")),
		v("x").Has("age", pattern.NewPredicate(token.Gte, 18)),
	).Get(v("x"), v("n")).Sort(Asc(v("n"))).Offset(10).Limit(5)

	require.NoError(t, q.Validate())
	want := "match\n" +
		"$x isa person, has name $n;\n" +
		"$x has age >= 18;\n" +
		"get $x, $n;\n" +
		"sort $n asc;\n" +
		"offset 10;\n" +
		"limit 5;"
	assert.Equal(t, want, q.String())
	assert.Equal(t, KindMatch, q.Kind())
}

func TestMatchBuildersCopy(t *testing.T) {
	base := NewMatch(v("x").Isa("person"))
	limited := base.Limit(3)

	assert.Equal(t, "match\n$x isa person;", base.String())
	assert.Equal(t, "match\n$x isa person;\nlimit 3;", limited.String())
}

func TestMatchValidation(t *testing.T) {
	person := v("x").Isa("person")
	tests := []struct {
		name  string
		q     *Match
		codes []string
	}{
		{"no patterns", NewMatch(), []string{"TQL01"}},
		{"unbounded", NewMatch(pattern.HiddenVariable().Isa("person")), []string{"TQL04"}},
		{"filter out of scope", NewMatch(person).Get(v("y")), []string{"TQL07"}},
		{"filter repeated", NewMatch(person).Get(v("x"), v("x")), []string{"TQL10"}},
		{"sort not in filter", NewMatch(person, v("y").Isa("t")).Get(v("x")).Sort(By(v("y"))), []string{"TQL11"}},
		{"sort out of scope", NewMatch(person).Sort(Desc(v("z"))), []string{"TQL07"}},
		{"sort without filter", NewMatch(person).Sort(Desc(v("x"))), nil},
		{"negative modifiers", NewMatch(person).Offset(-1).Limit(-2), []string{"TQL12", "TQL12"}},
		{
			"nested negation",
			NewMatch(person, pattern.NewNegation(pattern.NewConjunction(
				v("x").Has("a", 1),
				pattern.NewNegation(v("x").Has("b", 1)),
			))),
			[]string{"TQL13"},
		},
		{"statement errors surface", NewMatch(v("x").IID("bad")), []string{"TQL16"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.codes == nil {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.codes, typeqlerr.Codes(err))
		})
	}
}

func TestMatchNormalised(t *testing.T) {
	q := NewMatch(
		v("x").Isa("person"),
		pattern.NewDisjunction(v("x").Has("a", 1), v("x").Has("b", 1)),
	)
	d := q.Normalised()
	require.Len(t, d.Patterns, 2)
	assert.Same(t, d, q.Normalised())
}

// ============================================================================
// Insert, delete, update
// ============================================================================

func TestInsertBoundedByMatch(t *testing.T) {
	insert := func(m *Match) *Insert {
		return m.Insert(v("y").Has("name", "Bob"))
	}

	outOfScope := insert(NewMatch(v("x").Isa("person")))
	err := outOfScope.Validate()
	require.Error(t, err)
	assert.Equal(t, []string{"TQL09"}, typeqlerr.Codes(err))
	assert.Contains(t, err.Error(), "($y)")
	assert.Contains(t, err.Error(), "($x)")

	inScope := insert(NewMatch(v("x").Isa("person"), v("y").Isa("person")))
	assert.NoError(t, inScope.Validate())
}

func TestInsertInScopeThroughReference(t *testing.T) {
	q := NewMatch(v("x").Isa("person")).
		Insert(pattern.HiddenVariable().Rel("friend", "x").Rel("friend", "z").Isa("friendship"))
	assert.NoError(t, q.Validate())
}

func TestInsertWithoutMatch(t *testing.T) {
	q := NewInsert(v("x").Isa("person").Has("name", "Alice"))
	require.NoError(t, q.Validate())
	assert.Equal(t, "insert\n$x isa person, has name \"Alice\";", q.String())

	assert.Equal(t, []string{"TQL03"}, typeqlerr.Codes(NewInsert().Validate()))
	assert.Contains(t, NewInsert().Validate().Error(), "'insert'")
}

func TestDeleteScope(t *testing.T) {
	m := NewMatch(v("x").Isa("person"))

	bad := m.Delete(v("y").Isa("person"))
	err := bad.Validate()
	require.Error(t, err)
	list := typeqlerr.List(err)
	require.Len(t, list, 1)
	assert.Same(t, typeqlerr.VariableOutOfScopeDelete, list[0].Kind)
	assert.Equal(t, "$y", list[0].Args["variable"])

	good := m.Delete(v("x").Isa("person"))
	assert.NoError(t, good.Validate())
	assert.Equal(t, "match\n$x isa person;\ndelete\n$x isa person;", good.String())
}

func TestDeleteReportsEachVariableOnce(t *testing.T) {
	q := NewMatch(v("x").Isa("person")).Delete(
		v("y").Has("name", v("n")),
		v("y").Isa("person"),
	)
	assert.Equal(t, []string{"TQL08", "TQL08"}, typeqlerr.Codes(q.Validate()))
}

func TestDeleteRejectsValueVariables(t *testing.T) {
	q := NewMatch(v("x").Isa("person"), pattern.NewValueVariable("v").Assign(1)).
		Delete(v("x").Has("age", pattern.NewValueVariable("v")))
	assert.Equal(t, []string{"TQL30"}, typeqlerr.Codes(q.Validate()))
}

func TestDeleteWithoutStatements(t *testing.T) {
	q := NewMatch(v("x").Isa("person")).Delete()
	assert.Equal(t, []string{"TQL03"}, typeqlerr.Codes(q.Validate()))
}

func TestUpdate(t *testing.T) {
	q := NewMatch(v("x").Isa("person").Has("age", v("a"))).
		Delete(v("x").Has("age", v("a"))).
		Insert(v("x").Has("age", 31))

	require.NoError(t, q.Validate())
	assert.Equal(t, KindUpdate, q.Kind())
	newGoldie(t).Assert(t, "update", []byte(q.String()))

	empty := NewMatch(v("x").Isa("person")).Delete(v("x").Has("age", v("x"))).Insert()
	assert.Equal(t, []string{"TQL03"}, typeqlerr.Codes(empty.Validate()))
}

// ============================================================================
// Define, undefine
// ============================================================================

func TestDefine(t *testing.T) {
	rule := pattern.NewRule("adult").
		When(pattern.NewConjunction(v("x").Isa("person").Has("age", pattern.NewPredicate(token.Gte, 18)))).
		Then(v("x").Has("adult", true))

	q, err := NewDefine(
		pattern.NewTypeStatement("person").Sub("entity").Owns("name", token.Key).Owns("age"),
		pattern.NewTypeStatement("adult").Sub("attribute").Value(token.Boolean),
		rule,
	)
	require.NoError(t, err)
	require.NoError(t, q.Validate())
	newGoldie(t).Assert(t, "define", []byte(q.String()))
}

func TestDefineRejectsDeclaration(t *testing.T) {
	q, err := NewDefine(pattern.NewRule("r"))
	assert.Nil(t, q)
	assert.True(t, typeqlerr.Has(err, typeqlerr.DefineRuleDeclaration))
	assert.Panics(t, func() { MustDefine(pattern.NewRule("r")) })
}

func TestDefineValidation(t *testing.T) {
	assert.Equal(t, []string{"TQL02"}, typeqlerr.Codes(MustDefine().Validate()))

	unlabelled := MustDefine(v("t").Sub("entity"))
	assert.Equal(t, []string{"TQL29"}, typeqlerr.Codes(unlabelled.Validate()))

	labelled := MustDefine(v("t").Type("person").Sub("entity"))
	assert.NoError(t, labelled.Validate())
}

func TestUndefineRejectsDefinition(t *testing.T) {
	def := pattern.NewRule("r").
		When(pattern.NewConjunction(v("x").Isa("person"))).
		Then(v("x").Has("age", 30))

	q, err := NewUndefine(def)
	assert.Nil(t, q)
	require.Error(t, err)
	assert.Equal(t, []string{"TQL28"}, typeqlerr.Codes(err))
	assert.Panics(t, func() { MustUndefine(def) })
}

func TestUndefine(t *testing.T) {
	q := MustUndefine(pattern.NewTypeStatement("person").Owns("email"), pattern.NewRule("adult"))
	require.NoError(t, q.Validate())
	assert.Equal(t, "undefine\nperson owns email;\nrule adult;", q.String())
	assert.Equal(t, KindUndefine, q.Kind())
}
