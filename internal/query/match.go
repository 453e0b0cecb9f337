package query

import (
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// Match selects the answers of a pattern body.
//
// Rendered form:
//
//	match
//	$x isa person, has name $n;
//	get $x, $n;
//	sort $n asc;
//	offset 10;
//	limit 5;
type Match struct {
	Conjunction *pattern.Conjunction
	Modifiers   Modifiers
}

// Modifiers shape the answers of a match. A nil Offset or Limit is unset.
type Modifiers struct {
	Filter  []pattern.Reference
	Sorting []SortVariable
	Offset  *int64
	Limit   *int64
}

// SortVariable is one sort key. An empty Order uses the default.
type SortVariable struct {
	Variable pattern.Reference
	Order    token.Order
}

func (s SortVariable) String() string {
	if s.Order == "" {
		return s.Variable.String()
	}
	return s.Variable.String() + token.Space.String() + s.Order.String()
}

// Asc sorts by v ascending.
func Asc(v pattern.Variable) SortVariable {
	return SortVariable{Variable: v.Reference(), Order: token.Asc}
}

// Desc sorts by v descending.
func Desc(v pattern.Variable) SortVariable {
	return SortVariable{Variable: v.Reference(), Order: token.Desc}
}

// By sorts by v in the default order.
func By(v pattern.Variable) SortVariable {
	return SortVariable{Variable: v.Reference()}
}

// NewMatch returns a match over the conjunction of patterns.
func NewMatch(patterns ...pattern.Pattern) *Match {
	return &Match{Conjunction: pattern.NewConjunction(patterns...)}
}

func (m *Match) clone() *Match {
	out := *m
	out.Modifiers.Filter = slices.Clone(m.Modifiers.Filter)
	out.Modifiers.Sorting = slices.Clone(m.Modifiers.Sorting)
	return &out
}

// Get restricts the answers to vars.
func (m *Match) Get(vars ...pattern.Variable) *Match {
	out := m.clone()
	for _, v := range vars {
		out.Modifiers.Filter = append(out.Modifiers.Filter, v.Reference())
	}
	return out
}

// Sort orders the answers by keys.
func (m *Match) Sort(keys ...SortVariable) *Match {
	out := m.clone()
	out.Modifiers.Sorting = append(out.Modifiers.Sorting, keys...)
	return out
}

// Offset skips the first n answers.
func (m *Match) Offset(n int64) *Match {
	out := m.clone()
	out.Modifiers.Offset = &n
	return out
}

// Limit caps the number of answers at n.
func (m *Match) Limit(n int64) *Match {
	out := m.clone()
	out.Modifiers.Limit = &n
	return out
}

// Insert writes stmts for every answer of the match.
func (m *Match) Insert(stmts ...*pattern.ThingStatement) *Insert {
	return &Insert{Match: m, Statements: stmts}
}

// Delete removes stmts for every answer of the match.
func (m *Match) Delete(stmts ...*pattern.ThingStatement) *Delete {
	return &Delete{Match: m, Statements: stmts}
}

// Normalised returns the body in disjunctive normal form.
func (m *Match) Normalised() *pattern.Disjunction {
	return pattern.Normalise(m.Conjunction)
}

func (m *Match) patterns() []pattern.Pattern {
	if m.Conjunction == nil {
		return nil
	}
	return m.Conjunction.Patterns
}

// Validate checks the body's statements and boundedness, nested negations
// and the modifiers.
func (m *Match) Validate() error {
	if len(m.patterns()) == 0 {
		return typeqlerr.MissingPatterns.New()
	}
	return typeqlerr.Collect(
		m.Conjunction.Validate(),
		m.Conjunction.ValidateBounded(),
		m.Conjunction.ValidateNegations(),
		m.validateModifiers(),
	)
}

func (m *Match) bounds() map[string]bool {
	bound := make(map[string]bool)
	if m.Conjunction == nil {
		return bound
	}
	for _, r := range m.Conjunction.NamedReferences() {
		bound[r.String()] = true
	}
	return bound
}

func (m *Match) validateModifiers() error {
	var err error
	bound := m.bounds()
	mods := m.Modifiers

	filtered := make(map[string]bool, len(mods.Filter))
	for _, r := range mods.Filter {
		name := r.String()
		if !bound[name] {
			typeqlerr.Append(&err, typeqlerr.VariableOutOfScopeMatch.New(name))
		}
		if filtered[name] {
			typeqlerr.Append(&err, typeqlerr.IllegalFilterVariableRepeating.New(name))
		}
		filtered[name] = true
	}

	for _, s := range mods.Sorting {
		name := s.Variable.String()
		switch {
		case len(mods.Filter) > 0 && !filtered[name]:
			typeqlerr.Append(&err, typeqlerr.InvalidSortVariable.New(name))
		case len(mods.Filter) == 0 && !bound[name]:
			typeqlerr.Append(&err, typeqlerr.VariableOutOfScopeMatch.New(name))
		}
	}

	if mods.Offset != nil && *mods.Offset < 0 {
		typeqlerr.Append(&err, typeqlerr.IllegalModifierValue.New(token.Offset, *mods.Offset))
	}
	if mods.Limit != nil && *mods.Limit < 0 {
		typeqlerr.Append(&err, typeqlerr.IllegalModifierValue.New(token.Limit, *mods.Limit))
	}
	return err
}

func (m *Match) String() string {
	lines := []string{clause(token.Match, pattern.JoinStatements(m.patterns()))}
	if mods := m.Modifiers.String(); mods != "" {
		lines = append(lines, mods)
	}
	return strings.Join(lines, token.Newline.String())
}

// String renders the modifiers one per line, or "" when none are set.
func (mods Modifiers) String() string {
	var lines []string
	sp := token.Space.String()
	end := token.Semicolon.String()
	if len(mods.Filter) > 0 {
		names := make([]string, len(mods.Filter))
		for i, r := range mods.Filter {
			names[i] = r.String()
		}
		lines = append(lines, token.Get.String()+sp+strings.Join(names, token.CommaSpaced.String())+end)
	}
	if len(mods.Sorting) > 0 {
		keys := make([]string, len(mods.Sorting))
		for i, s := range mods.Sorting {
			keys[i] = s.String()
		}
		lines = append(lines, token.Sort.String()+sp+strings.Join(keys, token.CommaSpaced.String())+end)
	}
	if mods.Offset != nil {
		lines = append(lines, token.Offset.String()+sp+strconv.FormatInt(*mods.Offset, 10)+end)
	}
	if mods.Limit != nil {
		lines = append(lines, token.Limit.String()+sp+strconv.FormatInt(*mods.Limit, 10)+end)
	}
	return strings.Join(lines, token.Newline.String())
}
