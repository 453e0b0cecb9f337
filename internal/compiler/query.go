package compiler

import (
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/query"
	"github.com/roach88/typeql/internal/token"
)

var queryFields = []string{
	"match", "get", "sort", "offset", "limit",
	"insert", "delete", "define", "undefine",
}

// CompileQuery compiles one query object. The clauses present decide the
// query kind: define, undefine, match, match+insert, match+delete,
// match+delete+insert, or a bare insert.
func CompileQuery(v cue.Value) (query.Query, error) {
	if v.Kind() != cue.StructKind {
		return nil, errorAt(v, "query", "must be a struct")
	}
	if err := checkFields(v, "", queryFields...); err != nil {
		return nil, err
	}

	has := func(key string) bool { return lookup(v, key).Exists() }

	for _, schema := range []string{"define", "undefine"} {
		if !has(schema) {
			continue
		}
		for _, other := range queryFields {
			if other != schema && has(other) {
				return nil, errorAt(lookup(v, other), other, "cannot be combined with %s", schema)
			}
		}
		defs, err := compileDefinables(lookup(v, schema), schema)
		if err != nil {
			return nil, err
		}
		if schema == "define" {
			q, err := query.NewDefine(defs...)
			if err != nil {
				return nil, err
			}
			return q, nil
		}
		q, err := query.NewUndefine(defs...)
		if err != nil {
			return nil, err
		}
		return q, nil
	}

	if !has("match") {
		for _, mod := range []string{"get", "sort", "offset", "limit", "delete"} {
			if has(mod) {
				return nil, errorAt(lookup(v, mod), mod, "requires a match clause")
			}
		}
		if !has("insert") {
			return nil, errorAt(v, "query", "no clause: expected one of %s", strings.Join(queryFields, ", "))
		}
		stmts, err := compileThings(lookup(v, "insert"), "insert")
		if err != nil {
			return nil, err
		}
		return query.NewInsert(stmts...), nil
	}

	m, err := compileMatch(v)
	if err != nil {
		return nil, err
	}

	switch {
	case has("delete"):
		deleted, err := compileThings(lookup(v, "delete"), "delete")
		if err != nil {
			return nil, err
		}
		d := m.Delete(deleted...)
		if !has("insert") {
			return d, nil
		}
		inserted, err := compileThings(lookup(v, "insert"), "insert")
		if err != nil {
			return nil, err
		}
		return d.Insert(inserted...), nil
	case has("insert"):
		inserted, err := compileThings(lookup(v, "insert"), "insert")
		if err != nil {
			return nil, err
		}
		return m.Insert(inserted...), nil
	default:
		return m, nil
	}
}

func compileMatch(v cue.Value) (*query.Match, error) {
	patterns, err := compilePatterns(lookup(v, "match"), "match")
	if err != nil {
		return nil, err
	}
	m := query.NewMatch(patterns...)

	if get := lookup(v, "get"); get.Exists() {
		var vars []pattern.Variable
		err := eachElement(get, "get", func(_ int, elem cue.Value, path string) error {
			name, err := stringField(elem, path)
			if err != nil {
				return err
			}
			vars = append(vars, variable(name))
			return nil
		})
		if err != nil {
			return nil, err
		}
		m = m.Get(vars...)
	}

	if sort := lookup(v, "sort"); sort.Exists() {
		var keys []query.SortVariable
		err := eachElement(sort, "sort", func(_ int, elem cue.Value, path string) error {
			key, err := compileSortKey(elem, path)
			if err != nil {
				return err
			}
			keys = append(keys, key)
			return nil
		})
		if err != nil {
			return nil, err
		}
		m = m.Sort(keys...)
	}

	if offset := lookup(v, "offset"); offset.Exists() {
		n, err := offset.Int64()
		if err != nil {
			return nil, errorAt(offset, "offset", "must be an integer")
		}
		m = m.Offset(n)
	}
	if limit := lookup(v, "limit"); limit.Exists() {
		n, err := limit.Int64()
		if err != nil {
			return nil, errorAt(limit, "limit", "must be an integer")
		}
		m = m.Limit(n)
	}
	return m, nil
}

// compileSortKey accepts "x" or {var: "x", order: "desc"}.
func compileSortKey(v cue.Value, path string) (query.SortVariable, error) {
	if v.Kind() == cue.StringKind {
		name, _ := v.String()
		return query.By(variable(name)), nil
	}
	if err := checkFields(v, path, "var", "order"); err != nil {
		return query.SortVariable{}, err
	}
	name, err := stringField(lookup(v, "var"), join(path, "var"))
	if err != nil {
		return query.SortVariable{}, err
	}
	order := lookup(v, "order")
	if !order.Exists() {
		return query.By(variable(name)), nil
	}
	dir, err := stringField(order, join(path, "order"))
	if err != nil {
		return query.SortVariable{}, err
	}
	switch token.Order(dir) {
	case token.Asc:
		return query.Asc(variable(name)), nil
	case token.Desc:
		return query.Desc(variable(name)), nil
	}
	return query.SortVariable{}, errorAt(order, join(path, "order"), "must be %q or %q", token.Asc, token.Desc)
}

func compileThings(v cue.Value, path string) ([]*pattern.ThingStatement, error) {
	var out []*pattern.ThingStatement
	err := eachElement(v, path, func(_ int, elem cue.Value, path string) error {
		s, err := compileStatement(elem, path)
		if err != nil {
			return err
		}
		thing, ok := s.(*pattern.ThingStatement)
		if !ok {
			return errorAt(elem, path, "only thing statements can be written")
		}
		out = append(out, thing)
		return nil
	})
	return out, err
}

// compileDefinables accepts type statements and rules. A rule without when
// and then is a declaration.
func compileDefinables(v cue.Value, path string) ([]pattern.Definable, error) {
	var out []pattern.Definable
	err := eachElement(v, path, func(_ int, elem cue.Value, path string) error {
		if lookup(elem, "rule").Exists() {
			rule, err := compileRule(elem, path)
			if err != nil {
				return err
			}
			out = append(out, rule)
			return nil
		}
		s, err := compileStatement(elem, path)
		if err != nil {
			return err
		}
		t, ok := s.(*pattern.TypeStatement)
		if !ok {
			return errorAt(elem, path, "only type statements and rules can be defined")
		}
		out = append(out, t)
		return nil
	})
	return out, err
}

func compileRule(v cue.Value, path string) (pattern.Definable, error) {
	if err := checkFields(v, path, "rule", "when", "then"); err != nil {
		return nil, err
	}
	label, err := stringField(lookup(v, "rule"), join(path, "rule"))
	if err != nil {
		return nil, err
	}
	decl := pattern.NewRule(label)

	when, then := lookup(v, "when"), lookup(v, "then")
	switch {
	case !when.Exists() && !then.Exists():
		return decl, nil
	case !when.Exists():
		return nil, errorAt(v, join(path, "when"), "rule %s has a conclusion but no condition", label)
	case !then.Exists():
		return nil, errorAt(v, join(path, "then"), "rule %s has a condition but no conclusion", label)
	}

	patterns, err := compilePatterns(when, join(path, "when"))
	if err != nil {
		return nil, err
	}
	s, err := compileStatement(then, join(path, "then"))
	if err != nil {
		return nil, err
	}
	conclusion, ok := s.(*pattern.ThingStatement)
	if !ok {
		return nil, errorAt(then, join(path, "then"), "must be a thing statement")
	}
	return decl.When(pattern.NewConjunction(patterns...)).Then(conclusion), nil
}

// variable maps "x" and "$x" to a concept variable and "?x" to a value
// variable.
func variable(name string) pattern.Variable {
	if v, ok := strings.CutPrefix(name, token.Question.String()); ok {
		return pattern.NewValueVariable(v)
	}
	return conceptVariable(name)
}

func conceptVariable(name string) pattern.UnboundConceptVariable {
	name = strings.TrimPrefix(name, token.Dollar.String())
	if name == token.Underscore.String() {
		return pattern.AnonymousVariable()
	}
	return pattern.NewConceptVariable(name)
}
