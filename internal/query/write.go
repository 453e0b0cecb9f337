package query

import (
	"strings"

	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// Insert writes thing statements. With a Match, the statements are written
// once per answer and must share at least one variable with it.
type Insert struct {
	Match      *Match
	Statements []*pattern.ThingStatement
}

// NewInsert returns an insert with no preceding match.
func NewInsert(stmts ...*pattern.ThingStatement) *Insert {
	return &Insert{Statements: stmts}
}

func (q *Insert) Validate() error {
	var err error
	if len(q.Statements) == 0 {
		typeqlerr.Append(&err, typeqlerr.MissingStatements.New(token.Insert))
	}
	typeqlerr.Append(&err, validateStatements(q.Statements))
	if q.Match != nil {
		typeqlerr.Append(&err, q.Match.Validate())
		typeqlerr.Append(&err, validateInsertInScope(q.Match, q.Statements))
	}
	return err
}

func (q *Insert) String() string {
	body := clause(token.Insert, pattern.JoinStatements(q.Statements))
	if q.Match == nil {
		return body
	}
	return q.Match.String() + token.Newline.String() + body
}

// Delete removes thing statements for every answer of its match. Every
// named variable it mentions must be bound by the match.
type Delete struct {
	Match      *Match
	Statements []*pattern.ThingStatement
}

// Insert turns the delete into an update that writes stmts afterwards.
func (q *Delete) Insert(stmts ...*pattern.ThingStatement) *Update {
	return &Update{Delete: q, Statements: stmts}
}

func (q *Delete) Validate() error {
	var err error
	if len(q.Statements) == 0 {
		typeqlerr.Append(&err, typeqlerr.MissingStatements.New(token.Delete))
	}
	typeqlerr.Append(&err, validateStatements(q.Statements))
	if q.Match == nil {
		typeqlerr.Append(&err, typeqlerr.MissingPatterns.New())
		return err
	}
	typeqlerr.Append(&err, q.Match.Validate())
	typeqlerr.Append(&err, validateDeleteInScope(q.Match, q.Statements))
	return err
}

func (q *Delete) String() string {
	body := clause(token.Delete, pattern.JoinStatements(q.Statements))
	if q.Match == nil {
		return body
	}
	return q.Match.String() + token.Newline.String() + body
}

// Update deletes and then inserts, both scoped by the delete's match.
type Update struct {
	Delete     *Delete
	Statements []*pattern.ThingStatement
}

func (q *Update) Validate() error {
	var err error
	typeqlerr.Append(&err, q.Delete.Validate())
	if len(q.Statements) == 0 {
		typeqlerr.Append(&err, typeqlerr.MissingStatements.New(token.Insert))
	}
	typeqlerr.Append(&err, validateStatements(q.Statements))
	if q.Delete.Match != nil {
		typeqlerr.Append(&err, validateInsertInScope(q.Delete.Match, q.Statements))
	}
	return err
}

func (q *Update) String() string {
	return q.Delete.String() + token.Newline.String() +
		clause(token.Insert, pattern.JoinStatements(q.Statements))
}

func validateStatements(stmts []*pattern.ThingStatement) error {
	var err error
	for _, s := range stmts {
		typeqlerr.Append(&err, s.Validate())
	}
	return err
}

// validateDeleteInScope reports each named variable of stmts that the match
// does not bind, once, in first-seen order. Value variables cannot be
// deleted at all.
func validateDeleteInScope(m *Match, stmts []*pattern.ThingStatement) error {
	var err error
	bound := m.bounds()
	reported := make(map[string]bool)
	for _, s := range stmts {
		for _, r := range s.Variables() {
			name := r.String()
			if !r.IsName() || reported[name] {
				continue
			}
			switch {
			case r.IsValue():
				reported[name] = true
				typeqlerr.Append(&err, typeqlerr.IllegalValueVariable.New(name, token.Delete))
			case !bound[name]:
				reported[name] = true
				typeqlerr.Append(&err, typeqlerr.VariableOutOfScopeDelete.New(name))
			}
		}
	}
	return err
}

// validateInsertInScope requires at least one inserted statement to mention
// a variable bound by the match.
func validateInsertInScope(m *Match, stmts []*pattern.ThingStatement) error {
	if len(stmts) == 0 {
		return nil
	}
	bound := m.bounds()
	var names []string
	seen := make(map[string]bool)
	for _, s := range stmts {
		for _, r := range s.Variables() {
			if !r.IsName() {
				continue
			}
			if bound[r.String()] {
				return nil
			}
			if !seen[r.String()] {
				seen[r.String()] = true
				names = append(names, r.String())
			}
		}
	}
	var bounds []string
	if m.Conjunction != nil {
		for _, r := range m.Conjunction.NamedReferences() {
			bounds = append(bounds, r.String())
		}
	}
	sep := token.CommaSpaced.String()
	return typeqlerr.NoVariableInScopeInsert.New(strings.Join(names, sep), strings.Join(bounds, sep))
}
