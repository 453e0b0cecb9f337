package pattern

import (
	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// ValueStatement constrains a value variable (?x) by assignment or
// comparison.
type ValueStatement struct {
	Variable   UnboundValueVariable
	Assignment *AssignConstraint
	Predicate  *Predicate
}

func (*ValueStatement) isPattern()   {}
func (*ValueStatement) isStatement() {}

func (s *ValueStatement) Owner() Reference { return s.Variable.Reference() }

func (s *ValueStatement) ConstrainValue(c ValueConstraint) *ValueStatement {
	out := *s
	switch c := c.(type) {
	case AssignConstraint:
		out.Assignment = &c
	case Predicate:
		out.Predicate = &c
	}
	return &out
}

func (v UnboundValueVariable) ConstrainValue(c ValueConstraint) *ValueStatement {
	return v.value().ConstrainValue(c)
}

// Assign binds the variable to an expression; see ExprOf.
func (s *ValueStatement) Assign(expr any) *ValueStatement {
	return s.ConstrainValue(AssignConstraint{Expression: ExprOf(expr)})
}

// Compare constrains the variable with a predicate.
func (s *ValueStatement) Compare(op token.Predicate, v any) *ValueStatement {
	return s.ConstrainValue(NewPredicate(op, v))
}

func (v UnboundValueVariable) Assign(expr any) *ValueStatement { return v.value().Assign(expr) }

func (v UnboundValueVariable) Compare(op token.Predicate, x any) *ValueStatement {
	return v.value().Compare(op, x)
}

func (s *ValueStatement) Variables() []Reference {
	refs := []Reference{s.Owner()}
	if s.Assignment != nil {
		refs = append(refs, s.Assignment.Expression.References()...)
	}
	if s.Predicate != nil {
		refs = append(refs, valueReferences(s.Predicate.Value)...)
	}
	return refs
}

func (s *ValueStatement) Validate() error {
	var err error
	typeqlerr.Append(&err, s.Owner().validate())
	if s.Assignment != nil {
		for _, r := range s.Assignment.Expression.References() {
			typeqlerr.Append(&err, r.validate())
		}
	}
	if s.Predicate != nil {
		typeqlerr.Append(&err, s.Predicate.validate())
	}
	return err
}

func (s *ValueStatement) String() string {
	out := s.Variable.String()
	sp := token.Space.String()
	if s.Assignment != nil {
		out += sp + s.Assignment.String()
	}
	if s.Predicate != nil {
		out += sp + s.Predicate.explicit()
	}
	return out
}
