package pattern

import (
	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// Statement is a single variable with its constraints.
//
// Sealed: *ConceptStatement, *TypeStatement, *ThingStatement, *ValueStatement.
type Statement interface {
	Pattern
	// Owner is the reference the statement constrains.
	Owner() Reference
	// Variables returns the owner followed by every reference reachable
	// through the statement's constraints.
	Variables() []Reference
	isStatement()
}

// Capability contracts. A statement kind implements the one it accepts and
// every chain method on that kind goes through it.
type (
	ConceptConstrainable interface {
		ConstrainIs(IsConstraint) *ConceptStatement
	}
	TypeConstrainable interface {
		ConstrainType(TypeConstraint) *TypeStatement
	}
	ThingConstrainable interface {
		ConstrainThing(ThingConstraint) *ThingStatement
	}
	RelationConstrainable interface {
		ConstrainRolePlayer(RolePlayer) *ThingStatement
	}
	ValueConstrainable interface {
		ConstrainValue(ValueConstraint) *ValueStatement
	}
)

var (
	_ ConceptConstrainable  = UnboundConceptVariable{}
	_ ConceptConstrainable  = (*ConceptStatement)(nil)
	_ TypeConstrainable     = UnboundConceptVariable{}
	_ TypeConstrainable     = (*TypeStatement)(nil)
	_ ThingConstrainable    = UnboundConceptVariable{}
	_ ThingConstrainable    = (*ThingStatement)(nil)
	_ RelationConstrainable = UnboundConceptVariable{}
	_ RelationConstrainable = (*ThingStatement)(nil)
	_ ValueConstrainable    = UnboundValueVariable{}
	_ ValueConstrainable    = (*ValueStatement)(nil)
)

// statementNames returns the named references of s.
func statementNames(s Statement) nameSet {
	return namesOf(s.Variables())
}

// ============================================================================
// ConceptStatement
// ============================================================================

// IsConstraint states that two concept variables are the same concept.
type IsConstraint struct {
	Variable UnboundConceptVariable
}

func (c IsConstraint) String() string { return keyword(token.Is, c.Variable.String()) }

// ConceptStatement is a bare concept variable, optionally equated to another.
type ConceptStatement struct {
	Variable     UnboundConceptVariable
	IsConstraint *IsConstraint
}

func (*ConceptStatement) isPattern()   {}
func (*ConceptStatement) isStatement() {}

func (s *ConceptStatement) Owner() Reference { return s.Variable.Reference() }

func (s *ConceptStatement) Variables() []Reference {
	refs := []Reference{s.Owner()}
	if s.IsConstraint != nil {
		refs = append(refs, s.IsConstraint.Variable.Reference())
	}
	return refs
}

func (s *ConceptStatement) ConstrainIs(c IsConstraint) *ConceptStatement {
	out := *s
	out.IsConstraint = &c
	return &out
}

// Is equates the statement's variable with other.
func (s *ConceptStatement) Is(other UnboundConceptVariable) *ConceptStatement {
	return s.ConstrainIs(IsConstraint{Variable: other})
}

func (v UnboundConceptVariable) ConstrainIs(c IsConstraint) *ConceptStatement {
	return v.Statement().ConstrainIs(c)
}

func (s *ConceptStatement) Validate() error {
	var err error
	for _, r := range s.Variables() {
		typeqlerr.Append(&err, r.validate())
	}
	return err
}

func (s *ConceptStatement) String() string {
	if s.IsConstraint == nil {
		return s.Variable.String()
	}
	return s.Variable.String() + token.Space.String() + s.IsConstraint.String()
}
