package pattern

import (
	"slices"
	"strings"

	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// ThingStatement constrains a data instance: an entity, relation or
// attribute.
type ThingStatement struct {
	Variable       UnboundConceptVariable
	IIDConstraint  *IIDConstraint
	IsaConstraint  *IsaConstraint
	Predicate      *Predicate
	Relation       *RelationConstraint
	HasConstraints []HasConstraint
}

func (*ThingStatement) isPattern()   {}
func (*ThingStatement) isStatement() {}

func (s *ThingStatement) Owner() Reference { return s.Variable.Reference() }

func (s *ThingStatement) clone() *ThingStatement {
	out := *s
	out.HasConstraints = slices.Clone(s.HasConstraints)
	if s.Relation != nil {
		rel := RelationConstraint{RolePlayers: slices.Clone(s.Relation.RolePlayers)}
		out.Relation = &rel
	}
	return &out
}

// ConstrainThing returns a copy of s with c applied. Singular constraints
// replace any previous value; has edges append.
func (s *ThingStatement) ConstrainThing(c ThingConstraint) *ThingStatement {
	out := s.clone()
	switch c := c.(type) {
	case IIDConstraint:
		out.IIDConstraint = &c
	case IsaConstraint:
		out.IsaConstraint = &c
	case Predicate:
		out.Predicate = &c
	case RelationConstraint:
		c.RolePlayers = slices.Clone(c.RolePlayers)
		out.Relation = &c
	case HasConstraint:
		out.HasConstraints = append(out.HasConstraints, c)
	}
	return out
}

// ConstrainRolePlayer returns a copy of s with rp appended to its relation,
// creating the relation if needed.
func (s *ThingStatement) ConstrainRolePlayer(rp RolePlayer) *ThingStatement {
	out := s.clone()
	if out.Relation == nil {
		out.Relation = &RelationConstraint{}
	}
	out.Relation.RolePlayers = append(out.Relation.RolePlayers, rp)
	return out
}

func (v UnboundConceptVariable) ConstrainThing(c ThingConstraint) *ThingStatement {
	return v.thing().ConstrainThing(c)
}

func (v UnboundConceptVariable) ConstrainRolePlayer(rp RolePlayer) *ThingStatement {
	return v.thing().ConstrainRolePlayer(rp)
}

func isa(label string, explicit bool) ThingConstraint {
	return IsaConstraint{Type: NewTypeStatement(label), Explicit: explicit}
}

// hasEdge builds a has constraint. value may be an UnboundConceptVariable
// naming the attribute, a Predicate on a hidden attribute, or a constant
// compared for equality.
func hasEdge(attrType string, value any) ThingConstraint {
	var attr *ThingStatement
	switch v := value.(type) {
	case UnboundConceptVariable:
		attr = v.thing()
	case Predicate:
		attr = HiddenVariable().thing().ConstrainThing(v)
	default:
		attr = HiddenVariable().thing().ConstrainThing(NewPredicate(token.Eq, v))
	}
	return HasConstraint{Type: labelType(attrType), Attribute: attr}
}

// NewRolePlayer builds a role player. An empty role leaves the role to
// inference.
func NewRolePlayer(role string, player UnboundConceptVariable) RolePlayer {
	return RolePlayer{Role: labelType(role), Player: player}
}

// ============================================================================
// Chain methods
// ============================================================================

func (s *ThingStatement) Isa(label string) *ThingStatement  { return s.ConstrainThing(isa(label, false)) }
func (s *ThingStatement) IsaX(label string) *ThingStatement { return s.ConstrainThing(isa(label, true)) }
func (s *ThingStatement) IsaVar(t UnboundConceptVariable) *ThingStatement {
	return s.ConstrainThing(IsaConstraint{Type: variableType(t)})
}
func (s *ThingStatement) IID(iid string) *ThingStatement {
	return s.ConstrainThing(IIDConstraint{IID: iid})
}

// Has adds "has attrType value". See hasEdge for the accepted values.
func (s *ThingStatement) Has(attrType string, value any) *ThingStatement {
	return s.ConstrainThing(hasEdge(attrType, value))
}

// HasVar adds "has $a" with the attribute type left to inference.
func (s *ThingStatement) HasVar(attr UnboundConceptVariable) *ThingStatement {
	return s.ConstrainThing(hasEdge("", attr))
}

func (s *ThingStatement) Eq(v any) *ThingStatement  { return s.ConstrainThing(NewPredicate(token.Eq, v)) }
func (s *ThingStatement) Neq(v any) *ThingStatement { return s.ConstrainThing(NewPredicate(token.Neq, v)) }
func (s *ThingStatement) Gt(v any) *ThingStatement  { return s.ConstrainThing(NewPredicate(token.Gt, v)) }
func (s *ThingStatement) Gte(v any) *ThingStatement { return s.ConstrainThing(NewPredicate(token.Gte, v)) }
func (s *ThingStatement) Lt(v any) *ThingStatement  { return s.ConstrainThing(NewPredicate(token.Lt, v)) }
func (s *ThingStatement) Lte(v any) *ThingStatement { return s.ConstrainThing(NewPredicate(token.Lte, v)) }
func (s *ThingStatement) Contains(v any) *ThingStatement {
	return s.ConstrainThing(NewPredicate(token.Contains, v))
}
func (s *ThingStatement) Like(v any) *ThingStatement {
	return s.ConstrainThing(NewPredicate(token.Like, v))
}

// Rel adds a role player; player is a variable name without its sigil and
// an empty role leaves the role to inference.
func (s *ThingStatement) Rel(role, player string) *ThingStatement {
	return s.ConstrainRolePlayer(NewRolePlayer(role, NewConceptVariable(player)))
}

// RelPlayer adds an already built role player.
func (s *ThingStatement) RelPlayer(rp RolePlayer) *ThingStatement {
	return s.ConstrainRolePlayer(rp)
}

func (v UnboundConceptVariable) Isa(label string) *ThingStatement  { return v.thing().Isa(label) }
func (v UnboundConceptVariable) IsaX(label string) *ThingStatement { return v.thing().IsaX(label) }
func (v UnboundConceptVariable) IsaVar(t UnboundConceptVariable) *ThingStatement {
	return v.thing().IsaVar(t)
}
func (v UnboundConceptVariable) IID(iid string) *ThingStatement { return v.thing().IID(iid) }
func (v UnboundConceptVariable) Has(attrType string, value any) *ThingStatement {
	return v.thing().Has(attrType, value)
}
func (v UnboundConceptVariable) HasVar(attr UnboundConceptVariable) *ThingStatement {
	return v.thing().HasVar(attr)
}
func (v UnboundConceptVariable) Eq(x any) *ThingStatement       { return v.thing().Eq(x) }
func (v UnboundConceptVariable) Neq(x any) *ThingStatement      { return v.thing().Neq(x) }
func (v UnboundConceptVariable) Gt(x any) *ThingStatement       { return v.thing().Gt(x) }
func (v UnboundConceptVariable) Gte(x any) *ThingStatement      { return v.thing().Gte(x) }
func (v UnboundConceptVariable) Lt(x any) *ThingStatement       { return v.thing().Lt(x) }
func (v UnboundConceptVariable) Lte(x any) *ThingStatement      { return v.thing().Lte(x) }
func (v UnboundConceptVariable) Contains(x any) *ThingStatement { return v.thing().Contains(x) }
func (v UnboundConceptVariable) Like(x any) *ThingStatement     { return v.thing().Like(x) }
func (v UnboundConceptVariable) Rel(role, player string) *ThingStatement {
	return v.thing().Rel(role, player)
}
func (v UnboundConceptVariable) RelPlayer(rp RolePlayer) *ThingStatement {
	return v.thing().RelPlayer(rp)
}

// ============================================================================
// Inspection
// ============================================================================

// Variables returns the owner, then every reference in the relation, isa,
// predicate and has edges, in that order.
func (s *ThingStatement) Variables() []Reference {
	refs := []Reference{s.Owner()}
	if s.Relation != nil {
		for _, rp := range s.Relation.RolePlayers {
			refs = append(refs, rp.references()...)
		}
	}
	if s.IsaConstraint != nil {
		refs = append(refs, s.IsaConstraint.Type.Variables()...)
	}
	if s.Predicate != nil {
		refs = append(refs, valueReferences(s.Predicate.Value)...)
	}
	for _, h := range s.HasConstraints {
		if h.Type != nil {
			refs = append(refs, h.Type.Variables()...)
		}
		refs = append(refs, h.Attribute.Variables()...)
	}
	return refs
}

func (s *ThingStatement) Validate() error {
	var err error
	typeqlerr.Append(&err, s.Owner().validate())
	if s.IIDConstraint != nil {
		typeqlerr.Append(&err, s.IIDConstraint.validate())
	}
	if s.IsaConstraint != nil {
		typeqlerr.Append(&err, s.IsaConstraint.Type.Validate())
	}
	if s.Predicate != nil {
		typeqlerr.Append(&err, s.Predicate.validate())
	}
	if s.Relation != nil {
		for _, rp := range s.Relation.RolePlayers {
			if rp.Role != nil {
				typeqlerr.Append(&err, rp.Role.Validate())
			}
			typeqlerr.Append(&err, rp.Player.Reference().validate())
		}
	}
	for _, h := range s.HasConstraints {
		if h.Type != nil {
			typeqlerr.Append(&err, h.Type.Validate())
		}
		typeqlerr.Append(&err, h.Attribute.Validate())
	}
	return err
}

func (s *ThingStatement) String() string {
	var b strings.Builder
	sp := token.Space.String()
	if s.Owner().IsVisible() {
		b.WriteString(s.Variable.String())
	}
	if s.Relation != nil {
		if b.Len() > 0 {
			b.WriteString(sp)
		}
		b.WriteString(s.Relation.String())
	}
	if s.Predicate != nil {
		if b.Len() > 0 {
			b.WriteString(sp)
		}
		b.WriteString(s.Predicate.String())
	}

	var parts []string
	if s.IsaConstraint != nil {
		parts = append(parts, s.IsaConstraint.String())
	}
	if s.IIDConstraint != nil {
		parts = append(parts, s.IIDConstraint.String())
	}
	for _, h := range s.HasConstraints {
		parts = append(parts, h.String())
	}
	if len(parts) > 0 {
		if b.Len() > 0 {
			b.WriteString(sp)
		}
		b.WriteString(strings.Join(parts, token.CommaSpaced.String()))
	}
	return b.String()
}
