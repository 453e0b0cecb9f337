package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// TypeConstraint is a constraint a TypeStatement accepts.
//
// Sealed: LabelConstraint, SubConstraint, RelatesConstraint, PlaysConstraint,
// OwnsConstraint, AbstractConstraint, ValueTypeConstraint, RegexConstraint.
type TypeConstraint interface {
	fmt.Stringer
	isTypeConstraint()
}

// ThingConstraint is a constraint a ThingStatement accepts.
//
// Sealed: IIDConstraint, IsaConstraint, HasConstraint, Predicate,
// RelationConstraint.
type ThingConstraint interface {
	fmt.Stringer
	isThingConstraint()
}

// ValueConstraint is a constraint a ValueStatement accepts.
//
// Sealed: AssignConstraint, Predicate.
type ValueConstraint interface {
	fmt.Stringer
	isValueConstraint()
}

// ============================================================================
// Type constraints
// ============================================================================

type LabelConstraint struct {
	Label Label
}

type SubConstraint struct {
	Type     *TypeStatement
	Explicit bool
}

type RelatesConstraint struct {
	Role       *TypeStatement
	Overridden *TypeStatement
}

type PlaysConstraint struct {
	Role       *TypeStatement
	Overridden *TypeStatement
}

type OwnsConstraint struct {
	Attribute   *TypeStatement
	Overridden  *TypeStatement
	Annotations []token.Annotation
}

type AbstractConstraint struct{}

type ValueTypeConstraint struct {
	ValueType token.ValueType
}

type RegexConstraint struct {
	Regex string
}

func (LabelConstraint) isTypeConstraint()     {}
func (SubConstraint) isTypeConstraint()       {}
func (RelatesConstraint) isTypeConstraint()   {}
func (PlaysConstraint) isTypeConstraint()     {}
func (OwnsConstraint) isTypeConstraint()      {}
func (AbstractConstraint) isTypeConstraint()  {}
func (ValueTypeConstraint) isTypeConstraint() {}
func (RegexConstraint) isTypeConstraint()     {}

func (c LabelConstraint) String() string {
	return token.Type.String() + token.Space.String() + c.Label.String()
}

func (c SubConstraint) String() string {
	kw := token.Sub
	if c.Explicit {
		kw = token.SubX
	}
	return keyword(kw, typeRef(c.Type))
}

func (c RelatesConstraint) String() string {
	return keyword(token.Relates, typeRef(c.Role)) + overridden(c.Overridden)
}

func (c PlaysConstraint) String() string {
	return keyword(token.Plays, typeRef(c.Role)) + overridden(c.Overridden)
}

func (c OwnsConstraint) String() string {
	s := keyword(token.Owns, typeRef(c.Attribute)) + overridden(c.Overridden)
	for _, a := range c.Annotations {
		s += token.Space.String() + a.String()
	}
	return s
}

func (AbstractConstraint) String() string { return token.Abstract.String() }

func (c ValueTypeConstraint) String() string {
	return keyword(token.Value, c.ValueType.String())
}

func (c RegexConstraint) String() string {
	return keyword(token.Regex, quoteString(c.Regex))
}

func (c RegexConstraint) validate() error {
	if _, err := compileRegex(c.Regex); err != nil {
		return typeqlerr.InvalidAttributeTypeRegex.New(c.Regex, err)
	}
	return nil
}

// ============================================================================
// Thing constraints
// ============================================================================

type IIDConstraint struct {
	IID string
}

type IsaConstraint struct {
	Type     *TypeStatement
	Explicit bool
}

// HasConstraint is an attribute ownership edge. Type is nil when the
// attribute type is left to inference.
type HasConstraint struct {
	Type      *TypeStatement
	Attribute *ThingStatement
}

// RelationConstraint lists the role players of a relation in order.
type RelationConstraint struct {
	RolePlayers []RolePlayer
}

// RolePlayer is one entry of a relation tuple. Role is nil when the role is
// left to inference.
type RolePlayer struct {
	Role   *TypeStatement
	Player UnboundConceptVariable
}

func (IIDConstraint) isThingConstraint()      {}
func (IsaConstraint) isThingConstraint()      {}
func (HasConstraint) isThingConstraint()      {}
func (Predicate) isThingConstraint()          {}
func (RelationConstraint) isThingConstraint() {}

var iidPattern = regexp.MustCompile(`^0x[0-9a-f]+$`)

func (c IIDConstraint) String() string { return keyword(token.IID, c.IID) }

func (c IIDConstraint) validate() error {
	if !iidPattern.MatchString(c.IID) {
		return typeqlerr.InvalidIIDString.New(c.IID)
	}
	return nil
}

func (c IsaConstraint) String() string {
	kw := token.Isa
	if c.Explicit {
		kw = token.IsaX
	}
	return keyword(kw, typeRef(c.Type))
}

func (c HasConstraint) String() string {
	var b strings.Builder
	b.WriteString(token.Has.String())
	if c.Type != nil {
		b.WriteString(token.Space.String())
		b.WriteString(typeRef(c.Type))
	}
	attr := c.Attribute
	switch {
	case attr.Variable.Reference().IsVisible():
		b.WriteString(token.Space.String())
		b.WriteString(attr.Variable.String())
	case attr.Predicate != nil:
		b.WriteString(token.Space.String())
		b.WriteString(attr.Predicate.String())
	}
	return b.String()
}

func (c RelationConstraint) String() string {
	players := make([]string, len(c.RolePlayers))
	for i, rp := range c.RolePlayers {
		players[i] = rp.String()
	}
	return token.ParenLeft.String() + strings.Join(players, token.CommaSpaced.String()) + token.ParenRight.String()
}

func (rp RolePlayer) String() string {
	if rp.Role == nil {
		return rp.Player.String()
	}
	return typeRef(rp.Role) + token.Colon.String() + token.Space.String() + rp.Player.String()
}

func (rp RolePlayer) references() []Reference {
	refs := []Reference{rp.Player.Reference()}
	if rp.Role != nil {
		refs = append(refs, rp.Role.Variables()...)
	}
	return refs
}

// ============================================================================
// Value constraints
// ============================================================================

// AssignConstraint binds a value variable to an expression.
type AssignConstraint struct {
	Expression Expression
}

func (AssignConstraint) isValueConstraint() {}
func (Predicate) isValueConstraint()        {}

func (c AssignConstraint) String() string {
	return token.Eq.String() + token.Space.String() + c.Expression.String()
}

// ============================================================================
// Helpers
// ============================================================================

func keyword(kw fmt.Stringer, operand string) string {
	return kw.String() + token.Space.String() + operand
}

func overridden(t *TypeStatement) string {
	if t == nil {
		return ""
	}
	return token.Space.String() + keyword(token.As, typeRef(t))
}

// typeRef renders a type used as the operand of another constraint: its
// variable when visible, otherwise its label.
func typeRef(t *TypeStatement) string {
	if t == nil {
		return ""
	}
	if t.Variable.Reference().IsVisible() || t.Label == nil {
		return t.Variable.String()
	}
	return t.Label.Label.String()
}

func compileRegex(expr string) (*regexp.Regexp, error) {
	return regexp.Compile(expr)
}
