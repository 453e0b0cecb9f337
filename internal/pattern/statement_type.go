package pattern

import (
	"slices"
	"strings"

	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// TypeStatement constrains a schema type. A statement built from Type(label)
// is identified by its label; one built from a named variable prints the
// variable and, when present, its label as a "type" constraint.
type TypeStatement struct {
	Variable           UnboundConceptVariable
	Label              *LabelConstraint
	SubConstraint      *SubConstraint
	IsAbstract         bool
	ValueType          *ValueTypeConstraint
	RegexConstraint    *RegexConstraint
	OwnsConstraints    []OwnsConstraint
	RelatesConstraints []RelatesConstraint
	PlaysConstraints   []PlaysConstraint
}

// NewTypeStatement returns the type statement identified by label.
func NewTypeStatement(label string) *TypeStatement {
	return &TypeStatement{
		Variable: LabelVariable(label),
		Label:    &LabelConstraint{Label: ParseLabel(label)},
	}
}

func (*TypeStatement) isPattern()   {}
func (*TypeStatement) isStatement() {}
func (*TypeStatement) isDefinable() {}

func (s *TypeStatement) Owner() Reference { return s.Variable.Reference() }

func (s *TypeStatement) clone() *TypeStatement {
	out := *s
	out.OwnsConstraints = slices.Clone(s.OwnsConstraints)
	out.RelatesConstraints = slices.Clone(s.RelatesConstraints)
	out.PlaysConstraints = slices.Clone(s.PlaysConstraints)
	return &out
}

// ConstrainType returns a copy of s with c applied. Singular constraints
// replace any previous value; multi-valued ones append.
func (s *TypeStatement) ConstrainType(c TypeConstraint) *TypeStatement {
	out := s.clone()
	switch c := c.(type) {
	case LabelConstraint:
		out.Label = &c
	case SubConstraint:
		out.SubConstraint = &c
	case AbstractConstraint:
		out.IsAbstract = true
	case ValueTypeConstraint:
		out.ValueType = &c
	case RegexConstraint:
		out.RegexConstraint = &c
	case OwnsConstraint:
		out.OwnsConstraints = append(out.OwnsConstraints, c)
	case RelatesConstraint:
		out.RelatesConstraints = append(out.RelatesConstraints, c)
	case PlaysConstraint:
		out.PlaysConstraints = append(out.PlaysConstraints, c)
	}
	return out
}

func (v UnboundConceptVariable) ConstrainType(c TypeConstraint) *TypeStatement {
	return v.typ().ConstrainType(c)
}

func labelType(label string) *TypeStatement {
	if label == "" {
		return nil
	}
	return NewTypeStatement(label)
}

func variableType(v UnboundConceptVariable) *TypeStatement {
	return &TypeStatement{Variable: v}
}

func typeLabel(label string) TypeConstraint {
	return LabelConstraint{Label: ParseLabel(label)}
}

func sub(label string, explicit bool) TypeConstraint {
	return SubConstraint{Type: labelType(label), Explicit: explicit}
}

func relates(role, overriddenRole string) TypeConstraint {
	return RelatesConstraint{Role: labelType(role), Overridden: labelType(overriddenRole)}
}

func plays(role, overriddenRole string) TypeConstraint {
	return PlaysConstraint{Role: labelType(role), Overridden: labelType(overriddenRole)}
}

func owns(attr, overriddenAttr string, annotations []token.Annotation) TypeConstraint {
	return OwnsConstraint{
		Attribute:   labelType(attr),
		Overridden:  labelType(overriddenAttr),
		Annotations: slices.Clone(annotations),
	}
}

// ============================================================================
// Chain methods
// ============================================================================

func (s *TypeStatement) Type(label string) *TypeStatement { return s.ConstrainType(typeLabel(label)) }
func (s *TypeStatement) Sub(label string) *TypeStatement  { return s.ConstrainType(sub(label, false)) }
func (s *TypeStatement) SubX(label string) *TypeStatement { return s.ConstrainType(sub(label, true)) }
func (s *TypeStatement) SubVar(v UnboundConceptVariable) *TypeStatement {
	return s.ConstrainType(SubConstraint{Type: variableType(v)})
}
func (s *TypeStatement) Relates(role string) *TypeStatement {
	return s.ConstrainType(relates(role, ""))
}
func (s *TypeStatement) RelatesAs(role, overridden string) *TypeStatement {
	return s.ConstrainType(relates(role, overridden))
}
func (s *TypeStatement) Plays(role string) *TypeStatement { return s.ConstrainType(plays(role, "")) }
func (s *TypeStatement) PlaysAs(role, overridden string) *TypeStatement {
	return s.ConstrainType(plays(role, overridden))
}
func (s *TypeStatement) Owns(attr string, annotations ...token.Annotation) *TypeStatement {
	return s.ConstrainType(owns(attr, "", annotations))
}
func (s *TypeStatement) OwnsAs(attr, overridden string, annotations ...token.Annotation) *TypeStatement {
	return s.ConstrainType(owns(attr, overridden, annotations))
}
func (s *TypeStatement) Abstract() *TypeStatement { return s.ConstrainType(AbstractConstraint{}) }
func (s *TypeStatement) Value(vt token.ValueType) *TypeStatement {
	return s.ConstrainType(ValueTypeConstraint{ValueType: vt})
}
func (s *TypeStatement) Regex(regex string) *TypeStatement {
	return s.ConstrainType(RegexConstraint{Regex: regex})
}

func (v UnboundConceptVariable) Type(label string) *TypeStatement { return v.typ().Type(label) }
func (v UnboundConceptVariable) Sub(label string) *TypeStatement  { return v.typ().Sub(label) }
func (v UnboundConceptVariable) SubX(label string) *TypeStatement { return v.typ().SubX(label) }
func (v UnboundConceptVariable) SubVar(t UnboundConceptVariable) *TypeStatement {
	return v.typ().SubVar(t)
}
func (v UnboundConceptVariable) Relates(role string) *TypeStatement { return v.typ().Relates(role) }
func (v UnboundConceptVariable) RelatesAs(role, overridden string) *TypeStatement {
	return v.typ().RelatesAs(role, overridden)
}
func (v UnboundConceptVariable) Plays(role string) *TypeStatement { return v.typ().Plays(role) }
func (v UnboundConceptVariable) PlaysAs(role, overridden string) *TypeStatement {
	return v.typ().PlaysAs(role, overridden)
}
func (v UnboundConceptVariable) Owns(attr string, annotations ...token.Annotation) *TypeStatement {
	return v.typ().Owns(attr, annotations...)
}
func (v UnboundConceptVariable) OwnsAs(attr, overridden string, annotations ...token.Annotation) *TypeStatement {
	return v.typ().OwnsAs(attr, overridden, annotations...)
}
func (v UnboundConceptVariable) Abstract() *TypeStatement { return v.typ().Abstract() }
func (v UnboundConceptVariable) Value(vt token.ValueType) *TypeStatement {
	return v.typ().Value(vt)
}
func (v UnboundConceptVariable) Regex(regex string) *TypeStatement { return v.typ().Regex(regex) }

// ============================================================================
// Inspection
// ============================================================================

// Variables returns the owner, then the references of every type the
// statement points at.
func (s *TypeStatement) Variables() []Reference {
	refs := []Reference{s.Owner()}
	add := func(t *TypeStatement) {
		if t != nil {
			refs = append(refs, t.Variables()...)
		}
	}
	if s.SubConstraint != nil {
		add(s.SubConstraint.Type)
	}
	for _, c := range s.OwnsConstraints {
		add(c.Attribute)
		add(c.Overridden)
	}
	for _, c := range s.RelatesConstraints {
		add(c.Role)
		add(c.Overridden)
	}
	for _, c := range s.PlaysConstraints {
		add(c.Role)
		add(c.Overridden)
	}
	return refs
}

// HasLabel reports whether the statement is identified by, or carries, a
// type label.
func (s *TypeStatement) HasLabel() bool {
	return s.Label != nil || s.Owner().IsLabel()
}

func (s *TypeStatement) Validate() error {
	var err error
	typeqlerr.Append(&err, s.Owner().validate())
	if s.Label != nil && !s.Owner().IsLabel() {
		typeqlerr.Append(&err, s.Label.Label.validate())
	}
	check := func(t *TypeStatement) {
		if t != nil {
			typeqlerr.Append(&err, t.Validate())
		}
	}
	if s.SubConstraint != nil {
		check(s.SubConstraint.Type)
	}
	if s.RegexConstraint != nil {
		typeqlerr.Append(&err, s.RegexConstraint.validate())
	}
	for _, c := range s.OwnsConstraints {
		check(c.Attribute)
		check(c.Overridden)
	}
	for _, c := range s.RelatesConstraints {
		check(c.Role)
		check(c.Overridden)
	}
	for _, c := range s.PlaysConstraints {
		check(c.Role)
		check(c.Overridden)
	}
	return err
}

func (s *TypeStatement) constraintStrings() []string {
	var parts []string
	if s.Label != nil && s.Owner().IsVisible() {
		parts = append(parts, s.Label.String())
	}
	if s.SubConstraint != nil {
		parts = append(parts, s.SubConstraint.String())
	}
	if s.IsAbstract {
		parts = append(parts, AbstractConstraint{}.String())
	}
	if s.ValueType != nil {
		parts = append(parts, s.ValueType.String())
	}
	if s.RegexConstraint != nil {
		parts = append(parts, s.RegexConstraint.String())
	}
	for _, c := range s.OwnsConstraints {
		parts = append(parts, c.String())
	}
	for _, c := range s.RelatesConstraints {
		parts = append(parts, c.String())
	}
	for _, c := range s.PlaysConstraints {
		parts = append(parts, c.String())
	}
	return parts
}

func (s *TypeStatement) String() string {
	head := typeRef(s)
	parts := s.constraintStrings()
	if len(parts) == 0 {
		return head
	}
	body := strings.Join(parts, token.Comma.String()+token.Newline.String()+indentUnit)
	if head == "" {
		return body
	}
	return head + token.Space.String() + body
}
