package pattern

import (
	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// Definable is something a define or undefine query can carry.
//
// Sealed: *TypeStatement, RuleDeclaration, *RuleDefinition.
type Definable interface {
	String() string
	Validate() error
	isDefinable()
}

// RuleDeclaration names a rule. On its own it can only be undefined.
type RuleDeclaration struct {
	Label string
}

// NewRule starts a rule.
func NewRule(label string) RuleDeclaration {
	return RuleDeclaration{Label: label}
}

func (RuleDeclaration) isDefinable() {}

func (r RuleDeclaration) String() string {
	return token.Rule.String() + token.Space.String() + r.Label
}

func (r RuleDeclaration) Validate() error {
	return ParseLabel(r.Label).validate()
}

// When attaches the rule's condition.
func (r RuleDeclaration) When(when *Conjunction) RuleWhenStub {
	return RuleWhenStub{Label: r.Label, When: when}
}

// RuleWhenStub is a rule with a condition but no conclusion yet.
type RuleWhenStub struct {
	Label string
	When  *Conjunction
}

// Then completes the rule.
func (r RuleWhenStub) Then(then *ThingStatement) *RuleDefinition {
	return &RuleDefinition{Label: r.Label, When: r.When, Then: then}
}

// RuleDefinition is a complete rule: when the condition holds, the single
// inferred edge in Then exists.
type RuleDefinition struct {
	Label string
	When  *Conjunction
	Then  *ThingStatement
}

func (*RuleDefinition) isDefinable() {}

// Declaration returns the rule's label alone.
func (r *RuleDefinition) Declaration() RuleDeclaration {
	return RuleDeclaration{Label: r.Label}
}

func (r *RuleDefinition) String() string {
	nl := token.Newline.String()
	sp := token.Space.String()
	body := token.When.String() + sp + r.When.String() + nl +
		token.Then.String() + sp + block(r.Then.String()+token.Semicolon.String())
	return r.Declaration().String() + token.Colon.String() + nl + indent(body)
}

// Validate checks the rule's label, its condition and its conclusion and
// returns every violation found.
func (r *RuleDefinition) Validate() error {
	var err error
	typeqlerr.Append(&err, r.Declaration().Validate())
	if r.When == nil || len(r.When.Patterns) == 0 {
		typeqlerr.Append(&err, typeqlerr.InvalidRuleWhenMissingPatterns.New(r.Label))
	} else {
		typeqlerr.Append(&err, r.validateWhen())
		typeqlerr.Append(&err, r.When.Validate())
	}
	if r.Then == nil {
		typeqlerr.Append(&err, typeqlerr.InvalidRuleThen.New(r.Label, ""))
		return err
	}
	if shapeErr := r.validateThenShape(); shapeErr != nil {
		typeqlerr.Append(&err, shapeErr)
	} else {
		typeqlerr.Append(&err, r.validateInference())
	}
	typeqlerr.Append(&err, r.validateThenBounded())
	typeqlerr.Append(&err, r.Then.Validate())
	return err
}

// validateWhen rejects disjunctions anywhere in the condition and negations
// nested inside negations.
func (r *RuleDefinition) validateWhen() error {
	var err error
	var walk func(p Pattern, inNegation bool)
	walk = func(p Pattern, inNegation bool) {
		switch p := p.(type) {
		case *Conjunction:
			for _, child := range p.Patterns {
				walk(child, inNegation)
			}
		case *Disjunction:
			typeqlerr.Append(&err, typeqlerr.InvalidRuleWhenContainsDisjunction.New(r.Label))
		case *Negation:
			if inNegation {
				typeqlerr.Append(&err, typeqlerr.InvalidRuleWhenNestedNegation.New(r.Label))
				return
			}
			walk(p.Pattern, true)
		}
	}
	walk(r.When, false)
	return err
}

// validateThenShape accepts exactly one has edge on its own, or exactly one
// relation together with its isa.
func (r *RuleDefinition) validateThenShape() error {
	t := r.Then
	singleHas := len(t.HasConstraints) == 1 && t.IIDConstraint == nil &&
		t.IsaConstraint == nil && t.Predicate == nil && t.Relation == nil
	relationWithIsa := t.Relation != nil && t.IsaConstraint != nil &&
		t.IIDConstraint == nil && len(t.HasConstraints) == 0 && t.Predicate == nil
	if singleHas || relationWithIsa {
		return nil
	}
	return typeqlerr.InvalidRuleThen.New(r.Label, t)
}

// validateInference checks the single inferred edge. A typed has edge must
// not name an attribute variable, whose type the condition already fixes;
// every role player of an inferred relation needs an explicit role.
func (r *RuleDefinition) validateInference() error {
	t := r.Then
	if len(t.HasConstraints) == 1 {
		has := t.HasConstraints[0]
		attr := has.Attribute.Owner()
		if has.Type != nil && attr.IsName() {
			return typeqlerr.InvalidRuleThenHas.New(r.Label, t, attr, typeRef(has.Type))
		}
		return nil
	}
	if t.Relation != nil {
		for _, rp := range t.Relation.RolePlayers {
			if rp.Role == nil {
				return typeqlerr.InvalidRuleThenRoles.New(r.Label, t)
			}
		}
	}
	return nil
}

// validateThenBounded requires every named variable of the conclusion to be
// bound by the condition outside of its nested patterns.
func (r *RuleDefinition) validateThenBounded() error {
	if r.When == nil {
		return nil
	}
	bound := r.When.names()
	for name := range statementNames(r.Then) {
		if _, ok := bound[name]; !ok {
			return typeqlerr.InvalidRuleThenVariables.New(r.Label)
		}
	}
	return nil
}
