package pattern

import (
	"regexp"
	"strings"

	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

type referenceKind int

const (
	referenceName referenceKind = iota
	referenceAnonymous
	referenceLabel
)

// Reference identifies a variable slot: a named variable ($x, ?x), an
// anonymous one ($_ or hidden), or a type label standing in for a variable.
type Reference struct {
	kind    referenceKind
	name    string
	visible bool
	value   bool
}

// NamedReference returns the reference of the concept variable $name.
func NamedReference(name string) Reference {
	return Reference{kind: referenceName, name: name, visible: true}
}

// NamedValueReference returns the reference of the value variable ?name.
func NamedValueReference(name string) Reference {
	return Reference{kind: referenceName, name: name, visible: true, value: true}
}

// AnonymousReference returns an anonymous reference. A visible one prints
// as $_, a hidden one prints nothing.
func AnonymousReference(visible bool) Reference {
	return Reference{kind: referenceAnonymous, visible: visible}
}

// LabelReference returns a reference identified by a type label.
func LabelReference(label string) Reference {
	return Reference{kind: referenceLabel, name: label}
}

func (r Reference) IsName() bool      { return r.kind == referenceName }
func (r Reference) IsAnonymous() bool { return r.kind == referenceAnonymous }
func (r Reference) IsLabel() bool     { return r.kind == referenceLabel }
func (r Reference) IsVisible() bool   { return r.visible }

// IsValue reports whether this is a value variable (?x).
func (r Reference) IsValue() bool { return r.value }

// Name returns the variable name or label; empty for anonymous references.
func (r Reference) Name() string { return r.name }

// String renders the reference as it appears in query text.
func (r Reference) String() string {
	switch r.kind {
	case referenceName:
		if r.value {
			return token.Question.String() + r.name
		}
		return token.Dollar.String() + r.name
	case referenceAnonymous:
		if r.visible {
			return token.Dollar.String() + token.Underscore.String()
		}
		return ""
	default:
		return r.name
	}
}

var (
	variableNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)
	labelPattern        = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)
)

func (r Reference) validate() error {
	switch r.kind {
	case referenceName:
		if !variableNamePattern.MatchString(r.name) {
			return typeqlerr.InvalidVariableName.New(r.name)
		}
	case referenceLabel:
		return ParseLabel(r.name).validate()
	}
	return nil
}

// Label is a possibly scoped type name, e.g. marriage:spouse.
type Label struct {
	Scope string
	Name  string
}

// ParseLabel splits "scope:name" into its parts.
func ParseLabel(s string) Label {
	if scope, name, ok := strings.Cut(s, token.Colon.String()); ok {
		return Label{Scope: scope, Name: name}
	}
	return Label{Name: s}
}

func (l Label) String() string {
	if l.Scope != "" {
		return l.Scope + token.Colon.String() + l.Name
	}
	return l.Name
}

func (l Label) validate() error {
	var err error
	if l.Scope != "" && !labelPattern.MatchString(l.Scope) {
		typeqlerr.Append(&err, typeqlerr.InvalidTypeLabel.New(l.Scope))
	}
	if !labelPattern.MatchString(l.Name) {
		typeqlerr.Append(&err, typeqlerr.InvalidTypeLabel.New(l.Name))
	}
	return err
}

// nameSet is a set of printed named references.
type nameSet map[string]struct{}

func (s nameSet) add(r Reference) {
	if r.IsName() {
		s[r.String()] = struct{}{}
	}
}

func (s nameSet) contains(r Reference) bool {
	_, ok := s[r.String()]
	return ok
}

func (s nameSet) intersects(other nameSet) bool {
	for name := range other {
		if _, ok := s[name]; ok {
			return true
		}
	}
	return false
}

func (s nameSet) union(other nameSet) nameSet {
	out := make(nameSet, len(s)+len(other))
	for name := range s {
		out[name] = struct{}{}
	}
	for name := range other {
		out[name] = struct{}{}
	}
	return out
}

func namesOf(refs []Reference) nameSet {
	s := make(nameSet)
	for _, r := range refs {
		s.add(r)
	}
	return s
}
