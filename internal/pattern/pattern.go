package pattern

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// Pattern is a node of a query body.
//
// Sealed: *Conjunction, *Disjunction, *Negation and every Statement.
type Pattern interface {
	fmt.Stringer
	// Validate returns nil or every validation error found below the node.
	Validate() error
	isPattern()
}

// Conjunction requires all of its patterns to hold.
type Conjunction struct {
	Patterns []Pattern

	normalised atomic.Pointer[Disjunction]
}

// Disjunction requires at least one of its patterns to hold.
type Disjunction struct {
	Patterns []Pattern

	normalised atomic.Pointer[Disjunction]
}

// Negation requires its pattern not to hold.
type Negation struct {
	Pattern Pattern

	normalised atomic.Pointer[Disjunction]
}

func NewConjunction(patterns ...Pattern) *Conjunction {
	return &Conjunction{Patterns: patterns}
}

func NewDisjunction(patterns ...Pattern) *Disjunction {
	return &Disjunction{Patterns: patterns}
}

func NewNegation(p Pattern) *Negation {
	return &Negation{Pattern: p}
}

func (*Conjunction) isPattern() {}
func (*Disjunction) isPattern() {}
func (*Negation) isPattern()    {}

func (c *Conjunction) Validate() error { return validateAll(c.Patterns) }

func (d *Disjunction) Validate() error { return validateAll(d.Patterns) }

func (n *Negation) Validate() error { return n.Pattern.Validate() }

func validateAll(patterns []Pattern) error {
	var err error
	for _, p := range patterns {
		typeqlerr.Append(&err, p.Validate())
	}
	return err
}

// ============================================================================
// Rendering
// ============================================================================

const indentUnit = "    "

// indent prefixes every non-empty line of s with one indent unit.
func indent(s string) string {
	lines := strings.Split(s, token.Newline.String())
	for i, line := range lines {
		if line != "" {
			lines[i] = indentUnit + line
		}
	}
	return strings.Join(lines, token.Newline.String())
}

// JoinStatements renders patterns separated and terminated by semicolons,
// one per line.
func JoinStatements[P fmt.Stringer](patterns []P) string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = p.String()
	}
	sep := token.Semicolon.String() + token.Newline.String()
	return strings.Join(parts, sep) + token.Semicolon.String()
}

// block renders "{\n    body\n}".
func block(body string) string {
	nl := token.Newline.String()
	return token.CurlyLeft.String() + nl + indent(body) + nl + token.CurlyRight.String()
}

func (c *Conjunction) String() string {
	if len(c.Patterns) == 0 {
		return token.CurlyLeft.String() + token.Space.String() + token.CurlyRight.String()
	}
	return block(JoinStatements(c.Patterns))
}

// braced renders p as a block, reusing a conjunction's own braces.
func braced(p Pattern) string {
	if c, ok := p.(*Conjunction); ok {
		return c.String()
	}
	return block(p.String() + token.Semicolon.String())
}

func (d *Disjunction) String() string {
	parts := make([]string, len(d.Patterns))
	for i, p := range d.Patterns {
		parts[i] = braced(p)
	}
	sp := token.Space.String()
	return strings.Join(parts, sp+token.Or.String()+sp)
}

func (n *Negation) String() string {
	return token.Not.String() + token.Space.String() + braced(n.Pattern)
}

// ============================================================================
// Equality
// ============================================================================

var equalOptions = []cmp.Option{
	cmp.AllowUnexported(Reference{}, UnboundConceptVariable{}, UnboundValueVariable{}),
	cmpopts.IgnoreUnexported(Conjunction{}, Disjunction{}, Negation{}),
	cmpopts.EquateEmpty(),
}

// Equal reports whether two patterns have the same structure. Normalisation
// caches are ignored.
func Equal(a, b Pattern) bool {
	return cmp.Equal(a, b, equalOptions...)
}

// Diff returns a human-readable difference between two patterns, or "" when
// they are equal.
func Diff(a, b Pattern) string {
	return cmp.Diff(a, b, equalOptions...)
}
