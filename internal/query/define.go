package query

import (
	"fmt"
	"strings"

	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// Define adds schema types and rules.
type Define struct {
	Types []*pattern.TypeStatement
	Rules []*pattern.RuleDefinition
}

// NewDefine sorts defs into types and rules. A bare rule declaration cannot
// be defined; every such misuse is reported in the returned error and the
// query is nil.
func NewDefine(defs ...pattern.Definable) (*Define, error) {
	q := &Define{}
	var err error
	for _, d := range defs {
		switch d := d.(type) {
		case *pattern.TypeStatement:
			q.Types = append(q.Types, d)
		case *pattern.RuleDefinition:
			q.Rules = append(q.Rules, d)
		case pattern.RuleDeclaration:
			typeqlerr.Append(&err, typeqlerr.DefineRuleDeclaration.New(d.Label))
		}
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// MustDefine is NewDefine for statically known arguments; it panics on
// misuse.
func MustDefine(defs ...pattern.Definable) *Define {
	q, err := NewDefine(defs...)
	if err != nil {
		panic(fmt.Sprintf("query: %v", err))
	}
	return q
}

func (q *Define) Validate() error {
	if len(q.Types) == 0 && len(q.Rules) == 0 {
		return typeqlerr.MissingDefinables.New()
	}
	var err error
	typeqlerr.Append(&err, validateTypes(q.Types, token.Define))
	for _, r := range q.Rules {
		typeqlerr.Append(&err, r.Validate())
	}
	return err
}

func (q *Define) String() string {
	parts := make([]string, 0, len(q.Types)+len(q.Rules))
	for _, t := range q.Types {
		parts = append(parts, t.String())
	}
	for _, r := range q.Rules {
		parts = append(parts, r.String())
	}
	return definitions(token.Define, parts)
}

// Undefine removes schema types and rules. Rules are named by label only.
type Undefine struct {
	Types []*pattern.TypeStatement
	Rules []pattern.RuleDeclaration
}

// NewUndefine sorts defs into types and rule labels. A full rule definition
// cannot be undefined; it is reported rather than silently dropped.
func NewUndefine(defs ...pattern.Definable) (*Undefine, error) {
	q := &Undefine{}
	var err error
	for _, d := range defs {
		switch d := d.(type) {
		case *pattern.TypeStatement:
			q.Types = append(q.Types, d)
		case pattern.RuleDeclaration:
			q.Rules = append(q.Rules, d)
		case *pattern.RuleDefinition:
			typeqlerr.Append(&err, typeqlerr.UndefineRuleDefinition.New(d.Label))
		}
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// MustUndefine is NewUndefine for statically known arguments; it panics on
// misuse.
func MustUndefine(defs ...pattern.Definable) *Undefine {
	q, err := NewUndefine(defs...)
	if err != nil {
		panic(fmt.Sprintf("query: %v", err))
	}
	return q
}

func (q *Undefine) Validate() error {
	if len(q.Types) == 0 && len(q.Rules) == 0 {
		return typeqlerr.MissingDefinables.New()
	}
	var err error
	typeqlerr.Append(&err, validateTypes(q.Types, token.Undefine))
	for _, r := range q.Rules {
		typeqlerr.Append(&err, r.Validate())
	}
	return err
}

func (q *Undefine) String() string {
	parts := make([]string, 0, len(q.Types)+len(q.Rules))
	for _, t := range q.Types {
		parts = append(parts, t.String())
	}
	for _, r := range q.Rules {
		parts = append(parts, r.String())
	}
	return definitions(token.Undefine, parts)
}

func validateTypes(types []*pattern.TypeStatement, command token.Command) error {
	var err error
	for _, t := range types {
		if !t.HasLabel() {
			typeqlerr.Append(&err, typeqlerr.MissingDefinableLabel.New(t, command))
		}
		typeqlerr.Append(&err, t.Validate())
	}
	return err
}

func definitions(command token.Command, parts []string) string {
	sep := token.Semicolon.String() + token.Newline.String()
	return clause(command, strings.Join(parts, sep)+token.Semicolon.String())
}
