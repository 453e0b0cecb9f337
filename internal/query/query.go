// Package query assembles patterns into complete queries and checks the
// constraints that span clauses.
//
// Query types:
//   - Match: a pattern body plus optional get/sort/offset/limit modifiers
//   - Insert: statements to write, optionally scoped by a preceding match
//   - Delete: statements to remove, always scoped by a match
//   - Update: a delete followed by an insert
//   - Define, Undefine: schema types and rules
//
// Every query renders its canonical text with String and reports every
// violation it contains with Validate. Builder methods return new values and
// never modify the receiver.
package query

import (
	"fmt"

	"github.com/roach88/typeql/internal/token"
)

// Query is a complete query.
//
// This is a sealed interface; only types in this package implement it.
type Query interface {
	fmt.Stringer
	// Kind names the query form.
	Kind() Kind
	// Validate returns nil or every validation error in the query.
	Validate() error
	queryNode()
}

// Kind is the form of a query, named by its leading command.
type Kind string

const (
	KindMatch    Kind = "match"
	KindInsert   Kind = "insert"
	KindDelete   Kind = "delete"
	KindUpdate   Kind = "update"
	KindDefine   Kind = "define"
	KindUndefine Kind = "undefine"
)

func (k Kind) String() string { return string(k) }

func (*Match) queryNode()    {}
func (*Insert) queryNode()   {}
func (*Delete) queryNode()   {}
func (*Update) queryNode()   {}
func (*Define) queryNode()   {}
func (*Undefine) queryNode() {}

func (*Match) Kind() Kind    { return KindMatch }
func (*Insert) Kind() Kind   { return KindInsert }
func (*Delete) Kind() Kind   { return KindDelete }
func (*Update) Kind() Kind   { return KindUpdate }
func (*Define) Kind() Kind   { return KindDefine }
func (*Undefine) Kind() Kind { return KindUndefine }

// clause renders "keyword\nbody".
func clause(kw fmt.Stringer, body string) string {
	return kw.String() + token.Newline.String() + body
}
