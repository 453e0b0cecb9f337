// Package builder is the fluent entry point for assembling queries in Go.
//
//	q := builder.Match(
//		builder.Var("x").Isa("person").Has("name", builder.Var("n")),
//	).Get(builder.Var("n"))
//
// Every function returns a new value. Statement chains continue on the
// returned statement (Isa, Has, Rel, Sub, Owns, ...).
package builder

import (
	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/query"
	"github.com/roach88/typeql/internal/token"
)

// ============================================================================
// Variables and statements
// ============================================================================

// Var returns the concept variable $name.
func Var(name string) pattern.UnboundConceptVariable { return pattern.NewConceptVariable(name) }

// AnonVar returns the anonymous variable $_.
func AnonVar() pattern.UnboundConceptVariable { return pattern.AnonymousVariable() }

// VVar returns the value variable ?name.
func VVar(name string) pattern.UnboundValueVariable { return pattern.NewValueVariable(name) }

// Type returns the type statement identified by label.
func Type(label string) *pattern.TypeStatement { return pattern.NewTypeStatement(label) }

// Rel starts an unnamed relation with one role player. An empty role leaves
// the role to inference.
func Rel(role, player string) *pattern.ThingStatement {
	return pattern.HiddenVariable().Rel(role, player)
}

// Rule starts a rule.
func Rule(label string) pattern.RuleDeclaration { return pattern.NewRule(label) }

// ============================================================================
// Patterns
// ============================================================================

// And groups patterns into a conjunction.
func And(patterns ...pattern.Pattern) *pattern.Conjunction {
	return pattern.NewConjunction(patterns...)
}

// Or groups patterns into a disjunction. A single pattern is returned as is.
func Or(patterns ...pattern.Pattern) pattern.Pattern {
	if len(patterns) == 1 {
		return patterns[0]
	}
	return pattern.NewDisjunction(patterns...)
}

// Not negates p.
func Not(p pattern.Pattern) *pattern.Negation { return pattern.NewNegation(p) }

// ============================================================================
// Queries
// ============================================================================

// Match starts a match query.
func Match(patterns ...pattern.Pattern) *query.Match { return query.NewMatch(patterns...) }

// Insert starts an insert query without a match.
func Insert(stmts ...*pattern.ThingStatement) *query.Insert { return query.NewInsert(stmts...) }

// Define builds a define query; see query.NewDefine.
func Define(defs ...pattern.Definable) (*query.Define, error) { return query.NewDefine(defs...) }

// MustDefine builds a define query and panics on misuse.
func MustDefine(defs ...pattern.Definable) *query.Define { return query.MustDefine(defs...) }

// Undefine builds an undefine query; see query.NewUndefine.
func Undefine(defs ...pattern.Definable) (*query.Undefine, error) { return query.NewUndefine(defs...) }

// MustUndefine builds an undefine query and panics on misuse.
func MustUndefine(defs ...pattern.Definable) *query.Undefine { return query.MustUndefine(defs...) }

// ============================================================================
// Predicates
// ============================================================================

func Eq(v any) pattern.Predicate       { return pattern.NewPredicate(token.Eq, v) }
func Neq(v any) pattern.Predicate      { return pattern.NewPredicate(token.Neq, v) }
func Gt(v any) pattern.Predicate       { return pattern.NewPredicate(token.Gt, v) }
func Gte(v any) pattern.Predicate      { return pattern.NewPredicate(token.Gte, v) }
func Lt(v any) pattern.Predicate       { return pattern.NewPredicate(token.Lt, v) }
func Lte(v any) pattern.Predicate      { return pattern.NewPredicate(token.Lte, v) }
func Contains(v any) pattern.Predicate { return pattern.NewPredicate(token.Contains, v) }
func Like(v any) pattern.Predicate     { return pattern.NewPredicate(token.Like, v) }

// ============================================================================
// Expressions
// ============================================================================

// Constant wraps a Go value as an expression.
func Constant(v any) pattern.Expression { return pattern.ConstantExpr{Value: pattern.ValueOf(v)} }

func call(fn token.Function, args []any) pattern.Expression {
	exprs := make([]pattern.Expression, len(args))
	for i, a := range args {
		exprs[i] = pattern.ExprOf(a)
	}
	return pattern.FunctionExpr{Func: fn, Args: exprs}
}

func Abs(arg any) pattern.Expression     { return call(token.Abs, []any{arg}) }
func Ceil(arg any) pattern.Expression    { return call(token.Ceil, []any{arg}) }
func Floor(arg any) pattern.Expression   { return call(token.Floor, []any{arg}) }
func Round(arg any) pattern.Expression   { return call(token.Round, []any{arg}) }
func Max(args ...any) pattern.Expression { return call(token.Max, args) }
func Min(args ...any) pattern.Expression { return call(token.Min, args) }

func operation(op token.ArithmeticOperator, left, right any) pattern.Expression {
	return pattern.OperationExpr{Op: op, Left: pattern.ExprOf(left), Right: pattern.ExprOf(right)}
}

func Add(left, right any) pattern.Expression { return operation(token.Add, left, right) }
func Sub(left, right any) pattern.Expression { return operation(token.Subtract, left, right) }
func Mul(left, right any) pattern.Expression { return operation(token.Multiply, left, right) }
func Div(left, right any) pattern.Expression { return operation(token.Divide, left, right) }
func Mod(left, right any) pattern.Expression { return operation(token.Modulo, left, right) }
func Pow(left, right any) pattern.Expression { return operation(token.Power, left, right) }

// Paren parenthesises an expression.
func Paren(inner any) pattern.Expression { return pattern.ParenExpr{Inner: pattern.ExprOf(inner)} }
