package pattern

import (
	"fmt"
	"strings"

	"github.com/roach88/typeql/internal/token"
)

// Expression is the right-hand side of a value assignment.
//
// Sealed: ConstantExpr, VariableExpr, FunctionExpr, OperationExpr, ParenExpr.
type Expression interface {
	fmt.Stringer
	// References returns every variable the expression reads, in order.
	References() []Reference
	isExpression()
}

type ConstantExpr struct {
	Value Value
}

type VariableExpr struct {
	Ref Reference
}

type FunctionExpr struct {
	Func token.Function
	Args []Expression
}

type OperationExpr struct {
	Op    token.ArithmeticOperator
	Left  Expression
	Right Expression
}

type ParenExpr struct {
	Inner Expression
}

func (ConstantExpr) isExpression()  {}
func (VariableExpr) isExpression()  {}
func (FunctionExpr) isExpression()  {}
func (OperationExpr) isExpression() {}
func (ParenExpr) isExpression()     {}

// ExprOf converts v into an expression. Expressions pass through, variables
// become VariableExpr and everything else goes through ValueOf.
func ExprOf(v any) Expression {
	switch v := v.(type) {
	case Expression:
		return v
	case UnboundConceptVariable:
		return VariableExpr{Ref: v.Reference()}
	case UnboundValueVariable:
		return VariableExpr{Ref: v.Reference()}
	case VariableValue:
		return VariableExpr{Ref: v.Ref}
	}
	return ConstantExpr{Value: ValueOf(v)}
}

func (e ConstantExpr) String() string { return e.Value.String() }

func (e VariableExpr) String() string { return e.Ref.String() }

func (e FunctionExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Func.String() + token.ParenLeft.String() +
		strings.Join(args, token.CommaSpaced.String()) + token.ParenRight.String()
}

// String parenthesises operands that would otherwise regroup when the text is
// read back: looser operands on either side, and equal ones on the side the
// operator does not associate towards.
func (e OperationExpr) String() string {
	sp := token.Space.String()
	left := operand(e.Left, e.Op, e.Op.RightAssociative())
	right := operand(e.Right, e.Op, !e.Op.RightAssociative())
	return left + sp + e.Op.String() + sp + right
}

func operand(x Expression, parent token.ArithmeticOperator, wrapEqual bool) string {
	op, ok := x.(OperationExpr)
	if !ok {
		return x.String()
	}
	p, q := op.Op.Precedence(), parent.Precedence()
	if p < q || (p == q && wrapEqual) {
		return ParenExpr{Inner: op}.String()
	}
	return op.String()
}

func (e ParenExpr) String() string {
	return token.ParenLeft.String() + e.Inner.String() + token.ParenRight.String()
}

func (e ConstantExpr) References() []Reference { return valueReferences(e.Value) }

func (e VariableExpr) References() []Reference { return []Reference{e.Ref} }

func (e FunctionExpr) References() []Reference {
	var refs []Reference
	for _, a := range e.Args {
		refs = append(refs, a.References()...)
	}
	return refs
}

func (e OperationExpr) References() []Reference {
	return append(e.Left.References(), e.Right.References()...)
}

func (e ParenExpr) References() []Reference { return e.Inner.References() }
