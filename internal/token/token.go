// Package token is the fixed table of keywords, operators and punctuation of
// the query language.
//
// Every printed keyword comes from this package. Call sites never spell a
// keyword themselves, so casing and spacing are identical wherever the same
// token appears.
package token

// Command is a top-level query keyword.
type Command string

const (
	Match    Command = "match"
	Insert   Command = "insert"
	Delete   Command = "delete"
	Define   Command = "define"
	Undefine Command = "undefine"
)

func (t Command) String() string { return string(t) }

// Schema is a keyword used in rule definitions.
type Schema string

const (
	Rule Schema = "rule"
	When Schema = "when"
	Then Schema = "then"
)

func (t Schema) String() string { return string(t) }

// Constraint is the keyword introducing a constraint on a statement.
type Constraint string

const (
	Abstract Constraint = "abstract"
	As       Constraint = "as"
	Has      Constraint = "has"
	IID      Constraint = "iid"
	Is       Constraint = "is"
	Isa      Constraint = "isa"
	IsaX     Constraint = "isa!"
	Owns     Constraint = "owns"
	Plays    Constraint = "plays"
	Regex    Constraint = "regex"
	Relates  Constraint = "relates"
	Sub      Constraint = "sub"
	SubX     Constraint = "sub!"
	Type     Constraint = "type"
	Value    Constraint = "value"
)

func (t Constraint) String() string { return string(t) }

// Annotation is an @-prefixed marker attached to a constraint.
type Annotation string

const (
	Key    Annotation = "@key"
	Unique Annotation = "@unique"
)

func (t Annotation) String() string { return string(t) }

// Predicate is a comparison or string operator.
type Predicate string

const (
	Eq       Predicate = "="
	Neq      Predicate = "!="
	Gt       Predicate = ">"
	Gte      Predicate = ">="
	Lt       Predicate = "<"
	Lte      Predicate = "<="
	Contains Predicate = "contains"
	Like     Predicate = "like"
)

func (t Predicate) String() string { return string(t) }

// IsString reports whether the predicate only accepts string operands.
func (t Predicate) IsString() bool {
	return t == Contains || t == Like
}

// Predicates lists every predicate in a fixed order.
var Predicates = []Predicate{Eq, Neq, Gt, Gte, Lt, Lte, Contains, Like}

// ParsePredicate looks up a predicate by its printed form.
func ParsePredicate(s string) (Predicate, bool) {
	for _, p := range Predicates {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// LogicOperator combines patterns.
type LogicOperator string

const (
	And LogicOperator = "and"
	Or  LogicOperator = "or"
	Not LogicOperator = "not"
)

func (t LogicOperator) String() string { return string(t) }

// Modifier is a keyword that modifies match results.
type Modifier string

const (
	Get    Modifier = "get"
	Sort   Modifier = "sort"
	Offset Modifier = "offset"
	Limit  Modifier = "limit"
)

func (t Modifier) String() string { return string(t) }

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func (t Order) String() string { return string(t) }

// Function is a built-in expression function.
type Function string

const (
	Abs   Function = "abs"
	Ceil  Function = "ceil"
	Floor Function = "floor"
	Max   Function = "max"
	Min   Function = "min"
	Round Function = "round"
)

func (t Function) String() string { return string(t) }

// Functions lists every built-in function.
var Functions = []Function{Abs, Ceil, Floor, Max, Min, Round}

// ParseFunction looks up a function by name.
func ParseFunction(s string) (Function, bool) {
	for _, f := range Functions {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// ArithmeticOperator is a binary operator in value expressions.
type ArithmeticOperator string

const (
	Add      ArithmeticOperator = "+"
	Subtract ArithmeticOperator = "-"
	Multiply ArithmeticOperator = "*"
	Divide   ArithmeticOperator = "/"
	Modulo   ArithmeticOperator = "%"
	Power    ArithmeticOperator = "^"
)

func (t ArithmeticOperator) String() string { return string(t) }

// Precedence returns the binding strength of the operator. Higher binds
// tighter.
func (t ArithmeticOperator) Precedence() int {
	switch t {
	case Add, Subtract:
		return 1
	case Multiply, Divide, Modulo:
		return 2
	case Power:
		return 3
	}
	return 0
}

// RightAssociative reports whether a chain of the operator groups from the
// right.
func (t ArithmeticOperator) RightAssociative() bool { return t == Power }

// ArithmeticOperators lists every arithmetic operator.
var ArithmeticOperators = []ArithmeticOperator{Add, Subtract, Multiply, Divide, Modulo, Power}

// ParseArithmeticOperator looks up an operator by its printed form.
func ParseArithmeticOperator(s string) (ArithmeticOperator, bool) {
	for _, op := range ArithmeticOperators {
		if string(op) == s {
			return op, true
		}
	}
	return "", false
}

// ValueType is an attribute value type.
type ValueType string

const (
	Boolean  ValueType = "boolean"
	DateTime ValueType = "datetime"
	Double   ValueType = "double"
	Long     ValueType = "long"
	String   ValueType = "string"
)

func (t ValueType) String() string { return string(t) }

// ValueTypes lists every value type.
var ValueTypes = []ValueType{Boolean, DateTime, Double, Long, String}

// ParseValueType looks up a value type by name.
func ParseValueType(s string) (ValueType, bool) {
	for _, v := range ValueTypes {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// Literal is a keyword literal.
type Literal string

const (
	True  Literal = "true"
	False Literal = "false"
)

func (t Literal) String() string { return string(t) }

// Char is a punctuation token.
type Char string

const (
	CurlyLeft   Char = "{"
	CurlyRight  Char = "}"
	ParenLeft   Char = "("
	ParenRight  Char = ")"
	Colon       Char = ":"
	Comma       Char = ","
	Semicolon   Char = ";"
	Space       Char = " "
	Newline     Char = "\n"
	Quote       Char = "\""
	Dollar      Char = "$"
	Question    Char = "?"
	Underscore  Char = "_"
	CommaSpaced Char = ", "
)

func (t Char) String() string { return string(t) }
