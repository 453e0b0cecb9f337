package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/typeql/internal/token"
	"github.com/roach88/typeql/internal/typeqlerr"
)

// DateTimeLayout is the rendering of datetime constants.
const DateTimeLayout = "2006-01-02T15:04:05.000"

// Value is a predicate operand: a constant or a variable.
//
// Sealed: LongValue, DoubleValue, BooleanValue, StringValue, DateTimeValue,
// VariableValue.
type Value interface {
	fmt.Stringer
	isValue()
}

type LongValue int64

type DoubleValue float64

type BooleanValue bool

type StringValue string

type DateTimeValue struct {
	Time time.Time
}

// VariableValue is a variable used as an operand.
type VariableValue struct {
	Ref Reference
}

func (LongValue) isValue()     {}
func (DoubleValue) isValue()   {}
func (BooleanValue) isValue()  {}
func (StringValue) isValue()   {}
func (DateTimeValue) isValue() {}
func (VariableValue) isValue() {}

func (v LongValue) String() string { return strconv.FormatInt(int64(v), 10) }

func (v DoubleValue) String() string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func (v BooleanValue) String() string {
	if v {
		return token.True.String()
	}
	return token.False.String()
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (v StringValue) String() string { return quoteString(string(v)) }

func (v DateTimeValue) String() string { return v.Time.Format(DateTimeLayout) }

func (v VariableValue) String() string { return v.Ref.String() }

func quoteString(s string) string {
	q := token.Quote.String()
	return q + stringEscaper.Replace(norm.NFC.String(s)) + q
}

// ValueOf converts a Go value into a predicate operand. It accepts the
// integer and float kinds, bool, string, time.Time, Value and unbound
// variables, and panics on anything else, the way reflect panics on a wrong
// Kind.
func ValueOf(v any) Value {
	switch v := v.(type) {
	case Value:
		return v
	case int:
		return LongValue(v)
	case int8:
		return LongValue(v)
	case int16:
		return LongValue(v)
	case int32:
		return LongValue(v)
	case int64:
		return LongValue(v)
	case uint8:
		return LongValue(v)
	case uint16:
		return LongValue(v)
	case uint32:
		return LongValue(v)
	case float32:
		return DoubleValue(v)
	case float64:
		return DoubleValue(v)
	case bool:
		return BooleanValue(v)
	case string:
		return StringValue(v)
	case time.Time:
		return DateTimeValue{Time: v}
	case UnboundConceptVariable:
		return VariableValue{Ref: v.Reference()}
	case UnboundValueVariable:
		return VariableValue{Ref: v.Reference()}
	}
	panic(fmt.Sprintf("pattern: unsupported value type %T", v))
}

func valueReferences(v Value) []Reference {
	if vv, ok := v.(VariableValue); ok {
		return []Reference{vv.Ref}
	}
	return nil
}

// Predicate is a comparison against an operand.
type Predicate struct {
	Op    token.Predicate
	Value Value
}

// NewPredicate builds a predicate from any value accepted by ValueOf.
func NewPredicate(op token.Predicate, value any) Predicate {
	return Predicate{Op: op, Value: ValueOf(value)}
}

// String renders the predicate the way a thing statement prints it: an
// equality against a constant is written as the bare constant.
func (p Predicate) String() string {
	if _, isVar := p.Value.(VariableValue); p.Op == token.Eq && !isVar {
		return p.Value.String()
	}
	return p.explicit()
}

func (p Predicate) explicit() string {
	return p.Op.String() + token.Space.String() + p.Value.String()
}

func (p Predicate) validate() error {
	var err error
	if p.Op.IsString() {
		switch v := p.Value.(type) {
		case StringValue:
			if p.Op == token.Like {
				if _, rerr := compileRegex(string(v)); rerr != nil {
					return typeqlerr.InvalidLikeRegex.New(string(v), rerr)
				}
			}
		case VariableValue:
		default:
			return typeqlerr.InvalidStringPredicateOperand.New(p.Op, p.Value)
		}
	}
	for _, r := range valueReferences(p.Value) {
		typeqlerr.Append(&err, r.validate())
	}
	return err
}
