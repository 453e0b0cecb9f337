package compiler

import (
	"strings"
	"time"

	"cuelang.org/go/cue"

	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/token"
)

// dateTimeLayouts are tried in order for {datetime: "..."} constants.
var dateTimeLayouts = []string{
	pattern.DateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// compileValue compiles a constant or a variable reference into a value
// accepted by pattern.ValueOf.
func compileValue(v cue.Value, path string) (any, error) {
	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, errorAt(v, path, "integer out of range")
		}
		return n, nil
	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, errorAt(v, path, "invalid number")
		}
		return f, nil
	case cue.BoolKind:
		b, _ := v.Bool()
		return b, nil
	case cue.StringKind:
		s, _ := v.String()
		return s, nil
	case cue.StructKind:
		return compileReference(v, path)
	}
	return nil, errorAt(v, path, "unsupported value of kind %v", v.Kind())
}

// compileReference handles {var}, {vvar} and {datetime}.
func compileReference(v cue.Value, path string) (any, error) {
	if err := checkFields(v, path, "var", "vvar", "datetime"); err != nil {
		return nil, err
	}
	if ref := lookup(v, "var"); ref.Exists() {
		name, err := stringField(ref, join(path, "var"))
		if err != nil {
			return nil, err
		}
		return conceptVariable(name), nil
	}
	if ref := lookup(v, "vvar"); ref.Exists() {
		name, err := stringField(ref, join(path, "vvar"))
		if err != nil {
			return nil, err
		}
		return pattern.NewValueVariable(strings.TrimPrefix(name, token.Question.String())), nil
	}
	if dt := lookup(v, "datetime"); dt.Exists() {
		s, err := stringField(dt, join(path, "datetime"))
		if err != nil {
			return nil, err
		}
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, errorAt(dt, join(path, "datetime"), "cannot parse %q as a datetime", s)
	}
	return nil, errorAt(v, path, "needs one of var, vvar or datetime")
}

// compileExpression compiles an assignment right-hand side.
func compileExpression(v cue.Value, path string) (pattern.Expression, error) {
	if v.Kind() != cue.StructKind {
		value, err := compileValue(v, path)
		if err != nil {
			return nil, err
		}
		return pattern.ExprOf(value), nil
	}

	switch {
	case lookup(v, "fn").Exists():
		if err := checkFields(v, path, "fn", "args"); err != nil {
			return nil, err
		}
		name, err := stringField(lookup(v, "fn"), join(path, "fn"))
		if err != nil {
			return nil, err
		}
		fn, ok := token.ParseFunction(name)
		if !ok {
			return nil, errorAt(lookup(v, "fn"), join(path, "fn"), "unknown function %q", name)
		}
		var args []pattern.Expression
		err = eachItem(lookup(v, "args"), join(path, "args"), func(elem cue.Value, path string) error {
			arg, err := compileExpression(elem, path)
			if err != nil {
				return err
			}
			args = append(args, arg)
			return nil
		})
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, errorAt(v, join(path, "args"), "function %s needs arguments", fn)
		}
		return pattern.FunctionExpr{Func: fn, Args: args}, nil

	case lookup(v, "op").Exists():
		if err := checkFields(v, path, "op", "left", "right"); err != nil {
			return nil, err
		}
		name, err := stringField(lookup(v, "op"), join(path, "op"))
		if err != nil {
			return nil, err
		}
		op, ok := token.ParseArithmeticOperator(name)
		if !ok {
			return nil, errorAt(lookup(v, "op"), join(path, "op"), "unknown operator %q", name)
		}
		left, err := compileExpression(lookup(v, "left"), join(path, "left"))
		if err != nil {
			return nil, err
		}
		right, err := compileExpression(lookup(v, "right"), join(path, "right"))
		if err != nil {
			return nil, err
		}
		return pattern.OperationExpr{Op: op, Left: left, Right: right}, nil

	case lookup(v, "paren").Exists():
		if err := checkFields(v, path, "paren"); err != nil {
			return nil, err
		}
		inner, err := compileExpression(lookup(v, "paren"), join(path, "paren"))
		if err != nil {
			return nil, err
		}
		return pattern.ParenExpr{Inner: inner}, nil
	}

	value, err := compileReference(v, path)
	if err != nil {
		return nil, err
	}
	return pattern.ExprOf(value), nil
}
