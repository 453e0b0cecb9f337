// Package typeqlerr defines the closed, numerically coded set of validation
// errors.
//
// Errors are grouped into families. A family fixes the code prefix and the
// type name printed in front of every message; each kind inside a family is
// defined exactly once with a static code and a message template whose
// {placeholders} name the fields the kind carries:
//
//	[TQL08] TypeQL Error: The deleted variable '$y' is out of scope of the preceding match clause.
//
// The digit width of a code is the width of the largest code in its family,
// zero padded.
package typeqlerr

import (
	"errors"
	"fmt"
	"strings"
)

// Family is a table of error kinds sharing a code prefix and a type name.
type Family struct {
	Prefix string
	Type   string

	kinds []*Kind
	codes map[int]*Kind
	names map[string]*Kind
}

// NewFamily creates an empty family.
func NewFamily(prefix, typ string) *Family {
	return &Family{
		Prefix: prefix,
		Type:   typ,
		codes:  make(map[int]*Kind),
		names:  make(map[string]*Kind),
	}
}

// Define registers a kind. Codes and names are assigned once; defining the
// same code or name twice panics, which surfaces at package init.
func (f *Family) Define(code int, name, template string, fields ...string) *Kind {
	if code <= 0 {
		panic(fmt.Sprintf("typeqlerr: %s code for %s must be positive, got %d", f.Prefix, name, code))
	}
	if other, ok := f.codes[code]; ok {
		panic(fmt.Sprintf("typeqlerr: %s code %d reused by %s and %s", f.Prefix, code, other.name, name))
	}
	if _, ok := f.names[name]; ok {
		panic(fmt.Sprintf("typeqlerr: %s kind %s defined twice", f.Prefix, name))
	}
	for _, field := range fields {
		if !strings.Contains(template, "{"+field+"}") {
			panic(fmt.Sprintf("typeqlerr: %s template does not use field %q", name, field))
		}
	}

	k := &Kind{family: f, code: code, name: name, template: template, fields: fields}
	f.kinds = append(f.kinds, k)
	f.codes[code] = k
	f.names[name] = k
	return k
}

// Kinds returns the kinds in definition order.
func (f *Family) Kinds() []*Kind {
	out := make([]*Kind, len(f.kinds))
	copy(out, f.kinds)
	return out
}

// Lookup finds a kind by its formatted code (e.g. "TQL08").
func (f *Family) Lookup(code string) (*Kind, bool) {
	for _, k := range f.kinds {
		if k.FormatCode() == code {
			return k, true
		}
	}
	return nil, false
}

func (f *Family) width() int {
	max := 0
	for code := range f.codes {
		if code > max {
			max = code
		}
	}
	return len(fmt.Sprint(max))
}

// Kind is one entry of a family. A *Kind is comparable by identity and
// doubles as an errors.Is target for every *Error of that kind.
type Kind struct {
	family   *Family
	code     int
	name     string
	template string
	fields   []string
}

// Code returns the numeric code.
func (k *Kind) Code() int { return k.code }

// Name returns the kind name.
func (k *Kind) Name() string { return k.name }

// Family returns the owning family.
func (k *Kind) Family() *Family { return k.family }

// Fields returns the template field names in argument order.
func (k *Kind) Fields() []string {
	out := make([]string, len(k.fields))
	copy(out, k.fields)
	return out
}

// FormatCode renders the bracketless code, e.g. "TQL08".
func (k *Kind) FormatCode() string {
	return fmt.Sprintf("%s%0*d", k.family.Prefix, k.family.width(), k.code)
}

// Error lets a Kind be used as an errors.Is target.
func (k *Kind) Error() string {
	return k.family.Type + "::" + k.name
}

// New creates an error of this kind. Arguments bind to the kind's fields in
// order; missing arguments render empty.
func (k *Kind) New(args ...any) *Error {
	values := make(map[string]string, len(k.fields))
	for i, field := range k.fields {
		if i < len(args) {
			values[field] = fmt.Sprint(args[i])
		} else {
			values[field] = ""
		}
	}
	return &Error{Kind: k, Args: values}
}

// Error is an instance of a Kind with its field values bound.
type Error struct {
	Kind *Kind
	Args map[string]string
}

// Code returns the formatted code, e.g. "TQL08".
func (e *Error) Code() string { return e.Kind.FormatCode() }

// Message renders the template with the bound field values.
func (e *Error) Message() string {
	msg := e.Kind.template
	for _, field := range e.Kind.fields {
		msg = strings.ReplaceAll(msg, "{"+field+"}", e.Args[field])
	}
	return msg
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code(), e.Kind.family.Type, e.Message())
}

// Is matches the error's own Kind.
func (e *Error) Is(target error) bool {
	var k *Kind
	if errors.As(target, &k) {
		return k == e.Kind
	}
	return false
}

// GoString includes the kind name and fields, for %#v.
func (e *Error) GoString() string {
	var b strings.Builder
	b.WriteString(e.Kind.family.Type)
	b.WriteString("::")
	b.WriteString(e.Kind.name)
	b.WriteString("{message: ")
	fmt.Fprintf(&b, "%q", e.Error())
	for _, field := range e.Kind.fields {
		fmt.Fprintf(&b, ", %s: %q", field, e.Args[field])
	}
	b.WriteString("}")
	return b.String()
}
