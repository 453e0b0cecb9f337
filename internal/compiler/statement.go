package compiler

import (
	"slices"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/token"
)

var (
	typeFields  = []string{"label", "sub", "sub!", "relates", "plays", "owns", "abstract", "valuetype", "regex"}
	thingFields = []string{"isa", "isa!", "iid", "has", "rel", "op", "value"}
	valueFields = []string{"vvar", "assign", "op", "value"}

	statementFields = slices.Concat([]string{"var", "vvar", "type", "is", "assign"}, typeFields, thingFields)
)

// typeChain is satisfied by an unbound variable and by a type statement, so
// constraints apply the same way before and after the first one.
type typeChain interface {
	Type(label string) *pattern.TypeStatement
	Sub(label string) *pattern.TypeStatement
	SubX(label string) *pattern.TypeStatement
	SubVar(t pattern.UnboundConceptVariable) *pattern.TypeStatement
	RelatesAs(role, overridden string) *pattern.TypeStatement
	PlaysAs(role, overridden string) *pattern.TypeStatement
	OwnsAs(attr, overridden string, annotations ...token.Annotation) *pattern.TypeStatement
	Abstract() *pattern.TypeStatement
	Value(vt token.ValueType) *pattern.TypeStatement
	Regex(regex string) *pattern.TypeStatement
}

// thingChain is the thing counterpart of typeChain.
type thingChain interface {
	Isa(label string) *pattern.ThingStatement
	IsaX(label string) *pattern.ThingStatement
	IsaVar(t pattern.UnboundConceptVariable) *pattern.ThingStatement
	IID(iid string) *pattern.ThingStatement
	Has(attrType string, value any) *pattern.ThingStatement
	HasVar(attr pattern.UnboundConceptVariable) *pattern.ThingStatement
	RelPlayer(rp pattern.RolePlayer) *pattern.ThingStatement
	ConstrainThing(c pattern.ThingConstraint) *pattern.ThingStatement
}

var (
	_ typeChain  = pattern.UnboundConceptVariable{}
	_ typeChain  = (*pattern.TypeStatement)(nil)
	_ thingChain = pattern.UnboundConceptVariable{}
	_ thingChain = (*pattern.ThingStatement)(nil)
)

// compileStatement picks the statement kind from the owner key and the
// constraint keys present.
func compileStatement(v cue.Value, path string) (pattern.Statement, error) {
	if v.Kind() != cue.StructKind {
		return nil, errorAt(v, path, "must be a struct")
	}
	if err := checkFields(v, path, statementFields...); err != nil {
		return nil, err
	}

	present := func(keys []string) string {
		for _, k := range keys {
			if lookup(v, k).Exists() {
				return k
			}
		}
		return ""
	}
	typed, thing := present(typeFields), present(thingFields)
	if typed != "" && thing != "" {
		return nil, errorAt(lookup(v, thing), join(path, thing), "cannot be combined with type constraint %s", typed)
	}

	if vvar := lookup(v, "vvar"); vvar.Exists() {
		if other := present(slices.Concat([]string{"var", "type", "is", "iid", "has", "rel", "isa", "isa!"}, typeFields)); other != "" {
			return nil, errorAt(lookup(v, other), join(path, other), "not allowed on a value statement")
		}
		return compileValueStatement(v, path)
	}
	if assign := lookup(v, "assign"); assign.Exists() {
		return nil, errorAt(assign, join(path, "assign"), "only value statements can assign")
	}

	if t := lookup(v, "type"); t.Exists() {
		if lookup(v, "var").Exists() {
			return nil, errorAt(t, join(path, "type"), "cannot be combined with var")
		}
		if thing != "" || lookup(v, "is").Exists() || lookup(v, "label").Exists() {
			return nil, errorAt(t, join(path, "type"), "type statements take type constraints only")
		}
		label, err := stringField(t, join(path, "type"))
		if err != nil {
			return nil, err
		}
		return compileTypeConstraints(v, path, pattern.NewTypeStatement(label))
	}

	var owner pattern.UnboundConceptVariable
	if name := lookup(v, "var"); name.Exists() {
		s, err := stringField(name, join(path, "var"))
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(s, token.Question.String()) {
			return nil, errorAt(name, join(path, "var"), "value variables use vvar")
		}
		owner = conceptVariable(s)
	} else {
		if !lookup(v, "rel").Exists() {
			return nil, errorAt(v, path, "statement needs one of var, vvar or type")
		}
		owner = pattern.HiddenVariable()
	}

	if is := lookup(v, "is"); is.Exists() {
		if other := present(slices.Concat(typeFields, thingFields)); other != "" {
			return nil, errorAt(lookup(v, other), join(path, other), "cannot be combined with is")
		}
		other, err := stringField(is, join(path, "is"))
		if err != nil {
			return nil, err
		}
		return owner.Is(conceptVariable(other)), nil
	}
	if typed != "" {
		return compileTypeConstraints(v, path, owner)
	}
	return compileThingConstraints(v, path, owner)
}

func compileTypeConstraints(v cue.Value, path string, owner typeChain) (pattern.Statement, error) {
	cur := owner
	var stmt *pattern.TypeStatement
	step := func(s *pattern.TypeStatement) {
		stmt = s
		cur = s
	}
	if s, ok := owner.(*pattern.TypeStatement); ok {
		stmt = s
	}

	if label := lookup(v, "label"); label.Exists() {
		s, err := stringField(label, join(path, "label"))
		if err != nil {
			return nil, err
		}
		step(cur.Type(s))
	}

	for _, key := range []string{"sub", "sub!"} {
		sub := lookup(v, key)
		if !sub.Exists() {
			continue
		}
		if ref := lookup(sub, "var"); ref.Exists() && key == "sub" {
			name, err := stringField(ref, join(path, key+".var"))
			if err != nil {
				return nil, err
			}
			step(cur.SubVar(conceptVariable(name)))
			continue
		}
		label, err := stringField(sub, join(path, key))
		if err != nil {
			return nil, err
		}
		if key == "sub!" {
			step(cur.SubX(label))
		} else {
			step(cur.Sub(label))
		}
	}

	if abstract := lookup(v, "abstract"); abstract.Exists() {
		b, err := abstract.Bool()
		if err != nil {
			return nil, errorAt(abstract, join(path, "abstract"), "must be a bool")
		}
		if b {
			step(cur.Abstract())
		}
	}

	if vt := lookup(v, "valuetype"); vt.Exists() {
		s, err := stringField(vt, join(path, "valuetype"))
		if err != nil {
			return nil, err
		}
		valueType, ok := token.ParseValueType(s)
		if !ok {
			return nil, errorAt(vt, join(path, "valuetype"), "unknown value type %q", s)
		}
		step(cur.Value(valueType))
	}

	if regex := lookup(v, "regex"); regex.Exists() {
		s, err := stringField(regex, join(path, "regex"))
		if err != nil {
			return nil, err
		}
		step(cur.Regex(s))
	}

	err := eachItem(lookup(v, "owns"), join(path, "owns"), func(elem cue.Value, path string) error {
		attr, overridden, annotations, err := compileOwns(elem, path)
		if err != nil {
			return err
		}
		step(cur.OwnsAs(attr, overridden, annotations...))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachItem(lookup(v, "relates"), join(path, "relates"), func(elem cue.Value, path string) error {
		role, overridden, err := compileRole(elem, path)
		if err != nil {
			return err
		}
		step(cur.RelatesAs(role, overridden))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachItem(lookup(v, "plays"), join(path, "plays"), func(elem cue.Value, path string) error {
		role, overridden, err := compileRole(elem, path)
		if err != nil {
			return err
		}
		step(cur.PlaysAs(role, overridden))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stmt == nil {
		return nil, errorAt(v, path, "statement has no constraints")
	}
	return stmt, nil
}

// compileRole accepts "role" or {role: "role", as: "overridden"}.
func compileRole(v cue.Value, path string) (role, overridden string, err error) {
	if v.Kind() == cue.StringKind {
		role, _ = v.String()
		return role, "", nil
	}
	if err := checkFields(v, path, "role", "as"); err != nil {
		return "", "", err
	}
	if role, err = stringField(lookup(v, "role"), join(path, "role")); err != nil {
		return "", "", err
	}
	if as := lookup(v, "as"); as.Exists() {
		if overridden, err = stringField(as, join(path, "as")); err != nil {
			return "", "", err
		}
	}
	return role, overridden, nil
}

// compileOwns accepts "attr" or {type: "attr", as: "overridden", key: true,
// unique: true}.
func compileOwns(v cue.Value, path string) (attr, overridden string, annotations []token.Annotation, err error) {
	if v.Kind() == cue.StringKind {
		attr, _ = v.String()
		return attr, "", nil, nil
	}
	if err := checkFields(v, path, "type", "as", "key", "unique"); err != nil {
		return "", "", nil, err
	}
	if attr, err = stringField(lookup(v, "type"), join(path, "type")); err != nil {
		return "", "", nil, err
	}
	if as := lookup(v, "as"); as.Exists() {
		if overridden, err = stringField(as, join(path, "as")); err != nil {
			return "", "", nil, err
		}
	}
	for _, a := range []struct {
		key        string
		annotation token.Annotation
	}{{"key", token.Key}, {"unique", token.Unique}} {
		flag := lookup(v, a.key)
		if !flag.Exists() {
			continue
		}
		b, err := flag.Bool()
		if err != nil {
			return "", "", nil, errorAt(flag, join(path, a.key), "must be a bool")
		}
		if b {
			annotations = append(annotations, a.annotation)
		}
	}
	return attr, overridden, annotations, nil
}

func compileThingConstraints(v cue.Value, path string, owner pattern.UnboundConceptVariable) (pattern.Statement, error) {
	var cur thingChain = owner
	var stmt *pattern.ThingStatement
	step := func(s *pattern.ThingStatement) {
		stmt = s
		cur = s
	}

	err := eachItem(lookup(v, "rel"), join(path, "rel"), func(elem cue.Value, path string) error {
		rp, err := compileRolePlayer(elem, path)
		if err != nil {
			return err
		}
		step(cur.RelPlayer(rp))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if isa := lookup(v, "isa"); isa.Exists() {
		if ref := lookup(isa, "var"); ref.Exists() {
			name, err := stringField(ref, join(path, "isa.var"))
			if err != nil {
				return nil, err
			}
			step(cur.IsaVar(conceptVariable(name)))
		} else {
			label, err := stringField(isa, join(path, "isa"))
			if err != nil {
				return nil, err
			}
			step(cur.Isa(label))
		}
	}
	if isa := lookup(v, "isa!"); isa.Exists() {
		label, err := stringField(isa, join(path, "isa!"))
		if err != nil {
			return nil, err
		}
		step(cur.IsaX(label))
	}

	if iid := lookup(v, "iid"); iid.Exists() {
		s, err := stringField(iid, join(path, "iid"))
		if err != nil {
			return nil, err
		}
		step(cur.IID(s))
	}

	if value := lookup(v, "value"); value.Exists() {
		pred, err := compilePredicate(v, path)
		if err != nil {
			return nil, err
		}
		step(cur.ConstrainThing(pred))
	} else if op := lookup(v, "op"); op.Exists() {
		return nil, errorAt(op, join(path, "op"), "needs a value")
	}

	err = eachItem(lookup(v, "has"), join(path, "has"), func(elem cue.Value, path string) error {
		s, err := compileHas(cur, elem, path)
		if err != nil {
			return err
		}
		step(s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stmt == nil {
		return nil, errorAt(v, path, "statement has no constraints")
	}
	return stmt, nil
}

// compileRolePlayer accepts "player" or {role: "role", player: "player"}.
func compileRolePlayer(v cue.Value, path string) (pattern.RolePlayer, error) {
	if v.Kind() == cue.StringKind {
		player, _ := v.String()
		return pattern.NewRolePlayer("", conceptVariable(player)), nil
	}
	if err := checkFields(v, path, "role", "player"); err != nil {
		return pattern.RolePlayer{}, err
	}
	player, err := stringField(lookup(v, "player"), join(path, "player"))
	if err != nil {
		return pattern.RolePlayer{}, err
	}
	var role string
	if r := lookup(v, "role"); r.Exists() {
		if role, err = stringField(r, join(path, "role")); err != nil {
			return pattern.RolePlayer{}, err
		}
	}
	return pattern.NewRolePlayer(role, conceptVariable(player)), nil
}

// compileHas accepts {type, var}, {var}, {type, value} and
// {type, op, value}.
func compileHas(cur thingChain, v cue.Value, path string) (*pattern.ThingStatement, error) {
	if err := checkFields(v, path, "type", "var", "op", "value"); err != nil {
		return nil, err
	}
	var attrType string
	if t := lookup(v, "type"); t.Exists() {
		s, err := stringField(t, join(path, "type"))
		if err != nil {
			return nil, err
		}
		attrType = s
	}

	if ref := lookup(v, "var"); ref.Exists() {
		if lookup(v, "op").Exists() || lookup(v, "value").Exists() {
			return nil, errorAt(ref, join(path, "var"), "cannot be combined with op or value")
		}
		name, err := stringField(ref, join(path, "var"))
		if err != nil {
			return nil, err
		}
		if attrType == "" {
			return cur.HasVar(conceptVariable(name)), nil
		}
		return cur.Has(attrType, conceptVariable(name)), nil
	}

	if !lookup(v, "value").Exists() {
		return nil, errorAt(v, path, "has needs a var or a value")
	}
	if attrType == "" {
		return nil, errorAt(v, join(path, "type"), "has with a value needs a type")
	}
	if !lookup(v, "op").Exists() {
		value, err := compileValue(lookup(v, "value"), join(path, "value"))
		if err != nil {
			return nil, err
		}
		return cur.Has(attrType, value), nil
	}
	pred, err := compilePredicate(v, path)
	if err != nil {
		return nil, err
	}
	return cur.Has(attrType, pred), nil
}

func compileValueStatement(v cue.Value, path string) (pattern.Statement, error) {
	if err := checkFields(v, path, valueFields...); err != nil {
		return nil, err
	}
	name, err := stringField(lookup(v, "vvar"), join(path, "vvar"))
	if err != nil {
		return nil, err
	}
	owner := pattern.NewValueVariable(strings.TrimPrefix(name, token.Question.String()))

	assign, value := lookup(v, "assign"), lookup(v, "value")
	switch {
	case assign.Exists() && value.Exists():
		return nil, errorAt(assign, join(path, "assign"), "cannot be combined with a comparison")
	case assign.Exists():
		expr, err := compileExpression(assign, join(path, "assign"))
		if err != nil {
			return nil, err
		}
		return owner.Assign(expr), nil
	case value.Exists():
		pred, err := compilePredicate(v, path)
		if err != nil {
			return nil, err
		}
		return owner.ConstrainValue(pred), nil
	}
	return nil, errorAt(v, path, "value statement needs assign or value")
}

// compilePredicate reads op and value from v. A missing op is equality.
func compilePredicate(v cue.Value, path string) (pattern.Predicate, error) {
	op := token.Eq
	if raw := lookup(v, "op"); raw.Exists() {
		s, err := stringField(raw, join(path, "op"))
		if err != nil {
			return pattern.Predicate{}, err
		}
		parsed, ok := token.ParsePredicate(s)
		if !ok {
			return pattern.Predicate{}, errorAt(raw, join(path, "op"), "unknown predicate %q", s)
		}
		op = parsed
	}
	value, err := compileValue(lookup(v, "value"), join(path, "value"))
	if err != nil {
		return pattern.Predicate{}, err
	}
	return pattern.NewPredicate(op, value), nil
}

// eachItem is eachElement that also accepts a single non-list item.
func eachItem(v cue.Value, path string, fn func(elem cue.Value, path string) error) error {
	if !v.Exists() {
		return nil
	}
	if v.Kind() != cue.ListKind {
		return fn(v, path)
	}
	return eachElement(v, path, func(_ int, elem cue.Value, path string) error {
		return fn(elem, path)
	})
}
