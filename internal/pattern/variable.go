package pattern

// Variable is anything that carries a reference: unbound variables and
// statements.
type Variable interface {
	Reference() Reference
}

// UnboundConceptVariable is a concept variable with no constraints yet.
// Applying a constraint consumes it and yields a statement.
type UnboundConceptVariable struct {
	ref Reference
}

// NewConceptVariable returns $name.
func NewConceptVariable(name string) UnboundConceptVariable {
	return UnboundConceptVariable{ref: NamedReference(name)}
}

// AnonymousVariable returns $_.
func AnonymousVariable() UnboundConceptVariable {
	return UnboundConceptVariable{ref: AnonymousReference(true)}
}

// HiddenVariable returns an anonymous variable that is never printed.
func HiddenVariable() UnboundConceptVariable {
	return UnboundConceptVariable{ref: AnonymousReference(false)}
}

// LabelVariable returns a variable identified by a type label.
func LabelVariable(label string) UnboundConceptVariable {
	return UnboundConceptVariable{ref: LabelReference(label)}
}

func (v UnboundConceptVariable) Reference() Reference { return v.ref }

func (v UnboundConceptVariable) String() string { return v.ref.String() }

// Statement returns the bare concept statement for this variable.
func (v UnboundConceptVariable) Statement() *ConceptStatement {
	return &ConceptStatement{Variable: v}
}

// Is constrains the variable to be the same concept as other.
func (v UnboundConceptVariable) Is(other UnboundConceptVariable) *ConceptStatement {
	return v.Statement().Is(other)
}

func (v UnboundConceptVariable) thing() *ThingStatement {
	return &ThingStatement{Variable: v}
}

func (v UnboundConceptVariable) typ() *TypeStatement {
	return &TypeStatement{Variable: v}
}

// UnboundValueVariable is a value variable (?x) with no constraints yet.
type UnboundValueVariable struct {
	ref Reference
}

// NewValueVariable returns ?name.
func NewValueVariable(name string) UnboundValueVariable {
	return UnboundValueVariable{ref: NamedValueReference(name)}
}

func (v UnboundValueVariable) Reference() Reference { return v.ref }

func (v UnboundValueVariable) String() string { return v.ref.String() }

func (v UnboundValueVariable) value() *ValueStatement {
	return &ValueStatement{Variable: v}
}
