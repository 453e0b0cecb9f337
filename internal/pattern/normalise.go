package pattern

// Normalise returns p rewritten as a disjunction of conjunctions. Members of
// each conjunction are statements or negations whose bodies are themselves
// normalised conjunctions, so no disjunction survives below the root.
//
// Results are cached on compound nodes; repeated calls return the same
// *Disjunction.
func Normalise(p Pattern) *Disjunction {
	switch p := p.(type) {
	case *Conjunction:
		return p.Normalised()
	case *Disjunction:
		return p.Normalised()
	case *Negation:
		return p.Normalised()
	default:
		return NewDisjunction(NewConjunction(p))
	}
}

// Normalised returns the cartesian product of the children's branches,
// concatenating each combination in child order.
func (c *Conjunction) Normalised() *Disjunction {
	if d := c.normalised.Load(); d != nil {
		return d
	}
	product := [][]Pattern{nil}
	for _, child := range c.Patterns {
		branches := branchesOf(Normalise(child))
		next := make([][]Pattern, 0, len(product)*len(branches))
		for _, prefix := range product {
			for _, branch := range branches {
				combined := make([]Pattern, 0, len(prefix)+len(branch.Patterns))
				combined = append(combined, prefix...)
				combined = append(combined, branch.Patterns...)
				next = append(next, combined)
			}
		}
		product = next
	}
	out := &Disjunction{Patterns: make([]Pattern, len(product))}
	for i, patterns := range product {
		out.Patterns[i] = NewConjunction(patterns...)
	}
	out.normalised.Store(out)
	c.normalised.Store(out)
	return out
}

// Normalised returns every child's branches concatenated in order.
func (d *Disjunction) Normalised() *Disjunction {
	if n := d.normalised.Load(); n != nil {
		return n
	}
	out := &Disjunction{}
	for _, child := range d.Patterns {
		for _, branch := range branchesOf(Normalise(child)) {
			out.Patterns = append(out.Patterns, branch)
		}
	}
	out.normalised.Store(out)
	d.normalised.Store(out)
	return out
}

// Normalised pushes the negation into each branch of its body: not (c1 or
// ... or cn) becomes the single conjunction { not c1; ...; not cn }. A body
// with one branch c1 yields { not c1 }, a single negation of the collapsed
// body. Wider bodies split so that no disjunction remains under a negation.
func (n *Negation) Normalised() *Disjunction {
	if d := n.normalised.Load(); d != nil {
		return d
	}
	branches := branchesOf(Normalise(n.Pattern))
	negated := make([]Pattern, len(branches))
	for i, branch := range branches {
		negated[i] = NewNegation(branch)
	}
	out := NewDisjunction(NewConjunction(negated...))
	out.normalised.Store(out)
	n.normalised.Store(out)
	return out
}

func branchesOf(d *Disjunction) []*Conjunction {
	out := make([]*Conjunction, len(d.Patterns))
	for i, p := range d.Patterns {
		out[i] = p.(*Conjunction)
	}
	return out
}
