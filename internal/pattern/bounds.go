package pattern

import "github.com/roach88/typeql/internal/typeqlerr"

// topLevelStatements returns the statements of c and of conjunctions nested
// directly in it. Statements under a disjunction or negation are excluded.
func (c *Conjunction) topLevelStatements() []Statement {
	var out []Statement
	for _, p := range c.Patterns {
		switch p := p.(type) {
		case Statement:
			out = append(out, p)
		case *Conjunction:
			out = append(out, p.topLevelStatements()...)
		}
	}
	return out
}

// nested returns the disjunctions and negations reachable from c through
// conjunctions only.
func (c *Conjunction) nested() []Pattern {
	var out []Pattern
	for _, p := range c.Patterns {
		switch p := p.(type) {
		case *Conjunction:
			out = append(out, p.nested()...)
		case *Disjunction, *Negation:
			out = append(out, p)
		}
	}
	return out
}

func (c *Conjunction) names() nameSet {
	s := make(nameSet)
	for _, stmt := range c.topLevelStatements() {
		for _, r := range stmt.Variables() {
			s.add(r)
		}
	}
	return s
}

// NamedReferences returns the named references the conjunction binds outside
// of nested disjunctions and negations, without duplicates, in first-seen
// order.
func (c *Conjunction) NamedReferences() []Reference {
	seen := make(nameSet)
	var out []Reference
	for _, stmt := range c.topLevelStatements() {
		for _, r := range stmt.Variables() {
			if r.IsName() && !seen.contains(r) {
				seen.add(r)
				out = append(out, r)
			}
		}
	}
	return out
}

// ValidateBounded checks c as the body of a match: it must bind at least one
// named variable, each of its statements must carry one, and every nested
// pattern must share a named variable with the scope around it.
func (c *Conjunction) ValidateBounded() error {
	names := c.names()
	if len(names) == 0 {
		return typeqlerr.MatchHasNoBoundingNamedVariable.New()
	}
	var err error
	for _, stmt := range c.topLevelStatements() {
		if len(statementNames(stmt)) == 0 {
			typeqlerr.Append(&err, typeqlerr.MatchStatementHasNoNamedVariable.New(stmt))
		}
	}
	for _, p := range c.nested() {
		typeqlerr.Append(&err, validateNestedBounded(p, names))
	}
	return err
}

func validateNestedBounded(p Pattern, bounds nameSet) error {
	switch p := p.(type) {
	case *Disjunction:
		var err error
		for _, branch := range p.Patterns {
			typeqlerr.Append(&err, validateNestedBounded(branch, bounds))
		}
		return err
	case *Negation:
		return validateNestedBounded(p.Pattern, bounds)
	case *Conjunction:
		own := p.names()
		if !own.intersects(bounds) {
			return typeqlerr.MatchHasUnboundedNestedPattern.New(p)
		}
		scope := bounds.union(own)
		var err error
		for _, inner := range p.nested() {
			typeqlerr.Append(&err, validateNestedBounded(inner, scope))
		}
		return err
	case Statement:
		if !statementNames(p).intersects(bounds) {
			return typeqlerr.MatchHasUnboundedNestedPattern.New(p)
		}
	}
	return nil
}

// ValidateNegations rejects a negation nested, at any depth, inside another
// negation.
func (c *Conjunction) ValidateNegations() error {
	return findNestedNegations(c, false, func(n *Negation) error {
		return typeqlerr.RedundantNestedNegation.New(n)
	})
}

// findNestedNegations walks p and reports every negation that sits inside
// another negation.
func findNestedNegations(p Pattern, inNegation bool, report func(*Negation) error) error {
	var err error
	switch p := p.(type) {
	case *Conjunction:
		for _, child := range p.Patterns {
			typeqlerr.Append(&err, findNestedNegations(child, inNegation, report))
		}
	case *Disjunction:
		for _, child := range p.Patterns {
			typeqlerr.Append(&err, findNestedNegations(child, inNegation, report))
		}
	case *Negation:
		if inNegation {
			return report(p)
		}
		return findNestedNegations(p.Pattern, true, report)
	}
	return err
}
