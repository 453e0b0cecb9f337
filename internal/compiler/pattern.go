package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/typeql/internal/pattern"
)

// compilePatterns compiles a list of pattern objects.
func compilePatterns(v cue.Value, path string) ([]pattern.Pattern, error) {
	var out []pattern.Pattern
	err := eachElement(v, path, func(_ int, elem cue.Value, path string) error {
		p, err := compilePattern(elem, path)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// compilePattern compiles {or: [...]}, {not: ...}, {and: [...]} or a
// statement.
func compilePattern(v cue.Value, path string) (pattern.Pattern, error) {
	if v.Kind() != cue.StructKind {
		return nil, errorAt(v, path, "must be a struct")
	}

	switch {
	case lookup(v, "or").Exists():
		if err := checkFields(v, path, "or"); err != nil {
			return nil, err
		}
		var branches []pattern.Pattern
		err := eachElement(lookup(v, "or"), join(path, "or"), func(_ int, elem cue.Value, path string) error {
			branch, err := compileGroup(elem, path)
			if err != nil {
				return err
			}
			branches = append(branches, branch)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return pattern.NewDisjunction(branches...), nil

	case lookup(v, "not").Exists():
		if err := checkFields(v, path, "not"); err != nil {
			return nil, err
		}
		inner, err := compileGroup(lookup(v, "not"), join(path, "not"))
		if err != nil {
			return nil, err
		}
		return pattern.NewNegation(inner), nil

	case lookup(v, "and").Exists():
		if err := checkFields(v, path, "and"); err != nil {
			return nil, err
		}
		patterns, err := compilePatterns(lookup(v, "and"), join(path, "and"))
		if err != nil {
			return nil, err
		}
		return pattern.NewConjunction(patterns...), nil
	}

	return compileStatement(v, path)
}

// compileGroup reads a list as a conjunction and anything else as a single
// pattern.
func compileGroup(v cue.Value, path string) (pattern.Pattern, error) {
	if v.Kind() != cue.ListKind {
		return compilePattern(v, path)
	}
	patterns, err := compilePatterns(v, path)
	if err != nil {
		return nil, err
	}
	return pattern.NewConjunction(patterns...), nil
}
