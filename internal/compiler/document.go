package compiler

import (
	"fmt"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/typeql/internal/query"
)

// Compiled is one entry of a document. Exactly one of Query and Err is set.
type Compiled struct {
	Name  string
	Query query.Query
	Err   error
}

// Load reads a CUE document from a single file or from the package in a
// directory.
func Load(path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	if info.IsDir() {
		instances := load.Instances([]string{"."}, &load.Config{Dir: path})
		if len(instances) == 0 {
			return cue.Value{}, fmt.Errorf("no CUE instances in %s", path)
		}
		if err := instances[0].Err; err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		v := ctx.BuildInstance(instances[0])
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return v, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, err
	}
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}

// CompileDocument compiles every query of a document in declaration order.
// The returned error covers the document as a whole; per-query failures are
// reported on their Compiled entry.
func CompileDocument(v cue.Value) ([]Compiled, error) {
	queries := lookup(v, "query")
	if !queries.Exists() {
		return nil, errorAt(v, "query", "document has no queries")
	}

	iter, err := queries.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []Compiled
	for iter.Next() {
		name := iter.Label()
		q, err := CompileQuery(iter.Value())
		out = append(out, Compiled{Name: name, Query: q, Err: err})
	}
	if len(out) == 0 {
		return nil, errorAt(queries, "query", "document has no queries")
	}
	return out, nil
}

// lookup returns the field key of v. Keys such as "isa!" are not valid CUE
// identifiers, so paths are built from string selectors.
func lookup(v cue.Value, key string) cue.Value {
	return v.LookupPath(cue.MakePath(cue.Str(key)))
}

// checkFields rejects keys of v outside allowed.
func checkFields(v cue.Value, path string, allowed ...string) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Label()
		if !slices.Contains(allowed, label) {
			return errorAt(iter.Value(), join(path, label), "unknown field")
		}
	}
	return nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func stringField(v cue.Value, path string) (string, error) {
	s, err := v.String()
	if err != nil {
		return "", errorAt(v, path, "must be a string")
	}
	return s, nil
}

// eachElement calls fn for every element of the list v.
func eachElement(v cue.Value, path string, fn func(i int, elem cue.Value, path string) error) error {
	if v.Kind() != cue.ListKind {
		return errorAt(v, path, "must be a list")
	}
	iter, err := v.List()
	if err != nil {
		return formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		if err := fn(i, iter.Value(), index(path, i)); err != nil {
			return err
		}
	}
	return nil
}
