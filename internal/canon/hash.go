package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/typeql/internal/pattern"
	"github.com/roach88/typeql/internal/query"
)

// Domain prefixes for fingerprints. The version suffix allows the
// description format to change without colliding with old fingerprints.
const (
	DomainQuery = "typeql/query/v1"
	DomainBody  = "typeql/body/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Describe returns the canonical description of q: its kind, its text and,
// for queries with a match body, the rendered branches of the normalised
// body.
func Describe(q query.Query) Object {
	obj := Object{
		"kind": String(q.Kind().String()),
		"text": String(q.String()),
	}
	if m := MatchOf(q); m != nil && m.Conjunction != nil {
		obj["branches"] = branches(m.Normalised())
	}
	return obj
}

// MatchOf returns the match clause of q, or nil when q has none.
func MatchOf(q query.Query) *query.Match {
	switch q := q.(type) {
	case *query.Match:
		return q
	case *query.Insert:
		return q.Match
	case *query.Delete:
		return q.Match
	case *query.Update:
		return q.Delete.Match
	}
	return nil
}

func branches(d *pattern.Disjunction) Array {
	out := make(Array, len(d.Patterns))
	for i, p := range d.Patterns {
		out[i] = String(p.String())
	}
	return out
}

// Fingerprint is the content address of q.
func Fingerprint(q query.Query) (string, error) {
	data, err := Marshal(Describe(q))
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuery, data), nil
}

// BodyFingerprint is the content address of the normalised form of p. Two
// bodies that normalise to the same branches share it, however they were
// nested.
func BodyFingerprint(p pattern.Pattern) (string, error) {
	data, err := Marshal(branches(pattern.Normalise(p)))
	if err != nil {
		return "", fmt.Errorf("BodyFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainBody, data), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when q is known to be valid.
func MustFingerprint(q query.Query) string {
	fp, err := Fingerprint(q)
	if err != nil {
		panic(err)
	}
	return fp
}
