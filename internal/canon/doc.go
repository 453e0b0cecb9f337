// Package canon gives queries a stable, content-addressed identity.
//
// A query is described as a small JSON object (its kind, its canonical text
// and, when it has a match body, the rendered branches of the normalised
// body). The description is serialized as RFC 8785 canonical JSON and hashed
// with a domain prefix, so the same query always has the same fingerprint
// regardless of how it was built.
//
// Key constraints:
//   - No floats and no nulls in canonical JSON
//   - Object keys ordered by UTF-16 code units
//   - Strings NFC normalized, no HTML escaping
package canon
