// Package compiler turns CUE query documents into query values.
//
// A document holds its queries under the top-level "query" struct, keyed by
// name:
//
//	query: "adults": {
//		match: [{var: "x", isa: "person", has: [{type: "age", op: ">=", value: 18}]}]
//		get: ["x"]
//		limit: 10
//	}
//
// Compilation is structural only. A compiled query may still be invalid;
// callers run Validate on it to collect the TQL errors.
//
// Queries compile independently: a broken query does not stop the others,
// and its CompileError is reported next to its name with the CUE source
// position of the offending field.
package compiler
