// Package pattern is the in-memory model of query bodies: references,
// variables, constraints, statements and the pattern tree built from them.
//
// ARCHITECTURE:
//
//	Reference ─┐
//	           ├─ UnboundConceptVariable / UnboundValueVariable
//	           │         │ constraint builders (Isa, Has, Sub, Assign, ...)
//	           │         ▼
//	           └─ Statement (Concept | Type | Thing | Value)
//	                     │
//	                     ▼
//	Pattern = Conjunction | Disjunction | Negation | Statement
//
// SEALED INTERFACES:
//
// Pattern, Statement, Value, Expression and Definable are sealed with marker
// methods, so type switches over them are exhaustive within this module.
//
// OWNERSHIP:
//
// Builder methods never mutate their receiver. Each call returns a fresh
// statement whose slices are copied, so two holders of a partially built
// statement can never observe each other's changes.
//
// NORMALISATION:
//
// Normalise rewrites any pattern into a disjunction of conjunctions of
// statements and negated conjunctions. The result is cached on each compound
// node the first time it is requested. The cache is an atomic pointer:
// concurrent first-time normalisation may compute twice but never observes a
// partial value. Equal ignores the cache.
//
// RENDERING:
//
// String on every node produces the canonical query text. Keywords come from
// package token.
package pattern
