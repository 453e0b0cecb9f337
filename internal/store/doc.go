// Package store keeps a SQLite catalog of check runs.
//
// Every time a query is checked with recording enabled, one row is appended
// to the checks table: the document and query name, the query kind, its
// canonical text and fingerprint, and the error codes validation reported.
//
// # Ordering
//
// Rows are ordered by seq, a logical clock assigned on write. Reads use
// ORDER BY seq ASC, id COLLATE BINARY ASC so that listings are identical
// across runs regardless of wall time.
//
// # Database Configuration
//
// The catalog runs in WAL mode with synchronous=NORMAL and a five second
// busy timeout, so history can read while a check records. The schema
// version lives in PRAGMA user_version and Open refuses catalogs written by
// a newer release.
//
// Fingerprints are computed by package canon before a check reaches the
// store; the store never re-renders queries.
package store
