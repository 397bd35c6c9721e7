// Package store provides durable storage for classes, rosters, and the
// append-only pairing session history.
//
// SQLite with WAL mode backs everything. The connection pool is limited to
// a single connection, so concurrent appends serialize in the driver rather
// than in process memory; the session-id uniqueness invariant is enforced
// by a database constraint, not by application locking.
//
// Sessions are an append-only ledger: no update or delete paths exist.
// Reads return insertion (chronological) order via the monotonic seq
// column, never wall-clock timestamps.
//
// The store owns all history records for a class. The pairing engine never
// touches the database; the store hands it value copies and feeds accepted
// results back through AppendSession.
package store
