// Package roster defines the domain model shared by the pairing engine,
// the history store, and the CLI shell.
//
// The types here are pure data: no I/O, no persistence concerns. The engine
// operates only on values passed to it, so everything in this package is
// safe to copy and compare.
//
// INVARIANTS:
//
// Group shape:
// Every group in a recorded session has exactly 2 or 3 members and no
// duplicate members. The desktop tool this replaces allowed singletons in a
// degenerate corner; here a request with fewer than 2 present students is
// rejected before a session can exist.
//
// Coverage:
// Within one session, every present student appears in exactly one group.
// Session.Validate enforces this before a record reaches the store.
package roster
