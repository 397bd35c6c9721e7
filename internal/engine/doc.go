// Package engine implements the pairing generator and the pair-history index.
//
// The engine is the only part of the tool with algorithmic content: it takes
// the present students, a track-preference mode, and the class's pair-history
// index, and produces a fresh assignment of pairs (plus one triple when the
// count is odd).
//
// ARCHITECTURE:
//
// Stateless Pure Computation:
// Generate holds no state between calls. Each call receives its own request
// and index and returns a fresh result; rejected candidates leave no trace.
// Regeneration is just another call with another seed.
//
// Single Source of Randomness:
// The initial shuffle is the only nondeterministic step. Everything after it
// is a deterministic function of the shuffled order, so a fixed seed yields
// an identical result on every call. The shuffle source is injectable for
// tests (see Request.Rand).
//
// Soft Scoring, Never Failing:
// Repeat counts and track penalties are minimized, not enforced. A roster
// where every pair has already met, or where the preference mode cannot be
// satisfied, still produces a complete assignment. The only error for a
// well-formed roster is a present count below 2.
package engine
