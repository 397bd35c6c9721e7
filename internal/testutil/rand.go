// Package testutil provides deterministic stand-ins for the engine's
// sources of randomness and identity, so tests and golden files can
// assert exact output.
package testutil

import "sync"

// FixedOrder is a no-op shuffle: students keep their request order.
// Satisfies engine.Randomizer. With FixedOrder injected, Generate becomes
// a pure function of the request, which makes hand-computed expectations
// and golden files possible.
type FixedOrder struct{}

// Shuffle does nothing.
func (FixedOrder) Shuffle(n int, swap func(i, j int)) {}

// Reversed swaps the order end-to-end: the last requested student comes
// first. Useful for asserting that tie-breaks follow shuffle order rather
// than request order.
type Reversed struct{}

// Shuffle reverses the slice.
func (Reversed) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

// SequentialIDs hands out predetermined identifiers in order, mirroring
// the production UUIDv7 generator but fully deterministic.
type SequentialIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewSequentialIDs creates a generator that returns ids in order.
// Panics when exhausted; running out mid-test is a test bug.
func NewSequentialIDs(ids ...string) *SequentialIDs {
	return &SequentialIDs{ids: ids}
}

// Generate returns the next predetermined id.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("testutil: all predetermined ids consumed")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
