package engine

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Randomizer supplies the shuffle that seeds the greedy assignment.
// It matches the Shuffle method of math/rand.Rand.
type Randomizer interface {
	Shuffle(n int, swap func(i, j int))
}

// newSeededRand returns a Randomizer driven by the given seed.
func newSeededRand(seed int64) Randomizer {
	return rand.New(rand.NewSource(seed))
}

// entropySeed draws a seed from system entropy for unseeded requests.
func entropySeed() (int64, error) {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("draw random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}
