package engine

import (
	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// PairKey identifies an unordered pair of students.
// Construct only via NewPairKey so that (a,b) and (b,a) collide.
type PairKey struct {
	A, B string
}

// NewPairKey returns the normalized key for an unordered pair.
// The lexicographically smaller ID is stored first.
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// PairIndex maps an unordered student pair to the number of prior sessions
// in which the two were grouped together. Co-membership in a triple counts
// once per pairwise relation, so one triple contributes three entries.
// Pairs never grouped are simply absent (count 0).
type PairIndex map[PairKey]int

// Count returns the repeat count for the unordered pair (a,b).
// Symmetric: Count(a,b) == Count(b,a). Count(a,a) is not meaningful
// and is never recorded.
func (ix PairIndex) Count(a, b string) int {
	return ix[NewPairKey(a, b)]
}

// BuildPairIndex derives the repeat-count index from a class's session
// history. Pure function: the input sessions are not modified.
func BuildPairIndex(sessions []roster.Session) PairIndex {
	ix := make(PairIndex)
	for _, s := range sessions {
		for _, g := range s.Groups {
			for i := 0; i < len(g); i++ {
				for j := i + 1; j < len(g); j++ {
					ix[NewPairKey(g[i], g[j])]++
				}
			}
		}
	}
	return ix
}

// TripleCounts maps a student id to the number of prior sessions in which
// that student was placed in a group of three. Students never tripled are
// simply absent (count 0).
type TripleCounts map[string]int

// Count returns the triple-membership count for a student.
func (tc TripleCounts) Count(id string) int {
	return tc[id]
}

// BuildTripleCounts derives per-student triple-membership counts from a
// class's session history. Pairs contribute nothing; a triple increments
// each of its three members once.
func BuildTripleCounts(sessions []roster.Session) TripleCounts {
	tc := make(TripleCounts)
	for _, s := range sessions {
		for _, g := range s.Groups {
			if len(g) != 3 {
				continue
			}
			for _, id := range g {
				tc[id]++
			}
		}
	}
	return tc
}
