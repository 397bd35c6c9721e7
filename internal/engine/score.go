package engine

import (
	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// Scoring weights. Repeat counts dominate track preference: one prior
// co-grouping outweighs any track mismatch, matching the behavior of the
// desktop tool this engine replaces. The triple balance base doubles with
// each prior triple, so spreading triples across the roster eventually
// outweighs even a repeat count.
const (
	repeatWeight          = 100
	trackMismatchCost     = 10
	tripleBalanceBaseCost = 20
)

// trackScore returns the track-preference penalty for grouping a with b.
// Zero when the mode is satisfied (or NoPreference), trackMismatchCost
// when the combination is disfavored.
func trackScore(a, b roster.Student, mode roster.TrackPreference) int {
	switch mode {
	case roster.PreferSameTrack:
		if a.Track != b.Track {
			return trackMismatchCost
		}
	case roster.PreferDifferentTrack:
		if a.Track == b.Track {
			return trackMismatchCost
		}
	}
	return 0
}

// pairScore is the cost of pairing a with b. Lower is better.
func pairScore(ix PairIndex, a, b roster.Student, mode roster.TrackPreference) int {
	return ix.Count(a.ID, b.ID)*repeatWeight + trackScore(a, b, mode)
}

// balancePenalty is the cost of placing a student in another group of
// three: zero for a student never tripled, then tripleBalanceBaseCost
// doubling with each prior occurrence.
func balancePenalty(tc TripleCounts, id string) int {
	n := tc.Count(id)
	if n == 0 {
		return 0
	}
	return tripleBalanceBaseCost << (n - 1)
}

// tripleScore is the cost of grouping a, b, and c: the sum over the three
// pairwise relations (repeat counts and track penalties) plus each
// member's triple balance penalty.
func tripleScore(ix PairIndex, tc TripleCounts, a, b, c roster.Student, mode roster.TrackPreference) int {
	return pairScore(ix, a, b, mode) + pairScore(ix, a, c, mode) + pairScore(ix, b, c, mode) +
		balancePenalty(tc, a.ID) + balancePenalty(tc, b.ID) + balancePenalty(tc, c.ID)
}
