package engine

import (
	"fmt"

	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// Request carries everything one Generate call needs. The engine never
// reaches outside it; concurrent calls with independent requests need
// no coordination.
type Request struct {
	// Students are the present students, tracks resolved. Order does not
	// matter; the shuffle discards it.
	Students []roster.Student

	// Preference is the track mode. Empty defaults to NoPreference.
	Preference roster.TrackPreference

	// TripleCounts biases triple membership toward students tripled least
	// often before. Nil means no history, all counts zero.
	TripleCounts TripleCounts

	// Seed fixes the shuffle for reproducible output. Nil draws a seed
	// from system entropy.
	Seed *int64

	// Rand overrides the seeded shuffle source entirely (for testing).
	// When set, Seed is ignored and Result.Seed is zero.
	Rand Randomizer
}

// Result is one candidate assignment. Groups cover every requested student
// exactly once, each group having 2 or 3 members.
type Result struct {
	Groups []roster.Group `json:"groups"`

	// Seed is the shuffle seed actually used, so an accepted unseeded run
	// can still be reproduced or audited later.
	Seed int64 `json:"seed"`
}

// Generate produces a pairing assignment for the request.
//
// The present students are shuffled (the sole source of randomness), then
// grouped greedily in shuffle order, minimizing repeat counts from the
// index plus the track-preference penalty. With an even count the result is
// all pairs; with an odd count exactly one triple is formed first, anchored
// at the first student in shuffle order, its two partners chosen by the
// summed pairwise score plus a balance penalty that grows with each prior
// triple membership. Ties always go to the earliest candidate in shuffle
// order.
//
// Scoring is a soft minimization: saturated histories and unsatisfiable
// track preferences degrade gracefully and never cause a failure. The only
// errors are a present count below 2 (ErrInsufficientStudents) and a
// malformed request.
func Generate(req Request, ix PairIndex) (*Result, error) {
	n := len(req.Students)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientStudents, n)
	}

	mode := req.Preference
	if mode == "" {
		mode = roster.NoPreference
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid track preference %q", req.Preference)
	}

	seen := make(map[string]bool, n)
	for _, s := range req.Students {
		if s.ID == "" {
			return nil, fmt.Errorf("request contains a student with no id")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate student id %s in request", s.ID)
		}
		seen[s.ID] = true
	}

	var seed int64
	rng := req.Rand
	if rng == nil {
		if req.Seed != nil {
			seed = *req.Seed
		} else {
			var err error
			if seed, err = entropySeed(); err != nil {
				return nil, err
			}
		}
		rng = newSeededRand(seed)
	}

	order := make([]roster.Student, n)
	copy(order, req.Students)
	rng.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	return &Result{Groups: assign(order, mode, ix, req.TripleCounts), Seed: seed}, nil
}

// assign forms groups greedily over students already in shuffle order.
// Deterministic: no randomness below this point.
func assign(order []roster.Student, mode roster.TrackPreference, ix PairIndex, tc TripleCounts) []roster.Group {
	remaining := order
	groups := make([]roster.Group, 0, (len(order)+1)/2)

	// Odd count: form the single triple first. The anchor is the first
	// student in shuffle order; partners minimize the summed pairwise score
	// plus their triple balance penalties.
	if len(remaining)%2 == 1 {
		anchor := remaining[0]
		bi, bj := 1, 2
		best := tripleScore(ix, tc, anchor, remaining[1], remaining[2], mode)
		for i := 1; i < len(remaining)-1; i++ {
			for j := i + 1; j < len(remaining); j++ {
				if s := tripleScore(ix, tc, anchor, remaining[i], remaining[j], mode); s < best {
					best, bi, bj = s, i, j
				}
			}
		}
		groups = append(groups, roster.Group{anchor.ID, remaining[bi].ID, remaining[bj].ID})
		remaining = removeIndices(remaining, 0, bi, bj)
	}

	for len(remaining) >= 2 {
		anchor := remaining[0]
		best := 1
		bestScore := pairScore(ix, anchor, remaining[1], mode)
		for k := 2; k < len(remaining); k++ {
			if s := pairScore(ix, anchor, remaining[k], mode); s < bestScore {
				bestScore, best = s, k
			}
		}
		groups = append(groups, roster.Group{anchor.ID, remaining[best].ID})
		remaining = removeIndices(remaining, 0, best)
	}

	return groups
}

// removeIndices returns a fresh slice without the students at the given
// positions. Positions must be valid; duplicates are harmless.
func removeIndices(students []roster.Student, drop ...int) []roster.Student {
	dropSet := make(map[int]bool, len(drop))
	for _, d := range drop {
		dropSet[d] = true
	}
	out := make([]roster.Student, 0, len(students)-len(dropSet))
	for i, s := range students {
		if !dropSet[i] {
			out = append(out, s)
		}
	}
	return out
}
