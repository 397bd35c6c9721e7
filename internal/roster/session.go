package roster

import (
	"fmt"
	"time"
)

// Group is an ordered list of 2 or 3 student IDs assigned to work together.
type Group []string

// Validate checks the group shape invariant: size 2 or 3, no duplicates.
func (g Group) Validate() error {
	if len(g) < 2 || len(g) > 3 {
		return fmt.Errorf("group has %d members, want 2 or 3", len(g))
	}
	seen := make(map[string]bool, len(g))
	for _, id := range g {
		if id == "" {
			return fmt.Errorf("group contains empty student id")
		}
		if seen[id] {
			return fmt.Errorf("student %s appears twice in group", id)
		}
		seen[id] = true
	}
	return nil
}

// Contains reports whether the group includes the given student ID.
func (g Group) Contains(id string) bool {
	for _, m := range g {
		if m == id {
			return true
		}
	}
	return false
}

// Session is one recorded pairing of a class: the history record the
// store appends and the engine's index builder consumes.
type Session struct {
	// ID uniquely identifies the session within its class.
	ID string `json:"id"`

	// ClassID names the owning class.
	ClassID string `json:"class_id"`

	// RecordedAt is the wall-clock time the session was committed.
	// Ordering of history reads uses insertion order, never this field.
	RecordedAt time.Time `json:"recorded_at"`

	// Preference is the track mode the pairing was generated under.
	Preference TrackPreference `json:"preference"`

	// Present lists the student IDs the pairing covers.
	Present []string `json:"present"`

	// Absent lists roster students excluded from this session.
	Absent []string `json:"absent,omitempty"`

	// Groups is the accepted assignment, in generation order.
	Groups []Group `json:"groups"`
}

// Validate enforces the session invariants: every group well-shaped, and
// every present student in exactly one group (the coverage invariant).
func (s Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	if s.ClassID == "" {
		return fmt.Errorf("session %s: class id is empty", s.ID)
	}

	assigned := make(map[string]bool)
	for i, g := range s.Groups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("session %s: group %d: %w", s.ID, i, err)
		}
		for _, id := range g {
			if assigned[id] {
				return fmt.Errorf("session %s: student %s appears in more than one group", s.ID, id)
			}
			assigned[id] = true
		}
	}

	present := make(map[string]bool, len(s.Present))
	for _, id := range s.Present {
		present[id] = true
	}
	if len(present) != len(s.Present) {
		return fmt.Errorf("session %s: present list contains duplicates", s.ID)
	}
	if len(assigned) != len(present) {
		return fmt.Errorf("session %s: %d students assigned, %d present", s.ID, len(assigned), len(present))
	}
	for id := range assigned {
		if !present[id] {
			return fmt.Errorf("session %s: student %s grouped but not present", s.ID, id)
		}
	}
	return nil
}

// StudentIDs returns the IDs of the given students, preserving order.
func StudentIDs(students []Student) []string {
	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	return ids
}
