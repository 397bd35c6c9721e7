package roster

import (
	"fmt"
	"time"
)

// Track is a categorical student attribute (program specialization,
// e.g. "FNP" or "AGNP") used for pairing preference scoring.
// The empty string means untracked.
type Track string

// TrackPreference selects how tracks influence pairing scores.
type TrackPreference string

const (
	// PreferSameTrack penalizes cross-track groupings.
	PreferSameTrack TrackPreference = "same"

	// PreferDifferentTrack penalizes same-track groupings.
	PreferDifferentTrack TrackPreference = "different"

	// NoPreference ignores tracks entirely.
	NoPreference TrackPreference = "none"
)

// ParseTrackPreference converts a user-supplied mode string to a
// TrackPreference. The empty string defaults to NoPreference.
func ParseTrackPreference(s string) (TrackPreference, error) {
	switch TrackPreference(s) {
	case PreferSameTrack, PreferDifferentTrack, NoPreference:
		return TrackPreference(s), nil
	case "":
		return NoPreference, nil
	default:
		return "", fmt.Errorf("invalid track preference %q: must be one of same, different, none", s)
	}
}

// Valid reports whether p is one of the three defined modes.
func (p TrackPreference) Valid() bool {
	switch p {
	case PreferSameTrack, PreferDifferentTrack, NoPreference:
		return true
	}
	return false
}

// Student is one roster entry within a class.
//
// Students are created at roster build time and never auto-deleted.
// Absence is a per-session attribute (the present list on a request),
// not a roster mutation; Active marks longer-term enrollment status.
type Student struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Track  Track  `json:"track,omitempty"`
	Active bool   `json:"active"`
}

// Class groups a roster and its session history under one identifier.
type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quarter   string    `json:"quarter,omitempty"`
	Tracks    []string  `json:"tracks,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
