package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ojermo/StudentPairingTool/internal/engine"
	"github.com/ojermo/StudentPairingTool/internal/roster"
	"github.com/ojermo/StudentPairingTool/internal/testutil"
)

// Scenario is one deterministic pairing case.
type Scenario struct {
	// Name uniquely identifies the scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Mode is the track-preference mode ("same", "different", "none").
	// Empty means no preference.
	Mode string `yaml:"mode,omitempty"`

	// Students are the present students in roster order. With the shuffle
	// stubbed, this order is also the greedy assignment order.
	Students []ScenarioStudent `yaml:"students"`

	// History lists prior sessions, each a list of groups, each a list of
	// student ids. Only groups matter for the index.
	History [][][]string `yaml:"history,omitempty"`
}

// ScenarioStudent is a roster entry in scenario form.
type ScenarioStudent struct {
	ID    string `yaml:"id"`
	Track string `yaml:"track,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(s.Students) < 2 {
		return nil, fmt.Errorf("scenario %s: at least 2 students required", path)
	}
	for i, st := range s.Students {
		if st.ID == "" {
			return nil, fmt.Errorf("scenario %s: student %d has no id", path, i)
		}
	}
	if _, err := roster.ParseTrackPreference(s.Mode); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	return &s, nil
}

// Run executes the scenario's pairing with the shuffle stubbed to roster
// order and returns the engine result.
func Run(s *Scenario) (*engine.Result, error) {
	mode, err := roster.ParseTrackPreference(s.Mode)
	if err != nil {
		return nil, err
	}

	students := make([]roster.Student, len(s.Students))
	for i, st := range s.Students {
		students[i] = roster.Student{ID: st.ID, Name: st.ID, Track: roster.Track(st.Track), Active: true}
	}

	sessions := make([]roster.Session, len(s.History))
	for i, groups := range s.History {
		sess := roster.Session{ID: fmt.Sprintf("history-%d", i), ClassID: "scenario"}
		for _, g := range groups {
			sess.Groups = append(sess.Groups, roster.Group(g))
			sess.Present = append(sess.Present, g...)
		}
		sessions[i] = sess
	}

	return engine.Generate(engine.Request{
		Students:     students,
		Preference:   mode,
		TripleCounts: engine.BuildTripleCounts(sessions),
		Rand:         testutil.FixedOrder{},
	}, engine.BuildPairIndex(sessions))
}
