package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// Snapshot is the serialized form compared against golden files.
// Field order is fixed by the struct, so output is deterministic.
type Snapshot struct {
	Scenario string         `json:"scenario"`
	Mode     string         `json:"mode"`
	Groups   []roster.Group `json:"groups"`
}

// RunWithGolden executes a scenario and compares the assignment against
// testdata/golden/{scenario.Name}.golden.
func RunWithGolden(t *testing.T, s *Scenario) error {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		return err
	}

	mode, err := roster.ParseTrackPreference(s.Mode)
	if err != nil {
		return err
	}

	snapshot := Snapshot{
		Scenario: s.Name,
		Mode:     string(mode),
		Groups:   result.Groups,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, data)

	return nil
}
