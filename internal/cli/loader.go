package cli

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed roster_schema.cue
var rosterSchemaCUE string

// RosterFile is a class roster definition as imported from YAML.
type RosterFile struct {
	Class    string              `yaml:"class" validate:"required"`
	Quarter  string              `yaml:"quarter,omitempty"`
	Tracks   []string            `yaml:"tracks,omitempty"`
	Students []RosterFileStudent `yaml:"students" validate:"min=1,dive"`
}

// RosterFileStudent is one roster entry in file form.
type RosterFileStudent struct {
	Name   string `yaml:"name" validate:"required,max=120"`
	Track  string `yaml:"track,omitempty" validate:"omitempty,max=40"`
	Active *bool  `yaml:"active,omitempty"`
}

// LoadRosterFile reads, schema-checks, and decodes a YAML roster file.
//
// Validation happens twice on purpose: the CUE schema rejects structural
// problems with positioned error messages, then the struct validator
// enforces field-level limits after decoding. Display names are trimmed
// and NFC-normalized so the same name pasted from different sources
// compares equal.
func LoadRosterFile(path string) (*RosterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	if err := validateRosterSchema(path, data); err != nil {
		return nil, err
	}

	var rf RosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("decode roster file %s: %w", path, err)
	}

	for i := range rf.Students {
		rf.Students[i].Name = normalizeName(rf.Students[i].Name)
		rf.Students[i].Track = strings.TrimSpace(rf.Students[i].Track)
	}
	rf.Class = normalizeName(rf.Class)

	if err := validator.New().Struct(&rf); err != nil {
		return nil, fmt.Errorf("invalid roster file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(rf.Students))
	for _, s := range rf.Students {
		key := strings.ToLower(s.Name)
		if seen[key] {
			return nil, fmt.Errorf("invalid roster file %s: duplicate student name %q", path, s.Name)
		}
		seen[key] = true
	}

	return &rf, nil
}

// validateRosterSchema checks the raw YAML against the embedded CUE schema.
func validateRosterSchema(path string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(rosterSchemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile roster schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Roster"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("roster schema missing #Roster: %w", err)
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return fmt.Errorf("parse roster file %s: %w", path, err)
	}
	val := ctx.BuildFile(file)
	if err := val.Err(); err != nil {
		return fmt.Errorf("parse roster file %s: %w", path, err)
	}

	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("roster file %s does not match schema: %w", path, err)
	}

	return nil
}
