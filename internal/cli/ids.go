package cli

import "github.com/google/uuid"

// IDGenerator mints identifiers for new records.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator mints random UUIDv4 identifiers for classes and students.
type UUIDGenerator struct{}

// Generate returns a new random UUID string.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// UUIDv7Generator mints time-sortable UUIDv7 identifiers for sessions, so
// unlabeled sessions sort by creation time in listings and exports.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (o *RootOptions) idGen() IDGenerator {
	if o.IDs != nil {
		return o.IDs
	}
	return UUIDGenerator{}
}

func (o *RootOptions) sessionIDGen() IDGenerator {
	if o.SessionIDs != nil {
		return o.SessionIDs
	}
	return UUIDv7Generator{}
}
