package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// createTestStore creates a file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err, "Open() failed")
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestClass persists a class and returns it.
func createTestClass(t *testing.T, s *Store, id, name string) roster.Class {
	t.Helper()
	c := roster.Class{
		ID:        id,
		Name:      name,
		Quarter:   "Fall 2025",
		Tracks:    []string{"FNP", "AGNP"},
		CreatedAt: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateClass(context.Background(), c))
	return c
}

// createTestSession builds a valid two-group session for a class.
func createTestSession(classID, sessionID string, groups ...roster.Group) roster.Session {
	var present []string
	for _, g := range groups {
		present = append(present, g...)
	}
	return roster.Session{
		ID:         sessionID,
		ClassID:    classID,
		RecordedAt: time.Date(2025, 10, 2, 9, 30, 0, 0, time.UTC),
		Preference: roster.NoPreference,
		Present:    present,
		Groups:     groups,
	}
}
