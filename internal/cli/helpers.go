package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ojermo/StudentPairingTool/internal/config"
	"github.com/ojermo/StudentPairingTool/internal/roster"
	"github.com/ojermo/StudentPairingTool/internal/store"
)

// openStore opens the database named by --db, falling back to the
// configured path (creating the data directory on first use).
func openStore(opts *RootOptions) (*store.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	path := opts.Database
	if path == "" {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to prepare data dir", err)
		}
		path = cfg.DatabasePath
	}

	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, cfg, nil
}

// closeStore closes the store, logging rather than masking errors.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// resolveClass looks up a class by name, mapping a miss to a command error.
func resolveClass(ctx context.Context, st *store.Store, name string) (*roster.Class, error) {
	if name == "" {
		return nil, NewExitError(ExitCommandError, "a class is required (--class)")
	}
	c, err := st.ClassByName(ctx, name)
	if errors.Is(err, store.ErrClassNotFound) {
		return nil, WrapExitError(ExitCommandError, "unknown class", err)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to look up class", err)
	}
	return c, nil
}

// resolveStudent matches a student reference (id or exact name) against a
// roster. Name matches must be unambiguous.
func resolveStudent(students []roster.Student, ref string) (roster.Student, error) {
	var byName []roster.Student
	for _, s := range students {
		if s.ID == ref {
			return s, nil
		}
		if strings.EqualFold(s.Name, ref) {
			byName = append(byName, s)
		}
	}
	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
		return roster.Student{}, fmt.Errorf("no student matches %q", ref)
	default:
		return roster.Student{}, fmt.Errorf("student name %q is ambiguous; use the id", ref)
	}
}

// activeStudents filters the roster down to enrolled students.
func activeStudents(students []roster.Student) []roster.Student {
	out := make([]roster.Student, 0, len(students))
	for _, s := range students {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}

// normalizeName trims and NFC-normalizes a display name so the same name
// entered from different sources compares equal.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
