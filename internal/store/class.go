package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// ErrClassNotFound is returned when a class lookup matches nothing.
// Match with errors.Is.
var ErrClassNotFound = errors.New("class not found")

// CreateClass persists a new class. The caller supplies the ID (UUID).
func (s *Store) CreateClass(ctx context.Context, c roster.Class) error {
	if c.ID == "" || c.Name == "" {
		return fmt.Errorf("create class: id and name are required")
	}

	tracksJSON, err := marshalIDs(c.Tracks)
	if err != nil {
		return fmt.Errorf("create class: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO classes (id, name, quarter, tracks, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Quarter, tracksJSON, marshalTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("create class %q: %w", c.Name, err)
	}

	return nil
}

// Classes returns all classes ordered by name.
func (s *Store) Classes(ctx context.Context) ([]roster.Class, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, quarter, tracks, created_at
		FROM classes
		ORDER BY name COLLATE NOCASE ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	classes := []roster.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classes: %w", err)
	}

	return classes, nil
}

// ClassByName resolves a class by its unique name.
// Returns ErrClassNotFound when no class has that name.
func (s *Store) ClassByName(ctx context.Context, name string) (*roster.Class, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, quarter, tracks, created_at
		FROM classes
		WHERE name = ?
	`, name)

	c, err := scanClass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrClassNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AddStudent adds one student to a class roster.
func (s *Store) AddStudent(ctx context.Context, classID string, st roster.Student) error {
	if st.ID == "" || st.Name == "" {
		return fmt.Errorf("add student: id and name are required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (id, class_id, name, track, active)
		VALUES (?, ?, ?, ?, ?)
	`, st.ID, classID, st.Name, string(st.Track), boolToInt(st.Active))
	if err != nil {
		return fmt.Errorf("add student %q: %w", st.Name, err)
	}

	return nil
}

// Students returns a class roster ordered by display name.
// Includes inactive students; callers filter on Active as needed.
func (s *Store) Students(ctx context.Context, classID string) ([]roster.Student, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, track, active
		FROM students
		WHERE class_id = ?
		ORDER BY name COLLATE NOCASE ASC, id ASC
	`, classID)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	students := []roster.Student{}
	for rows.Next() {
		var st roster.Student
		var track string
		var active int
		if err := rows.Scan(&st.ID, &st.Name, &track, &active); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		st.Track = roster.Track(track)
		st.Active = active != 0
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	return students, nil
}

// SetStudentActive flips a student's enrollment flag. Students are never
// deleted; deactivation is how a roster shrinks.
func (s *Store) SetStudentActive(ctx context.Context, studentID string, active bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE students SET active = ? WHERE id = ?
	`, boolToInt(active), studentID)
	if err != nil {
		return fmt.Errorf("set student active: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set student active: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set student active: no student with id %s", studentID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClass(row rowScanner) (roster.Class, error) {
	var c roster.Class
	var tracksJSON, createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Quarter, &tracksJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan class: %w", err)
	}

	tracks, err := unmarshalIDs(tracksJSON)
	if err != nil {
		return c, fmt.Errorf("scan class: %w", err)
	}
	c.Tracks = tracks

	if c.CreatedAt, err = unmarshalTime(createdAt); err != nil {
		return c, fmt.Errorf("scan class: %w", err)
	}

	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
