package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ojermo/StudentPairingTool/internal/engine"
	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// ErrDuplicateSession is returned by AppendSession when a session with the
// same id already exists for the class. Non-fatal: the caller should prompt
// for a distinct session identifier. Match with errors.Is.
var ErrDuplicateSession = errors.New("session already recorded for class")

// AppendSession commits an accepted pairing assignment to the history
// ledger. The session is validated first, so malformed groups never reach
// disk. A repeated (class, session id) fails with ErrDuplicateSession; the
// existing record is left untouched.
func (s *Store) AppendSession(ctx context.Context, session roster.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("append session: %w", err)
	}

	presentJSON, err := marshalIDs(session.Present)
	if err != nil {
		return fmt.Errorf("append session: %w", err)
	}
	absentJSON, err := marshalIDs(session.Absent)
	if err != nil {
		return fmt.Errorf("append session: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append session: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// ON CONFLICT DO NOTHING + RowsAffected distinguishes a duplicate from
	// a successful insert without racing a separate existence check.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, class_id, recorded_at, preference, present, absent)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(class_id, id) DO NOTHING
	`,
		session.ID,
		session.ClassID,
		marshalTime(session.RecordedAt),
		string(session.Preference),
		presentJSON,
		absentJSON,
	)
	if err != nil {
		return fmt.Errorf("append session: insert: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append session: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: class %s, session %s", ErrDuplicateSession, session.ClassID, session.ID)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append session: last insert id: %w", err)
	}

	for pos, g := range session.Groups {
		membersJSON, err := marshalIDs([]string(g))
		if err != nil {
			return fmt.Errorf("append session: group %d: %w", pos, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO session_groups (session_seq, position, members)
			VALUES (?, ?, ?)
		`, seq, pos, membersJSON); err != nil {
			return fmt.Errorf("append session: group %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append session: commit: %w", err)
	}

	return nil
}

// Sessions returns a class's full history in insertion (chronological)
// order. Returns an empty slice, not nil, when the class has no history.
func (s *Store) Sessions(ctx context.Context, classID string) ([]roster.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, class_id, recorded_at, preference, present, absent
		FROM sessions
		WHERE class_id = ?
		ORDER BY seq ASC
	`, classID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []roster.Session{}
	seqs := []int64{}
	for rows.Next() {
		var seq int64
		var sess roster.Session
		var recordedAt, preference, presentJSON, absentJSON string
		if err := rows.Scan(&seq, &sess.ID, &sess.ClassID, &recordedAt, &preference, &presentJSON, &absentJSON); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if sess.RecordedAt, err = unmarshalTime(recordedAt); err != nil {
			return nil, fmt.Errorf("scan session %s: %w", sess.ID, err)
		}
		sess.Preference = roster.TrackPreference(preference)
		if sess.Present, err = unmarshalIDs(presentJSON); err != nil {
			return nil, fmt.Errorf("scan session %s: %w", sess.ID, err)
		}
		if sess.Absent, err = unmarshalIDs(absentJSON); err != nil {
			return nil, fmt.Errorf("scan session %s: %w", sess.ID, err)
		}
		sessions = append(sessions, sess)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	if len(sessions) == 0 {
		return sessions, nil
	}

	groupsBySeq, err := s.readGroups(ctx, classID)
	if err != nil {
		return nil, err
	}
	for i, seq := range seqs {
		sessions[i].Groups = groupsBySeq[seq]
	}

	return sessions, nil
}

// readGroups loads all groups for a class keyed by session seq, ordered by
// position within each session.
func (s *Store) readGroups(ctx context.Context, classID string) (map[int64][]roster.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sg.session_seq, sg.members
		FROM session_groups sg
		JOIN sessions se ON sg.session_seq = se.seq
		WHERE se.class_id = ?
		ORDER BY sg.session_seq ASC, sg.position ASC
	`, classID)
	if err != nil {
		return nil, fmt.Errorf("query session groups: %w", err)
	}
	defer rows.Close()

	groups := make(map[int64][]roster.Group)
	for rows.Next() {
		var seq int64
		var membersJSON string
		if err := rows.Scan(&seq, &membersJSON); err != nil {
			return nil, fmt.Errorf("scan session group: %w", err)
		}
		members, err := unmarshalIDs(membersJSON)
		if err != nil {
			return nil, fmt.Errorf("scan session group: %w", err)
		}
		groups[seq] = append(groups[seq], roster.Group(members))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session groups: %w", err)
	}

	return groups, nil
}

// BuildIndex derives the pair-history index for a class: the composition
// of engine.BuildPairIndex over Sessions.
func (s *Store) BuildIndex(ctx context.Context, classID string) (engine.PairIndex, error) {
	sessions, err := s.Sessions(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	return engine.BuildPairIndex(sessions), nil
}

// TripleCounts derives per-student triple-membership counts for a class,
// the composition of engine.BuildTripleCounts over Sessions.
func (s *Store) TripleCounts(ctx context.Context, classID string) (engine.TripleCounts, error) {
	sessions, err := s.Sessions(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("triple counts: %w", err)
	}
	return engine.BuildTripleCounts(sessions), nil
}
