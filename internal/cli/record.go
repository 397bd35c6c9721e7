package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ojermo/StudentPairingTool/internal/roster"
	"github.com/ojermo/StudentPairingTool/internal/store"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Class   string
	Session string
	Groups  string
	Mode    string
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an externally arranged pairing as a session",
		Long: `Record a pairing that was reviewed or rearranged outside the tool.

Groups are given as comma-separated clusters joined with "+", using
student names or ids. Every group needs 2 or 3 members. Active roster
students not named in any group are recorded as absent.

Example:
  pair record --class "NURS 810" --session week-3 --groups "Alice+Brooke,Carol+Dana+Erin"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "class name (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (required)")
	cmd.Flags().StringVar(&opts.Groups, "groups", "", "groups, e.g. \"a+b,c+d+e\" (required)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "track preference the pairing was made under")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("groups")

	return cmd
}

func runRecord(opts *RecordOptions, cmd *cobra.Command) error {
	mode, err := roster.ParseTrackPreference(opts.Mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --mode", err)
	}

	st, _, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	c, err := resolveClass(ctx, st, opts.Class)
	if err != nil {
		return err
	}

	all, err := st.Students(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load roster", err)
	}

	groups, present, err := parseGroups(all, opts.Groups)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --groups", err)
	}

	var absent []string
	for _, s := range activeStudents(all) {
		if !present[s.ID] {
			absent = append(absent, s.ID)
		}
	}

	presentIDs := make([]string, 0, len(present))
	for _, g := range groups {
		presentIDs = append(presentIDs, g...)
	}

	session := roster.Session{
		ID:         opts.Session,
		ClassID:    c.ID,
		RecordedAt: time.Now(),
		Preference: mode,
		Present:    presentIDs,
		Absent:     absent,
		Groups:     groups,
	}
	if err := st.AppendSession(ctx, session); err != nil {
		if errors.Is(err, store.ErrDuplicateSession) {
			return WrapExitError(ExitFailure, "session id already recorded; choose another --session", err)
		}
		return WrapExitError(ExitFailure, "failed to record session", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	payload := struct {
		Class   string         `json:"class"`
		Session string         `json:"session"`
		Groups  []roster.Group `json:"groups"`
	}{c.Name, session.ID, groups}
	return f.Success(payload, func(w io.Writer) {
		fmt.Fprintf(w, "Recorded session %s with %d groups\n", session.ID, len(groups))
	})
}

// parseGroups parses "a+b,c+d+e" against the roster, resolving each member
// by name or id. Returns the groups and the set of present student ids.
func parseGroups(all []roster.Student, spec string) ([]roster.Group, map[string]bool, error) {
	present := make(map[string]bool)
	var groups []roster.Group

	for _, cluster := range splitList(spec) {
		var g roster.Group
		for _, ref := range strings.Split(cluster, "+") {
			ref = strings.TrimSpace(ref)
			if ref == "" {
				return nil, nil, fmt.Errorf("empty member in group %q", cluster)
			}
			s, err := resolveStudent(all, ref)
			if err != nil {
				return nil, nil, err
			}
			if present[s.ID] {
				return nil, nil, fmt.Errorf("student %q appears in more than one group", s.Name)
			}
			present[s.ID] = true
			g = append(g, s.ID)
		}
		if err := g.Validate(); err != nil {
			return nil, nil, fmt.Errorf("group %q: %w", cluster, err)
		}
		groups = append(groups, g)
	}

	if len(groups) == 0 {
		return nil, nil, fmt.Errorf("no groups given")
	}
	return groups, present, nil
}
