package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ojermo/StudentPairingTool/internal/engine"
	"github.com/ojermo/StudentPairingTool/internal/roster"
	"github.com/ojermo/StudentPairingTool/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Class   string
	Absent  string
	Mode    string
	Seed    int64
	SeedSet bool
	Commit  bool
	Session string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a pairing for a class session",
		Long: `Generate a candidate pairing from the class's active roster.

Past sessions weigh against repeated pairings; the track mode adds a
preference for same- or cross-track groups. Run again (or with a new
--seed) to get a different candidate. Nothing is recorded unless
--commit is given.

Examples:
  pair generate --class "NURS 810"
  pair generate --class "NURS 810" --absent "Brooke,Dana" --mode different
  pair generate --class "NURS 810" --seed 42 --commit --session week-3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SeedSet = cmd.Flags().Changed("seed")
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "class name (required)")
	cmd.Flags().StringVar(&opts.Absent, "absent", "", "comma-separated absent students (name or id)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "track preference: same, different, or none (default: from config)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "shuffle seed for reproducible output")
	cmd.Flags().BoolVar(&opts.Commit, "commit", false, "record the pairing as a session")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id when committing (default: generated)")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	st, cfg, err := openStore(opts.RootOptions)
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

	mode := cfg.DefaultPreference
	if opts.Mode != "" {
		if mode, err = roster.ParseTrackPreference(opts.Mode); err != nil {
			return WrapExitError(ExitCommandError, "invalid --mode", err)
		}
	}

	present, absent, err := splitPresent(all, splitList(opts.Absent))
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot resolve absent students", err)
	}

	ix, err := st.BuildIndex(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build pairing history index", err)
	}
	tc, err := st.TripleCounts(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build triple counts", err)
	}

	req := engine.Request{Students: present, Preference: mode, TripleCounts: tc}
	if opts.SeedSet {
		seed := opts.Seed
		req.Seed = &seed
	}

	slog.Debug("generating pairing", "class", c.Name, "present", len(present), "mode", mode)
	result, err := engine.Generate(req, ix)
	if errors.Is(err, engine.ErrInsufficientStudents) {
		return WrapExitError(ExitFailure, "not enough present students to pair", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to generate pairing", err)
	}

	var sessionID string
	if opts.Commit {
		sessionID = opts.Session
		if sessionID == "" {
			sessionID = opts.sessionIDGen().Generate()
		}
		session := roster.Session{
			ID:         sessionID,
			ClassID:    c.ID,
			RecordedAt: time.Now(),
			Preference: mode,
			Present:    roster.StudentIDs(present),
			Absent:     roster.StudentIDs(absent),
			Groups:     result.Groups,
		}
		if err := st.AppendSession(ctx, session); err != nil {
			if errors.Is(err, store.ErrDuplicateSession) {
				return WrapExitError(ExitFailure, "session id already recorded; choose another --session", err)
			}
			return WrapExitError(ExitFailure, "failed to record session", err)
		}
	}

	names := nameLookup(all)
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	payload := struct {
		Class   string         `json:"class"`
		Mode    string         `json:"mode"`
		Seed    int64          `json:"seed"`
		Session string         `json:"session,omitempty"`
		Groups  []roster.Group `json:"groups"`
	}{c.Name, string(mode), result.Seed, sessionID, result.Groups}

	return f.Success(payload, func(w io.Writer) {
		printGroups(w, result.Groups, names)
		fmt.Fprintf(w, "\nmode=%s seed=%d\n", mode, result.Seed)
		if sessionID != "" {
			fmt.Fprintf(w, "Recorded as session %s\n", sessionID)
		}
	})
}

// splitPresent partitions the active roster into present and absent by the
// given absence references.
func splitPresent(all []roster.Student, absentRefs []string) (present, absent []roster.Student, err error) {
	active := activeStudents(all)

	absentIDs := make(map[string]bool, len(absentRefs))
	for _, ref := range absentRefs {
		s, err := resolveStudent(active, ref)
		if err != nil {
			return nil, nil, err
		}
		absentIDs[s.ID] = true
	}

	for _, s := range active {
		if absentIDs[s.ID] {
			absent = append(absent, s)
		} else {
			present = append(present, s)
		}
	}
	return present, absent, nil
}

// nameLookup maps student ids to display names for rendering.
func nameLookup(students []roster.Student) map[string]string {
	names := make(map[string]string, len(students))
	for _, s := range students {
		label := s.Name
		if s.Track != "" {
			label += " [" + string(s.Track) + "]"
		}
		names[s.ID] = label
	}
	return names
}

// printGroups renders groups one per line, numbered from 1.
func printGroups(w io.Writer, groups []roster.Group, names map[string]string) {
	for i, g := range groups {
		fmt.Fprintf(w, "%d. ", i+1)
		for j, id := range g {
			if j > 0 {
				fmt.Fprint(w, " + ")
			}
			if name, ok := names[id]; ok {
				fmt.Fprint(w, name)
			} else {
				fmt.Fprint(w, id)
			}
		}
		fmt.Fprintln(w)
	}
}
