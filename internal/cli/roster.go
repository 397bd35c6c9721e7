package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// RosterOptions holds flags for the roster subcommands.
type RosterOptions struct {
	*RootOptions
	Class   string
	Name    string
	Track   string
	Student string
}

// NewRosterCommand creates the roster command group.
func NewRosterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage class rosters",
	}

	cmd.AddCommand(newRosterAddCommand(rootOpts))
	cmd.AddCommand(newRosterListCommand(rootOpts))
	cmd.AddCommand(newRosterDeactivateCommand(rootOpts))
	cmd.AddCommand(newRosterImportCommand(rootOpts))

	return cmd
}

func newRosterAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RosterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a student to a class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRosterAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "class name (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "student display name (required)")
	cmd.Flags().StringVar(&opts.Track, "track", "", "track tag (e.g. FNP)")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runRosterAdd(opts *RosterOptions, cmd *cobra.Command) error {
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

	s := roster.Student{
		ID:     opts.idGen().Generate(),
		Name:   normalizeName(opts.Name),
		Track:  roster.Track(opts.Track),
		Active: true,
	}
	if err := st.AddStudent(ctx, c.ID, s); err != nil {
		return WrapExitError(ExitFailure, "failed to add student", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(s, func(w io.Writer) {
		fmt.Fprintf(w, "Added %s to %q\n", s.Name, c.Name)
	})
}

func newRosterListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RosterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a class roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRosterList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "class name (required)")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

func runRosterList(opts *RosterOptions, cmd *cobra.Command) error {
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

	students, err := st.Students(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list students", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(students, func(w io.Writer) {
		if len(students) == 0 {
			fmt.Fprintln(w, "Roster is empty.")
			return
		}
		for _, s := range students {
			line := s.Name
			if s.Track != "" {
				line += " [" + string(s.Track) + "]"
			}
			if !s.Active {
				line += " (inactive)"
			}
			fmt.Fprintln(w, line)
		}
	})
}

func newRosterDeactivateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RosterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Mark a student as no longer enrolled",
		Long: `Mark a student inactive. Students are never deleted; their pairing
history stays intact and they stop appearing in generated pairings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRosterDeactivate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "class name (required)")
	cmd.Flags().StringVar(&opts.Student, "student", "", "student name or id (required)")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("student")

	return cmd
}

func runRosterDeactivate(opts *RosterOptions, cmd *cobra.Command) error {
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

	students, err := st.Students(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load roster", err)
	}
	target, err := resolveStudent(students, opts.Student)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot resolve student", err)
	}

	if err := st.SetStudentActive(ctx, target.ID, false); err != nil {
		return WrapExitError(ExitFailure, "failed to deactivate student", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(target, func(w io.Writer) {
		fmt.Fprintf(w, "Deactivated %s\n", target.Name)
	})
}
