package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ojermo/StudentPairingTool/internal/roster"
)

func newClassImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <roster.yaml>",
		Short: "Create a class from a YAML roster file",
		Long: `Create a class and its full roster from a YAML file.

The file is checked against the roster schema before anything is written.

Example:
  pair class import ./nurs810.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassImport(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runClassImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	rf, err := LoadRosterFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load roster file", err)
	}

	st, _, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	ids := opts.idGen()

	c := roster.Class{
		ID:        ids.Generate(),
		Name:      rf.Class,
		Quarter:   rf.Quarter,
		Tracks:    rf.Tracks,
		CreatedAt: time.Now(),
	}
	if err := st.CreateClass(ctx, c); err != nil {
		return WrapExitError(ExitFailure, "failed to create class", err)
	}

	for _, s := range rf.Students {
		active := true
		if s.Active != nil {
			active = *s.Active
		}
		student := roster.Student{
			ID:     ids.Generate(),
			Name:   s.Name,
			Track:  roster.Track(s.Track),
			Active: active,
		}
		if err := st.AddStudent(ctx, c.ID, student); err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("failed to add student %q", s.Name), err)
		}
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	payload := struct {
		Class    roster.Class `json:"class"`
		Imported int          `json:"imported"`
	}{c, len(rf.Students)}
	return f.Success(payload, func(w io.Writer) {
		fmt.Fprintf(w, "Created class %q with %d students\n", c.Name, len(rf.Students))
	})
}
