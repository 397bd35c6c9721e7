package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// ClassOptions holds flags for the class subcommands.
type ClassOptions struct {
	*RootOptions
	Name    string
	Quarter string
	Tracks  string
}

// NewClassCommand creates the class command group.
func NewClassCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "class",
		Short: "Manage classes",
	}

	cmd.AddCommand(newClassCreateCommand(rootOpts))
	cmd.AddCommand(newClassListCommand(rootOpts))
	cmd.AddCommand(newClassImportCommand(rootOpts))

	return cmd
}

func newClassCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClassOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a class",
		Long: `Create a class to hold a roster and its pairing history.

Example:
  pair class create --name "NURS 810" --quarter "Fall 2025" --tracks FNP,AGNP`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassCreate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "class name (required)")
	cmd.Flags().StringVar(&opts.Quarter, "quarter", "", "academic quarter")
	cmd.Flags().StringVar(&opts.Tracks, "tracks", "", "comma-separated track tags")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runClassCreate(opts *ClassOptions, cmd *cobra.Command) error {
	st, _, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	c := roster.Class{
		ID:        opts.idGen().Generate(),
		Name:      opts.Name,
		Quarter:   opts.Quarter,
		Tracks:    splitList(opts.Tracks),
		CreatedAt: time.Now(),
	}
	if err := st.CreateClass(cmd.Context(), c); err != nil {
		return WrapExitError(ExitFailure, "failed to create class", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(c, func(w io.Writer) {
		fmt.Fprintf(w, "Created class %q (%s)\n", c.Name, c.ID)
	})
}

func newClassListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassList(rootOpts, cmd)
		},
	}
	return cmd
}

func runClassList(opts *RootOptions, cmd *cobra.Command) error {
	st, _, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	classes, err := st.Classes(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list classes", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(classes, func(w io.Writer) {
		if len(classes) == 0 {
			fmt.Fprintln(w, "No classes yet.")
			return
		}
		for _, c := range classes {
			line := c.Name
			if c.Quarter != "" {
				line += " (" + c.Quarter + ")"
			}
			fmt.Fprintln(w, line)
		}
	})
}
