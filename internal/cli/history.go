package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

// HistoryOptions holds flags for the history subcommands.
type HistoryOptions struct {
	*RootOptions
	Class string
}

// NewHistoryCommand creates the history command group.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect a class's pairing history",
	}

	cmd.AddCommand(newHistoryListCommand(rootOpts))
	cmd.AddCommand(newHistoryCountsCommand(rootOpts))

	return cmd
}

func newHistoryListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions in chronological order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "class name (required)")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

func runHistoryList(opts *HistoryOptions, cmd *cobra.Command) error {
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

	sessions, err := st.Sessions(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load history", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(sessions, func(w io.Writer) {
		if len(sessions) == 0 {
			fmt.Fprintln(w, "No sessions recorded yet.")
			return
		}
		for _, s := range sessions {
			fmt.Fprintf(w, "%s  %s  mode=%s  groups=%d  present=%d\n",
				s.ID, s.RecordedAt.Local().Format("2006-01-02 15:04"), s.Preference, len(s.Groups), len(s.Present))
		}
	})
}

func newHistoryCountsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Show how often each pair of students has been grouped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryCounts(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "class name (required)")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

// pairCount is one row of the counts report.
type pairCount struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

func runHistoryCounts(opts *HistoryOptions, cmd *cobra.Command) error {
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

	ix, err := st.BuildIndex(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build pairing history index", err)
	}

	students, err := st.Students(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load roster", err)
	}
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.Name
	}
	display := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	counts := make([]pairCount, 0, len(ix))
	for key, n := range ix {
		a, b := display(key.A), display(key.B)
		if a > b {
			a, b = b, a
		}
		counts = append(counts, pairCount{A: a, B: b, Count: n})
	}
	// Highest repeat counts first; names break ties for stable output.
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		if counts[i].A != counts[j].A {
			return counts[i].A < counts[j].A
		}
		return counts[i].B < counts[j].B
	})

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(counts, func(w io.Writer) {
		if len(counts) == 0 {
			fmt.Fprintln(w, "No pairings recorded yet.")
			return
		}
		for _, pc := range counts {
			fmt.Fprintf(w, "%dx  %s + %s\n", pc.Count, pc.A, pc.B)
		}
	})
}
