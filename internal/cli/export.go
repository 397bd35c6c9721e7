package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Class string
	Out   string
}

// NewExportCommand creates the export command, which writes a class's
// session history and pair counts to an xlsx workbook.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a class's history to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "class name (required)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "destination .xlsx path (required)")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	if !strings.HasSuffix(opts.Out, ".xlsx") {
		return NewExitError(ExitCommandError, "output path must end in .xlsx")
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

	sessions, err := st.Sessions(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load history", err)
	}
	students, err := st.Students(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load roster", err)
	}
	ix, err := st.BuildIndex(ctx, c.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build pairing history index", err)
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

	f := excelize.NewFile()
	defer f.Close()

	const sessionsSheet = "Sessions"
	index, err := f.NewSheet(sessionsSheet)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create worksheet", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Session", "Recorded", "Mode", "Group", "Members"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sessionsSheet, cell, header)
	}

	row := 2
	for _, s := range sessions {
		recorded := s.RecordedAt.Local().Format("2006-01-02 15:04")
		for gi, g := range s.Groups {
			members := make([]string, len(g))
			for mi, id := range g {
				members[mi] = display(id)
			}
			f.SetCellValue(sessionsSheet, fmt.Sprintf("A%d", row), s.ID)
			f.SetCellValue(sessionsSheet, fmt.Sprintf("B%d", row), recorded)
			f.SetCellValue(sessionsSheet, fmt.Sprintf("C%d", row), string(s.Preference))
			f.SetCellValue(sessionsSheet, fmt.Sprintf("D%d", row), gi+1)
			f.SetCellValue(sessionsSheet, fmt.Sprintf("E%d", row), strings.Join(members, " + "))
			row++
		}
	}

	const countsSheet = "Pair Counts"
	if _, err := f.NewSheet(countsSheet); err != nil {
		return WrapExitError(ExitCommandError, "failed to create worksheet", err)
	}
	for i, header := range []string{"Student A", "Student B", "Times Paired"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(countsSheet, cell, header)
	}

	counts := make([]pairCount, 0, len(ix))
	for key, n := range ix {
		a, b := display(key.A), display(key.B)
		if a > b {
			a, b = b, a
		}
		counts = append(counts, pairCount{A: a, B: b, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		if counts[i].A != counts[j].A {
			return counts[i].A < counts[j].A
		}
		return counts[i].B < counts[j].B
	})
	for i, pc := range counts {
		r := i + 2
		f.SetCellValue(countsSheet, fmt.Sprintf("A%d", r), pc.A)
		f.SetCellValue(countsSheet, fmt.Sprintf("B%d", r), pc.B)
		f.SetCellValue(countsSheet, fmt.Sprintf("C%d", r), pc.Count)
	}

	// The default Sheet1 would otherwise ship empty alongside our sheets.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return WrapExitError(ExitCommandError, "failed to finalize workbook", err)
	}

	if err := f.SaveAs(opts.Out); err != nil {
		return WrapExitError(ExitCommandError, "failed to write workbook", err)
	}

	payload := map[string]any{
		"class":    c.Name,
		"path":     opts.Out,
		"sessions": len(sessions),
		"pairs":    len(counts),
	}
	fo := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return fo.Success(payload, func(w io.Writer) {
		fmt.Fprintf(w, "Exported %d sessions for %q to %s\n", len(sessions), c.Name, opts.Out)
	})
}
