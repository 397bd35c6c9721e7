package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// importedStudent is one spreadsheet row after cleanup.
type importedStudent struct {
	Name  string `validate:"required,max=120"`
	Track string `validate:"omitempty,max=40"`
}

func newRosterImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RosterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <roster.xlsx>",
		Short: "Add students to a class from a spreadsheet",
		Long: `Add students from the first sheet of an .xlsx workbook.

Column A is the student name, column B the optional track tag. A header
row whose first cell reads "name" is skipped.

Example:
  pair roster import --class "NURS 810" ./roster.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRosterImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "class name (required)")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

func runRosterImport(opts *RosterOptions, path string, cmd *cobra.Command) error {
	imported, err := readStudentSheet(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read spreadsheet", err)
	}
	if len(imported) == 0 {
		return NewExitError(ExitCommandError, "spreadsheet contains no students")
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

	ids := opts.idGen()
	for _, row := range imported {
		s := roster.Student{
			ID:     ids.Generate(),
			Name:   row.Name,
			Track:  roster.Track(row.Track),
			Active: true,
		}
		if err := st.AddStudent(ctx, c.ID, s); err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("failed to add student %q", row.Name), err)
		}
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	payload := struct {
		Class    string `json:"class"`
		Imported int    `json:"imported"`
	}{c.Name, len(imported)}
	return f.Success(payload, func(w io.Writer) {
		fmt.Fprintf(w, "Imported %d students into %q\n", len(imported), c.Name)
	})
}

// readStudentSheet extracts (name, track) rows from the first sheet.
func readStudentSheet(path string) ([]importedStudent, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	validate := validator.New()
	students := []importedStudent{}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := normalizeName(row[0])
		if name == "" {
			continue
		}
		if i == 0 && strings.EqualFold(name, "name") {
			continue // header row
		}

		s := importedStudent{Name: name}
		if len(row) > 1 {
			s.Track = strings.TrimSpace(row[1])
		}
		if err := validate.Struct(&s); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		students = append(students, s)
	}

	return students, nil
}
