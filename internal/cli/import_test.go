package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestClassImport(t *testing.T) {
	opts := newTestOptions(t)
	path := writeRoster(t, `
class: "NURS 810"
quarter: "Fall 2025"
tracks: [FNP, AGNP]
students:
  - name: Alice
    track: FNP
  - name: Brooke
    track: AGNP
  - name: Carol
    active: false
`)

	out, err := execute(t, NewClassCommand, opts, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Created class "NURS 810" with 3 students`)

	out, err = execute(t, NewRosterCommand, opts, "list", "--class", "NURS 810")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice [FNP]")
	assert.Contains(t, out, "Brooke [AGNP]")
	assert.Contains(t, out, "Carol (inactive)")
}

func TestClassImportInvalidFile(t *testing.T) {
	opts := newTestOptions(t)
	path := writeRoster(t, "students:\n  - name: Alice\n")

	_, err := execute(t, NewClassCommand, opts, "import", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	// Nothing was written.
	out, err := execute(t, NewClassCommand, opts, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No classes yet.")
}

func TestClassImportDuplicateClass(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")
	path := writeRoster(t, "class: \"NURS 810\"\nstudents:\n  - name: Alice\n")

	_, err := execute(t, NewClassCommand, opts, "import", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRosterImport(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")
	path := writeWorkbook(t, [][]any{
		{"Name", "Track"},
		{"Alice", "FNP"},
		{"Brooke", "AGNP"},
		{"Carol"},
	})

	out, err := execute(t, NewRosterCommand, opts, "import", "--class", "NURS 810", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Imported 3 students into "NURS 810"`)

	out, err = execute(t, NewRosterCommand, opts, "list", "--class", "NURS 810")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice [FNP]")
	assert.Contains(t, out, "Carol")
}

func TestRosterImportSkipsBlankRows(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")
	path := writeWorkbook(t, [][]any{
		{"Alice"},
		{""},
		{"Brooke"},
	})

	out, err := execute(t, NewRosterCommand, opts, "import", "--class", "NURS 810", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 students")
}

func TestRosterImportEmptyWorkbook(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")
	path := writeWorkbook(t, [][]any{{"Name", "Track"}})

	_, err := execute(t, NewRosterCommand, opts, "import", "--class", "NURS 810", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no students")
}

func TestRosterImportMissingFile(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")

	_, err := execute(t, NewRosterCommand, opts, "import", "--class", "NURS 810",
		filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRosterImportUnknownClass(t *testing.T) {
	opts := newTestOptions(t)
	path := writeWorkbook(t, [][]any{{"Alice"}})

	_, err := execute(t, NewRosterCommand, opts, "import", "--class", "Nope", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRosterImportOrderIndependentOfSheetOrder(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")
	path := writeWorkbook(t, [][]any{
		{"Zelda"},
		{"Alice"},
	})

	_, err := execute(t, NewRosterCommand, opts, "import", "--class", "NURS 810", path)
	require.NoError(t, err)

	out, err := execute(t, NewRosterCommand, opts, "list", "--class", "NURS 810")
	require.NoError(t, err)
	// Listings sort by name regardless of spreadsheet order.
	assert.Less(t, strings.Index(out, "Alice"), strings.Index(out, "Zelda"))
}
