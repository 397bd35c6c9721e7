package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ojermo/StudentPairingTool/internal/testutil"
)

// newTestOptions points the CLI at a throwaway database so commands run
// end-to-end without touching the user's config or data dir.
func newTestOptions(t *testing.T) *RootOptions {
	t.Helper()
	return &RootOptions{
		Format:   "text",
		Database: filepath.Join(t.TempDir(), "pair.db"),
	}
}

// execute runs a command built by ctor with the given args and returns
// its combined output.
func execute(t *testing.T, ctor func(*RootOptions) *cobra.Command, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := ctor(opts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// seedClass creates a class and enrolls the named students.
func seedClass(t *testing.T, opts *RootOptions, class string, names ...string) {
	t.Helper()
	_, err := execute(t, NewClassCommand, opts, "create", "--name", class)
	require.NoError(t, err)
	for _, name := range names {
		_, err := execute(t, NewRosterCommand, opts, "add", "--class", class, "--name", name)
		require.NoError(t, err)
	}
}

func TestClassCreateAndList(t *testing.T) {
	opts := newTestOptions(t)

	out, err := execute(t, NewClassCommand, opts, "create",
		"--name", "NURS 810", "--quarter", "Fall 2025", "--tracks", "FNP,AGNP")
	require.NoError(t, err)
	assert.Contains(t, out, `Created class "NURS 810"`)

	out, err = execute(t, NewClassCommand, opts, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NURS 810 (Fall 2025)")
}

func TestClassCreateDuplicateName(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")

	_, err := execute(t, NewClassCommand, opts, "create", "--name", "NURS 810")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRosterAddListDeactivate(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")

	_, err := execute(t, NewRosterCommand, opts, "add",
		"--class", "NURS 810", "--name", "Alice", "--track", "FNP")
	require.NoError(t, err)

	out, err := execute(t, NewRosterCommand, opts, "list", "--class", "NURS 810")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice [FNP]")
	assert.NotContains(t, out, "inactive")

	_, err = execute(t, NewRosterCommand, opts, "deactivate",
		"--class", "NURS 810", "--student", "Alice")
	require.NoError(t, err)

	out, err = execute(t, NewRosterCommand, opts, "list", "--class", "NURS 810")
	require.NoError(t, err)
	assert.Contains(t, out, "(inactive)")
}

func TestGenerateUnknownClass(t *testing.T) {
	opts := newTestOptions(t)

	_, err := execute(t, NewGenerateCommand, opts, "--class", "Nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown class")
}

func TestGenerateInsufficientStudents(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810", "Alice")

	_, err := execute(t, NewGenerateCommand, opts, "--class", "NURS 810")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "not enough present students")
}

func TestGenerateSeedIsDeterministic(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810", "Alice", "Brooke", "Carol", "Dana", "Erin")

	first, err := execute(t, NewGenerateCommand, opts, "--class", "NURS 810", "--seed", "42")
	require.NoError(t, err)
	second, err := execute(t, NewGenerateCommand, opts, "--class", "NURS 810", "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "seed=42")
	for _, name := range []string{"Alice", "Brooke", "Carol", "Dana", "Erin"} {
		assert.Contains(t, first, name)
	}
}

func TestGenerateAbsentStudentsExcluded(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810", "Alice", "Brooke", "Carol", "Dana", "Erin")

	out, err := execute(t, NewGenerateCommand, opts,
		"--class", "NURS 810", "--absent", "Erin", "--seed", "7")
	require.NoError(t, err)
	assert.NotContains(t, out, "Erin")
	assert.Contains(t, out, "2. ", "four present students form two pairs")
	assert.NotContains(t, out, "3. ")
}

func TestGenerateUnknownAbsentStudent(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810", "Alice", "Brooke")

	_, err := execute(t, NewGenerateCommand, opts,
		"--class", "NURS 810", "--absent", "Zelda")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerateInvalidMode(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810", "Alice", "Brooke")

	_, err := execute(t, NewGenerateCommand, opts,
		"--class", "NURS 810", "--mode", "bogus")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerateCommitAndHistory(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810", "Alice", "Brooke", "Carol", "Dana")

	out, err := execute(t, NewGenerateCommand, opts,
		"--class", "NURS 810", "--seed", "1", "--commit", "--session", "week-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded as session week-1")

	out, err = execute(t, NewHistoryCommand, opts, "list", "--class", "NURS 810")
	require.NoError(t, err)
	assert.Contains(t, out, "week-1")
	assert.Contains(t, out, "groups=2")
	assert.Contains(t, out, "present=4")

	// The same session id cannot be recorded twice.
	_, err = execute(t, NewGenerateCommand, opts,
		"--class", "NURS 810", "--seed", "1", "--commit", "--session", "week-1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "already recorded")
}

func TestGenerateCommitMintsSessionID(t *testing.T) {
	opts := newTestOptions(t)
	opts.SessionIDs = testutil.NewSequentialIDs("session-0001")
	seedClass(t, opts, "NURS 810", "Alice", "Brooke")

	out, err := execute(t, NewGenerateCommand, opts,
		"--class", "NURS 810", "--commit")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded as session session-0001")
}

func TestRecordAndHistoryCounts(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810", "Alice", "Brooke", "Carol", "Dana", "Erin")

	out, err := execute(t, NewRecordCommand, opts,
		"--class", "NURS 810", "--session", "week-1",
		"--groups", "Alice+Brooke,Carol+Dana+Erin")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded session week-1 with 2 groups")

	out, err = execute(t, NewHistoryCommand, opts, "counts", "--class", "NURS 810")
	require.NoError(t, err)
	// The triple contributes three pairs, the pair one more.
	assert.Contains(t, out, "1x  Alice + Brooke")
	assert.Contains(t, out, "1x  Carol + Dana")
	assert.Contains(t, out, "1x  Carol + Erin")
	assert.Contains(t, out, "1x  Dana + Erin")

	// Erin was in a group, so nobody was absent.
	out, err = execute(t, NewHistoryCommand, opts, "list", "--class", "NURS 810")
	require.NoError(t, err)
	assert.Contains(t, out, "present=5")
}

func TestRecordAbsentComputedFromRoster(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810", "Alice", "Brooke", "Carol")

	_, err := execute(t, NewRecordCommand, opts,
		"--class", "NURS 810", "--session", "week-1",
		"--groups", "Alice+Brooke")
	require.NoError(t, err)

	out, err := execute(t, NewHistoryCommand, opts, "list", "--class", "NURS 810")
	require.NoError(t, err)
	assert.Contains(t, out, "present=2")
}

func TestHistoryListEmpty(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")

	out, err := execute(t, NewHistoryCommand, opts, "list", "--class", "NURS 810")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions recorded yet.")
}

func TestExportWorkbook(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810", "Alice", "Brooke", "Carol", "Dana")

	_, err := execute(t, NewRecordCommand, opts,
		"--class", "NURS 810", "--session", "week-1",
		"--groups", "Alice+Brooke,Carol+Dana")
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "history.xlsx")
	out, err := execute(t, NewExportCommand, opts,
		"--class", "NURS 810", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 sessions")

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Sessions", "Pair Counts"}, f.GetSheetList())

	rows, err := f.GetRows("Sessions")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per group")
	assert.Equal(t, "Alice + Brooke", rows[1][4])
	assert.Equal(t, "Carol + Dana", rows[2][4])

	counts, err := f.GetRows("Pair Counts")
	require.NoError(t, err)
	require.Len(t, counts, 3, "header plus two pairs")
}

func TestExportRejectsNonXlsxPath(t *testing.T) {
	opts := newTestOptions(t)
	seedClass(t, opts, "NURS 810")

	_, err := execute(t, NewExportCommand, opts,
		"--class", "NURS 810", "--out", "history.csv")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestJSONOutputEnvelope(t *testing.T) {
	opts := newTestOptions(t)
	opts.Format = "json"
	seedClass(t, opts, "NURS 810")

	out, err := execute(t, NewClassCommand, opts, "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)
	assert.Contains(t, out, "NURS 810")
}
