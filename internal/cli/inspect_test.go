package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execInspect(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewInspectCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestInspectTextCensus(t *testing.T) {
	dataset := writeDataset(t, schoolsCSV)

	out, err := execInspect(t, "text", dataset)
	require.NoError(t, err)
	assert.Contains(t, out, "4 rows, 2 columns")
	assert.Contains(t, out, "school_id")
	assert.Contains(t, out, "language")
	assert.Contains(t, out, "distinct=4")
	assert.Contains(t, out, "distinct=2")
}

func TestInspectJSONCensus(t *testing.T) {
	dataset := writeDataset(t, schoolsCSV)

	out, err := execInspect(t, "json", dataset)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(4), data["rows"])
	cols := data["columns"].([]any)
	require.Len(t, cols, 2)
	first := cols[0].(map[string]any)
	assert.Equal(t, "school_id", first["name"])
	assert.Equal(t, "string", first["kind"])
	assert.Equal(t, float64(4), first["distinct"])
}

func TestInspectReportsUniqueIDs(t *testing.T) {
	dataset := writeDataset(t, schoolsCSV)

	out, err := execInspect(t, "text", dataset, "--id", "school_id")
	require.NoError(t, err)
	assert.Contains(t, out, "all identifiers unique")
}

func TestInspectReportsDuplicateIDs(t *testing.T) {
	dataset := writeDataset(t, "school_id,language\ns01,en\ns01,fr\ns02,en\ns02,fr\ns02,de\n")

	out, err := execInspect(t, "text", dataset, "--id", "school_id")
	require.NoError(t, err)
	assert.Contains(t, out, "3 duplicate rows across 2 identifiers")
	assert.Contains(t, out, "s01")
	assert.Contains(t, out, "s02")
}

func TestInspectMissingIDColumnFails(t *testing.T) {
	dataset := writeDataset(t, schoolsCSV)

	out, err := execInspect(t, "text", dataset, "--id", "region")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "MISSING_FIELD")
}

func TestInspectMissingDatasetIsCommandError(t *testing.T) {
	out, err := execInspect(t, "text", "/nonexistent/schools.csv")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "L001")
}

func TestInspectCountsMissingValues(t *testing.T) {
	dataset := writeDataset(t, "school_id,language\ns01,en\ns02,\ns03,fr\n")

	out, err := execInspect(t, "text", dataset)
	require.NoError(t, err)
	assert.Contains(t, out, "missing=1")
}
