package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestGradeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("Primary Years Programme\nPYP 4B report"), 0o644))

	assert.Equal(t, "4B\t(curriculum_stage)\n", run(t, "grade", path))
}

func TestGradeCommandUnresolved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("no level information"), 0o644))

	assert.Equal(t, "unresolved\n", run(t, "grade", path))
}

func TestIngestCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"studentId": "s-9",
		"extractedText": "Grade 2 report",
		"learnerProfileAttributes": [{"attribute": "Caring", "evidence": "Always helps classmates who are upset."}]
	}`), 0o644))

	out := run(t, "ingest", path)
	assert.Contains(t, out, `"grade": "2"`)
	assert.Contains(t, out, `"overallPerformance"`)
}
