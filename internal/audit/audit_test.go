package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriterRequiresDir(t *testing.T) {
	w, err := NewWriter("")
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestAppendWritesOneLinePerCall(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.Append("E1", map[string]string{"k": "v1"}))
	require.NoError(t, w.Append("E1", map[string]string{"k": "v2"}))

	f, err := os.Open(filepath.Join(dir, "E1.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var lines []line
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &l))
		lines = append(lines, l)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.NotEmpty(t, lines[0].ReceivedAt)
}

func TestAppendSeparateFilesPerEntry(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.Append("E1", "a"))
	require.NoError(t, w.Append("E2", "b"))

	assert.FileExists(t, filepath.Join(dir, "E1.jsonl"))
	assert.FileExists(t, filepath.Join(dir, "E2.jsonl"))
}

func TestAppendSanitizesEntryID(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.Append("../evil", "a"))
	require.NoError(t, w.Append("", "b"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "..")
	}
	assert.FileExists(t, filepath.Join(dir, "unknown.jsonl"))
}
