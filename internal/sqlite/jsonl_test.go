package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONLReportsMalformedLines(t *testing.T) {
	dir := writeCatalog(t, `{"id":"a"}`, `nope`, ``, `{"id":"b"}`)

	lines, malformed, err := readJSONL(filepath.Join(dir, FrameworksFile))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].n)
	assert.Equal(t, 4, lines[1].n)
	assert.Equal(t, []int{2}, malformed)
}

func TestWriteJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FrameworksFile)
	records := []json.RawMessage{
		json.RawMessage(`{"id":"a"}`),
		json.RawMessage(`{"id":"b","tags":{"stages":["growth"]}}`),
	}

	require.NoError(t, writeJSONL(path, records))

	lines, malformed, err := readJSONL(path)
	require.NoError(t, err)
	assert.Empty(t, malformed)
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"id":"b","tags":{"stages":["growth"]}}`, string(lines[1].raw))
}

func TestWriteJSONLLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FrameworksFile)

	require.NoError(t, writeJSONL(path, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FrameworksFile, entries[0].Name())
}
