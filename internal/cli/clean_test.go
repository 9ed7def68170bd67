package cli

// Test Plan for Clean Command:
// - cleanDatabase removes the database and its sidecar files
// - --quiet suppresses output
// - a missing database is reported without error
// - an empty or in-memory path is a no-op

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyoubo/reextractor/internal/storage"
)

func TestCleanDatabase_RemovesDatabase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.db")
	s, err := storage.Open(path)
	require.NoError(t, err)
	_, err = s.BeginRun("batch")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, os.WriteFile(path+"-wal", []byte("wal"), 0644))

	var out bytes.Buffer
	require.NoError(t, cleanDatabase(&out, path, false))

	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+"-wal")
	assert.Contains(t, out.String(), "✓ Removed")
}

func TestCleanDatabase_Quiet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.db")
	require.NoError(t, os.WriteFile(path, []byte("db"), 0644))

	var out bytes.Buffer
	require.NoError(t, cleanDatabase(&out, path, true))
	assert.NoFileExists(t, path)
	assert.Empty(t, out.String())
}

func TestCleanDatabase_Nothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(t.TempDir(), "absent.db"), "No results database at"},
		{"disabled", "", "No results database configured"},
		{"memory", ":memory:", "No results database configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, cleanDatabase(&out, tt.path, false))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}
