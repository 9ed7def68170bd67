package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyoubo/reextractor/internal/config"
	"github.com/lyoubo/reextractor/internal/refactoring"
	"github.com/lyoubo/reextractor/internal/storage"
)

// Test Plan for the CLI:
// - text output prints one description per line
// - JSON output wraps facts in a commits report and never emits null
// - unknown formats are rejected
// - kinds lists the whole taxonomy
// - discovery honours include and ignore globs, root files and the tool directory
// - batch classifies, persists outcomes and records failures without aborting
// - show prints a stored run as text or JSON
// - Accepts mirrors discovery for single paths
// - watch reclassifies rewritten documents and stops with its context
// - version prints the build and taxonomy size
// - batch without a database still counts kinds
// - loggers fall back to info and honour verbose

func TestWriteRefactorings(t *testing.T) {
	t.Parallel()

	refs := []refactoring.Refactoring{
		refactoring.New(refactoring.RenameMethod, refactoring.Rename{Old: "run", New: "start"}, "run() : void renamed to start() : void in class p.A", nil, nil),
	}

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, writeRefactorings(&buf, formatText, "c1", refs))
		assert.Equal(t, "Rename Method run() : void renamed to start() : void in class p.A\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, writeRefactorings(&buf, formatJSON, "c1", refs))

		var got struct {
			Commits []struct {
				SHA1         string `json:"sha1"`
				Refactorings []struct {
					Type        string `json:"type"`
					Description string `json:"description"`
				} `json:"refactorings"`
			} `json:"commits"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got.Commits, 1)
		assert.Equal(t, "c1", got.Commits[0].SHA1)
		require.Len(t, got.Commits[0].Refactorings, 1)
		assert.Equal(t, "RENAME_METHOD", got.Commits[0].Refactorings[0].Type)
	})

	t.Run("json empty", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, writeRefactorings(&buf, formatJSON, "c1", nil))
		assert.Contains(t, buf.String(), `"refactorings": []`)
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		err := writeRefactorings(&bytes.Buffer{}, "xml", "c1", refs)
		assert.ErrorContains(t, err, "unknown output format")
	})
}

func TestWriteKinds(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeKinds(&buf))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, len(refactoring.Kinds())+1)
	assert.Contains(t, buf.String(), "EXTRACT_OPERATION")
	assert.Contains(t, buf.String(), "Extract Method")
}

func TestDocumentDiscovery(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{
		"root.yaml",
		"commits/a.yml",
		"commits/b.json",
		"commits/notes.txt",
		"vendor/c.yaml",
		".reextractor/config.yml",
	} {
		writeDocument(t, dir, name, "{}")
	}

	d, err := newDocumentDiscovery(dir, []string{"**/*.yaml", "**/*.yml", "**/*.json"}, []string{"vendor/**"})
	require.NoError(t, err)
	docs, err := d.Discover()
	require.NoError(t, err)

	var rel []string
	for _, p := range docs {
		rel = append(rel, relativeName(dir, p))
	}
	assert.Equal(t, []string{"commits/a.yml", "commits/b.json", "root.yaml"}, rel)

	_, err = newDocumentDiscovery(dir, []string{"[a-"}, nil)
	assert.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDocument(t, dir, "c1.yaml", renameDocument("c1"))
	writeDocument(t, dir, "nested/c2.yaml", renameDocument("c2"))
	writeDocument(t, dir, "broken.yaml", "entities: [{id: e1, parent: e9}]")

	cfg := config.Default()
	cfg.Detection.Workers = 2
	cfg.Storage.Database = filepath.Join(t.TempDir(), "out", "results.db")

	var out bytes.Buffer
	result, err := runBatch(context.Background(), batchOptions{
		dir:    dir,
		cfg:    cfg,
		logger: zerolog.Nop(),
		out:    &out,
		quiet:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Commits)
	assert.Equal(t, 2, result.Summary.Refactorings)
	assert.Equal(t, 1, result.Summary.Failures)
	assert.Equal(t, map[refactoring.Kind]int{refactoring.RenameMethod: 2}, result.Counts)
	assert.Empty(t, out.String())

	store, err := storage.Open(cfg.Storage.Database)
	require.NoError(t, err)
	defer store.Close()

	run, err := store.GetRun(result.RunID)
	require.NoError(t, err)
	assert.False(t, run.FinishedAt.IsZero())

	refs, err := store.Refactorings(result.RunID, "c2")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, refactoring.RenameMethod, refs[0].Kind)

	failures, err := store.Failures(result.RunID)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "broken.yaml", failures[0].CommitID)
	assert.Contains(t, failures[0].Message, "unknown reference")

	var text bytes.Buffer
	require.NoError(t, showRun(&text, store, result.RunID, formatText))
	assert.Contains(t, text.String(), "Run "+result.RunID)
	assert.Contains(t, text.String(), "  Rename Method ")
	assert.Contains(t, text.String(), "failed: broken.yaml")

	var js bytes.Buffer
	require.NoError(t, showRun(&js, store, result.RunID, formatJSON))
	var rep struct {
		Commits []struct {
			SHA1         string            `json:"sha1"`
			Refactorings []json.RawMessage `json:"refactorings"`
		} `json:"commits"`
		Failures []struct {
			Commit string `json:"commit"`
		} `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(js.Bytes(), &rep))
	assert.Len(t, rep.Commits, 2)
	for _, c := range rep.Commits {
		assert.Len(t, c.Refactorings, 1)
	}
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "broken.yaml", rep.Failures[0].Commit)

	assert.ErrorIs(t, showRun(&js, store, "missing", formatText), storage.ErrUnknownRun)
	assert.Error(t, showRun(&js, store, result.RunID, "xml"))
}

func TestRunBatchWithoutDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDocument(t, dir, "c1.yaml", renameDocument("c1"))

	cfg := config.Default()
	cfg.Storage.Database = ""

	var out bytes.Buffer
	result, err := runBatch(context.Background(), batchOptions{
		dir:    dir,
		cfg:    cfg,
		logger: zerolog.Nop(),
		out:    &out,
	})
	require.NoError(t, err)
	assert.Empty(t, result.RunID)
	assert.Equal(t, map[refactoring.Kind]int{refactoring.RenameMethod: 1}, result.Counts)
	assert.Contains(t, out.String(), "Classified 1 commits")
	assert.Contains(t, out.String(), "Rename Method")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, zerolog.InfoLevel, newLogger(&buf, "bogus", false).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, newLogger(&buf, "WARN", false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, newLogger(&buf, "error", true).GetLevel())
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,234", formatNumber(1234))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}

func TestDocumentDiscoveryAccepts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d, err := newDocumentDiscovery(dir, []string{"**/*.yaml"}, []string{"vendor/**"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(dir, "c1.yaml"), true},
		{filepath.Join(dir, "commits", "c2.yaml"), true},
		{"commits/c3.yaml", true},
		{filepath.Join(dir, "c1.json"), false},
		{filepath.Join(dir, "vendor", "deep", "c4.yaml"), false},
		{filepath.Join(dir, ".reextractor", "c5.yaml"), false},
		{filepath.Join(filepath.Dir(dir), "outside.yaml"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.Accepts(tt.path), tt.path)
	}
}

// lockedBuffer is a bytes.Buffer safe for a writer and a polling reader.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDocument(t, dir, "c1.yaml", renameDocument("c1"))

	cfg := config.Default()
	cfg.Storage.Database = filepath.Join(t.TempDir(), "results.db")

	ctx, cancel := context.WithCancel(context.Background())
	out := &lockedBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, batchOptions{
			dir:    dir,
			cfg:    cfg,
			logger: zerolog.Nop(),
			out:    out,
			quiet:  true,
		}, 20*time.Millisecond)
	}()

	// Rewrite until the watcher is up and has reported the change
	c2 := filepath.Join(dir, "c2.yaml")
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(c2, []byte(renameDocument("c2")), 0644)
		return strings.Contains(out.String(), "Classified 1 commits: 1 refactorings")
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "Reextractor "+Version)
	assert.Contains(t, buf.String(), "Refactoring kinds: ")
	assert.NotEmpty(t, versionCmd.Long)
}
