package storage

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyoubo/reextractor/internal/refactoring"
)

// Test Plan for Store:
// - schema creation is idempotent and records the version
// - runs get UUIDs, can be finished, unknown runs are reported
// - refactorings round-trip with order and both location sides
// - saving a commit twice replaces its facts
// - commits are listed once per run, including empty ones
// - failures and timeouts are listed per run in insertion order
// - kind counts aggregate across commits
// - data survives reopening a file-backed store

func sampleRefactorings() []refactoring.Refactoring {
	return []refactoring.Refactoring{
		refactoring.New(refactoring.RenameMethod, refactoring.Rename{Old: "run", New: "start"}, "run() : void renamed to start() : void in class p.A",
			[]refactoring.Location{{File: "A.java", StartLine: 3, EndLine: 5, ElementKind: refactoring.ElementMethod, Description: "original method declaration", Code: "run() : void"}},
			[]refactoring.Location{{File: "A.java", StartLine: 3, EndLine: 5, ElementKind: refactoring.ElementMethod, Description: "renamed method declaration", Code: "start() : void"}}),
		refactoring.New(refactoring.ExtractOperation, nil, "helper() : void extracted from foo() : void in class p.A",
			[]refactoring.Location{{File: "A.java", StartLine: 10, EndLine: 20, ElementKind: refactoring.ElementMethod, Code: "foo() : void"}},
			[]refactoring.Location{
				{File: "A.java", StartLine: 22, EndLine: 25, ElementKind: refactoring.ElementMethod, Code: "helper() : void"},
				{File: "A.java", StartLine: 23, EndLine: 23, ElementKind: refactoring.ElementStatement, Code: "x();"},
			}),
	}
}

func TestCreateSchemaIdempotent(t *testing.T) {
	t.Parallel()

	s := NewTestStore(t)
	require.NoError(t, CreateSchema(s.db))

	version, err := GetSchemaVersion(s.db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestRuns(t *testing.T) {
	t.Parallel()

	s := NewTestStore(t)
	runID, err := s.BeginRun("testdata/commits")
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	run, err := s.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "testdata/commits", run.Source)
	assert.False(t, run.StartedAt.IsZero())
	assert.True(t, run.FinishedAt.IsZero())

	require.NoError(t, s.FinishRun(runID))
	run, err = s.GetRun(runID)
	require.NoError(t, err)
	assert.False(t, run.FinishedAt.IsZero())

	_, err = s.GetRun("missing")
	assert.ErrorIs(t, err, ErrUnknownRun)
	assert.ErrorIs(t, s.FinishRun("missing"), ErrUnknownRun)
}

func TestRefactoringsRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewTestStore(t)
	runID, err := s.BeginRun("batch")
	require.NoError(t, err)

	want := sampleRefactorings()
	require.NoError(t, s.SaveRefactorings(runID, "c1", want))

	got, err := s.Refactorings(runID, "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.Equal(t, want[i].Kind, got[i].Kind)
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.Equal(t, want[i].Left, got[i].Left)
		assert.Equal(t, want[i].Right, got[i].Right)
		assert.Nil(t, got[i].Payload)
	}

	other, err := s.Refactorings(runID, "c2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSaveRefactoringsReplaces(t *testing.T) {
	t.Parallel()

	s := NewTestStore(t)
	runID, err := s.BeginRun("batch")
	require.NoError(t, err)

	require.NoError(t, s.SaveRefactorings(runID, "c1", sampleRefactorings()))
	require.NoError(t, s.SaveRefactorings(runID, "c1", sampleRefactorings()[1:]))

	got, err := s.Refactorings(runID, "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, refactoring.ExtractOperation, got[0].Kind)

	require.NoError(t, s.SaveRefactorings(runID, "c1", nil))
	got, err = s.Refactorings(runID, "c1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCommits(t *testing.T) {
	t.Parallel()

	s := NewTestStore(t)
	runID, err := s.BeginRun("batch")
	require.NoError(t, err)
	otherRun, err := s.BeginRun("other")
	require.NoError(t, err)

	require.NoError(t, s.SaveRefactorings(runID, "c2", sampleRefactorings()))
	require.NoError(t, s.SaveRefactorings(runID, "c1", nil))
	require.NoError(t, s.SaveRefactorings(runID, "c2", nil))
	require.NoError(t, s.SaveRefactorings(otherRun, "c9", nil))
	require.NoError(t, s.SaveTimeout(runID, "c3"))

	commits, err := s.Commits(runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c1"}, commits)
}

func TestSaveRefactoringsRequiresRun(t *testing.T) {
	t.Parallel()

	s := NewTestStore(t)
	err := s.SaveRefactorings("no-such-run", "c1", sampleRefactorings())
	assert.Error(t, err)
}

func TestFailuresAndTimeouts(t *testing.T) {
	t.Parallel()

	s := NewTestStore(t)
	runID, err := s.BeginRun("batch")
	require.NoError(t, err)
	otherRun, err := s.BeginRun("other")
	require.NoError(t, err)

	require.NoError(t, s.SaveFailure(runID, "c1", errors.New("detection panicked: nil entity")))
	require.NoError(t, s.SaveFailure(runID, "c2", nil))
	require.NoError(t, s.SaveFailure(otherRun, "c9", errors.New("ignored")))
	require.NoError(t, s.SaveTimeout(runID, "c3"))
	require.NoError(t, s.SaveTimeout(runID, "c4"))

	failures, err := s.Failures(runID)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, "c1", failures[0].CommitID)
	assert.Equal(t, "detection panicked: nil entity", failures[0].Message)
	assert.Equal(t, "", failures[1].Message)
	assert.False(t, failures[0].CreatedAt.IsZero())

	timeouts, err := s.Timeouts(runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c4"}, timeouts)
}

func TestKindCounts(t *testing.T) {
	t.Parallel()

	s := NewTestStore(t)
	runID, err := s.BeginRun("batch")
	require.NoError(t, err)
	require.NoError(t, s.SaveRefactorings(runID, "c1", sampleRefactorings()))
	require.NoError(t, s.SaveRefactorings(runID, "c2", sampleRefactorings()[:1]))

	counts, err := s.KindCounts(runID)
	require.NoError(t, err)
	assert.Equal(t, map[refactoring.Kind]int{
		refactoring.RenameMethod:     2,
		refactoring.ExtractOperation: 1,
	}, counts)
}

func TestReopen(t *testing.T) {
	t.Parallel()

	s, path := NewTestStoreFile(t)
	runID, err := s.BeginRun("batch")
	require.NoError(t, err)
	require.NoError(t, s.SaveRefactorings(runID, "c1", sampleRefactorings()))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Refactorings(runID, "c1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
