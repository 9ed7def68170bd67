package detector

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyoubo/reextractor/internal/model"
	mt "github.com/lyoubo/reextractor/internal/model/modeltest"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

// Test Plan for Detector:
// - Detect is idempotent on a mixed input
// - nil input yields no facts
// - a cancelled context yields the context error and no facts
// - reordering the kind-guarded statement checks does not change the fact multiset
// - the debug logger receives per-pass traces

// mixedInput combines entity, extraction and statement facts in one commit.
func mixedInput() *model.MatchPair {
	f := newFixture()
	f.mp.CommitID = "abc123"

	oldA := f.mp.MatchedEntities[0].Old
	newA := f.mp.MatchedEntities[0].New
	newFoo := f.mp.MatchedEntities[1].New
	oldX := mt.Field(oldA, "x", "int", mt.Modifiers("private"))
	newX := mt.Field(newA, "x", "int", mt.Modifiers("protected", "static"))
	f.mp.MatchedEntities = append(f.mp.MatchedEntities, mt.Pair(oldX, newX))
	f.mp.Extracted = append(f.mp.Extracted, mt.Method(newA, "helper", mt.Nodes(3, 1), mt.DependsOn(newFoo)))

	oldIf, _, _, _, _ := conditional(f.oldBody, "a == b", "x();", "y();")
	newIf, _, _, _, _ := conditional(f.newBody, "a != b", "x();", "y();")
	f.match(oldIf, newIf)

	loop := mt.Stmt(f.oldBody, model.StmtWhile, "while (it.hasNext())", mt.Expr("it.hasNext()"))
	forLoop := mt.Stmt(f.newBody, model.StmtFor, "for (; it.hasNext(); )")
	f.match(loop, forLoop)

	decl := mt.Stmt(f.newBody, model.StmtVariableDecl, "int n = size();", mt.Vars(mt.Var("n", "int", "size()")))
	oldUse := mt.Stmt(f.oldBody, model.StmtExpression, "print(size());")
	newUse := mt.Stmt(f.newBody, model.StmtExpression, "print(n);")
	f.match(oldUse, newUse)
	f.add(decl)
	return f.mp
}

func keys(refs []refactoring.Refactoring) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Key())
	}
	return out
}

func TestDetectIsIdempotent(t *testing.T) {
	t.Parallel()

	mp := mixedInput()
	d := New()

	first := d.Detect(mp)
	second := d.Detect(mp)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, []refactoring.Kind{
		refactoring.AddAttributeModifier,
		refactoring.ChangeAttributeAccessModifier,
		refactoring.ExtractOperation,
		refactoring.InvertCondition,
		refactoring.ChangeLoopType,
		refactoring.ExtractVariable,
	}, kindsOf(first))
}

func TestDetectNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, New().Detect(nil))
	assert.Empty(t, New().Detect(&model.MatchPair{}))
}

func TestDetectContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	refs, err := New().DetectContext(ctx, mixedInput())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, refs)
}

func TestStatementChecksAreOrderIndependent(t *testing.T) {
	t.Parallel()

	mp := mixedInput()
	checks := []func(r *run, old, new *model.Statement){
		(*run).declarationFacts,
		(*run).loopFacts,
		(*run).conditionFacts,
		(*run).lambdaFact,
		(*run).pipelineFact,
	}

	collect := func(order []int) []string {
		r := newRun(mp, zerolog.Nop())
		for _, i := range order {
			for _, p := range mp.MatchedStatements {
				checks[i](r, p.Old, p.New)
			}
		}
		return keys(r.out)
	}

	forward := collect([]int{0, 1, 2, 3, 4})
	require.NotEmpty(t, forward)
	assert.ElementsMatch(t, forward, collect([]int{4, 3, 2, 1, 0}))
	assert.ElementsMatch(t, forward, collect([]int{2, 0, 4, 1, 3}))
}

func TestDetectLogsPasses(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	d.Detect(mixedInput())

	assert.Contains(t, buf.String(), `"commit":"abc123"`)
	assert.Contains(t, buf.String(), `"pass":"entities"`)
	assert.Contains(t, buf.String(), `"pass":"added against deleted statements"`)
}
