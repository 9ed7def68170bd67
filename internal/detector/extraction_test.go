package detector

import (
	"testing"

	"github.com/lyoubo/reextractor/internal/model"
	mt "github.com/lyoubo/reextractor/internal/model/modeltest"
	"github.com/lyoubo/reextractor/internal/refactoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for extraction and inlining:
// - extracted method depending on the new source, mostly matched -> ExtractOperation
// - extracted into another class -> ExtractAndMoveOperation
// - extracted method with a mostly unmatched body is ignored
// - matched statement fragments are carried as extra locations
// - added class receiving members -> ExtractClass / ExtractSuperclass /
//   ExtractInterface / ExtractSubclass by hierarchy
// - inlined method depending on the old target -> InlineOperation /
//   MoveAndInlineOperation

func TestExtractOperation(t *testing.T) {
	t.Parallel()

	oldA, newA := versions("p", "A")
	_, newB := versions("p", "B")
	oldFoo := mt.Method(oldA, "foo")
	newFoo := mt.Method(newA, "foo")

	tests := []struct {
		name      string
		extracted *model.Entity
		want      []refactoring.Kind
	}{
		{
			name:      "same class",
			extracted: mt.Method(newA, "helper", mt.Nodes(5, 1), mt.DependsOn(newFoo)),
			want:      []refactoring.Kind{refactoring.ExtractOperation},
		},
		{
			name:      "other class",
			extracted: mt.Method(newB, "helper", mt.Nodes(5, 1), mt.DependsOn(newFoo)),
			want:      []refactoring.Kind{refactoring.ExtractAndMoveOperation},
		},
		{
			name:      "mostly unmatched body",
			extracted: mt.Method(newA, "helper", mt.Nodes(2, 2), mt.DependsOn(newFoo)),
			want:      []refactoring.Kind{},
		},
		{
			name:      "unrelated method",
			extracted: mt.Method(newA, "helper", mt.Nodes(5, 1)),
			want:      []refactoring.Kind{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			refs := detect(&model.MatchPair{
				MatchedEntities: []model.EntityPair{mt.Pair(oldA, newA), mt.Pair(oldFoo, newFoo)},
				Extracted:       []*model.Entity{tt.extracted},
			})
			assert.Equal(t, tt.want, kindsOf(refs))
		})
	}
}

func TestExtractOperationCarriesFragments(t *testing.T) {
	t.Parallel()

	oldA, newA := versions("p", "A")
	oldFoo := mt.Method(oldA, "foo")
	newFoo := mt.Method(newA, "foo")
	helper := mt.Method(newA, "helper", mt.Nodes(3, 0), mt.DependsOn(newFoo))

	oldBody := mt.Root(oldFoo)
	moved := mt.Stmt(oldBody, model.StmtExpression, "log(x);", mt.Line(4))
	helperBody := mt.Root(helper)
	landed := mt.Stmt(helperBody, model.StmtExpression, "log(x);", mt.Line(9))

	refs := detect(&model.MatchPair{
		MatchedEntities:   []model.EntityPair{mt.Pair(oldA, newA), mt.Pair(oldFoo, newFoo)},
		Extracted:         []*model.Entity{helper},
		MatchedStatements: []model.StatementPair{mt.Match(moved, landed)},
	})

	require.Len(t, refs, 1)
	r := refs[0]
	assert.Equal(t, refactoring.ExtractOperation, r.Kind)
	require.Len(t, r.Left, 2)
	require.Len(t, r.Right, 3)
	assert.Equal(t, 4, r.Left[1].StartLine)
	assert.Equal(t, 9, r.Right[2].StartLine)
	assert.Equal(t, refactoring.Extraction{Source: "foo() : void", Target: "helper() : void"}, r.Payload)
}

func TestExtractClassFamily(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		added func() *model.Entity
		owner []mt.EntityOption // options for the new version of the origin
		want  refactoring.Kind
	}{
		{
			name:  "unrelated",
			added: func() *model.Entity { return mt.Class("Extracted.java", "p", "Extracted") },
			want:  refactoring.ExtractClass,
		},
		{
			name:  "new superclass",
			added: func() *model.Entity { return mt.Class("Extracted.java", "p", "Extracted") },
			owner: []mt.EntityOption{mt.Extends("p.Extracted")},
			want:  refactoring.ExtractSuperclass,
		},
		{
			name:  "new interface",
			added: func() *model.Entity { return mt.Interface("Extracted.java", "p", "Extracted") },
			owner: []mt.EntityOption{mt.Extends("", "p.Extracted")},
			want:  refactoring.ExtractInterface,
		},
		{
			name: "new subclass",
			added: func() *model.Entity {
				return mt.Class("Extracted.java", "p", "Extracted", mt.Extends("p.A"))
			},
			want: refactoring.ExtractSubclass,
		},
		{
			name:  "unresolved origin",
			added: func() *model.Entity { return mt.Class("Extracted.java", "p", "Extracted") },
			owner: []mt.EntityOption{mt.Extends("p.Extracted"), mt.Unresolved()},
			want:  refactoring.ExtractClass,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			oldA := mt.Class("A.java", "p", "A")
			newA := mt.Class("A.java", "p", "A", tt.owner...)
			added := tt.added()
			oldX := mt.Field(oldA, "x", "int")
			newX := mt.Field(added, "x", "int")
			oldFoo := mt.Method(oldA, "foo")
			newFoo := mt.Method(added, "foo")

			refs := detect(&model.MatchPair{
				MatchedEntities: []model.EntityPair{mt.Pair(oldA, newA), mt.Pair(oldX, newX), mt.Pair(oldFoo, newFoo)},
				Added:           []*model.Entity{added},
			})

			var extract []refactoring.Refactoring
			for _, r := range refs {
				switch r.Kind {
				case refactoring.ExtractClass, refactoring.ExtractSuperclass,
					refactoring.ExtractInterface, refactoring.ExtractSubclass:
					extract = append(extract, r)
				}
			}
			require.Len(t, extract, 1)
			assert.Equal(t, tt.want, extract[0].Kind)

			payload, ok := extract[0].Payload.(refactoring.Extraction)
			require.True(t, ok)
			assert.Equal(t, "p.A", payload.Source)
			assert.Equal(t, "p.Extracted", payload.Target)
			assert.Equal(t, map[string]string{"x": "x", "foo() : void": "foo() : void"}, payload.Members)
		})
	}
}

func TestInlineOperation(t *testing.T) {
	t.Parallel()

	oldA, newA := versions("p", "A")
	oldB, _ := versions("p", "B")
	oldFoo := mt.Method(oldA, "foo")
	newFoo := mt.Method(newA, "foo")

	tests := []struct {
		name    string
		inlined *model.Entity
		want    []refactoring.Kind
	}{
		{
			name:    "same class",
			inlined: mt.Method(oldA, "helper", mt.Nodes(4, 0), mt.DependsOn(oldFoo)),
			want:    []refactoring.Kind{refactoring.InlineOperation},
		},
		{
			name:    "other class",
			inlined: mt.Method(oldB, "helper", mt.Nodes(4, 0), mt.DependsOn(oldFoo)),
			want:    []refactoring.Kind{refactoring.MoveAndInlineOperation},
		},
		{
			name:    "depends on new side only",
			inlined: mt.Method(oldA, "helper", mt.Nodes(4, 0), mt.DependsOn(newFoo)),
			want:    []refactoring.Kind{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			refs := detect(&model.MatchPair{
				MatchedEntities: []model.EntityPair{mt.Pair(oldA, newA), mt.Pair(oldFoo, newFoo)},
				Inlined:         []*model.Entity{tt.inlined},
			})
			assert.Equal(t, tt.want, kindsOf(refs))
		})
	}
}
