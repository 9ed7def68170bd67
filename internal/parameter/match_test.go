package parameter

import (
	"testing"

	"github.com/lyoubo/reextractor/internal/model"
	mt "github.com/lyoubo/reextractor/internal/model/modeltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Match:
// - every parameter appears exactly once across matched/added/removed
// - identical parameters pair at stage 0
// - a single renamed parameter pairs by position
// - same name with a new type pairs at stage 1
// - type pairing is skipped when ambiguous, unless both sides repeat the type
// - position pairing is rejected when the body still uses the old name
// - constructors skip the usage gate
// - reordering is detected over common names only
// - UsesIdentifier ignores member access and longer identifiers

func method(name string, body string, params ...*model.Parameter) *model.Entity {
	owner := mt.Class("A.java", "p", "A")
	return mt.Method(owner, name, mt.Params(params...), mt.Body(body))
}

func assertTotal(t *testing.T, before, after *model.Entity, c Correspondence) {
	t.Helper()
	seenOld := map[*model.Parameter]int{}
	seenNew := map[*model.Parameter]int{}
	for _, p := range c.Matched {
		seenOld[p.Old]++
		seenNew[p.New]++
	}
	for _, p := range c.Removed {
		seenOld[p]++
	}
	for _, p := range c.Added {
		seenNew[p]++
	}
	for _, p := range before.Parameters {
		assert.Equal(t, 1, seenOld[p], "old parameter %s", p.Name)
	}
	for _, p := range after.Parameters {
		assert.Equal(t, 1, seenNew[p], "new parameter %s", p.Name)
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		before    *model.Entity
		after     *model.Entity
		stages    []Stage
		added     []string
		removed   []string
		reordered bool
	}{
		{
			name:   "identical",
			before: method("foo", "", mt.Param("a", "int"), mt.Param("b", "String")),
			after:  method("foo", "", mt.Param("a", "int"), mt.Param("b", "String")),
			stages: []Stage{StageIdentical, StageIdentical},
		},
		{
			name:   "single rename by position",
			before: method("foo", "return x;", mt.Param("x", "int")),
			after:  method("foo", "return y;", mt.Param("y", "int")),
			stages: []Stage{StageType},
		},
		{
			name:   "type change keeps name",
			before: method("foo", "", mt.Param("a", "int")),
			after:  method("foo", "", mt.Param("a", "long")),
			stages: []Stage{StageName},
		},
		{
			name:   "rename and type change by position",
			before: method("foo", "use(a);", mt.Param("a", "int")),
			after:  method("foo", "use(b);", mt.Param("b", "long")),
			stages: []Stage{StagePosition},
		},
		{
			name:    "ambiguous type left unmatched",
			before:  method("foo", "", mt.Param("a", "int")),
			after:   method("foo", "", mt.Param("x", "int"), mt.Param("y", "int")),
			added:   []string{"x", "y"},
			removed: []string{"a"},
		},
		{
			name:   "ambiguity waived when both sides repeat the type",
			before: method("foo", "", mt.Param("a", "int"), mt.Param("b", "int")),
			after:  method("foo", "", mt.Param("x", "int"), mt.Param("y", "int")),
			stages: []Stage{StageType, StageType},
		},
		{
			name:    "waiver needs repetition on both sides",
			before:  method("foo", "", mt.Param("a", "int"), mt.Param("c", "long")),
			after:   method("foo", "", mt.Param("x", "int"), mt.Param("y", "int")),
			added:   []string{"x", "y"},
			removed: []string{"a", "c"},
		},
		{
			name:    "position rejected when old name still used",
			before:  method("foo", "use(a);", mt.Param("a", "int")),
			after:   method("foo", "use(a); use(b);", mt.Param("b", "long")),
			added:   []string{"b"},
			removed: []string{"a"},
		},
		{
			name:    "position rejected when new name already used",
			before:  method("foo", "int b = 0; use(a, b);", mt.Param("a", "int")),
			after:   method("foo", "use(b);", mt.Param("b", "long")),
			added:   []string{"b"},
			removed: []string{"a"},
		},
		{
			name:   "constructor skips usage gate",
			before: mt.Method(mt.Class("A.java", "p", "A"), "A", mt.Constructor(), mt.Params(mt.Param("a", "int")), mt.Body("this.a = a;")),
			after:  mt.Method(mt.Class("A.java", "p", "A"), "A", mt.Constructor(), mt.Params(mt.Param("b", "long")), mt.Body("this.a = a;")),
			stages: []Stage{StagePosition},
		},
		{
			name:    "add and remove",
			before:  method("foo", "", mt.Param("a", "int"), mt.Param("b", "String")),
			after:   method("foo", "", mt.Param("c", "double"), mt.Param("a", "int")),
			stages:  []Stage{StageIdentical},
			added:   []string{"c"},
			removed: []string{"b"},
		},
		{
			name:      "reorder",
			before:    method("foo", "", mt.Param("a", "int"), mt.Param("b", "String")),
			after:     method("foo", "", mt.Param("b", "String"), mt.Param("a", "int")),
			stages:    []Stage{StageIdentical, StageIdentical},
			reordered: true,
		},
		{
			name:   "insertion is not a reorder",
			before: method("foo", "", mt.Param("a", "int"), mt.Param("b", "String")),
			after:  method("foo", "", mt.Param("z", "char"), mt.Param("a", "int"), mt.Param("b", "String")),
			stages: []Stage{StageIdentical, StageIdentical},
			added:  []string{"z"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := Match(tt.before, tt.after)
			assertTotal(t, tt.before, tt.after, c)

			var stages []Stage
			for _, p := range c.Matched {
				stages = append(stages, p.Stage)
			}
			assert.Equal(t, tt.stages, stages)
			assert.ElementsMatch(t, tt.added, names(c.Added))
			assert.ElementsMatch(t, tt.removed, names(c.Removed))
			assert.Equal(t, tt.reordered, c.Reordered)
		})
	}
}

func TestMatchOrdersPairsByNewPosition(t *testing.T) {
	t.Parallel()

	before := method("foo", "", mt.Param("a", "int"), mt.Param("b", "String"), mt.Param("c", "long"))
	after := method("foo", "", mt.Param("c", "long"), mt.Param("a", "int"), mt.Param("b", "String"))

	c := Match(before, after)
	require.Len(t, c.Matched, 3)
	assert.Equal(t, "c", c.Matched[0].New.Name)
	assert.Equal(t, "a", c.Matched[1].New.Name)
	assert.Equal(t, "b", c.Matched[2].New.Name)
}

func TestUsesIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		name string
		want bool
	}{
		{"return x;", "x", true},
		{"x", "x", true},
		{"return this.x;", "x", false},
		{"return xs;", "x", false},
		{"return max(x, y);", "y", true},
		{"foo.bar(x$1);", "x", false},
		{"", "x", false},
		{"x", "", false},
		{"xs = this.x + x;", "x", true},
		{"ax.x", "x", false},
		{"x.size()", "x", true},
		{"$x", "x", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UsesIdentifier(tt.text, tt.name), "%q in %q", tt.name, tt.text)
	}
}
