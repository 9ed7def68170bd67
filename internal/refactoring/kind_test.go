package refactoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyoubo/reextractor/internal/model"
)

// Test Plan for the taxonomy:
// - every kind has a display name and is listed exactly once
// - unknown kinds are invalid and render as their tag
// - New prefixes the display name and copies locations
// - VisibilityOf derives the default from the container

func TestKinds(t *testing.T) {
	t.Parallel()

	kinds := Kinds()
	assert.Len(t, kinds, len(displayNames))

	seen := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		assert.True(t, k.Valid(), "kind %s", k)
		assert.False(t, seen[k], "duplicate kind %s", k)
		assert.NotEqual(t, string(k), k.DisplayName(), "kind %s", k)
		seen[k] = true
	}

	assert.Equal(t, "Extract Method", ExtractOperation.DisplayName())
	assert.False(t, Kind("SPLIT_CLASS").Valid())
	assert.Equal(t, "SPLIT_CLASS", Kind("SPLIT_CLASS").DisplayName())
}

func TestNew(t *testing.T) {
	t.Parallel()

	left := []Location{{File: "A.java", StartLine: 3}}
	r := New(RenameMethod, Rename{Old: "foo", New: "bar"}, "  foo() renamed to bar() ", left, nil)

	assert.Equal(t, "Rename Method foo() renamed to bar()", r.Description)
	assert.Equal(t, r.Description, r.String())

	left[0].StartLine = 99
	require.Len(t, r.Left, 1)
	assert.Equal(t, 3, r.Left[0].StartLine)
	assert.Empty(t, r.Right)

	other := New(RenameMethod, Rename{Old: "foo", New: "bar"}, "foo() renamed to bar()", []Location{{File: "A.java", StartLine: 3}}, nil)
	assert.Equal(t, r.Key(), other.Key())
	assert.Equal(t, "Rename Method", New(RenameMethod, Rename{}, "", nil, nil).Description)
}

func TestVisibilityOf(t *testing.T) {
	t.Parallel()

	iface := &model.Entity{Kind: model.KindInterface, Name: "I"}
	class := &model.Entity{Kind: model.KindClass, Name: "C"}

	tests := []struct {
		name   string
		entity *model.Entity
		want   Visibility
	}{
		{"explicit private", &model.Entity{Modifiers: []string{"static", "private"}, Parent: class}, Private},
		{"explicit protected", &model.Entity{Modifiers: []string{"protected"}, Parent: iface}, Protected},
		{"interface member", &model.Entity{Parent: iface}, Public},
		{"class member", &model.Entity{Parent: class}, Package},
		{"top level", &model.Entity{}, Package},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VisibilityOf(tt.entity), tt.name)
	}
	assert.Equal(t, "package", Package.String())
	assert.Equal(t, "protected", Protected.String())
}
