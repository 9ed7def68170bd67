package graph

import (
	"testing"

	"github.com/lyoubo/reextractor/internal/model"
	"github.com/stretchr/testify/assert"
)

// Test Plan for Hierarchy:
// - direct superclass is recognised
// - implemented interface is recognised
// - relation is direct only (grandparent is not a supertype)
// - matching is by qualified name across versions
// - unresolved bindings answer false
// - nil entities answer false

func typeEntity(id, qname, super string, ifaces ...string) *model.Entity {
	return &model.Entity{
		ID:            id,
		Kind:          model.KindClass,
		QualifiedName: qname,
		Superclass:    super,
		Interfaces:    ifaces,
		Resolved:      true,
	}
}

func TestIsSubTypeOf(t *testing.T) {
	t.Parallel()

	base := typeEntity("new:p.Base", "p.Base", "")
	shape := &model.Entity{ID: "new:p.Shape", Kind: model.KindInterface, QualifiedName: "p.Shape", Resolved: true}
	child := typeEntity("new:p.Child", "p.Child", "p.Base", "p.Shape")
	grandChild := typeEntity("new:p.GrandChild", "p.GrandChild", "p.Child")
	oldBase := typeEntity("old:p.Base", "p.Base", "")
	unresolved := &model.Entity{ID: "new:p.Lost", Kind: model.KindClass, QualifiedName: "p.Lost", Superclass: "p.Base"}

	h := NewHierarchy()

	assert.True(t, h.IsSubTypeOf(base, child), "Child extends Base")
	assert.True(t, h.IsSubTypeOf(shape, child), "Child implements Shape")
	assert.False(t, h.IsSubTypeOf(child, base), "relation is directed")
	assert.False(t, h.IsSubTypeOf(base, grandChild), "only direct supertypes count")
	assert.True(t, h.IsSubTypeOf(oldBase, child), "qualified name shared across versions")
	assert.False(t, h.IsSubTypeOf(base, unresolved), "unresolved binding is conservative")
	assert.False(t, h.IsSubTypeOf(nil, child))
	assert.False(t, h.IsSubTypeOf(base, nil))
}

func TestRelationAndSupertypes(t *testing.T) {
	t.Parallel()

	base := typeEntity("p.Base", "p.Base", "")
	shape := typeEntity("p.Shape", "p.Shape", "")
	child := typeEntity("p.Child", "p.Child", "p.Base", "p.Shape")

	h := NewHierarchy()
	assert.Equal(t, EdgeExtends, h.Relation(base, child))
	assert.Equal(t, EdgeImplements, h.Relation(shape, child))
	assert.Equal(t, EdgeType(""), h.Relation(child, base))
	assert.Equal(t, []string{"p.Base", "p.Shape"}, h.Supertypes(child))

	// Registering again keeps the original edges.
	h.AddType(child)
	assert.Equal(t, []string{"p.Base", "p.Shape"}, h.Supertypes(child))
}
