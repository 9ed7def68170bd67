package graph

import (
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/lyoubo/reextractor/internal/model"
)

// Hierarchy is an in-memory directed graph from declared types to their
// direct resolved supertypes.
//
// Types are added lazily the first time they take part in a query. A
// Hierarchy belongs to one detection run and is not safe for concurrent use.
type Hierarchy struct {
	graph graph.Graph[string, *Node]
}

// NewHierarchy creates an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		graph: graph.New(func(n *Node) string { return n.ID }, graph.Directed()),
	}
}

// AddType registers a type entity and its direct supertypes. Entities with
// unresolved bindings are registered without edges. Adding the same entity
// twice is a no-op.
func (h *Hierarchy) AddType(e *model.Entity) {
	if e == nil {
		return
	}
	if err := h.graph.AddVertex(&Node{ID: e.ID, Kind: NodeDeclared, QualifiedName: e.FullName()}); err != nil {
		// graph.ErrVertexAlreadyExists: edges were added on first registration
		return
	}
	if !e.Resolved {
		return
	}
	if e.Superclass != "" {
		h.link(e.ID, e.Superclass, EdgeExtends)
	}
	for _, iface := range e.Interfaces {
		h.link(e.ID, iface, EdgeImplements)
	}
}

func (h *Hierarchy) link(from, qualifiedName string, edgeType EdgeType) {
	key := supertypeKey(qualifiedName)
	_ = h.graph.AddVertex(&Node{ID: key, Kind: NodeSupertype, QualifiedName: qualifiedName})
	_ = h.graph.AddEdge(from, key, graph.EdgeAttribute(edgeTypeAttribute, string(edgeType)))
}

// IsSubTypeOf reports whether b's resolved superclass or one of its
// implemented interfaces is a, compared by qualified name. It answers false
// when either entity is missing or b's binding is unresolved.
func (h *Hierarchy) IsSubTypeOf(a, b *model.Entity) bool {
	if a == nil || b == nil {
		return false
	}
	h.AddType(b)
	if !b.Resolved {
		return false
	}
	_, err := h.graph.Edge(b.ID, supertypeKey(a.FullName()))
	return err == nil
}

// Relation returns how b directly relates to a, or "" when it does not.
func (h *Hierarchy) Relation(a, b *model.Entity) EdgeType {
	if !h.IsSubTypeOf(a, b) {
		return ""
	}
	edge, err := h.graph.Edge(b.ID, supertypeKey(a.FullName()))
	if err != nil {
		return ""
	}
	return EdgeType(edge.Properties.Attributes[edgeTypeAttribute])
}

// Supertypes returns the qualified names of b's direct supertypes.
func (h *Hierarchy) Supertypes(b *model.Entity) []string {
	if b == nil {
		return nil
	}
	h.AddType(b)
	adjacency, err := h.graph.AdjacencyMap()
	if err != nil {
		return nil
	}
	var out []string
	for target := range adjacency[b.ID] {
		node, err := h.graph.Vertex(target)
		if err == nil {
			out = append(out, node.QualifiedName)
		}
	}
	sort.Strings(out)
	return out
}
