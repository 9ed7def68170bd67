// Package graph models the direct type hierarchy of the declarations taking
// part in one detection run and answers subtype queries against it.
package graph

// NodeKind represents the role of a vertex in the hierarchy graph.
type NodeKind string

const (
	NodeDeclared  NodeKind = "declared"  // a type entity present in the input
	NodeSupertype NodeKind = "supertype" // a resolved supertype, keyed by qualified name
)

// Node is a vertex of the hierarchy graph.
type Node struct {
	ID            string   `json:"id"`             // vertex key
	Kind          NodeKind `json:"kind"`           // type of node
	QualifiedName string   `json:"qualified_name"` // resolved qualified name
}

// EdgeType represents the relationship between a type and a supertype.
type EdgeType string

const (
	EdgeExtends    EdgeType = "extends"    // class extends class
	EdgeImplements EdgeType = "implements" // type implements or extends interface
)

const edgeTypeAttribute = "type"

func supertypeKey(qualifiedName string) string {
	return "super:" + qualifiedName
}
