// Package model holds the read-only correspondence between two versions of a
// code base as delivered by the tree-differencing engine.
//
// Nothing in this package is mutated after construction. The detector only
// reads these values and emits refactoring facts.
package model

import "strings"

// EntityKind represents the type of a declared program element.
type EntityKind string

const (
	KindClass        EntityKind = "class"
	KindInterface    EntityKind = "interface"
	KindEnum         EntityKind = "enum"
	KindMethod       EntityKind = "method"
	KindField        EntityKind = "field"
	KindEnumConstant EntityKind = "enum_constant"
)

// IsType reports whether the kind is a type declaration.
func (k EntityKind) IsType() bool {
	return k == KindClass || k == KindInterface || k == KindEnum
}

// Range is a source span. Lines are 1-indexed, columns 0-indexed.
type Range struct {
	StartLine   int `json:"start_line" yaml:"start_line"`
	StartColumn int `json:"start_column" yaml:"start_column"`
	EndLine     int `json:"end_line" yaml:"end_line"`
	EndColumn   int `json:"end_column" yaml:"end_column"`
}

// Annotation is one annotation as written in source.
type Annotation struct {
	Text          string `json:"text" yaml:"text"`                     // e.g. `@SuppressWarnings("unchecked")`
	QualifiedName string `json:"qualified_name" yaml:"qualified_name"` // resolved type, empty when unresolved
}

// TypeName returns the resolved annotation type name, falling back to the
// simple name written in the source text.
func (a Annotation) TypeName() string {
	if a.QualifiedName != "" {
		return a.QualifiedName
	}
	name := strings.TrimPrefix(strings.TrimSpace(a.Text), "@")
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// Parameter is a single method parameter.
type Parameter struct {
	Name        string
	Type        string
	Varargs     bool
	Final       bool
	Annotations []Annotation
	File        string
	Range       Range
	Text        string
}

// Entity is one declared class, interface, enum, method, field or enum
// constant in one version.
type Entity struct {
	ID          string
	Kind        EntityKind
	Namespace   string // qualified containing-type or package path
	Name        string
	Parent      *Entity
	File        string
	Range       Range
	Text        string
	Modifiers   []string
	Annotations []Annotation

	// Type declarations
	QualifiedName string
	Superclass    string
	Interfaces    []string
	Resolved      bool

	// Methods
	Constructor      bool
	ReturnType       string
	Parameters       []*Parameter
	ThrownExceptions []string
	Body             string
	MatchedNodes     int
	UnmatchedNodes   int
	Dependencies     []*Entity

	// Fields and enum constants
	Type string
}

// FullName returns the qualified name of the entity. Types use their resolved
// qualified name when present.
func (e *Entity) FullName() string {
	if e == nil {
		return ""
	}
	if e.QualifiedName != "" {
		return e.QualifiedName
	}
	if e.Namespace == "" {
		return e.Name
	}
	return e.Namespace + "." + e.Name
}

// HasModifier reports whether the modifier keyword is present.
func (e *Entity) HasModifier(m string) bool {
	for _, mod := range e.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

// DependsOn reports whether other is among the entity's referenced entities.
func (e *Entity) DependsOn(other *Entity) bool {
	if e == nil || other == nil {
		return false
	}
	for _, dep := range e.Dependencies {
		if dep == other || (dep != nil && dep.ID == other.ID) {
			return true
		}
	}
	return false
}

// Signature renders a method as `name(T1, T2)`; other entities render as
// their name.
func (e *Entity) Signature() string {
	if e.Kind != KindMethod {
		return e.Name
	}
	types := make([]string, 0, len(e.Parameters))
	for _, p := range e.Parameters {
		t := p.Type
		if p.Varargs {
			t += "..."
		}
		types = append(types, t)
	}
	sig := e.Name + "(" + strings.Join(types, ", ") + ")"
	if e.ReturnType != "" {
		sig += " : " + e.ReturnType
	}
	return sig
}
