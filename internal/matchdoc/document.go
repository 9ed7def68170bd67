// Package matchdoc reads the correspondence handed over by the
// tree-differencing engine. Documents are YAML or JSON; entities and
// statements are listed once and referenced by ID everywhere else.
package matchdoc

import "github.com/lyoubo/reextractor/internal/model"

// Document is the serialized form of one MatchPair.
type Document struct {
	Commit     string      `yaml:"commit"`
	Entities   []Entity    `yaml:"entities"`
	Statements []Statement `yaml:"statements"`

	MatchedEntities   []Pair   `yaml:"matched_entities"`
	Extracted         []string `yaml:"extracted"`
	Inlined           []string `yaml:"inlined"`
	Added             []string `yaml:"added"`
	MatchedStatements []Pair   `yaml:"matched_statements"`
	AddedStatements   []string `yaml:"added_statements"`
	DeletedStatements []string `yaml:"deleted_statements"`
}

// Pair references an (old, new) correspondence by ID.
type Pair struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// Entity is a declaration. Parent and Dependencies hold entity IDs.
type Entity struct {
	ID          string             `yaml:"id"`
	Kind        model.EntityKind   `yaml:"kind"`
	Namespace   string             `yaml:"namespace"`
	Name        string             `yaml:"name"`
	Parent      string             `yaml:"parent"`
	File        string             `yaml:"file"`
	Range       model.Range        `yaml:"range"`
	Text        string             `yaml:"text"`
	Modifiers   []string           `yaml:"modifiers"`
	Annotations []model.Annotation `yaml:"annotations"`

	QualifiedName string   `yaml:"qualified_name"`
	Superclass    string   `yaml:"superclass"`
	Interfaces    []string `yaml:"interfaces"`
	Resolved      bool     `yaml:"resolved"`

	Constructor      bool        `yaml:"constructor"`
	ReturnType       string      `yaml:"return_type"`
	Parameters       []Parameter `yaml:"parameters"`
	ThrownExceptions []string    `yaml:"thrown_exceptions"`
	Body             string      `yaml:"body"`
	MatchedNodes     int         `yaml:"matched_nodes"`
	UnmatchedNodes   int         `yaml:"unmatched_nodes"`
	Dependencies     []string    `yaml:"dependencies"`

	Type string `yaml:"type"`
}

// Parameter is a method parameter.
type Parameter struct {
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Varargs     bool               `yaml:"varargs"`
	Final       bool               `yaml:"final"`
	Annotations []model.Annotation `yaml:"annotations"`
	Range       model.Range        `yaml:"range"`
	Text        string             `yaml:"text"`
}

// Statement is a statement node. Parent holds a statement ID and Method an
// entity ID. Children are ordered as they appear in the document.
type Statement struct {
	ID               string              `yaml:"id"`
	Kind             model.StatementKind `yaml:"kind"`
	Text             string              `yaml:"text"`
	Role             model.BlockRole     `yaml:"role"`
	Parent           string              `yaml:"parent"`
	Method           string              `yaml:"method"`
	File             string              `yaml:"file"`
	Range            model.Range         `yaml:"range"`
	Expression       string              `yaml:"expression"`
	Variables        []Variable          `yaml:"variables"`
	AnonymousClasses []string            `yaml:"anonymous_classes"`
	Lambdas          []string            `yaml:"lambdas"`
}

// Variable is a declared local.
type Variable struct {
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Initializer string             `yaml:"initializer"`
	Final       bool               `yaml:"final"`
	Annotations []model.Annotation `yaml:"annotations"`
	Range       model.Range        `yaml:"range"`
	Text        string             `yaml:"text"`
}
