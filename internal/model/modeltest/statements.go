package modeltest

import "github.com/lyoubo/reextractor/internal/model"

// StmtOption customises a built statement.
type StmtOption func(*model.Statement)

// Role sets the block role.
func Role(r model.BlockRole) StmtOption {
	return func(s *model.Statement) { s.Role = r }
}

// Expr sets the condition, selector or initializer text.
func Expr(text string) StmtOption {
	return func(s *model.Statement) { s.Expression = text }
}

// Vars sets declared variables.
func Vars(vars ...*model.Variable) StmtOption {
	return func(s *model.Statement) { s.Variables = vars }
}

// Anonymous sets the anonymous class bodies found in the statement.
func Anonymous(texts ...string) StmtOption {
	return func(s *model.Statement) { s.AnonymousClasses = texts }
}

// Lambdas sets the lambda expressions found in the statement.
func Lambdas(texts ...string) StmtOption {
	return func(s *model.Statement) { s.Lambdas = texts }
}

// Line sets the statement's first and last line.
func Line(n int) StmtOption {
	return func(s *model.Statement) { s.Range = model.Range{StartLine: n, EndLine: n} }
}

// Root builds the body block of a method.
func Root(method *model.Entity) *model.Statement {
	return &model.Statement{
		ID:     nextID(method.ID + "/body"),
		Kind:   model.StmtBlock,
		Text:   "{}",
		Role:   model.RoleBody,
		Method: method,
		File:   method.File,
	}
}

// Stmt builds a statement appended to parent's children.
func Stmt(parent *model.Statement, kind model.StatementKind, text string, opts ...StmtOption) *model.Statement {
	s := &model.Statement{
		ID:     nextID(parent.ID),
		Kind:   kind,
		Text:   text,
		Parent: parent,
		Method: parent.Method,
		File:   parent.File,
		Depth:  parent.Depth + 1,
		Index:  len(parent.Children),
	}
	for _, opt := range opts {
		opt(s)
	}
	parent.Children = append(parent.Children, s)
	return s
}

// Var builds a declared variable.
func Var(name, typ, initializer string) *model.Variable {
	text := typ + " " + name
	if initializer != "" {
		text += " = " + initializer
	}
	return &model.Variable{Name: name, Type: typ, Initializer: initializer, Text: text}
}

// Match builds a matched statement pair.
func Match(old, new *model.Statement) model.StatementPair {
	return model.StatementPair{Old: old, New: new}
}
