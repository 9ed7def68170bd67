package model

// StatementKind represents the syntactic kind of a statement node.
type StatementKind string

const (
	StmtBlock        StatementKind = "block"
	StmtIf           StatementKind = "if"
	StmtSwitch       StatementKind = "switch"
	StmtSwitchCase   StatementKind = "switch_case"
	StmtFor          StatementKind = "for"
	StmtEnhancedFor  StatementKind = "enhanced_for"
	StmtWhile        StatementKind = "while"
	StmtDo           StatementKind = "do"
	StmtTry          StatementKind = "try"
	StmtCatch        StatementKind = "catch"
	StmtReturn       StatementKind = "return"
	StmtExpression   StatementKind = "expression"
	StmtVariableDecl StatementKind = "variable_declaration"
	StmtThrow        StatementKind = "throw"
	StmtBreak        StatementKind = "break"
	StmtContinue     StatementKind = "continue"
	StmtSynchronized StatementKind = "synchronized"
	StmtLabeled      StatementKind = "labeled"
	StmtOther        StatementKind = "other"
)

// IsLoop reports whether the kind is one of the four loop forms.
func (k StatementKind) IsLoop() bool {
	switch k {
	case StmtFor, StmtEnhancedFor, StmtWhile, StmtDo:
		return true
	}
	return false
}

// BlockRole tags the role a block plays within its parent.
type BlockRole string

const (
	RoleNone    BlockRole = ""
	RoleThen    BlockRole = "then"
	RoleElse    BlockRole = "else"
	RoleTry     BlockRole = "try"
	RoleCatch   BlockRole = "catch"
	RoleFinally BlockRole = "finally"
	RoleBody    BlockRole = "body"
	RoleCase    BlockRole = "case"
)

// Variable is a declared local: a declaration fragment, an enhanced-for
// parameter, a catch parameter or a try resource.
type Variable struct {
	Name        string
	Type        string
	Initializer string
	Final       bool
	Annotations []Annotation
	Range       Range
	Text        string
}

// Statement is one statement or clause in a method body.
type Statement struct {
	ID               string
	Kind             StatementKind
	Text             string
	Role             BlockRole
	Depth            int
	Index            int // position among the parent's children
	Parent           *Statement
	Children         []*Statement
	Method           *Entity
	File             string
	Range            Range
	Expression       string // condition, selector or initializer text
	Variables        []*Variable
	AnonymousClasses []string
	Lambdas          []string
}

// NearestLoop returns the closest enclosing loop, or nil.
func (s *Statement) NearestLoop() *Statement {
	for p := s.Parent; p != nil; p = p.Parent {
		if p.Kind.IsLoop() {
			return p
		}
	}
	return nil
}

// Siblings returns the other children of the statement's parent.
func (s *Statement) Siblings() []*Statement {
	if s.Parent == nil {
		return nil
	}
	out := make([]*Statement, 0, len(s.Parent.Children))
	for _, c := range s.Parent.Children {
		if c != s {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first child block with the given role.
func (s *Statement) Child(role BlockRole) *Statement {
	for _, c := range s.Children {
		if c.Role == role {
			return c
		}
	}
	return nil
}

// SingleVariable returns the only declared variable, or nil when the
// statement declares zero or several.
func (s *Statement) SingleVariable() *Variable {
	if len(s.Variables) != 1 {
		return nil
	}
	return s.Variables[0]
}
