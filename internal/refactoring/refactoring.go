package refactoring

import (
	"fmt"
	"strings"

	"github.com/lyoubo/reextractor/internal/model"
)

// Location describes one code element on either side of a refactoring.
type Location struct {
	File        string `json:"filePath"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	ElementKind string `json:"codeElementType"`
	Description string `json:"description"`
	Code        string `json:"codeElement"`
}

// Refactoring is one detected fact. Values are never modified after New
// returns them.
type Refactoring struct {
	Kind        Kind       `json:"type"`
	Description string     `json:"description"`
	Left        []Location `json:"leftSideLocations"`
	Right       []Location `json:"rightSideLocations"`
	Payload     Payload    `json:"-"`
}

// New builds a fact. The description is the kind's display name followed by
// detail.
func New(kind Kind, payload Payload, detail string, left, right []Location) Refactoring {
	desc := kind.DisplayName()
	if detail = strings.TrimSpace(detail); detail != "" {
		desc += " " + detail
	}
	return Refactoring{
		Kind:        kind,
		Description: desc,
		Left:        append([]Location(nil), left...),
		Right:       append([]Location(nil), right...),
		Payload:     payload,
	}
}

func (r Refactoring) String() string {
	return r.Description
}

// Key identifies a fact by kind, description and locations. Two facts with
// equal keys are interchangeable in a result multiset.
func (r Refactoring) Key() string {
	var b strings.Builder
	b.WriteString(string(r.Kind))
	b.WriteByte('|')
	b.WriteString(r.Description)
	for _, side := range [][]Location{r.Left, r.Right} {
		b.WriteByte('|')
		for _, l := range side {
			fmt.Fprintf(&b, "%s:%d:%d-%d:%d;", l.File, l.StartLine, l.StartColumn, l.EndLine, l.EndColumn)
		}
	}
	return b.String()
}

// Element kinds used in locations.
const (
	ElementType        = "TYPE_DECLARATION"
	ElementMethod      = "METHOD_DECLARATION"
	ElementField       = "FIELD_DECLARATION"
	ElementEnumConst   = "ENUM_CONSTANT_DECLARATION"
	ElementParameter   = "SINGLE_VARIABLE_DECLARATION"
	ElementVariable    = "VARIABLE_DECLARATION_STATEMENT"
	ElementAnnotation  = "ANNOTATION"
	ElementModifier    = "MODIFIER"
	ElementStatement   = "STATEMENT"
	ElementExpression  = "EXPRESSION"
	ElementExceptionTy = "THROWN_EXCEPTION_TYPE"
)

// EntityLocation locates a declaration.
func EntityLocation(e *model.Entity, description string) Location {
	if e == nil {
		return Location{Description: description}
	}
	return Location{
		File:        e.File,
		StartLine:   e.Range.StartLine,
		StartColumn: e.Range.StartColumn,
		EndLine:     e.Range.EndLine,
		EndColumn:   e.Range.EndColumn,
		ElementKind: entityElementKind(e.Kind),
		Description: description,
		Code:        e.Text,
	}
}

func entityElementKind(k model.EntityKind) string {
	switch k {
	case model.KindMethod:
		return ElementMethod
	case model.KindField:
		return ElementField
	case model.KindEnumConstant:
		return ElementEnumConst
	default:
		return ElementType
	}
}

// ParameterLocation locates a parameter declaration.
func ParameterLocation(p *model.Parameter, description string) Location {
	return Location{
		File:        p.File,
		StartLine:   p.Range.StartLine,
		StartColumn: p.Range.StartColumn,
		EndLine:     p.Range.EndLine,
		EndColumn:   p.Range.EndColumn,
		ElementKind: ElementParameter,
		Description: description,
		Code:        p.Text,
	}
}

// StatementLocation locates a statement.
func StatementLocation(s *model.Statement, description string) Location {
	kind := ElementStatement
	if s.Kind == model.StmtVariableDecl {
		kind = ElementVariable
	}
	return Location{
		File:        s.File,
		StartLine:   s.Range.StartLine,
		StartColumn: s.Range.StartColumn,
		EndLine:     s.Range.EndLine,
		EndColumn:   s.Range.EndColumn,
		ElementKind: kind,
		Description: description,
		Code:        s.Text,
	}
}

// VariableLocation locates a variable declared by a statement. The
// variable's own range wins when it is known.
func VariableLocation(s *model.Statement, v *model.Variable, description string) Location {
	loc := StatementLocation(s, description)
	loc.ElementKind = ElementParameter
	if s.Kind == model.StmtVariableDecl {
		loc.ElementKind = ElementVariable
	}
	if v.Range.StartLine > 0 {
		loc.StartLine = v.Range.StartLine
		loc.StartColumn = v.Range.StartColumn
		loc.EndLine = v.Range.EndLine
		loc.EndColumn = v.Range.EndColumn
	}
	if v.Text != "" {
		loc.Code = v.Text
	}
	return loc
}

// AnnotationLocation locates an annotation written on an element.
func AnnotationLocation(file string, r model.Range, a model.Annotation, description string) Location {
	return Location{
		File:        file,
		StartLine:   r.StartLine,
		StartColumn: r.StartColumn,
		EndLine:     r.EndLine,
		EndColumn:   r.EndColumn,
		ElementKind: ElementAnnotation,
		Description: description,
		Code:        a.Text,
	}
}
