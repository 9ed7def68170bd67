// Package modeltest provides builders for constructing correspondences in
// tests.
package modeltest

import (
	"fmt"
	"sync/atomic"

	"github.com/lyoubo/reextractor/internal/model"
)

var seq atomic.Int64

func nextID(prefix string) string {
	return fmt.Sprintf("%s#%d", prefix, seq.Add(1))
}

// EntityOption customises a built entity.
type EntityOption func(*model.Entity)

// Modifiers sets the modifier keywords.
func Modifiers(mods ...string) EntityOption {
	return func(e *model.Entity) { e.Modifiers = mods }
}

// Annotations sets the annotations.
func Annotations(anns ...model.Annotation) EntityOption {
	return func(e *model.Entity) { e.Annotations = anns }
}

// Extends sets resolved supertypes.
func Extends(superclass string, interfaces ...string) EntityOption {
	return func(e *model.Entity) {
		e.Superclass = superclass
		e.Interfaces = interfaces
		e.Resolved = true
	}
}

// Unresolved marks the type binding as unavailable.
func Unresolved() EntityOption {
	return func(e *model.Entity) { e.Resolved = false }
}

// Params sets method parameters, stamping them with the method's file.
func Params(params ...*model.Parameter) EntityOption {
	return func(e *model.Entity) {
		for _, p := range params {
			p.File = e.File
		}
		e.Parameters = params
	}
}

// Returns sets the method return type.
func Returns(t string) EntityOption {
	return func(e *model.Entity) { e.ReturnType = t }
}

// Throws sets thrown exception types.
func Throws(types ...string) EntityOption {
	return func(e *model.Entity) { e.ThrownExceptions = types }
}

// Body sets the rendered method body.
func Body(text string) EntityOption {
	return func(e *model.Entity) { e.Body = text }
}

// Nodes sets matched and unmatched body-node counts.
func Nodes(matched, unmatched int) EntityOption {
	return func(e *model.Entity) {
		e.MatchedNodes = matched
		e.UnmatchedNodes = unmatched
	}
}

// DependsOn sets referenced entities.
func DependsOn(deps ...*model.Entity) EntityOption {
	return func(e *model.Entity) { e.Dependencies = deps }
}

// Constructor marks a method as a constructor.
func Constructor() EntityOption {
	return func(e *model.Entity) {
		e.Constructor = true
		e.ReturnType = ""
	}
}

// Lines sets the source line span.
func Lines(start, end int) EntityOption {
	return func(e *model.Entity) { e.Range = model.Range{StartLine: start, EndLine: end} }
}

// Type builds a type declaration in a package or enclosing type.
func Type(kind model.EntityKind, file, namespace, name string, opts ...EntityOption) *model.Entity {
	e := &model.Entity{
		ID:        nextID(namespace + "." + name),
		Kind:      kind,
		Namespace: namespace,
		Name:      name,
		File:      file,
		Text:      string(kind) + " " + name,
		Resolved:  true,
	}
	e.QualifiedName = e.FullName()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Class builds a class declaration.
func Class(file, namespace, name string, opts ...EntityOption) *model.Entity {
	return Type(model.KindClass, file, namespace, name, opts...)
}

// Interface builds an interface declaration.
func Interface(file, namespace, name string, opts ...EntityOption) *model.Entity {
	return Type(model.KindInterface, file, namespace, name, opts...)
}

// Nested builds a type declared inside parent.
func Nested(parent *model.Entity, kind model.EntityKind, name string, opts ...EntityOption) *model.Entity {
	e := Type(kind, parent.File, parent.FullName(), name, opts...)
	e.Parent = parent
	return e
}

// Method builds a method declared in parent.
func Method(parent *model.Entity, name string, opts ...EntityOption) *model.Entity {
	e := &model.Entity{
		ID:         nextID(parent.FullName() + "." + name),
		Kind:       model.KindMethod,
		Namespace:  parent.FullName(),
		Name:       name,
		Parent:     parent,
		File:       parent.File,
		ReturnType: "void",
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Text = e.Signature()
	return e
}

// Field builds a field declared in parent.
func Field(parent *model.Entity, name, typ string, opts ...EntityOption) *model.Entity {
	e := &model.Entity{
		ID:        nextID(parent.FullName() + "." + name),
		Kind:      model.KindField,
		Namespace: parent.FullName(),
		Name:      name,
		Parent:    parent,
		File:      parent.File,
		Type:      typ,
		Text:      typ + " " + name,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnumConstant builds an enum constant declared in parent.
func EnumConstant(parent *model.Entity, name string, opts ...EntityOption) *model.Entity {
	e := Field(parent, name, parent.Name, opts...)
	e.Kind = model.KindEnumConstant
	e.Text = name
	return e
}

// ParamOption customises a built parameter.
type ParamOption func(*model.Parameter)

// Final marks a parameter final.
func Final() ParamOption {
	return func(p *model.Parameter) { p.Final = true }
}

// Varargs marks a parameter as variable arity.
func Varargs() ParamOption {
	return func(p *model.Parameter) { p.Varargs = true }
}

// ParamAnnotations sets parameter annotations.
func ParamAnnotations(anns ...model.Annotation) ParamOption {
	return func(p *model.Parameter) { p.Annotations = anns }
}

// Param builds a parameter.
func Param(name, typ string, opts ...ParamOption) *model.Parameter {
	p := &model.Parameter{Name: name, Type: typ, Text: typ + " " + name}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Annotation builds an annotation with a resolved type name.
func Annotation(text, qualifiedName string) model.Annotation {
	return model.Annotation{Text: text, QualifiedName: qualifiedName}
}

// Pair builds a matched entity pair.
func Pair(old, new *model.Entity) model.EntityPair {
	return model.EntityPair{Old: old, New: new}
}
