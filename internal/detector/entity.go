package detector

import (
	"context"
	"fmt"

	"github.com/lyoubo/reextractor/internal/annotation"
	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/parameter"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

// entityKinds maps the generic entity facts onto the kinds of one
// declaration category.
type entityKinds struct {
	label string

	move, moveRename, rename refactoring.Kind
	pullUp, pushDown         refactoring.Kind // empty for types

	addAnnotation, removeAnnotation, modifyAnnotation refactoring.Kind
	addModifier, removeModifier, access               refactoring.Kind
}

var (
	typeKinds = entityKinds{
		label:            "class",
		move:             refactoring.MoveClass,
		moveRename:       refactoring.MoveAndRenameClass,
		rename:           refactoring.RenameClass,
		addAnnotation:    refactoring.AddClassAnnotation,
		removeAnnotation: refactoring.RemoveClassAnnotation,
		modifyAnnotation: refactoring.ModifyClassAnnotation,
		addModifier:      refactoring.AddClassModifier,
		removeModifier:   refactoring.RemoveClassModifier,
		access:           refactoring.ChangeClassAccessModifier,
	}
	methodKinds = entityKinds{
		label:            "method",
		move:             refactoring.MoveOperation,
		moveRename:       refactoring.MoveAndRenameOperation,
		rename:           refactoring.RenameMethod,
		pullUp:           refactoring.PullUpOperation,
		pushDown:         refactoring.PushDownOperation,
		addAnnotation:    refactoring.AddMethodAnnotation,
		removeAnnotation: refactoring.RemoveMethodAnnotation,
		modifyAnnotation: refactoring.ModifyMethodAnnotation,
		addModifier:      refactoring.AddMethodModifier,
		removeModifier:   refactoring.RemoveMethodModifier,
		access:           refactoring.ChangeOperationAccessModifier,
	}
	attributeKinds = entityKinds{
		label:            "attribute",
		move:             refactoring.MoveAttribute,
		moveRename:       refactoring.MoveAndRenameAttribute,
		rename:           refactoring.RenameAttribute,
		pullUp:           refactoring.PullUpAttribute,
		pushDown:         refactoring.PushDownAttribute,
		addAnnotation:    refactoring.AddAttributeAnnotation,
		removeAnnotation: refactoring.RemoveAttributeAnnotation,
		modifyAnnotation: refactoring.ModifyAttributeAnnotation,
		addModifier:      refactoring.AddAttributeModifier,
		removeModifier:   refactoring.RemoveAttributeModifier,
		access:           refactoring.ChangeAttributeAccessModifier,
	}
)

func (r *run) entityPass(ctx context.Context) error {
	for _, p := range r.mp.MatchedEntities {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Old == nil || p.New == nil {
			continue
		}
		r.classifyEntity(p.Old, p.New)
	}
	return nil
}

func (r *run) classifyEntity(old, new *model.Entity) {
	switch {
	case old.Kind == model.KindMethod && new.Kind == model.KindMethod:
		r.classifyMethod(old, new)
	case old.Kind == model.KindField && new.Kind == model.KindField,
		old.Kind == model.KindEnumConstant && new.Kind == model.KindEnumConstant:
		r.classifyAttribute(old, new)
	case old.Kind.IsType() && new.Kind.IsType():
		r.classifyType(old, new)
	default:
		r.log.Debug().
			Str("old", old.ID).
			Str("new", new.ID).
			Msg("Skipping matched pair with incompatible kinds")
	}
}

func (r *run) classifyMethod(old, new *model.Entity) {
	if r.isMove(old, new) {
		r.moveFact(old, new, methodKinds)
	} else if old.Name != new.Name && !(old.Constructor && new.Constructor) {
		r.renameFact(old, new, methodKinds)
	}

	if !old.Constructor && !new.Constructor && old.ReturnType != new.ReturnType {
		r.emit(refactoring.New(refactoring.ChangeReturnType,
			refactoring.TypeChange{Subject: new.Signature(), Old: old.ReturnType, New: new.ReturnType},
			fmt.Sprintf("%s to %s %s", old.ReturnType, new.ReturnType, inMethod(new)),
			[]refactoring.Location{refactoring.EntityLocation(old, "original return type")},
			[]refactoring.Location{refactoring.EntityLocation(new, "changed return type")}))
	}

	r.exceptionFacts(old, new)
	r.modifierFacts(old, new, methodKinds, annotation.MethodModifiers)
	r.visibilityFact(old, new, methodKinds)
	r.annotationFacts(old, new, methodKinds)
	r.emit(parameter.Diff(old, new)...)
}

func (r *run) classifyAttribute(old, new *model.Entity) {
	if r.isMove(old, new) {
		r.moveFact(old, new, attributeKinds)
	} else if old.Name != new.Name {
		r.renameFact(old, new, attributeKinds)
	}

	if old.Kind == model.KindField {
		if old.Type != new.Type {
			r.emit(refactoring.New(refactoring.ChangeAttributeType,
				refactoring.TypeChange{Subject: new.Name, Old: old.Type, New: new.Type},
				fmt.Sprintf("%s : %s to %s : %s %s", old.Name, old.Type, new.Name, new.Type, inContainer(new)),
				[]refactoring.Location{refactoring.EntityLocation(old, "original attribute declaration")},
				[]refactoring.Location{refactoring.EntityLocation(new, "changed-type attribute declaration")}))
		}
		r.modifierFacts(old, new, attributeKinds, annotation.FieldModifiers)
	}
	r.visibilityFact(old, new, attributeKinds)
	r.annotationFacts(old, new, attributeKinds)
}

func (r *run) classifyType(old, new *model.Entity) {
	if r.isMove(old, new) {
		r.moveFact(old, new, typeKinds)
	} else if old.Name != new.Name {
		r.renameFact(old, new, typeKinds)
	}

	if old.Kind != new.Kind {
		r.emit(refactoring.New(refactoring.ChangeTypeDeclarationKind,
			refactoring.TypeChange{Subject: new.FullName(), Old: string(old.Kind), New: string(new.Kind)},
			fmt.Sprintf("%s to %s for type %s", old.Kind, new.Kind, new.FullName()),
			[]refactoring.Location{refactoring.EntityLocation(old, "original type declaration")},
			[]refactoring.Location{refactoring.EntityLocation(new, "changed type declaration")}))
	}
	r.annotationFacts(old, new, typeKinds)
	r.modifierFacts(old, new, typeKinds, annotation.ClassModifiers)
	r.visibilityFact(old, new, typeKinds)
}

// moveFact emits exactly one of pull-up, push-down, move-and-rename or move.
// Pull-up and push-down are only decided for members, from the direct
// relation between the old and new containers.
func (r *run) moveFact(old, new *model.Entity, k entityKinds) {
	kind := k.move
	switch {
	case k.pullUp != "" && r.hierarchy.IsSubTypeOf(new.Parent, old.Parent):
		kind = k.pullUp
	case k.pushDown != "" && r.hierarchy.IsSubTypeOf(old.Parent, new.Parent):
		kind = k.pushDown
	case old.Name != new.Name:
		kind = k.moveRename
	}

	payload := refactoring.Move{
		OldName:      old.Name,
		NewName:      new.Name,
		OldContainer: old.Namespace,
		NewContainer: new.Namespace,
	}

	var detail string
	if k == typeKinds {
		detail = fmt.Sprintf("%s moved to %s", old.FullName(), new.FullName())
	} else {
		detail = fmt.Sprintf("%s from class %s to %s from class %s",
			old.Signature(), old.Namespace, new.Signature(), new.Namespace)
	}

	r.emit(refactoring.New(kind, payload, detail,
		[]refactoring.Location{refactoring.EntityLocation(old, "original "+k.label+" declaration")},
		[]refactoring.Location{refactoring.EntityLocation(new, "moved "+k.label+" declaration")}))
}

func (r *run) renameFact(old, new *model.Entity, k entityKinds) {
	var detail string
	if k == typeKinds {
		detail = fmt.Sprintf("%s renamed to %s", old.FullName(), new.FullName())
	} else {
		detail = fmt.Sprintf("%s renamed to %s %s", old.Signature(), new.Signature(), inContainer(new))
	}
	r.emit(refactoring.New(k.rename,
		refactoring.Rename{Old: old.Name, New: new.Name},
		detail,
		[]refactoring.Location{refactoring.EntityLocation(old, "original "+k.label+" declaration")},
		[]refactoring.Location{refactoring.EntityLocation(new, "renamed "+k.label+" declaration")}))
}

// exceptionFacts compares thrown exception types by name. A one-sided change
// yields one fact per type; a change on both sides yields a single
// ChangeThrownExceptionType carrying both sets.
func (r *run) exceptionFacts(old, new *model.Entity) {
	removed := difference(old.ThrownExceptions, new.ThrownExceptions)
	added := difference(new.ThrownExceptions, old.ThrownExceptions)
	left := []refactoring.Location{refactoring.EntityLocation(old, "original method declaration")}
	right := []refactoring.Location{refactoring.EntityLocation(new, "method declaration with changed thrown exception type")}

	switch {
	case len(removed) > 0 && len(added) > 0:
		r.emit(refactoring.New(refactoring.ChangeThrownExceptionType,
			refactoring.ExceptionChange{Subject: new.Signature(), Removed: removed, Added: added},
			fmt.Sprintf("%v to %v %s", removed, added, inMethod(new)), left, right))
	case len(removed) > 0:
		for _, e := range removed {
			r.emit(refactoring.New(refactoring.RemoveThrownExceptionType,
				refactoring.ExceptionChange{Subject: new.Signature(), Removed: []string{e}},
				fmt.Sprintf("%s %s", e, inMethod(new)), left, right))
		}
	case len(added) > 0:
		for _, e := range added {
			r.emit(refactoring.New(refactoring.AddThrownExceptionType,
				refactoring.ExceptionChange{Subject: new.Signature(), Added: []string{e}},
				fmt.Sprintf("%s %s", e, inMethod(new)), left, right))
		}
	}
}

func (r *run) modifierFacts(old, new *model.Entity, k entityKinds, tracked []string) {
	added, removed := annotation.Modifiers(old.Modifiers, new.Modifiers, tracked)
	left := []refactoring.Location{refactoring.EntityLocation(old, "original "+k.label+" declaration")}
	right := []refactoring.Location{refactoring.EntityLocation(new, k.label+" declaration with changed modifier")}
	for _, m := range added {
		r.emit(refactoring.New(k.addModifier,
			refactoring.Modifier{Subject: new.Name, Modifier: m},
			fmt.Sprintf("%s in %s %s %s", m, k.label, new.Signature(), inContainer(new)), left, right))
	}
	for _, m := range removed {
		r.emit(refactoring.New(k.removeModifier,
			refactoring.Modifier{Subject: new.Name, Modifier: m},
			fmt.Sprintf("%s in %s %s %s", m, k.label, old.Signature(), inContainer(old)), left, right))
	}
}

func (r *run) visibilityFact(old, new *model.Entity, k entityKinds) {
	before, after := refactoring.VisibilityOf(old), refactoring.VisibilityOf(new)
	if before == after {
		return
	}
	r.emit(refactoring.New(k.access,
		refactoring.VisibilityChange{Subject: new.Name, Old: before, New: after},
		fmt.Sprintf("%s to %s in %s %s %s", before, after, k.label, new.Signature(), inContainer(new)),
		[]refactoring.Location{refactoring.EntityLocation(old, "original "+k.label+" declaration")},
		[]refactoring.Location{refactoring.EntityLocation(new, k.label+" declaration with changed access modifier")}))
}

func (r *run) annotationFacts(old, new *model.Entity, k entityKinds) {
	d := annotation.Compute(old.Annotations, new.Annotations)
	left := refactoring.EntityLocation(old, "original "+k.label+" declaration")
	right := refactoring.EntityLocation(new, k.label+" declaration with changed annotation")
	where := fmt.Sprintf("in %s %s %s", k.label, new.Signature(), inContainer(new))

	for _, a := range d.Removed {
		r.emit(refactoring.New(k.removeAnnotation,
			refactoring.AnnotationChange{Subject: new.Name, Old: a.Text},
			a.Text+" "+where,
			[]refactoring.Location{refactoring.AnnotationLocation(old.File, old.Range, a, "removed annotation")},
			[]refactoring.Location{right}))
	}
	for _, a := range d.Added {
		r.emit(refactoring.New(k.addAnnotation,
			refactoring.AnnotationChange{Subject: new.Name, New: a.Text},
			a.Text+" "+where,
			[]refactoring.Location{left},
			[]refactoring.Location{refactoring.AnnotationLocation(new.File, new.Range, a, "added annotation")}))
	}
	for _, m := range d.Modified {
		r.emit(refactoring.New(k.modifyAnnotation,
			refactoring.AnnotationChange{Subject: new.Name, Old: m.Old.Text, New: m.New.Text},
			fmt.Sprintf("%s to %s %s", m.Old.Text, m.New.Text, where),
			[]refactoring.Location{refactoring.AnnotationLocation(old.File, old.Range, m.Old, "original annotation")},
			[]refactoring.Location{refactoring.AnnotationLocation(new.File, new.Range, m.New, "modified annotation")}))
	}
}

// difference returns the items of a missing from b, in a's order.
func difference(a, b []string) []string {
	seen := make(map[string]bool, len(b))
	for _, s := range b {
		seen[s] = true
	}
	var out []string
	for _, s := range a {
		if !seen[s] {
			out = append(out, s)
			seen[s] = true
		}
	}
	return out
}
