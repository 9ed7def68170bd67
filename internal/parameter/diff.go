package parameter

import (
	"fmt"

	"github.com/lyoubo/reextractor/internal/annotation"
	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

// Diff matches the parameters of a method pair and returns the resulting
// facts: one ReorderParameter when the order changed, per-pair renames, type,
// annotation and modifier changes, then removed and added parameters.
func Diff(before, after *model.Entity) []refactoring.Refactoring {
	c := Match(before, after)
	var out []refactoring.Refactoring

	where := fmt.Sprintf("in method %s from class %s", after.Signature(), after.Namespace)
	methods := func() ([]refactoring.Location, []refactoring.Location) {
		return []refactoring.Location{refactoring.EntityLocation(before, "original method declaration")},
			[]refactoring.Location{refactoring.EntityLocation(after, "method declaration with changed parameters")}
	}

	if c.Reordered {
		l, r := methods()
		oldList, newList := render(before.Parameters), render(after.Parameters)
		out = append(out, refactoring.New(refactoring.ReorderParameter,
			refactoring.Reorder{Subject: after.Signature(), Old: oldList, New: newList},
			fmt.Sprintf("%v to %v %s", oldList, newList, where), l, r))
	}

	for _, p := range c.Matched {
		out = append(out, pairFacts(p, before, after, where)...)
	}

	for _, p := range c.Removed {
		l, r := methods()
		l = append([]refactoring.Location{refactoring.ParameterLocation(p, "removed parameter")}, l...)
		out = append(out, refactoring.New(refactoring.RemoveParameter,
			refactoring.ParameterChange{Subject: after.Signature(), Old: renderOne(p)},
			fmt.Sprintf("%s %s", renderOne(p), where), l, r))
	}
	for _, p := range c.Added {
		l, r := methods()
		r = append([]refactoring.Location{refactoring.ParameterLocation(p, "added parameter")}, r...)
		out = append(out, refactoring.New(refactoring.AddParameter,
			refactoring.ParameterChange{Subject: after.Signature(), New: renderOne(p)},
			fmt.Sprintf("%s %s", renderOne(p), where), l, r))
	}
	return out
}

func pairFacts(p Pair, before, after *model.Entity, where string) []refactoring.Refactoring {
	var out []refactoring.Refactoring
	left := []refactoring.Location{refactoring.ParameterLocation(p.Old, "original variable declaration")}
	right := []refactoring.Location{refactoring.ParameterLocation(p.New, "renamed variable declaration")}

	if p.Old.Name != p.New.Name {
		out = append(out, refactoring.New(refactoring.RenameParameter,
			refactoring.ParameterChange{Subject: after.Signature(), Old: p.Old.Name, New: p.New.Name},
			fmt.Sprintf("%s to %s %s", renderOne(p.Old), renderOne(p.New), where), left, right))
	}
	if p.Old.Type != p.New.Type || p.Old.Varargs != p.New.Varargs {
		right := []refactoring.Location{refactoring.ParameterLocation(p.New, "changed-type variable declaration")}
		out = append(out, refactoring.New(refactoring.ChangeParameterType,
			refactoring.TypeChange{Subject: p.New.Name, Old: typeOf(p.Old), New: typeOf(p.New)},
			fmt.Sprintf("%s to %s %s", renderOne(p.Old), renderOne(p.New), where), left, right))
	}

	d := annotation.Compute(p.Old.Annotations, p.New.Annotations)
	for _, a := range d.Removed {
		out = append(out, refactoring.New(refactoring.RemoveParameterAnnotation,
			refactoring.AnnotationChange{Subject: p.Old.Name, Old: a.Text},
			fmt.Sprintf("%s in parameter %s %s", a.Text, renderOne(p.Old), where),
			[]refactoring.Location{refactoring.AnnotationLocation(p.Old.File, p.Old.Range, a, "removed annotation")}, right))
	}
	for _, a := range d.Added {
		out = append(out, refactoring.New(refactoring.AddParameterAnnotation,
			refactoring.AnnotationChange{Subject: p.New.Name, New: a.Text},
			fmt.Sprintf("%s in parameter %s %s", a.Text, renderOne(p.New), where),
			left, []refactoring.Location{refactoring.AnnotationLocation(p.New.File, p.New.Range, a, "added annotation")}))
	}
	for _, m := range d.Modified {
		out = append(out, refactoring.New(refactoring.ModifyParameterAnnotation,
			refactoring.AnnotationChange{Subject: p.New.Name, Old: m.Old.Text, New: m.New.Text},
			fmt.Sprintf("%s to %s in parameter %s %s", m.Old.Text, m.New.Text, renderOne(p.New), where),
			[]refactoring.Location{refactoring.AnnotationLocation(p.Old.File, p.Old.Range, m.Old, "original annotation")},
			[]refactoring.Location{refactoring.AnnotationLocation(p.New.File, p.New.Range, m.New, "modified annotation")}))
	}

	addedMods, removedMods := annotation.Modifiers(
		annotation.Flag("final", p.Old.Final), annotation.Flag("final", p.New.Final), annotation.LocalModifiers)
	for _, m := range addedMods {
		out = append(out, refactoring.New(refactoring.AddParameterModifier,
			refactoring.Modifier{Subject: p.New.Name, Modifier: m},
			fmt.Sprintf("%s in parameter %s %s", m, renderOne(p.New), where), left, right))
	}
	for _, m := range removedMods {
		out = append(out, refactoring.New(refactoring.RemoveParameterModifier,
			refactoring.Modifier{Subject: p.New.Name, Modifier: m},
			fmt.Sprintf("%s in parameter %s %s", m, renderOne(p.Old), where), left, right))
	}
	return out
}

func typeOf(p *model.Parameter) string {
	if p.Varargs {
		return p.Type + "..."
	}
	return p.Type
}

func renderOne(p *model.Parameter) string {
	return p.Name + " : " + typeOf(p)
}

func render(params []*model.Parameter) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, renderOne(p))
	}
	return out
}
