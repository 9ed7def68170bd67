package detector

import (
	"context"
	"fmt"

	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

func (r *run) extractionPass(ctx context.Context) error {
	for _, e := range r.mp.Extracted {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e != nil && e.Kind == model.KindMethod {
			r.extractOperation(e)
		}
	}
	for _, e := range r.mp.Added {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e != nil && (e.Kind == model.KindClass || e.Kind == model.KindInterface) {
			r.extractClass(e)
		}
	}
	return nil
}

func (r *run) inliningPass(ctx context.Context) error {
	for _, e := range r.mp.Inlined {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e != nil && e.Kind == model.KindMethod {
			r.inlineOperation(e)
		}
	}
	return nil
}

// provable reports whether most of a method body is traced back to matched
// code on the other side.
func provable(m *model.Entity) bool {
	return m.MatchedNodes > m.UnmatchedNodes
}

// extractOperation links an extracted method to every matched method pair
// whose new side it depends on.
func (r *run) extractOperation(extracted *model.Entity) {
	if !provable(extracted) {
		return
	}
	for _, p := range r.methods {
		if !extracted.DependsOn(p.New) {
			continue
		}
		kind := refactoring.ExtractOperation
		if extracted.Namespace != p.New.Namespace {
			kind = refactoring.ExtractAndMoveOperation
		}

		left := []refactoring.Location{refactoring.EntityLocation(p.Old, "source method declaration before extraction")}
		right := []refactoring.Location{
			refactoring.EntityLocation(extracted, "extracted method declaration"),
			refactoring.EntityLocation(p.New, "source method declaration after extraction"),
		}
		fl, fr := r.fragments(p.Old, extracted, "source method declaration before extraction", "extracted method declaration")
		left = append(left, fl...)
		right = append(right, fr...)

		r.emit(refactoring.New(kind,
			refactoring.Extraction{Source: p.Old.Signature(), Target: extracted.Signature()},
			fmt.Sprintf("%s extracted from %s in class %s", extracted.Signature(), p.Old.Signature(), p.Old.Namespace),
			left, right))
	}
}

// inlineOperation links an inlined method to every matched method pair whose
// old side it depends on.
func (r *run) inlineOperation(inlined *model.Entity) {
	if !provable(inlined) {
		return
	}
	for _, p := range r.methods {
		if !inlined.DependsOn(p.Old) {
			continue
		}
		kind := refactoring.InlineOperation
		if inlined.Namespace != p.Old.Namespace {
			kind = refactoring.MoveAndInlineOperation
		}

		left := []refactoring.Location{
			refactoring.EntityLocation(inlined, "inlined method declaration"),
			refactoring.EntityLocation(p.Old, "target method declaration before inline"),
		}
		right := []refactoring.Location{refactoring.EntityLocation(p.New, "target method declaration after inline")}
		fl, fr := r.fragments(inlined, p.New, "inlined method declaration", "target method declaration after inline")
		left = append(left, fl...)
		right = append(right, fr...)

		r.emit(refactoring.New(kind,
			refactoring.Extraction{Source: inlined.Signature(), Target: p.New.Signature()},
			fmt.Sprintf("%s inlined to %s in class %s", inlined.Signature(), p.New.Signature(), p.New.Namespace),
			left, right))
	}
}

// fragments returns the locations of matched statements moving from the old
// method to the new one, in input order.
func (r *run) fragments(old, new *model.Entity, oldDesc, newDesc string) (left, right []refactoring.Location) {
	for _, p := range r.mp.MatchedStatements {
		if p.Old == nil || p.New == nil || p.Old.Method != old || p.New.Method != new {
			continue
		}
		left = append(left, refactoring.StatementLocation(p.Old, oldDesc))
		right = append(right, refactoring.StatementLocation(p.New, newDesc))
	}
	return left, right
}

// origin is an old container whose matched members now live in an added type.
type origin struct {
	old     *model.Entity
	members map[string]string
	pairs   []model.EntityPair
}

// extractClass relates an added type to every old type that lost members to
// it and decides the extraction kind from the direct hierarchy between the
// added type and the old type's new version.
func (r *run) extractClass(added *model.Entity) {
	var origins []*origin
	byOld := make(map[*model.Entity]*origin)
	for _, p := range r.mp.MatchedEntities {
		if p.Old == nil || p.New == nil || p.New.Parent != added || p.Old.Parent == nil {
			continue
		}
		o, ok := byOld[p.Old.Parent]
		if !ok {
			o = &origin{old: p.Old.Parent, members: make(map[string]string)}
			byOld[p.Old.Parent] = o
			origins = append(origins, o)
		}
		o.members[p.Old.Signature()] = p.New.Signature()
		o.pairs = append(o.pairs, p)
	}

	for _, o := range origins {
		newParent := r.newOf[o.old]
		if newParent == nil {
			continue
		}

		var kind refactoring.Kind
		switch {
		case r.hierarchy.IsSubTypeOf(added, newParent):
			kind = refactoring.ExtractSuperclass
			if added.Kind == model.KindInterface {
				kind = refactoring.ExtractInterface
			}
		case r.hierarchy.IsSubTypeOf(newParent, added):
			kind = refactoring.ExtractSubclass
		default:
			kind = refactoring.ExtractClass
		}

		left := []refactoring.Location{refactoring.EntityLocation(o.old, "original type declaration")}
		right := []refactoring.Location{
			refactoring.EntityLocation(added, "extracted type declaration"),
			refactoring.EntityLocation(newParent, "original type declaration after extraction"),
		}
		for _, p := range o.pairs {
			left = append(left, refactoring.EntityLocation(p.Old, "original member declaration"))
			right = append(right, refactoring.EntityLocation(p.New, "extracted member declaration"))
		}

		r.emit(refactoring.New(kind,
			refactoring.Extraction{Source: o.old.FullName(), Target: added.FullName(), Members: o.members},
			fmt.Sprintf("%s from class %s", added.FullName(), o.old.FullName()),
			left, right))
	}
}
