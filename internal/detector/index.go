package detector

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lyoubo/reextractor/internal/graph"
	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

// run holds the read-only lookups and the output of one detection call.
type run struct {
	mp        *model.MatchPair
	log       zerolog.Logger
	hierarchy *graph.Hierarchy

	newOf map[*model.Entity]*model.Entity // matched old entity -> new
	oldOf map[*model.Entity]*model.Entity // matched new entity -> old

	newStmt map[*model.Statement]*model.Statement // matched old statement -> new
	oldStmt map[*model.Statement]*model.Statement // matched new statement -> old

	methods []model.EntityPair // matched method pairs in input order

	out []refactoring.Refactoring
}

func newRun(mp *model.MatchPair, log zerolog.Logger) *run {
	r := &run{
		mp:        mp,
		log:       log,
		hierarchy: graph.NewHierarchy(),
		newOf:     make(map[*model.Entity]*model.Entity, len(mp.MatchedEntities)),
		oldOf:     make(map[*model.Entity]*model.Entity, len(mp.MatchedEntities)),
		newStmt:   make(map[*model.Statement]*model.Statement, len(mp.MatchedStatements)),
		oldStmt:   make(map[*model.Statement]*model.Statement, len(mp.MatchedStatements)),
	}
	for _, p := range mp.MatchedEntities {
		if p.Old == nil || p.New == nil {
			continue
		}
		r.newOf[p.Old] = p.New
		r.oldOf[p.New] = p.Old
		if p.Old.Kind == model.KindMethod && p.New.Kind == model.KindMethod {
			r.methods = append(r.methods, p)
		}
	}
	for _, p := range mp.MatchedStatements {
		if p.Old == nil || p.New == nil {
			continue
		}
		r.newStmt[p.Old] = p.New
		r.oldStmt[p.New] = p.Old
	}
	return r
}

func (r *run) emit(refs ...refactoring.Refactoring) {
	r.out = append(r.out, refs...)
}

// isMatched reports whether (old, new) is a matched entity pair. Missing
// entities are never matched.
func (r *run) isMatched(old, new *model.Entity) bool {
	if old == nil || new == nil {
		return false
	}
	return r.newOf[old] == new
}

// isMove reports whether an entity changed container on its own, as opposed
// to following its container's move or rename.
func (r *run) isMove(old, new *model.Entity) bool {
	return old.Namespace != new.Namespace && !r.isMatched(old.Parent, new.Parent)
}

// inMethod renders the enclosing-method suffix used in descriptions.
func inMethod(m *model.Entity) string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("in method %s from class %s", m.Signature(), m.Namespace)
}

// inContainer renders the enclosing-type suffix used in descriptions.
func inContainer(e *model.Entity) string {
	if e.Kind.IsType() {
		return ""
	}
	return "in class " + e.Namespace
}
