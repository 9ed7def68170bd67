package detector

import (
	"context"
	"fmt"

	"github.com/lyoubo/reextractor/internal/annotation"
	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/parameter"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

// matchedStatementPass inspects every matched statement pair. Each check is
// guarded by the statement kinds it applies to.
func (r *run) matchedStatementPass(ctx context.Context) error {
	for _, p := range r.mp.MatchedStatements {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Old == nil || p.New == nil {
			continue
		}
		r.declarationFacts(p.Old, p.New)
		r.loopFacts(p.Old, p.New)
		r.conditionFacts(p.Old, p.New)
		r.lambdaFact(p.Old, p.New)
		r.pipelineFact(p.Old, p.New)
	}
	return nil
}

// addedStatementPass relates added statements to matched pairs.
func (r *run) addedStatementPass(ctx context.Context) error {
	for _, s := range r.mp.AddedStatements {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s == nil {
			continue
		}
		switch s.Kind {
		case model.StmtVariableDecl:
			r.extractVariable(s)
		case model.StmtIf:
			r.splitConditional(s)
		}
	}
	return nil
}

// deletedStatementPass relates deleted statements to matched pairs.
func (r *run) deletedStatementPass(ctx context.Context) error {
	for _, s := range r.mp.DeletedStatements {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s == nil {
			continue
		}
		switch s.Kind {
		case model.StmtVariableDecl:
			if !r.inlineVariable(s) {
				r.mergeDeclaration(s)
			}
		case model.StmtIf:
			r.mergeConditional(s)
			r.ternary(s)
		}
	}
	return nil
}

// unmatchedStatementPass pairs deleted statements with added ones directly.
// Pairings must be backed by a similar matched context.
func (r *run) unmatchedStatementPass(ctx context.Context) error {
	for _, d := range r.mp.DeletedStatements {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d == nil {
			continue
		}
		for _, a := range r.mp.AddedStatements {
			if a == nil || !r.sameMethod(d, a) {
				continue
			}
			if kind, ok := pipelineKind(d, a); ok && r.dice(d, a) > diceThreshold {
				r.emit(r.statementFact(kind, d, a, "original code", "transformed code"))
				break
			}
		}
	}
	return nil
}

// sameMethod reports whether old and new belong to the two versions of one
// matched method.
func (r *run) sameMethod(old, new *model.Statement) bool {
	return old.Method != nil && r.isMatched(old.Method, new.Method)
}

func (r *run) statementFact(kind refactoring.Kind, old, new *model.Statement, oldDesc, newDesc string) refactoring.Refactoring {
	return refactoring.New(kind,
		refactoring.StatementChange{Subject: methodName(new.Method), Before: []string{old.Text}, After: []string{new.Text}},
		fmt.Sprintf("%s to %s %s", compact(old.Text), compact(new.Text), inMethod(new.Method)),
		[]refactoring.Location{refactoring.StatementLocation(old, oldDesc)},
		[]refactoring.Location{refactoring.StatementLocation(new, newDesc)})
}

func methodName(m *model.Entity) string {
	if m == nil {
		return ""
	}
	return m.Signature()
}

// declarationFacts diffs the variables declared by a matched pair of
// declaration-like statements: local declarations, enhanced-for and catch
// parameters, and try resources.
func (r *run) declarationFacts(old, new *model.Statement) {
	if len(old.Variables) == 0 || len(new.Variables) == 0 {
		return
	}
	for _, pair := range pairVariables(old.Variables, new.Variables) {
		r.variableFacts(old, new, pair[0], pair[1])
	}
}

// pairVariables pairs declared variables by position when both sides
// declare the same number, otherwise by name.
func pairVariables(before, after []*model.Variable) [][2]*model.Variable {
	var out [][2]*model.Variable
	if len(before) == len(after) {
		for i := range before {
			out = append(out, [2]*model.Variable{before[i], after[i]})
		}
		return out
	}
	for _, o := range before {
		for _, n := range after {
			if o.Name == n.Name {
				out = append(out, [2]*model.Variable{o, n})
				break
			}
		}
	}
	return out
}

func (r *run) variableFacts(from, to *model.Statement, o, n *model.Variable) {
	where := inMethod(to.Method)
	left := []refactoring.Location{refactoring.VariableLocation(from, o, "original variable declaration")}
	right := []refactoring.Location{refactoring.VariableLocation(to, n, "changed variable declaration")}

	if o.Name != n.Name {
		r.emit(refactoring.New(refactoring.RenameVariable,
			refactoring.Rename{Old: o.Name, New: n.Name},
			fmt.Sprintf("%s : %s to %s : %s %s", o.Name, o.Type, n.Name, n.Type, where), left, right))
	}
	if o.Type != n.Type {
		r.emit(refactoring.New(refactoring.ChangeVariableType,
			refactoring.TypeChange{Subject: n.Name, Old: o.Type, New: n.Type},
			fmt.Sprintf("%s : %s to %s : %s %s", o.Name, o.Type, n.Name, n.Type, where), left, right))
	}

	d := annotation.Compute(o.Annotations, n.Annotations)
	for _, a := range d.Removed {
		r.emit(refactoring.New(refactoring.RemoveVariableAnnotation,
			refactoring.AnnotationChange{Subject: n.Name, Old: a.Text},
			fmt.Sprintf("%s in variable %s %s", a.Text, o.Name, where),
			[]refactoring.Location{refactoring.AnnotationLocation(from.File, o.Range, a, "removed annotation")}, right))
	}
	for _, a := range d.Added {
		r.emit(refactoring.New(refactoring.AddVariableAnnotation,
			refactoring.AnnotationChange{Subject: n.Name, New: a.Text},
			fmt.Sprintf("%s in variable %s %s", a.Text, n.Name, where),
			left, []refactoring.Location{refactoring.AnnotationLocation(to.File, n.Range, a, "added annotation")}))
	}
	for _, m := range d.Modified {
		r.emit(refactoring.New(refactoring.ModifyVariableAnnotation,
			refactoring.AnnotationChange{Subject: n.Name, Old: m.Old.Text, New: m.New.Text},
			fmt.Sprintf("%s to %s in variable %s %s", m.Old.Text, m.New.Text, n.Name, where),
			[]refactoring.Location{refactoring.AnnotationLocation(from.File, o.Range, m.Old, "original annotation")},
			[]refactoring.Location{refactoring.AnnotationLocation(to.File, n.Range, m.New, "modified annotation")}))
	}

	added, removed := annotation.Modifiers(
		annotation.Flag("final", o.Final), annotation.Flag("final", n.Final), annotation.LocalModifiers)
	for _, m := range added {
		r.emit(refactoring.New(refactoring.AddVariableModifier,
			refactoring.Modifier{Subject: n.Name, Modifier: m},
			fmt.Sprintf("%s in variable %s %s", m, n.Name, where), left, right))
	}
	for _, m := range removed {
		r.emit(refactoring.New(refactoring.RemoveVariableModifier,
			refactoring.Modifier{Subject: n.Name, Modifier: m},
			fmt.Sprintf("%s in variable %s %s", m, o.Name, where), left, right))
	}
}

// loopFacts reports loop-kind changes and loop interchange for a matched
// pair of loops.
func (r *run) loopFacts(old, new *model.Statement) {
	if !old.Kind.IsLoop() || !new.Kind.IsLoop() {
		return
	}
	if old.Kind != new.Kind {
		r.emit(r.statementFact(refactoring.ChangeLoopType, old, new, "original loop", "changed loop"))
	}
	if r.interchanged(old, new) {
		r.emit(r.statementFact(refactoring.LoopInterchange, old, new, "original loop", "interchanged loop"))
	}
}

// interchanged searches the old loop's descendants breadth first for a
// nested loop matched onto the new loop's nearest enclosing loop.
func (r *run) interchanged(old, new *model.Statement) bool {
	outer := new.NearestLoop()
	if outer == nil {
		return false
	}
	queue := append([]*model.Statement(nil), old.Children...)
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if s.Kind.IsLoop() && r.newStmt[s] == outer {
			return true
		}
		queue = append(queue, s.Children...)
	}
	return false
}

// conditionFacts handles matched conditional pairs: switch-to-if rewrites and
// inverted conditions.
func (r *run) conditionFacts(old, new *model.Statement) {
	if old.Kind == model.StmtSwitch && new.Kind == model.StmtIf {
		r.emit(r.statementFact(refactoring.ReplaceSwitchWithIf, old, new, "original switch", "replacing if"))
		return
	}
	if old.Kind != model.StmtIf || new.Kind != model.StmtIf {
		return
	}
	if r.branchesSwapped(old, new) {
		r.log.Debug().
			Str("old", old.ID).
			Str("new", new.ID).
			Msg("Branch swap detected")
	}
	if inverted(old.Expression, new.Expression) {
		r.emit(r.statementFact(refactoring.InvertCondition, old, new, "original conditional", "inverted conditional"))
	}
}

// branchesSwapped reports whether the then branch of old is matched onto the
// else branch of new, or the other way round.
func (r *run) branchesSwapped(old, new *model.Statement) bool {
	oldThen, oldElse := old.Child(model.RoleThen), old.Child(model.RoleElse)
	newThen, newElse := new.Child(model.RoleThen), new.Child(model.RoleElse)
	if oldThen != nil && newElse != nil && r.newStmt[oldThen] == newElse {
		return true
	}
	return oldElse != nil && newThen != nil && r.newStmt[oldElse] == newThen
}

// lambdaFact reports an anonymous class replaced by a lambda.
func (r *run) lambdaFact(old, new *model.Statement) {
	if len(old.AnonymousClasses) == 1 && len(old.Lambdas) == 0 &&
		len(new.Lambdas) == 1 && len(new.AnonymousClasses) == 0 {
		r.emit(refactoring.New(refactoring.ReplaceAnonymousWithLambda,
			refactoring.StatementChange{Subject: methodName(new.Method), Before: old.AnonymousClasses, After: new.Lambdas},
			fmt.Sprintf("%s with %s %s", compact(old.AnonymousClasses[0]), compact(new.Lambdas[0]), inMethod(new.Method)),
			[]refactoring.Location{refactoring.StatementLocation(old, "anonymous class declaration")},
			[]refactoring.Location{refactoring.StatementLocation(new, "lambda expression")}))
	}
}

func (r *run) pipelineFact(old, new *model.Statement) {
	if kind, ok := pipelineKind(old, new); ok {
		r.emit(r.statementFact(kind, old, new, "original code", "transformed code"))
	}
}

// pipelineKind classifies a loop replaced by a stream pipeline or the
// reverse.
func pipelineKind(old, new *model.Statement) (refactoring.Kind, bool) {
	switch {
	case old.Kind.IsLoop() && isPipelineCarrier(new):
		return refactoring.ReplaceLoopWithPipeline, true
	case isPipelineCarrier(old) && new.Kind.IsLoop():
		return refactoring.ReplacePipelineWithLoop, true
	}
	return "", false
}

func isPipelineCarrier(s *model.Statement) bool {
	return (s.Kind == model.StmtExpression || s.Kind == model.StmtReturn) && usesPipeline(s.Text)
}

// usesVariable reports whether a statement refers to name as an identifier.
func usesVariable(s *model.Statement, name string) bool {
	return parameter.UsesIdentifier(s.Text, name)
}
