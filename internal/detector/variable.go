package detector

import (
	"fmt"

	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

// extractVariable reports an added declaration whose initializer was
// previously written inline in a matched statement that now uses the
// variable. The first qualifying statement wins.
func (r *run) extractVariable(s *model.Statement) {
	v := s.SingleVariable()
	if v == nil || v.Initializer == "" {
		return
	}
	for _, p := range r.mp.MatchedStatements {
		if p.Old == nil || p.New == nil || p.New.Method != s.Method {
			continue
		}
		if usesVariable(p.Old, v.Name) || !usesVariable(p.New, v.Name) || !containsFragment(p.Old.Text, v.Initializer) {
			continue
		}
		r.emit(refactoring.New(refactoring.ExtractVariable,
			refactoring.StatementChange{Subject: v.Name, Before: []string{p.Old.Text}, After: []string{s.Text, p.New.Text}},
			fmt.Sprintf("%s : %s %s", v.Name, v.Type, inMethod(s.Method)),
			[]refactoring.Location{refactoring.StatementLocation(p.Old, "statement with the initializer of the extracted variable")},
			[]refactoring.Location{
				refactoring.VariableLocation(s, v, "extracted variable declaration"),
				refactoring.StatementLocation(p.New, "statement with the name of the extracted variable"),
			}))
		return
	}
}

// inlineVariable reports a deleted declaration whose initializer now appears
// in place of the variable in a matched statement, or as the new value of a
// matched return or assignment. The old statement must use the variable.
// It reports whether a fact was emitted.
func (r *run) inlineVariable(s *model.Statement) bool {
	v := s.SingleVariable()
	if v == nil || v.Initializer == "" {
		return false
	}
	for _, p := range r.mp.MatchedStatements {
		if p.Old == nil || p.New == nil || p.Old.Method != s.Method {
			continue
		}
		if !usesVariable(p.Old, v.Name) {
			continue
		}
		replaced := !usesVariable(p.New, v.Name) && containsFragment(p.New.Text, v.Initializer)
		valued := compact(valueOf(p.New)) == compact(v.Initializer) &&
			compact(valueOf(p.Old)) != compact(v.Initializer)
		if !replaced && !valued {
			continue
		}
		r.emit(refactoring.New(refactoring.InlineVariable,
			refactoring.StatementChange{Subject: v.Name, Before: []string{s.Text, p.Old.Text}, After: []string{p.New.Text}},
			fmt.Sprintf("%s : %s %s", v.Name, v.Type, inMethod(s.Method)),
			[]refactoring.Location{
				refactoring.VariableLocation(s, v, "inlined variable declaration"),
				refactoring.StatementLocation(p.Old, "statement with the name of the inlined variable"),
			},
			[]refactoring.Location{refactoring.StatementLocation(p.New, "statement with the initializer of the inlined variable")}))
		return true
	}
	return false
}

// valueOf returns the value of a return statement or the right-hand side of
// an assignment, or "" for other statements.
func valueOf(s *model.Statement) string {
	switch s.Kind {
	case model.StmtReturn:
		return returned(s.Text)
	case model.StmtExpression:
		if _, rhs, ok := assignment(s.Text); ok {
			return rhs
		}
	}
	return ""
}

// mergeDeclaration reports a deleted bare declaration followed by a matched
// assignment to the same variable that the new version declares and
// initializes in one statement.
func (r *run) mergeDeclaration(s *model.Statement) {
	v := s.SingleVariable()
	if v == nil || v.Initializer != "" {
		return
	}
	for _, p := range r.mp.MatchedStatements {
		if p.Old == nil || p.New == nil || p.Old.Method != s.Method || p.Old.Kind != model.StmtExpression {
			continue
		}
		if target, _, ok := assignment(p.Old.Text); !ok || target != v.Name || !follows(p.Old, s) {
			continue
		}
		nv := p.New.SingleVariable()
		if p.New.Kind != model.StmtVariableDecl || nv == nil || nv.Name != v.Name || nv.Initializer == "" {
			continue
		}
		r.emit(refactoring.New(refactoring.MergeDeclarationAndAssignment,
			refactoring.StatementChange{Subject: v.Name, Before: []string{s.Text, p.Old.Text}, After: []string{p.New.Text}},
			fmt.Sprintf("%s with %s to %s %s", compact(s.Text), compact(p.Old.Text), compact(p.New.Text), inMethod(s.Method)),
			[]refactoring.Location{
				refactoring.VariableLocation(s, v, "original variable declaration"),
				refactoring.StatementLocation(p.Old, "original assignment"),
			},
			[]refactoring.Location{refactoring.VariableLocation(p.New, nv, "merged variable declaration")}))
		return
	}
}

// follows reports whether a comes after b in the same body.
func follows(a, b *model.Statement) bool {
	if a.Parent != nil && a.Parent == b.Parent {
		return a.Index > b.Index
	}
	return a.Range.StartLine > b.Range.StartLine
}
