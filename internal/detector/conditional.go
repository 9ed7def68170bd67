package detector

import (
	"strings"

	"github.com/lyoubo/reextractor/internal/model"
	"github.com/lyoubo/reextractor/internal/refactoring"
)

// splitConditional reports an added if whose condition, together with the
// condition of a neighbouring matched if, was one combined condition before.
func (r *run) splitConditional(s *model.Statement) {
	c := compact(stripParens(s.Expression))
	if c == "" {
		return
	}
	for _, p := range r.mp.MatchedStatements {
		if !conditionalPair(p) || p.New.Method != s.Method || !related(s, p.New) {
			continue
		}
		whole := compact(stripParens(p.Old.Expression))
		part := compact(stripParens(p.New.Expression))
		if !splits(whole, part, c) {
			continue
		}
		r.emit(refactoring.New(refactoring.SplitConditional,
			refactoring.StatementChange{Subject: methodName(s.Method), Before: []string{p.Old.Text}, After: []string{p.New.Text, s.Text}},
			whole+" to ["+part+", "+c+"] "+inMethod(s.Method),
			[]refactoring.Location{refactoring.StatementLocation(p.Old, "original conditional")},
			[]refactoring.Location{
				refactoring.StatementLocation(p.New, "split conditional"),
				refactoring.StatementLocation(s, "split conditional"),
			}))
		return
	}
}

// mergeConditional reports a deleted if whose condition was folded, together
// with the condition of a neighbouring matched if, into one condition.
func (r *run) mergeConditional(s *model.Statement) {
	c := compact(stripParens(s.Expression))
	if c == "" {
		return
	}
	for _, p := range r.mp.MatchedStatements {
		if !conditionalPair(p) || p.Old.Method != s.Method || !related(s, p.Old) {
			continue
		}
		part := compact(stripParens(p.Old.Expression))
		whole := compact(stripParens(p.New.Expression))
		if !splits(whole, part, c) {
			continue
		}
		r.emit(refactoring.New(refactoring.MergeConditional,
			refactoring.StatementChange{Subject: methodName(p.New.Method), Before: []string{p.Old.Text, s.Text}, After: []string{p.New.Text}},
			"["+part+", "+c+"] to "+whole+" "+inMethod(p.New.Method),
			[]refactoring.Location{
				refactoring.StatementLocation(p.Old, "merged conditional"),
				refactoring.StatementLocation(s, "merged conditional"),
			},
			[]refactoring.Location{refactoring.StatementLocation(p.New, "new conditional")}))
		return
	}
}

// ternary reports a deleted if whose condition now drives a conditional
// expression inside a matched declaration. It fires at most once per if.
func (r *run) ternary(s *model.Statement) {
	if compact(s.Expression) == "" {
		return
	}
	candidates := append([]string{s.Expression}, negations(s.Expression)...)
	for _, p := range r.mp.MatchedStatements {
		if p.Old == nil || p.New == nil || p.Old.Method != s.Method ||
			p.Old.Kind != model.StmtVariableDecl || p.New.Kind != model.StmtVariableDecl {
			continue
		}
		for _, c := range candidates {
			if !ternaryOn(p.New.Text, c) {
				continue
			}
			r.emit(refactoring.New(refactoring.ReplaceIfWithTernary,
				refactoring.StatementChange{Subject: methodName(p.New.Method), Before: []string{s.Text, p.Old.Text}, After: []string{p.New.Text}},
				compact(s.Expression)+" "+inMethod(p.New.Method),
				[]refactoring.Location{
					refactoring.StatementLocation(s, "original if statement"),
					refactoring.StatementLocation(p.Old, "original variable declaration"),
				},
				[]refactoring.Location{refactoring.StatementLocation(p.New, "variable declaration with ternary operator")}))
			return
		}
	}
}

func conditionalPair(p model.StatementPair) bool {
	return p.Old != nil && p.New != nil && p.Old.Kind == model.StmtIf && p.New.Kind == model.StmtIf
}

// splits reports whether whole is a strictly larger condition containing both
// part and rest.
func splits(whole, part, rest string) bool {
	if whole == part || whole == rest || part == rest {
		return false
	}
	return strings.Contains(whole, part) && strings.Contains(whole, rest)
}

// related reports whether a and b are siblings or one encloses the other.
func related(a, b *model.Statement) bool {
	return (a.Parent != nil && a.Parent == b.Parent) || encloses(a, b) || encloses(b, a)
}

func encloses(outer, inner *model.Statement) bool {
	for p := inner.Parent; p != nil; p = p.Parent {
		if p == outer {
			return true
		}
	}
	return false
}
