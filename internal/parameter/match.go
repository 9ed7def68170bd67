// Package parameter matches the parameter lists of a matched method pair and
// reports the parameter-level refactorings between them.
//
// Matching runs in ordered stages. Each stage only sees the parameters left
// unmatched by the previous ones:
//
//  0. identical name, textual type and varargs flag
//  1. identical name
//  2. identical textual type, guarded against ambiguity
//  3. identical position, only for a single added/removed pair and gated by
//     how the names are used in the method bodies
//
// Anything left over is an added or removed parameter.
package parameter

import (
	"strings"

	"github.com/lyoubo/reextractor/internal/model"
)

// Stage identifies which rule paired two parameters.
type Stage int

const (
	StageIdentical Stage = iota
	StageName
	StageType
	StagePosition
)

func (s Stage) String() string {
	switch s {
	case StageIdentical:
		return "identical"
	case StageName:
		return "name"
	case StageType:
		return "type"
	case StagePosition:
		return "position"
	default:
		return "unknown"
	}
}

// Pair is a matched (old, new) parameter.
type Pair struct {
	Old   *model.Parameter
	New   *model.Parameter
	Stage Stage
}

// Correspondence is the outcome of matching two parameter lists. Every
// parameter of both methods appears exactly once across Matched, Added and
// Removed.
type Correspondence struct {
	Matched   []Pair
	Added     []*model.Parameter
	Removed   []*model.Parameter
	Reordered bool
}

// Match computes the parameter correspondence between two versions of a
// method.
func Match(before, after *model.Entity) Correspondence {
	var c Correspondence

	removed := append([]*model.Parameter(nil), before.Parameters...)
	added := append([]*model.Parameter(nil), after.Parameters...)

	removed, added = c.pairWhere(removed, added, StageIdentical, func(o, n *model.Parameter) bool {
		return o.Name == n.Name && o.Type == n.Type && o.Varargs == n.Varargs
	})
	c.Reordered = reordered(before.Parameters, after.Parameters)

	singleSwap := len(removed) == 1 && len(added) == 1

	removed, added = c.pairWhere(removed, added, StageName, func(o, n *model.Parameter) bool {
		return o.Name == n.Name
	})
	removed, added = c.pairByType(removed, added, before, after)

	if singleSwap && len(removed) == 1 && len(added) == 1 {
		o, n := removed[0], added[0]
		if indexOf(before.Parameters, o) == indexOf(after.Parameters, n) && usageCompatible(before, after, o, n) {
			c.Matched = append(c.Matched, Pair{Old: o, New: n, Stage: StagePosition})
			removed, added = nil, nil
		}
	}

	c.Removed = removed
	c.Added = added
	c.sortMatched(after.Parameters)
	return c
}

// pairWhere pairs each remaining old parameter with the first remaining new
// parameter accepted by match, in list order.
func (c *Correspondence) pairWhere(removed, added []*model.Parameter, stage Stage, match func(o, n *model.Parameter) bool) ([]*model.Parameter, []*model.Parameter) {
	var restRemoved []*model.Parameter
	used := make([]bool, len(added))
	for _, o := range removed {
		paired := false
		for j, n := range added {
			if !used[j] && match(o, n) {
				used[j] = true
				paired = true
				c.Matched = append(c.Matched, Pair{Old: o, New: n, Stage: stage})
				break
			}
		}
		if !paired {
			restRemoved = append(restRemoved, o)
		}
	}
	return restRemoved, remaining(added, used)
}

// pairByType pairs parameters sharing a textual type. A removed parameter is
// left alone when more than one remaining added parameter has its type,
// unless both methods already declared that type at least twice.
func (c *Correspondence) pairByType(removed, added []*model.Parameter, before, after *model.Entity) ([]*model.Parameter, []*model.Parameter) {
	var restRemoved []*model.Parameter
	used := make([]bool, len(added))
	for _, o := range removed {
		var candidates []int
		for j, n := range added {
			if !used[j] && n.Type == o.Type {
				candidates = append(candidates, j)
			}
		}
		if len(candidates) == 0 {
			restRemoved = append(restRemoved, o)
			continue
		}
		if len(candidates) > 1 && !(countType(before.Parameters, o.Type) > 1 && countType(after.Parameters, o.Type) > 1) {
			restRemoved = append(restRemoved, o)
			continue
		}
		j := candidates[0]
		used[j] = true
		c.Matched = append(c.Matched, Pair{Old: o, New: added[j], Stage: StageType})
	}
	return restRemoved, remaining(added, used)
}

// sortMatched orders matched pairs by the new parameter's position.
func (c *Correspondence) sortMatched(after []*model.Parameter) {
	ordered := make([]Pair, 0, len(c.Matched))
	for _, p := range after {
		for _, m := range c.Matched {
			if m.New == p {
				ordered = append(ordered, m)
				break
			}
		}
	}
	c.Matched = ordered
}

// reordered reports whether the parameters present by name on both sides
// appear in a different order. Pure additions and removals are ignored.
func reordered(before, after []*model.Parameter) bool {
	oldNames := names(before)
	newNames := names(after)
	oldCommon := intersect(oldNames, newNames)
	newCommon := intersect(newNames, oldNames)
	if len(oldCommon) != len(newCommon) || len(oldCommon) <= 1 {
		return false
	}
	for i := range oldCommon {
		if oldCommon[i] != newCommon[i] {
			return true
		}
	}
	return false
}

// usageCompatible rejects a positional pairing when the old name is still
// used in the new body or the new name was already used in the old body.
// Constructors are exempt.
func usageCompatible(before, after *model.Entity, o, n *model.Parameter) bool {
	if before.Constructor || after.Constructor {
		return true
	}
	if o.Name == n.Name {
		return true
	}
	return !UsesIdentifier(after.Body, o.Name) && !UsesIdentifier(before.Body, n.Name)
}

// UsesIdentifier reports whether name occurs in text as a standalone
// identifier that is not a member access.
func UsesIdentifier(text, name string) bool {
	if text == "" || name == "" {
		return false
	}
	for from := 0; from+len(name) <= len(text); {
		i := strings.Index(text[from:], name)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(name)
		before := start == 0 || !(identByte(text[start-1]) || text[start-1] == '.')
		after := end == len(text) || !identByte(text[end])
		if before && after {
			return true
		}
		from = start + 1
	}
	return false
}

func identByte(c byte) bool {
	return c == '_' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func remaining(params []*model.Parameter, used []bool) []*model.Parameter {
	var out []*model.Parameter
	for i, p := range params {
		if !used[i] {
			out = append(out, p)
		}
	}
	return out
}

func indexOf(params []*model.Parameter, p *model.Parameter) int {
	for i, q := range params {
		if q == p {
			return i
		}
	}
	return -1
}

func countType(params []*model.Parameter, typ string) int {
	n := 0
	for _, p := range params {
		if p.Type == typ {
			n++
		}
	}
	return n
}

func names(params []*model.Parameter) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, p.Name)
	}
	return out
}

// intersect returns the elements of a also present in b, in a's order.
func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[s] = true
	}
	var out []string
	for _, s := range a {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}
