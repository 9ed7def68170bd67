// Package annotation diffs annotation lists and modifier flags between two
// versions of a declaration. The same algorithm serves classes, methods,
// fields, enum constants, parameters and local variables.
package annotation

import "github.com/lyoubo/reextractor/internal/model"

// Modified pairs an old annotation with its changed counterpart.
type Modified struct {
	Old model.Annotation
	New model.Annotation
}

// Diff is the result of comparing two annotation lists.
type Diff struct {
	Removed  []model.Annotation
	Added    []model.Annotation
	Modified []Modified
}

// Empty reports whether the lists were equivalent.
func (d Diff) Empty() bool {
	return len(d.Removed) == 0 && len(d.Added) == 0 && len(d.Modified) == 0
}

// Compute diffs two annotation lists. Entries are paired by exact text
// first; remaining entries sharing a qualified type name are reported as
// modified; everything else is an independent removal or addition. Output
// order follows the input lists.
func Compute(before, after []model.Annotation) Diff {
	oldUsed := make([]bool, len(before))
	newUsed := make([]bool, len(after))

	for i, o := range before {
		for j, n := range after {
			if !newUsed[j] && o.Text == n.Text {
				oldUsed[i], newUsed[j] = true, true
				break
			}
		}
	}

	var d Diff
	for i, o := range before {
		if oldUsed[i] {
			continue
		}
		for j, n := range after {
			if !newUsed[j] && o.TypeName() == n.TypeName() {
				oldUsed[i], newUsed[j] = true, true
				d.Modified = append(d.Modified, Modified{Old: o, New: n})
				break
			}
		}
	}

	for i, o := range before {
		if !oldUsed[i] {
			d.Removed = append(d.Removed, o)
		}
	}
	for j, n := range after {
		if !newUsed[j] {
			d.Added = append(d.Added, n)
		}
	}
	return d
}
