package detector

import "github.com/lyoubo/reextractor/internal/model"

// diceThreshold is the minimum context similarity accepted when pairing two
// statements the differencing engine left unmatched.
const diceThreshold = 0.5

// surroundings returns the parent and siblings of a statement.
func surroundings(s *model.Statement) []*model.Statement {
	if s.Parent == nil {
		return nil
	}
	return append([]*model.Statement{s.Parent}, s.Siblings()...)
}

// dice scores how much of the surrounding context of old and new is matched
// onto each other: 2·|overlap| / (|ctx(old)| + |ctx(new)|).
func (r *run) dice(old, new *model.Statement) float64 {
	oldCtx, newCtx := surroundings(old), surroundings(new)
	total := len(oldCtx) + len(newCtx)
	if total == 0 {
		return 0
	}
	inNew := make(map[*model.Statement]bool, len(newCtx))
	for _, s := range newCtx {
		inNew[s] = true
	}
	overlap := 0
	for _, s := range oldCtx {
		if m := r.newStmt[s]; m != nil && inNew[m] {
			overlap++
		}
	}
	return 2 * float64(overlap) / float64(total)
}
