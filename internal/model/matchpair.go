package model

// EntityPair is a matched (old, new) declaration.
type EntityPair struct {
	Old *Entity
	New *Entity
}

// StatementPair is a matched (old, new) statement.
type StatementPair struct {
	Old *Statement
	New *Statement
}

// MatchPair is the complete correspondence computed for one commit and its
// parent. It is the sole input of detection.
type MatchPair struct {
	CommitID string

	MatchedEntities []EntityPair
	Extracted       []*Entity // new-side methods extracted from a matched method
	Inlined         []*Entity // old-side methods inlined into a matched method
	Added           []*Entity // new-side entities without counterpart

	MatchedStatements []StatementPair
	AddedStatements   []*Statement
	DeletedStatements []*Statement
}

// Size returns the number of entries across all sets.
func (mp *MatchPair) Size() int {
	return len(mp.MatchedEntities) + len(mp.Extracted) + len(mp.Inlined) + len(mp.Added) +
		len(mp.MatchedStatements) + len(mp.AddedStatements) + len(mp.DeletedStatements)
}
