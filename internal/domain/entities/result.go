package entities

// ScoreBoard holds the accumulated point total of every archetype.
// The fixed-size array makes "always twelve entries" a type-level guarantee:
// untouched archetypes simply stay at zero.
type ScoreBoard [NumArchetypes]int

// Get returns the total for one archetype.
func (b ScoreBoard) Get(a Archetype) int {
	if !a.Valid() {
		return 0
	}
	return b[a]
}

// Sum returns the total of all accumulated points.
func (b ScoreBoard) Sum() int {
	var sum int
	for _, v := range b {
		sum += v
	}
	return sum
}

// ClusterResult is the finalized classification of one completed session.
// Primary and Secondary are ordered descending by score and disjoint.
// Immutable once produced.
type ClusterResult struct {
	Scores    ScoreBoard
	Primary   []Archetype
	Secondary []Archetype
	MetaTitle string // synthesized title of the primary cluster, may be empty
}

// NeedsMetaArchetype reports whether the primary cluster is broad enough to
// warrant the expensive synthesis step.
func (r ClusterResult) NeedsMetaArchetype() bool {
	return len(r.Primary) > 2
}
