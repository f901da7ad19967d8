// Package scoring converts a completed session's answers into a ranked,
// thresholded archetype classification. It is pure: no I/O, no concurrency.
package scoring

import (
	"sort"

	"github.com/NCobrimark/Archetype-UA/internal/catalog"
	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

const (
	maxPrimarySize   = 3
	maxSecondarySize = 3
)

// Score aggregates answers into a ScoreBoard and clusters the result.
//
// Unresolvable answers (unknown question, unknown option) and the free-text
// option contribute nothing and never raise: a user who invested time into
// the full test always gets a result.
func Score(cat *catalog.Catalog, answers []entities.Answer) entities.ClusterResult {
	var board entities.ScoreBoard

	for _, ans := range answers {
		q, err := cat.Question(ans.QuestionID)
		if err != nil {
			continue
		}
		opt, ok := q.Option(ans.OptionID)
		if !ok || opt.Archetype == nil {
			continue
		}
		board[*opt.Archetype] += opt.Points
	}

	return cluster(board)
}

// cluster ranks all twelve archetypes and builds the primary and secondary
// clusters. Ties break by declaration order, so identical inputs always
// produce identical output.
func cluster(board entities.ScoreBoard) entities.ClusterResult {
	ranked := entities.AllArchetypes()
	sort.SliceStable(ranked, func(i, j int) bool {
		return board[ranked[i]] > board[ranked[j]]
	})

	// The top archetype is always primary. Each next one joins only while it
	// is within 10% of the immediately preceding score, boundary inclusive.
	// A zero predecessor disqualifies the chain.
	primary := []entities.Archetype{ranked[0]}
	for i := 1; i < len(ranked) && len(primary) < maxPrimarySize; i++ {
		prev := board[ranked[i-1]]
		cur := board[ranked[i]]
		if prev == 0 || (prev-cur)*10 > prev {
			break
		}
		primary = append(primary, ranked[i])
	}

	secondary := make([]entities.Archetype, 0, maxSecondarySize)
	for i := len(primary); i < len(ranked) && len(secondary) < maxSecondarySize; i++ {
		secondary = append(secondary, ranked[i])
	}

	return entities.ClusterResult{
		Scores:    board,
		Primary:   primary,
		Secondary: secondary,
	}
}
