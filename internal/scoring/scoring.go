// Package scoring awards points for correct answers and ranks players by total points.
package scoring

import (
	"sort"

	"trivia-room-service/internal/domain"
)

const (
	DefaultMinPoints = 5
	DefaultMaxPoints = 8
)

// Rules bounds the points a correct answer is worth.
type Rules struct {
	MinPoints int
	MaxPoints int
}

// DefaultRules rewards the first correct answer with 8 points, floored at 5.
var DefaultRules = Rules{MinPoints: DefaultMinPoints, MaxPoints: DefaultMaxPoints}

// AwardPoints returns the points for the correct answer at position correctOrderIndex (0-based).
func (r Rules) AwardPoints(correctOrderIndex int) int {
	points := r.MaxPoints - correctOrderIndex
	if points < r.MinPoints {
		return r.MinPoints
	}
	return points
}

// AwardPoints uses DefaultRules.
func AwardPoints(correctOrderIndex int) int {
	return DefaultRules.AwardPoints(correctOrderIndex)
}

// RecomputeRanks assigns competition ranks by descending TotalPoints and returns the players
// in that order. Ties keep their input order and share the rank of the first tied player.
// Each player's PreviousRank is set to its rank before the call.
func RecomputeRanks(players []*domain.Player) []*domain.Player {
	ranked := make([]*domain.Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})

	for i, p := range ranked {
		p.PreviousRank = p.Rank
		if i > 0 && p.TotalPoints == ranked[i-1].TotalPoints {
			p.Rank = ranked[i-1].Rank
			continue
		}
		p.Rank = i + 1
	}
	return ranked
}
