package agent

import "runners/game"

// RerollBelow is the lowest roll the naive policy keeps.
const RerollBelow = 4

type naivePolicy struct {
	player game.Player
	racer  game.RacerName
}

// NewNaivePolicy returns a policy that picks whatever looks best right now.
func NewNaivePolicy(player game.Player, racer game.RacerName) Policy {
	return naivePolicy{player: player, racer: racer}
}

// ChoosePath picks the option with the most points for the player, then the
// furthest position for its racer. Ties go to the earliest option.
func (p naivePolicy) ChoosePath(_ *game.BoardState, options []*game.BoardState) int {
	best := 0
	bestPoints, bestPosition := -1, -1
	for i, option := range options {
		points, position := game.Score(option, p.player, p.racer)
		if points > bestPoints || (points == bestPoints && position > bestPosition) {
			best, bestPoints, bestPosition = i, points, position
		}
	}
	return best
}

func (p naivePolicy) DecideReroll(_ *game.BoardState, _ int, rolled int) bool {
	return rolled < RerollBelow
}
