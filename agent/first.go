package agent

import "runners/game"

type firstPolicy struct{}

// NewFirstPolicy returns the default policy: never deviate, never reroll.
func NewFirstPolicy() Policy {
	return firstPolicy{}
}

func (firstPolicy) ChoosePath(*game.BoardState, []*game.BoardState) int { return 0 }
func (firstPolicy) DecideReroll(*game.BoardState, int, int) bool        { return false }
