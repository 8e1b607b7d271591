package agent

import (
	"errors"
	"fmt"
	"runners/game"
)

// Policy makes the choices a racer's ability leaves open.
type Policy interface {
	// ChoosePath returns the index of the preferred option. Index 0 is always the no-op option.
	ChoosePath(state *game.BoardState, options []*game.BoardState) int
	// DecideReroll reports whether to roll again after rerolls rerolls already taken.
	DecideReroll(state *game.BoardState, rerolls, rolled int) bool
}

type Kind string

const (
	First  Kind = "first"
	Naive  Kind = "naive"
	Random Kind = "random"
)

var ErrUnknownPolicy = errors.New("unknown policy")

// New returns a policy of the given kind playing for player and racer.
func New(kind Kind, player game.Player, racer game.RacerName, seed uint64) (Policy, error) {
	switch kind {
	case First, "":
		return NewFirstPolicy(), nil
	case Naive:
		return NewNaivePolicy(player, racer), nil
	case Random:
		return NewRandomPolicy(seed), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, kind)
}
