package racer

import (
	"errors"
	"fmt"
	"runners/game"
)

var ErrUnknownRacer = errors.New("unknown racer")

// New builds the named racer for a player.
func New(name game.RacerName, player game.Player, opts ...Option) (Racer, error) {
	base := NewBase(name, player, opts...)
	switch name {
	case game.Banana:
		return &banana{Base: base}, nil
	case game.Gunk:
		return &gunk{Base: base}, nil
	case game.Mouth:
		return &mouth{Base: base}, nil
	case game.Romantic:
		return &romantic{Base: base}, nil
	case game.Suckerfish:
		return &suckerfish{Base: base}, nil
	case game.Egg, game.RocketScientist:
		return base, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRacer, name)
}
