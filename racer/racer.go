package racer

import (
	"math/rand/v2"
	"runners/agent"
	"runners/game"
)

// Racer is a piece on the track together with its ability.
type Racer interface {
	Name() game.RacerName
	Player() game.Player
	// MainMove returns the racer's move for its MAIN_MOVE phase.
	MainMove(state *game.BoardState) *game.ChangeSet
	// OnPhase returns the change sets the racer adds when the race enters phase.
	OnPhase(state *game.BoardState, phase game.Phase) game.ChangeList
	// React inspects pending changes and returns them, possibly amended, along
	// with whether its ability fired. state is the board before any of the changes.
	React(state *game.BoardState, changes game.ChangeList) (game.ChangeList, bool)
}

// InputFunc supplies a main move value in [lo, hi]. ok is false when no value is given.
type InputFunc func(racer game.RacerName, lo, hi int) (value int, ok bool)

type Option func(*Base)

func WithPolicy(policy agent.Policy) Option {
	return func(b *Base) {
		if policy != nil {
			b.policy = policy
		}
	}
}

func WithRoller(roller Roller) Option {
	return func(b *Base) {
		if roller != nil {
			b.roller = roller
		}
	}
}

func WithInput(input InputFunc) Option {
	return func(b *Base) {
		b.input = input
	}
}

// WithRerolls grants a number of rerolls per main move.
func WithRerolls(n int) Option {
	return func(b *Base) {
		if n > 0 {
			b.rerolls = n
		}
	}
}

// Base is a racer without an ability. Archetypes embed it.
type Base struct {
	name    game.RacerName
	player  game.Player
	policy  agent.Policy
	roller  Roller
	input   InputFunc
	rerolls int
}

func NewBase(name game.RacerName, player game.Player, opts ...Option) *Base {
	b := &Base{
		name:   name,
		player: player,
		policy: agent.NewFirstPolicy(),
		roller: NewRandomRoller(rand.Uint64()),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Base) Name() game.RacerName { return b.name }
func (b *Base) Player() game.Player  { return b.player }

// MainMove rolls one die and moves forward. A tripped racer skips the move and gets back up.
func (b *Base) MainMove(state *game.BoardState) *game.ChangeSet {
	cs := game.NewChangeSet()
	if state.IsTripped(b.name) {
		cs.AddTrip(b.name, true, false)
		cs.AddMessage("%s is tripped, skips the main move and gets back up", b.name)
		return cs
	}

	rolls := []int{b.roll()}
	for len(rolls) <= b.rerolls && b.policy.DecideReroll(state, len(rolls)-1, rolls[len(rolls)-1]) {
		rolls = append(rolls, b.roll())
	}
	value := rolls[len(rolls)-1]

	old := state.PositionOf(b.name)
	to := state.Track.NewSpace(old, value)
	cs.AddPosition(b.name, old, to).WithIntended(value).WithRolls(b.name, rolls...)
	cs.AddMessage("%s rolls %d and moves from %d to %d", b.name, value, old, to)
	return cs
}

func (b *Base) roll() int {
	if b.input != nil {
		if v, ok := b.input(b.name, 1, game.DieFaces); ok {
			return clampInt(v, 1, game.DieFaces)
		}
	}
	return b.roller.Roll(1, game.DieFaces)
}

func (b *Base) OnPhase(*game.BoardState, game.Phase) game.ChangeList {
	return nil
}

// React only marks every new change set as seen.
func (b *Base) React(_ *game.BoardState, changes game.ChangeList) (game.ChangeList, bool) {
	out := make(game.ChangeList, 0, len(changes))
	for _, cs := range changes {
		c, _ := b.claim(cs)
		out = append(out, c)
	}
	return out, false
}

// claim copies cs and marks it as seen. fresh is false when the racer already saw it.
func (b *Base) claim(cs *game.ChangeSet) (c *game.ChangeSet, fresh bool) {
	c = cs.Copy()
	if c.IsProcessedBy(b.name) {
		return c, false
	}
	c.MarkProcessed(b.name)
	return c, true
}
