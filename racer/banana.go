package racer

import "runners/game"

// banana trips every racer that passes over it.
type banana struct {
	*Base
}

// React trips racers whose move in a change set starts behind the banana and
// ends ahead of it, both before and after the set. Landing on the banana or
// moving backwards over it does not count.
func (b *banana) React(state *game.BoardState, changes game.ChangeList) (game.ChangeList, bool) {
	before := state.Copy()
	out := make(game.ChangeList, 0, len(changes))
	reacted := false

	for _, cs := range changes {
		c, fresh := b.claim(cs)
		if fresh {
			after := before.Copy().Apply(c)
			mine, mineAfter := before.PositionOf(b.name), after.PositionOf(b.name)
			tripped := false
			for _, pc := range c.Positions {
				if pc.Racer == b.name || after.IsTripped(pc.Racer) {
					continue
				}
				if pc.Old < mine && mine < pc.New && pc.Old < mineAfter && mineAfter < pc.New {
					c.AddTrip(pc.Racer, false, true)
					c.AddMessage("%s trips %s for passing on space %d", b.name, pc.Racer, mine)
					tripped = true
				}
			}
			if tripped {
				c.ResetProcessed(b.name)
				reacted = true
			}
		}
		before.Apply(c)
		out = append(out, c)
	}
	return out, reacted
}
