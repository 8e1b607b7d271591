package racer

import "runners/game"

// gunk slows down the main moves of the other racers.
type gunk struct {
	*Base
}

// React shortens the first main move of another racer by one space. The set
// loses its side effects so they are worked out again for the new landing,
// and everything after it is dropped to be rebuilt.
func (g *gunk) React(state *game.BoardState, changes game.ChangeList) (game.ChangeList, bool) {
	out := make(game.ChangeList, 0, len(changes))

	for _, cs := range changes {
		c, fresh := g.claim(cs)
		if !fresh || c.Flag(game.MoveDecreased) {
			out = append(out, c)
			continue
		}
		for _, pc := range c.Positions {
			if pc.Racer == g.name || pc.Type != game.MainMove {
				continue
			}
			pc.New = state.Track.Clamp(pc.New - 1)
			pc.Intended--

			c.Trips = nil
			c.Eliminations = nil
			c.Points = nil
			if len(c.Messages) > 1 {
				c.Messages = c.Messages[:1]
			}
			c.AddMessage("%s: %s's main move decreased by 1 to space %d", g.name, pc.Racer, pc.New)
			c.TrackDone = false
			c.SetFlag(game.MoveDecreased)
			c.ResetProcessed(g.name)

			return append(out, c), true
		}
		out = append(out, c)
	}
	return out, false
}
