package racer

import "runners/game"

// PairBonus is how far the romantic moves for every new pair of racers on a space.
const PairBonus = 2

// romantic moves forward whenever two racers end up sharing a space.
type romantic struct {
	*Base
}

// React looks for spaces that hold exactly two racers after a change set where
// at least one of the two just arrived. The romantic may be one of them. Each
// such pair moves the romantic ahead in a set placed right after the trigger.
func (r *romantic) React(state *game.BoardState, changes game.ChangeList) (game.ChangeList, bool) {
	before := state.Copy()
	out := make(game.ChangeList, 0, len(changes))
	reacted := false

	for _, cs := range changes {
		c, fresh := r.claim(cs)
		after := before.Copy().Apply(c)
		out = append(out, c)
		if !fresh {
			before = after
			continue
		}

		type pair struct {
			space int
			a, b  game.RacerName
		}
		var pairs []pair
		for space := range after.Track.Spaces {
			racers := after.RacersAt(space)
			if len(racers) != 2 {
				continue
			}
			if before.PositionOf(racers[0]) != space || before.PositionOf(racers[1]) != space {
				pairs = append(pairs, pair{space: space, a: racers[0], b: racers[1]})
			}
		}
		before = after

		for _, p := range pairs {
			if !before.IsActive(r.name) {
				break
			}
			from := before.PositionOf(r.name)
			to := before.Track.NewSpace(from, PairBonus)
			power := game.NewChangeSet()
			power.AddPosition(r.name, from, to).WithType(game.PowerMove)
			power.AddMessage("%s and %s arrived together on space %d, %s moves from %d to %d",
				p.a, p.b, p.space, r.name, from, to)
			before.Apply(power)
			out = append(out, power)
			reacted = true
		}
	}
	return out, reacted
}
