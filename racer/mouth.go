package racer

import "runners/game"

// mouth eats a racer it lands next to when they are alone on the space.
type mouth struct {
	*Base
}

func (m *mouth) React(state *game.BoardState, changes game.ChangeList) (game.ChangeList, bool) {
	before := state.Copy()
	out := make(game.ChangeList, 0, len(changes))
	reacted := false

	for _, cs := range changes {
		c, fresh := m.claim(cs)
		before.Apply(c)
		out = append(out, c)
		if !fresh || !m.landed(c) {
			continue
		}

		space := before.PositionOf(m.name)
		if space == game.OffBoard {
			continue
		}
		var others []game.RacerName
		for _, r := range before.RacersAt(space) {
			if r != m.name {
				others = append(others, r)
			}
		}
		if len(others) != 1 {
			continue
		}

		eat := game.NewChangeSet()
		eat.AddElimination(others[0])
		eat.AddMessage("%s eliminates %s on space %d", m.name, others[0], space)
		eat.MarkProcessed(m.name)
		before.Apply(eat)
		out = append(out, eat)
		reacted = true
	}
	return out, reacted
}

func (m *mouth) landed(cs *game.ChangeSet) bool {
	for _, pc := range cs.Positions {
		if pc.Racer == m.name && pc.Moved() {
			return true
		}
	}
	return false
}
