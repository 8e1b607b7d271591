package racer

import "runners/game"

// suckerfish may ride along with a racer leaving its space.
type suckerfish struct {
	*Base
}

// React offers the policy one option per racer that leaves the suckerfish's
// space in a change set, plus staying put as option 0. Chosen rides are
// appended after all the other changes.
func (s *suckerfish) React(state *game.BoardState, changes game.ChangeList) (game.ChangeList, bool) {
	before := state.Copy()
	out := make(game.ChangeList, 0, len(changes))
	var rides game.ChangeList

	for _, cs := range changes {
		c, fresh := s.claim(cs)
		out = append(out, c)
		if !fresh || !before.IsActive(s.name) {
			before.Apply(c)
			continue
		}

		mine := before.PositionOf(s.name)
		var leavers []*game.PositionChange
		for _, pc := range c.Positions {
			if pc.Racer != s.name && pc.Old == mine && pc.New != mine {
				leavers = append(leavers, pc)
			}
		}
		after := before.Copy().Apply(c)
		before = after
		if len(leavers) == 0 || !after.IsActive(s.name) {
			continue
		}

		options := []*game.BoardState{after.Copy()}
		for _, pc := range leavers {
			option := after.Copy()
			option.Positions[s.name] = pc.New
			options = append(options, option)
		}
		choice := s.policy.ChoosePath(after, options)
		if choice <= 0 || choice >= len(options) {
			continue
		}

		leaver := leavers[choice-1]
		from := after.PositionOf(s.name)
		ride := game.NewChangeSet()
		ride.AddPosition(s.name, from, leaver.New).WithType(game.PowerMove)
		ride.AddMessage("%s moves along with %s from %d to %d", s.name, leaver.Racer, from, leaver.New)
		before.Apply(ride)
		rides = append(rides, ride)
	}
	return append(out, rides...), len(rides) > 0
}
