package game

import "golang.org/x/exp/slices"

// Resolve applies the effects of the spaces racers land on. Every change set
// the track has not seen yet is marked as seen, and the follow-up sets its
// landings produce are inserted right after it. Follow-ups are resolved in the
// same call, so arrow chains settle before Resolve returns.
// The input list and the board are left untouched.
func (t *Track) Resolve(bs *BoardState, changes ChangeList) (ChangeList, bool) {
	state := bs.Copy()
	pending := changes.Copy()
	triggered := false

	for i := 0; i < len(pending); i++ {
		cs := pending[i]
		if cs.TrackDone {
			state.Apply(cs)
			continue
		}
		cs.TrackDone = true

		before := state
		state = before.Copy().Apply(cs)

		var followUps ChangeList
		for _, pc := range cs.Positions {
			if !pc.Moved() || !before.IsActive(pc.Racer) {
				continue
			}
			for _, prop := range t.PropertiesAt(pc.New) {
				if f := t.land(state, pc, prop); f != nil {
					followUps = append(followUps, f)
				}
			}
		}
		if len(followUps) > 0 {
			triggered = true
			pending = slices.Insert(pending, i+1, followUps...)
		}
	}

	return pending, triggered
}

// land returns the change set caused by pc landing on a space with prop, nil if nothing happens.
func (t *Track) land(after *BoardState, pc *PositionChange, prop SpaceProperty) *ChangeSet {
	cs := NewChangeSet()
	racer := pc.Racer

	if delta, ok := prop.Arrow(); ok {
		target := t.NewSpace(pc.New, delta)
		if target == pc.New {
			return nil
		}
		cs.AddPosition(racer, pc.New, target).WithType(TrackMove)
		cs.AddMessage("%s follows the arrow on space %d to space %d", racer, pc.New, target)
		return cs
	}

	switch prop {
	case TripSpace:
		if after.IsTripped(racer) {
			return nil
		}
		cs.AddTrip(racer, false, true)
		cs.AddMessage("%s lands on the trip space %d and is tripped", racer, pc.New)
	case Star:
		player := after.PlayerOf(racer)
		cs.AddPoints(player, StarPoints)
		cs.AddMessage("%s lands on the star on space %d, %s gains %d point", racer, pc.New, player, StarPoints)
	case Finish:
		cs.AddFinished(racer)
		cs.AddMessage("%s crosses the finish line", racer)
	default:
		return nil
	}
	return cs
}
