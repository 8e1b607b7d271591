package engine

import "runners/game"

// settle lets every active racer react to changes, in the turn order the
// changes lead to, and resolves the track after every reaction and once more
// at the end of each pass. start is the board before any of the changes.
func (r *Race) settle(start *game.BoardState, changes game.ChangeList) (game.ChangeList, Convergence) {
	track := start.Track
	seen := make(passBoards)

	for pass := 0; pass < r.maxPasses; pass++ {
		r.collector.AddPass()
		reacted := false

		for _, name := range start.Copy().Apply(changes...).ActiveRacers() {
			projected := start.Copy().Apply(changes...)
			if !projected.IsActive(name) {
				continue
			}
			out, ok := r.racers[name].React(start.Copy(), changes)
			changes = out
			if !ok {
				continue
			}
			reacted = true
			r.collector.AddReaction()
			var triggered bool
			if changes, triggered = track.Resolve(start, changes); triggered {
				r.collector.AddTrigger()
			}
		}

		var triggered bool
		if changes, triggered = track.Resolve(start, changes); triggered {
			r.collector.AddTrigger()
		}

		final := start.Copy().Apply(changes...)
		if final.Finished {
			return changes, WouldFinish
		}
		if !reacted && !triggered {
			return changes, Settled
		}
		if repeats(start, changes, final) || seen.revisit(final) {
			return changes, LoopDetected
		}
	}
	return changes, PassLimit
}

// repeats reports whether applying a proper prefix of changes to start
// already gives final, which means the rest of the changes undo themselves.
func repeats(start *game.BoardState, changes game.ChangeList, final *game.BoardState) bool {
	if len(changes) < 2 {
		return false
	}
	state := start.Copy()
	for _, cs := range changes[:len(changes)-1] {
		if state.Apply(cs).Equal(final) {
			return true
		}
	}
	return false
}

// passBoards holds the board reached at the end of every pass, by hash.
type passBoards map[game.StateHash][]*game.BoardState

// revisit reports whether an earlier pass already ended on final, and
// remembers final otherwise.
func (p passBoards) revisit(final *game.BoardState) bool {
	h := final.Hash()
	for _, board := range p[h] {
		if board.Equal(final) {
			return true
		}
	}
	p[h] = append(p[h], final)
	return false
}
