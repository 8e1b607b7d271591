package racer

import (
	"runners/game"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRacer(t *testing.T, name game.RacerName, player game.Player, opts ...Option) Racer {
	t.Helper()
	r, err := New(name, player, opts...)
	require.NoError(t, err)
	return r
}

func trips(changes game.ChangeList) []game.TripChange {
	var all []game.TripChange
	for _, cs := range changes {
		all = append(all, cs.Trips...)
	}
	return all
}

func final(bs *game.BoardState, changes game.ChangeList) *game.BoardState {
	return game.ReplayTo(bs, changes, len(changes))
}

func TestBanana(t *testing.T) {
	setup := func() *game.BoardState {
		return board(game.Mild, map[game.RacerName]int{game.Banana: 5, game.Gunk: 3, game.Mouth: 2},
			game.Banana, game.Gunk, game.Mouth)
	}
	b := newRacer(t, game.Banana, game.P1)

	t.Run("no passing, no trip", func(t *testing.T) {
		out, reacted := b.React(setup(), single(game.Gunk, 3, 4))

		require.False(t, reacted)
		require.Len(t, out, 1)
		require.Empty(t, out[0].Trips)
	})

	t.Run("passing racer is tripped in the same set", func(t *testing.T) {
		out, reacted := b.React(setup(), single(game.Gunk, 3, 7))

		require.True(t, reacted)
		require.Len(t, out, 1, "Trip should be added to the passing set")
		require.Equal(t, []game.TripChange{{Racer: game.Gunk, Before: false, After: true}}, out[0].Trips)
		require.Contains(t, out[0].Messages[0], "trips")
		require.Equal(t, map[game.RacerName]bool{game.Banana: true}, out[0].ProcessedBy)
	})

	t.Run("banana moving while being passed", func(t *testing.T) {
		cs := game.NewChangeSet()
		cs.AddPosition(game.Banana, 5, 6)
		cs.AddPosition(game.Gunk, 3, 8)

		out, reacted := b.React(setup(), game.ChangeList{cs})

		require.True(t, reacted)
		require.Equal(t, game.Gunk, out[0].Trips[0].Racer)
	})

	t.Run("landing on the banana does not trip", func(t *testing.T) {
		_, reacted := b.React(setup(), single(game.Gunk, 3, 5))
		require.False(t, reacted)
	})

	t.Run("starting ahead does not trip", func(t *testing.T) {
		bs := setup()
		bs.Positions[game.Gunk] = 7
		_, reacted := b.React(bs, single(game.Gunk, 7, 10))
		require.False(t, reacted)
	})

	t.Run("moving backwards over it does not trip", func(t *testing.T) {
		bs := setup()
		bs.Positions[game.Gunk] = 7
		_, reacted := b.React(bs, single(game.Gunk, 7, 4))
		require.False(t, reacted)
	})

	t.Run("own move does not trip", func(t *testing.T) {
		out, reacted := b.React(setup(), single(game.Banana, 5, 8))
		require.False(t, reacted)
		require.Empty(t, trips(out))
	})

	t.Run("later sets see the banana where it went", func(t *testing.T) {
		first := single(game.Gunk, 3, 7)[0]
		second := single(game.Banana, 5, 8)[0]

		out, reacted := b.React(setup(), game.ChangeList{first, second})

		require.True(t, reacted)
		require.Len(t, out, 2)
		require.Len(t, out[0].Trips, 1)
		require.Empty(t, out[1].Trips)
	})

	t.Run("trips every passer in one set", func(t *testing.T) {
		cs := game.NewChangeSet()
		cs.AddPosition(game.Gunk, 3, 7)
		cs.AddPosition(game.Mouth, 2, 8)

		out, reacted := b.React(setup(), game.ChangeList{cs})

		require.True(t, reacted)
		require.ElementsMatch(t, []game.RacerName{game.Gunk, game.Mouth},
			[]game.RacerName{out[0].Trips[0].Racer, out[0].Trips[1].Racer})
	})

	t.Run("seen sets are skipped", func(t *testing.T) {
		changes := single(game.Gunk, 3, 7)
		changes[0].MarkProcessed(game.Banana)

		out, reacted := b.React(setup(), changes)

		require.False(t, reacted)
		require.Empty(t, out[0].Trips)
	})
}

func TestGunk(t *testing.T) {
	setup := func() *game.BoardState {
		return board(game.Mild, map[game.RacerName]int{game.Gunk: 5, game.Banana: 3, game.Romantic: 7},
			game.Gunk, game.Banana, game.Romantic)
	}
	g := newRacer(t, game.Gunk, game.P1)

	mainMove := func(racer game.RacerName, from, to int) *game.ChangeSet {
		cs := game.NewChangeSet()
		cs.AddPosition(racer, from, to)
		cs.AddMessage("%s rolls", racer)
		return cs
	}

	t.Run("main move of another racer decreased by one", func(t *testing.T) {
		out, reacted := g.React(setup(), game.ChangeList{mainMove(game.Banana, 3, 8)})

		require.True(t, reacted)
		require.Len(t, out, 1)
		require.Equal(t, 7, out[0].Positions[0].New)
		require.Contains(t, out[0].Messages[len(out[0].Messages)-1], "decreased by 1")
		require.True(t, out[0].Flag(game.MoveDecreased))
	})

	t.Run("non-main moves are not affected", func(t *testing.T) {
		cs := game.NewChangeSet()
		cs.AddPosition(game.Banana, 3, 8).WithType(game.PowerMove)

		out, reacted := g.React(setup(), game.ChangeList{cs})

		require.False(t, reacted)
		require.Equal(t, 8, out[0].Positions[0].New)
	})

	t.Run("own move is not affected", func(t *testing.T) {
		out, reacted := g.React(setup(), game.ChangeList{mainMove(game.Gunk, 5, 10)})

		require.False(t, reacted)
		require.Equal(t, 10, out[0].Positions[0].New)
	})

	t.Run("only the first main move in a set", func(t *testing.T) {
		cs := game.NewChangeSet()
		cs.AddPosition(game.Banana, 3, 8)
		cs.AddPosition(game.Romantic, 7, 10)

		out, reacted := g.React(setup(), game.ChangeList{cs})

		require.True(t, reacted)
		require.Equal(t, 7, out[0].Positions[0].New)
		require.Equal(t, 10, out[0].Positions[1].New)
	})

	t.Run("already decreased moves are left alone", func(t *testing.T) {
		cs := mainMove(game.Banana, 3, 8)
		cs.SetFlag(game.MoveDecreased)

		out, reacted := g.React(setup(), game.ChangeList{cs})

		require.False(t, reacted)
		require.Equal(t, 8, out[0].Positions[0].New)
	})

	t.Run("seen sets are skipped", func(t *testing.T) {
		cs := mainMove(game.Banana, 3, 8)
		cs.MarkProcessed(game.Gunk)

		out, reacted := g.React(setup(), game.ChangeList{cs})

		require.False(t, reacted)
		require.Equal(t, 8, out[0].Positions[0].New)
	})

	t.Run("dampened set is handed back to everyone", func(t *testing.T) {
		cs := mainMove(game.Banana, 3, 8)
		cs.MarkProcessed(game.Romantic)
		cs.TrackDone = true
		cs.AddTrip(game.Banana, false, true)
		cs.AddPoints(game.P2, 1)
		cs.AddElimination(game.Romantic)
		cs.AddMessage("Something else")

		out, _ := g.React(setup(), game.ChangeList{cs})

		require.Equal(t, map[game.RacerName]bool{game.Gunk: true}, out[0].ProcessedBy)
		require.False(t, out[0].TrackDone)
		require.Empty(t, out[0].Trips)
		require.Empty(t, out[0].Points)
		require.Empty(t, out[0].Eliminations)
		require.Equal(t, []string{"Banana rolls"}, out[0].Messages[:1])
		require.Len(t, out[0].Messages, 2)
	})

	t.Run("later sets are discarded", func(t *testing.T) {
		follow := game.NewChangeSet()
		follow.AddPoints(game.P2, 1)

		out, reacted := g.React(setup(), game.ChangeList{mainMove(game.Banana, 3, 8), follow, mainMove(game.Romantic, 7, 9)})

		require.True(t, reacted)
		require.Len(t, out, 1)
		require.Equal(t, 7, out[0].Positions[0].New)
	})

	t.Run("a one roll becomes no movement", func(t *testing.T) {
		out, _ := g.React(setup(), game.ChangeList{mainMove(game.Banana, 3, 4)})

		require.Equal(t, 3, out[0].Positions[0].New)
		require.False(t, out[0].HasMovement())
	})
}

func TestMouth(t *testing.T) {
	setup := func() *game.BoardState {
		return board(game.Mild, map[game.RacerName]int{game.Mouth: 5, game.Gunk: 7, game.Banana: 3},
			game.Mouth, game.Gunk, game.Banana)
	}
	m := newRacer(t, game.Mouth, game.P1)

	t.Run("empty space, no elimination", func(t *testing.T) {
		out, reacted := m.React(setup(), single(game.Mouth, 5, 10))

		require.False(t, reacted)
		require.Len(t, out, 1)
	})

	t.Run("lone racer is eliminated", func(t *testing.T) {
		bs := setup()
		out, reacted := m.React(bs, single(game.Mouth, 5, 7))

		require.True(t, reacted)
		require.Len(t, out, 2)
		require.Equal(t, []game.EliminateChange{{Racer: game.Gunk}}, out[1].Eliminations)
		require.Contains(t, out[1].Messages[0], "eliminates")
		require.True(t, final(bs, out).Eliminated[game.Gunk])
	})

	t.Run("two racers are safe", func(t *testing.T) {
		bs := setup()
		bs.Positions[game.Banana] = 7

		out, reacted := m.React(bs, single(game.Mouth, 5, 7))

		require.False(t, reacted)
		require.Len(t, out, 1)
	})

	t.Run("others moving onto the mouth are safe", func(t *testing.T) {
		_, reacted := m.React(setup(), single(game.Banana, 3, 5))
		require.False(t, reacted)
	})

	t.Run("arriving together with one racer", func(t *testing.T) {
		cs := game.NewChangeSet()
		cs.AddPosition(game.Mouth, 5, 10)
		cs.AddPosition(game.Gunk, 7, 10)

		out, reacted := m.React(setup(), game.ChangeList{cs})

		require.True(t, reacted)
		require.Equal(t, game.Gunk, out[1].Eliminations[0].Racer)
	})

	t.Run("elimination follows the set that caused it", func(t *testing.T) {
		first := single(game.Gunk, 7, 8)[0]
		second := single(game.Mouth, 5, 3)[0]

		out, reacted := m.React(setup(), game.ChangeList{first, second})

		require.True(t, reacted)
		require.Len(t, out, 3)
		require.Equal(t, game.Banana, out[2].Eliminations[0].Racer)
		msg := out[2].Messages[0]
		require.Contains(t, msg, "Mouth")
		require.Contains(t, msg, "Banana")
		require.Contains(t, msg, "3")
	})

	t.Run("seen sets are skipped", func(t *testing.T) {
		changes := single(game.Mouth, 5, 7)
		changes[0].MarkProcessed(game.Mouth)

		out, reacted := m.React(setup(), changes)

		require.False(t, reacted)
		require.Len(t, out, 1)
	})
}

func TestRomantic(t *testing.T) {
	setup := func() *game.BoardState {
		return board(game.Mild, map[game.RacerName]int{
			game.Romantic: 5, game.Gunk: 3, game.Banana: 7, game.Mouth: 20, game.Suckerfish: 22,
		}, game.Romantic, game.Gunk, game.Banana, game.Mouth, game.Suckerfish)
	}
	r := newRacer(t, game.Romantic, game.P1)

	t.Run("no pair, no move", func(t *testing.T) {
		out, reacted := r.React(setup(), single(game.Gunk, 3, 4))

		require.False(t, reacted)
		require.Len(t, out, 1)
	})

	t.Run("arriving next to a racer moves the romantic", func(t *testing.T) {
		out, reacted := r.React(setup(), single(game.Gunk, 3, 7))

		require.True(t, reacted)
		require.Len(t, out, 2)
		pc := out[1].Positions[0]
		require.Equal(t, game.Romantic, pc.Racer)
		require.Equal(t, 5, pc.Old)
		require.Equal(t, 7, pc.New)
		require.Equal(t, game.PowerMove, pc.Type)
		require.Contains(t, out[1].Messages[0], "arrived together")
	})

	t.Run("both arriving together", func(t *testing.T) {
		cs := game.NewChangeSet()
		cs.AddPosition(game.Gunk, 3, 10)
		cs.AddPosition(game.Banana, 7, 10)

		out, reacted := r.React(setup(), game.ChangeList{cs})

		require.True(t, reacted)
		require.Len(t, out, 2)
		require.Equal(t, 7, out[1].Positions[0].New)
	})

	t.Run("existing pair splitting up does not count", func(t *testing.T) {
		bs := setup()
		bs.Positions[game.Gunk] = 7

		_, reacted := r.React(bs, single(game.Gunk, 7, 8))

		require.False(t, reacted)
	})

	t.Run("romantic can be part of the pair", func(t *testing.T) {
		bs := setup()
		out, reacted := r.React(bs, single(game.Romantic, 5, 3))

		require.True(t, reacted)
		require.Equal(t, 5, final(bs, out).PositionOf(game.Romantic))
	})

	t.Run("three on a space is not a pair", func(t *testing.T) {
		bs := setup()
		bs.Positions[game.Romantic] = 10
		bs.Positions[game.Gunk] = 10
		bs.Positions[game.Banana] = 10

		_, reacted := r.React(bs, single(game.Mouth, 20, 10))

		require.False(t, reacted)
	})

	t.Run("clamped at the finish", func(t *testing.T) {
		bs := setup()
		bs.Positions[game.Romantic] = 29
		cs := game.NewChangeSet()
		cs.AddPosition(game.Gunk, 3, 10)
		cs.AddPosition(game.Banana, 7, 10)

		out, reacted := r.React(bs, game.ChangeList{cs})

		require.True(t, reacted)
		require.Equal(t, 30, out[1].Positions[0].New)
	})

	t.Run("every new pair moves the romantic", func(t *testing.T) {
		cs := game.NewChangeSet()
		cs.AddPosition(game.Gunk, 3, 7)
		cs.AddPosition(game.Mouth, 20, 22)

		out, reacted := r.React(setup(), game.ChangeList{cs})

		require.True(t, reacted)
		require.Len(t, out, 3)
		require.Equal(t, 9, final(setup(), out).PositionOf(game.Romantic))
	})

	t.Run("seen sets are skipped", func(t *testing.T) {
		changes := single(game.Gunk, 3, 7)
		changes[0].MarkProcessed(game.Romantic)

		out, reacted := r.React(setup(), changes)

		require.False(t, reacted)
		require.Len(t, out, 1)
	})

	t.Run("joining a pair makes three", func(t *testing.T) {
		bs := setup()
		out, reacted := r.React(bs, single(game.Gunk, 3, 7))
		require.True(t, reacted)

		after := final(bs, out)
		require.Equal(t, 7, after.PositionOf(game.Romantic))
		require.Equal(t, 7, after.PositionOf(game.Gunk))
		require.Equal(t, 7, after.PositionOf(game.Banana))
	})
}

func TestSuckerfish(t *testing.T) {
	setup := func() *game.BoardState {
		return board(game.Mild, map[game.RacerName]int{game.Suckerfish: 5, game.Gunk: 5, game.Banana: 5},
			game.Suckerfish, game.Gunk, game.Banana)
	}

	t.Run("racers leaving other spaces are ignored", func(t *testing.T) {
		policy := &mockPolicy{choice: 1}
		s := newRacer(t, game.Suckerfish, game.P1, WithPolicy(policy))
		bs := setup()
		bs.Positions[game.Gunk] = 3

		out, reacted := s.React(bs, single(game.Gunk, 3, 7))

		require.False(t, reacted)
		require.Len(t, out, 1)
		require.Zero(t, policy.calls, "Policy should not be asked")
	})

	t.Run("rides along when the policy says so", func(t *testing.T) {
		policy := &mockPolicy{choice: 1}
		s := newRacer(t, game.Suckerfish, game.P1, WithPolicy(policy))
		bs := setup()

		out, reacted := s.React(bs, single(game.Gunk, 5, 8))

		require.True(t, reacted)
		require.Len(t, out, 2)
		after := final(bs, out)
		require.Equal(t, after.PositionOf(game.Gunk), after.PositionOf(game.Suckerfish))
		require.Contains(t, out[1].Messages[0], "moves along with")
		require.Equal(t, game.PowerMove, out[1].Positions[0].Type)
	})

	t.Run("stays when the policy picks the no-op", func(t *testing.T) {
		policy := &mockPolicy{choice: 0}
		s := newRacer(t, game.Suckerfish, game.P1, WithPolicy(policy))
		bs := setup()

		out, reacted := s.React(bs, single(game.Gunk, 5, 8))

		require.False(t, reacted)
		require.Len(t, out, 1)
		require.Equal(t, 5, final(bs, out).PositionOf(game.Suckerfish))
		require.Equal(t, 1, policy.calls)
	})

	t.Run("one decision for several leavers", func(t *testing.T) {
		policy := &mockPolicy{choice: 2}
		s := newRacer(t, game.Suckerfish, game.P1, WithPolicy(policy))
		bs := setup()
		cs := game.NewChangeSet()
		cs.AddPosition(game.Gunk, 5, 8)
		cs.AddPosition(game.Banana, 5, 11)

		out, reacted := s.React(bs, game.ChangeList{cs})

		require.True(t, reacted)
		require.Equal(t, 1, policy.calls)
		require.Len(t, policy.lastOpts, 3, "No-op plus one option per leaver")
		require.Equal(t, 5, policy.lastOpts[0].PositionOf(game.Suckerfish))
		require.Equal(t, 8, policy.lastOpts[1].PositionOf(game.Suckerfish))
		require.Equal(t, 11, policy.lastOpts[2].PositionOf(game.Suckerfish))
		require.Equal(t, 11, final(bs, out).PositionOf(game.Suckerfish))
	})

	t.Run("rides go after every other set", func(t *testing.T) {
		policy := &mockPolicy{choice: 1}
		s := newRacer(t, game.Suckerfish, game.P1, WithPolicy(policy))
		first := single(game.Gunk, 5, 8)[0]
		second := game.NewChangeSet()
		second.AddPoints(game.P3, 1)

		out, _ := s.React(setup(), game.ChangeList{first, second})

		require.Len(t, out, 3)
		require.Equal(t, game.Suckerfish, out[2].Positions[0].Racer)
	})

	t.Run("own move starts from the new space", func(t *testing.T) {
		policy := &mockPolicy{choice: 1}
		s := newRacer(t, game.Suckerfish, game.P1, WithPolicy(policy))
		bs := setup()
		cs := game.NewChangeSet()
		cs.AddPosition(game.Suckerfish, 5, 6)
		cs.AddPosition(game.Gunk, 5, 9)

		out, reacted := s.React(bs, game.ChangeList{cs})

		require.True(t, reacted)
		require.Equal(t, 6, out[1].Positions[0].Old)
		require.Equal(t, 9, out[1].Positions[0].New)
	})
}
