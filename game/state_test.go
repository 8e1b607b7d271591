package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newBoard(racers ...RacerName) *BoardState {
	return NewBoardState(MustTrack(Mild), racers...)
}

func TestNewBoardState(t *testing.T) {
	bs := newBoard(Banana, Gunk, Mouth)

	require.Equal(t, []Player{P1, P2, P3}, bs.Seats)
	require.Equal(t, []Player{P1, P2, P3}, bs.TurnOrder)
	require.Equal(t, Gunk, bs.RacerOf(P2))
	require.Equal(t, P3, bs.PlayerOf(Mouth))
	require.Equal(t, BetweenTurnsPhase, bs.Phase)
	for _, racer := range []RacerName{Banana, Gunk, Mouth} {
		require.Equal(t, 0, bs.PositionOf(racer), "Racers should start on START")
		require.True(t, bs.IsActive(racer))
	}
}

func TestBoardStateApply(t *testing.T) {
	t.Run("applies position and trip changes", func(t *testing.T) {
		bs := newBoard(Banana, Gunk)
		cs := NewChangeSet()
		cs.AddPosition(Banana, 0, 4)
		cs.AddTrip(Gunk, false, true)

		bs.Apply(cs)

		require.Equal(t, 4, bs.PositionOf(Banana))
		require.True(t, bs.IsTripped(Gunk))
	})

	t.Run("start of turn increments the turn counter", func(t *testing.T) {
		bs := newBoard(Banana, Gunk)
		cs := NewChangeSet()
		cs.AddPhase(BetweenTurnsPhase, StartOfTurnPhase)

		bs.Apply(cs)
		require.Equal(t, 1, bs.Turn)
		require.Equal(t, StartOfTurnPhase, bs.Phase)

		other := NewChangeSet()
		other.AddPhase(StartOfTurnPhase, BeforeMainMovePhase)
		bs.Apply(other)
		require.Equal(t, 1, bs.Turn, "Only START_OF_TURN should count")
	})

	t.Run("finishing awards first and second place", func(t *testing.T) {
		bs := newBoard(Banana, Gunk, Mouth)
		first := NewChangeSet()
		first.AddFinished(Gunk)
		bs.Apply(first)

		require.Equal(t, Gunk, bs.First)
		require.Equal(t, FirstPlacePoints, bs.Points[P2])
		require.Equal(t, OffBoard, bs.PositionOf(Gunk))
		require.False(t, bs.IsActive(Gunk))
		require.False(t, bs.Finished, "Race should go on until second place is taken")

		second := NewChangeSet()
		second.AddFinished(Mouth)
		bs.Apply(second)

		require.Equal(t, Mouth, bs.Second)
		require.Equal(t, SecondPlacePoints, bs.Points[P3])
		require.True(t, bs.Finished)
	})

	t.Run("finishing twice awards once", func(t *testing.T) {
		bs := newBoard(Banana, Gunk)
		cs := NewChangeSet()
		cs.AddFinished(Banana)
		cs.AddFinished(Banana)

		bs.Apply(cs)

		require.Equal(t, FirstPlacePoints, bs.Points[P1])
		require.Empty(t, bs.Second)
	})

	t.Run("eliminated racers leave the board and stay off it", func(t *testing.T) {
		bs := newBoard(Banana, Mouth)
		cs := NewChangeSet()
		cs.AddElimination(Banana)
		bs.Apply(cs)

		later := NewChangeSet()
		later.AddPosition(Banana, 3, 5)
		bs.Apply(later)

		require.True(t, bs.Eliminated[Banana])
		require.Equal(t, OffBoard, bs.PositionOf(Banana))
		require.Equal(t, []RacerName{Mouth}, bs.ActiveRacers())
	})

	t.Run("applies sub-effects in fixed order", func(t *testing.T) {
		bs := newBoard(Banana, Gunk)
		cs := NewChangeSet()
		// Finish is applied after the position change even though it was added first
		cs.AddFinished(Banana)
		cs.AddPosition(Banana, 0, 30)
		cs.AddTurnOrder([]Player{P2, P1})

		bs.Apply(cs)

		require.Equal(t, Banana, bs.First)
		require.Equal(t, OffBoard, bs.PositionOf(Banana))
		require.Equal(t, []Player{P2, P1}, bs.TurnOrder)
	})
}

func TestBoardStateCopy(t *testing.T) {
	bs := newBoard(Banana, Gunk)
	c := bs.Copy()

	cs := NewChangeSet()
	cs.AddPosition(Banana, 0, 6)
	cs.AddPoints(P1, 2)
	cs.AddTurnOrder([]Player{P2, P1})
	c.Apply(cs)

	require.Equal(t, 0, bs.PositionOf(Banana), "Original should not move")
	require.Equal(t, 0, bs.Points[P1], "Original points should not change")
	require.Equal(t, []Player{P1, P2}, bs.TurnOrder, "Original turn order should not change")
	require.Same(t, bs.Track, c.Track, "Track should be shared")
}

func TestBoardStateEqual(t *testing.T) {
	t.Run("copies are equal and hash the same", func(t *testing.T) {
		bs := newBoard(Banana, Gunk)
		c := bs.Copy()

		require.True(t, bs.Equal(c))
		require.Equal(t, bs.Hash(), c.Hash())
	})

	t.Run("ignores the turn counter", func(t *testing.T) {
		bs := newBoard(Banana, Gunk)
		c := bs.Copy()
		c.Turn = 7

		require.True(t, bs.Equal(c))
	})

	t.Run("detects moved racers", func(t *testing.T) {
		bs := newBoard(Banana, Gunk)
		c := bs.Copy()
		cs := NewChangeSet()
		cs.AddPosition(Gunk, 0, 1)
		c.Apply(cs)

		require.False(t, bs.Equal(c))
		require.NotEqual(t, bs.Hash(), c.Hash())
	})
}

func TestBoardStateQueries(t *testing.T) {
	bs := newBoard(Banana, Gunk, Mouth)
	cs := NewChangeSet()
	cs.AddPosition(Banana, 0, 4)
	cs.AddPosition(Mouth, 0, 4)
	cs.AddTurnOrder([]Player{P2, P3, P1})
	bs.Apply(cs)

	require.Equal(t, []RacerName{Banana, Mouth}, bs.RacersAt(4), "Racers should be listed in seating order")
	require.Equal(t, []RacerName{Gunk}, bs.RacersAt(0))
	require.Equal(t, []RacerName{Gunk, Mouth, Banana}, bs.ActiveRacers(), "Active racers should follow turn order")
	current, ok := bs.CurrentPlayer()
	require.True(t, ok)
	require.Equal(t, P2, current)
	require.Equal(t, 2, bs.TurnIndex(P1))
}

func TestReplayTo(t *testing.T) {
	initial := newBoard(Banana, Gunk)
	var history ChangeList
	for i := 1; i <= 3; i++ {
		cs := NewChangeSet()
		cs.AddPosition(Banana, i-1, i)
		history = append(history, cs)
	}

	require.Equal(t, 0, ReplayTo(initial, history, 0).PositionOf(Banana))
	require.Equal(t, 2, ReplayTo(initial, history, 2).PositionOf(Banana))
	require.Equal(t, 3, ReplayTo(initial, history, 10).PositionOf(Banana), "Steps past the end should clamp")
	require.Equal(t, 0, initial.PositionOf(Banana), "Initial state should not change")
}

func TestStandings(t *testing.T) {
	bs := newBoard(Banana, Gunk, Mouth)
	cs := NewChangeSet()
	cs.AddPosition(Mouth, 0, 12)
	cs.AddPosition(Banana, 0, 3)
	cs.AddFinished(Gunk)
	bs.Apply(cs)

	standings := Standings(bs)

	require.Len(t, standings, 3)
	require.Equal(t, Gunk, standings[0].Racer)
	require.Equal(t, 1, standings[0].Place)
	require.Equal(t, Mouth, standings[1].Racer, "Racer further ahead should rank higher on equal points")
	require.Equal(t, Banana, standings[2].Racer)
}
