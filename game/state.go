package game

import (
	"encoding/binary"
	"hash/fnv"
	"runners/utils"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// BoardState is the dynamic state of a race. The track is static and shared between copies.
type BoardState struct {
	Track      *Track               `json:"track"`
	Seats      []Player             `json:"seats"` // Seating order, fixed for the race
	Racers     map[Player]RacerName `json:"racers"`
	TurnOrder  []Player             `json:"turnOrder"` // Front is the current player
	Phase      Phase                `json:"phase"`
	Turn       int                  `json:"turn"` // Incremented on every START_OF_TURN
	Positions  map[RacerName]int    `json:"positions"`
	Tripped    map[RacerName]bool   `json:"tripped"`
	Points     map[Player]int       `json:"points"`
	First      RacerName            `json:"first,omitempty"`
	Second     RacerName            `json:"second,omitempty"`
	Eliminated map[RacerName]bool   `json:"eliminated"`
	Finished   bool                 `json:"finished"` // Both placements are taken
}

// NewBoardState seats the racers in order as P1, P2, ... on the START space.
func NewBoardState(track *Track, racers ...RacerName) *BoardState {
	bs := &BoardState{
		Track:      track,
		Seats:      make([]Player, len(racers)),
		Racers:     make(map[Player]RacerName, len(racers)),
		Phase:      BetweenTurnsPhase,
		Positions:  make(map[RacerName]int, len(racers)),
		Tripped:    make(map[RacerName]bool, len(racers)),
		Points:     make(map[Player]int, len(racers)),
		Eliminated: make(map[RacerName]bool),
	}
	for i, racer := range racers {
		player := Player(i + 1)
		bs.Seats[i] = player
		bs.Racers[player] = racer
		bs.Positions[racer] = 0
		bs.Tripped[racer] = false
		bs.Points[player] = 0
	}
	bs.TurnOrder = slices.Clone(bs.Seats)
	return bs
}

// copy of the BoardState. The track is shared.
func (bs *BoardState) Copy() *BoardState {
	return &BoardState{
		Track:      bs.Track,
		Seats:      slices.Clone(bs.Seats),
		Racers:     maps.Clone(bs.Racers),
		TurnOrder:  slices.Clone(bs.TurnOrder),
		Phase:      bs.Phase,
		Turn:       bs.Turn,
		Positions:  maps.Clone(bs.Positions),
		Tripped:    maps.Clone(bs.Tripped),
		Points:     maps.Clone(bs.Points),
		First:      bs.First,
		Second:     bs.Second,
		Eliminated: maps.Clone(bs.Eliminated),
		Finished:   bs.Finished,
	}
}

// Apply applies the change sets in order.
func (bs *BoardState) Apply(changes ...*ChangeSet) *BoardState {
	for _, cs := range changes {
		bs.apply(cs)
	}
	return bs
}

func (bs *BoardState) apply(cs *ChangeSet) {
	for _, pc := range cs.Positions {
		if bs.IsActive(pc.Racer) {
			bs.Positions[pc.Racer] = pc.New
		}
	}
	for _, tc := range cs.Trips {
		if bs.IsActive(tc.Racer) {
			bs.Tripped[tc.Racer] = tc.After
		}
	}
	for _, ec := range cs.Eliminations {
		if bs.IsActive(ec.Racer) {
			if bs.Eliminated == nil {
				bs.Eliminated = make(map[RacerName]bool)
			}
			bs.Eliminated[ec.Racer] = true
			bs.Positions[ec.Racer] = OffBoard
			bs.Tripped[ec.Racer] = false
		}
	}
	for _, pc := range cs.Points {
		bs.Points[pc.Player] += pc.Delta
	}
	for _, ph := range cs.Phases {
		bs.Phase = ph.New
		if ph.New == StartOfTurnPhase {
			bs.Turn++
		}
	}
	for _, tc := range cs.TurnOrders {
		bs.TurnOrder = slices.Clone(tc.Order)
	}
	for _, racer := range cs.Finished {
		bs.finish(racer)
	}
}

func (bs *BoardState) finish(racer RacerName) {
	if !bs.IsActive(racer) {
		return
	}
	bs.Positions[racer] = OffBoard
	bs.Tripped[racer] = false
	switch {
	case bs.First == "":
		bs.First = racer
		bs.Points[bs.PlayerOf(racer)] += FirstPlacePoints
	case bs.Second == "":
		bs.Second = racer
		bs.Points[bs.PlayerOf(racer)] += SecondPlacePoints
	}
	bs.Finished = bs.First != "" && bs.Second != ""
}

// PositionOf returns the space of a racer, OffBoard once it left the race.
func (bs *BoardState) PositionOf(racer RacerName) int {
	pos, ok := bs.Positions[racer]
	if !ok {
		return OffBoard
	}
	return pos
}

func (bs *BoardState) IsTripped(racer RacerName) bool {
	return bs.Tripped[racer]
}

func (bs *BoardState) HasFinished(racer RacerName) bool {
	return racer != "" && (racer == bs.First || racer == bs.Second)
}

// IsActive reports whether the racer is in the race and has neither finished nor been eliminated.
func (bs *BoardState) IsActive(racer RacerName) bool {
	if _, ok := bs.Positions[racer]; !ok {
		return false
	}
	return !bs.Eliminated[racer] && !bs.HasFinished(racer)
}

// PlayerOf returns the player controlling the racer, 0 if nobody does.
func (bs *BoardState) PlayerOf(racer RacerName) Player {
	for _, player := range bs.Seats {
		if bs.Racers[player] == racer {
			return player
		}
	}
	return 0
}

func (bs *BoardState) RacerOf(player Player) RacerName {
	return bs.Racers[player]
}

// CurrentPlayer returns the player at the front of the turn order.
func (bs *BoardState) CurrentPlayer() (Player, bool) {
	if len(bs.TurnOrder) == 0 {
		return 0, false
	}
	return bs.TurnOrder[0], true
}

// ActiveRacers returns the racers still in the race, in turn order.
func (bs *BoardState) ActiveRacers() []RacerName {
	racers := make([]RacerName, 0, len(bs.TurnOrder))
	for _, player := range bs.TurnOrder {
		if racer := bs.Racers[player]; bs.IsActive(racer) {
			racers = append(racers, racer)
		}
	}
	return racers
}

// RacersAt returns the active racers on a space in seating order.
func (bs *BoardState) RacersAt(space int) []RacerName {
	var racers []RacerName
	for _, player := range bs.Seats {
		racer := bs.Racers[player]
		if bs.IsActive(racer) && bs.Positions[racer] == space {
			racers = append(racers, racer)
		}
	}
	return racers
}

// TurnIndex returns the position of the player in the turn order.
func (bs *BoardState) TurnIndex(player Player) int {
	return utils.FindIndex(bs.TurnOrder, player)
}

// Equal compares everything that matters for detecting a repeated state.
// The turn counter and the eliminated set are not compared.
func (bs *BoardState) Equal(other *BoardState) bool {
	return slices.Equal(bs.TurnOrder, other.TurnOrder) &&
		bs.Phase == other.Phase &&
		maps.Equal(bs.Racers, other.Racers) &&
		bs.First == other.First &&
		bs.Second == other.Second &&
		bs.Finished == other.Finished &&
		maps.Equal(bs.Positions, other.Positions) &&
		maps.Equal(bs.Tripped, other.Tripped) &&
		maps.Equal(bs.Points, other.Points)
}

func (bs *BoardState) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(bs.Phase))
	for _, player := range bs.TurnOrder {
		binary.Write(hasher, binary.LittleEndian, int64(player))
	}

	// Seating order keeps the hash independent of map iteration
	for _, player := range bs.Seats {
		racer := bs.Racers[player]
		hasher.Write([]byte(racer))
		binary.Write(hasher, binary.LittleEndian, int64(bs.Positions[racer]))
		binary.Write(hasher, binary.LittleEndian, bs.Tripped[racer])
		binary.Write(hasher, binary.LittleEndian, int64(bs.Points[player]))
	}

	hasher.Write([]byte(bs.First))
	hasher.Write([]byte{0})
	hasher.Write([]byte(bs.Second))
	binary.Write(hasher, binary.LittleEndian, bs.Finished)

	return StateHash(hasher.Sum64())
}

// ReplayTo rebuilds the board after the first k change sets of a history.
func ReplayTo(initial *BoardState, history ChangeList, k int) *BoardState {
	k = min(max(k, 0), len(history))
	return initial.Copy().Apply(history[:k]...)
}
