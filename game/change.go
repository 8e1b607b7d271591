package game

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// MoveDecreased marks a ChangeSet whose main move was already dampened.
const MoveDecreased = "move_decreased"

// ChangeSet bundles simultaneous changes. Sub-effects are applied in the
// order positions, trips, eliminations, points, phases, turn orders, finishes.
type ChangeSet struct {
	Positions    []*PositionChange   `json:"positions,omitempty"`
	Trips        []TripChange        `json:"trips,omitempty"`
	Eliminations []EliminateChange   `json:"eliminations,omitempty"`
	Points       []PointChange       `json:"points,omitempty"`
	Phases       []PhaseChange       `json:"phases,omitempty"`
	TurnOrders   []TurnOrderChange   `json:"turnOrders,omitempty"`
	Finished     []RacerName         `json:"finished,omitempty"`
	Messages     []string            `json:"messages,omitempty"`
	ProcessedBy  map[RacerName]bool  `json:"processedBy,omitempty"` // Racers that already reacted to this set
	TrackDone    bool                `json:"trackDone"`              // Whether the track already resolved this set
	Flags        map[string]bool     `json:"flags,omitempty"`
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		ProcessedBy: make(map[RacerName]bool),
		Flags:       make(map[string]bool),
	}
}

// AddPosition records a main move of racer between two spaces and returns it for further tagging.
func (cs *ChangeSet) AddPosition(racer RacerName, from, to int) *PositionChange {
	pc := &PositionChange{Racer: racer, Old: from, New: to, Type: MainMove, Intended: to - from}
	cs.Positions = append(cs.Positions, pc)
	return pc
}

func (cs *ChangeSet) AddTrip(racer RacerName, before, after bool) {
	cs.Trips = append(cs.Trips, TripChange{Racer: racer, Before: before, After: after})
}

func (cs *ChangeSet) AddElimination(racer RacerName) {
	cs.Eliminations = append(cs.Eliminations, EliminateChange{Racer: racer})
}

func (cs *ChangeSet) AddPoints(player Player, delta int) {
	cs.Points = append(cs.Points, PointChange{Player: player, Delta: delta})
}

func (cs *ChangeSet) AddPhase(from, to Phase) {
	cs.Phases = append(cs.Phases, PhaseChange{Old: from, New: to})
}

func (cs *ChangeSet) AddTurnOrder(order []Player) {
	cs.TurnOrders = append(cs.TurnOrders, TurnOrderChange{Order: slices.Clone(order)})
}

func (cs *ChangeSet) AddFinished(racer RacerName) {
	cs.Finished = append(cs.Finished, racer)
}

func (cs *ChangeSet) AddMessage(format string, args ...any) {
	cs.Messages = append(cs.Messages, fmt.Sprintf(format, args...))
}

func (cs *ChangeSet) MarkProcessed(racer RacerName) {
	if cs.ProcessedBy == nil {
		cs.ProcessedBy = make(map[RacerName]bool)
	}
	cs.ProcessedBy[racer] = true
}

func (cs *ChangeSet) IsProcessedBy(racer RacerName) bool {
	return cs.ProcessedBy[racer]
}

// ResetProcessed forgets every racer but the given one, so the others see the set again.
func (cs *ChangeSet) ResetProcessed(racer RacerName) {
	cs.ProcessedBy = map[RacerName]bool{racer: true}
}

func (cs *ChangeSet) Flag(key string) bool {
	return cs.Flags[key]
}

func (cs *ChangeSet) SetFlag(key string) {
	if cs.Flags == nil {
		cs.Flags = make(map[string]bool)
	}
	cs.Flags[key] = true
}

// HasMovement reports whether any position change in the set moves a racer.
func (cs *ChangeSet) HasMovement() bool {
	return slices.ContainsFunc(cs.Positions, (*PositionChange).Moved)
}

// IsPhaseOnly reports whether the set only advances the phase or turn order.
func (cs *ChangeSet) IsPhaseOnly() bool {
	return len(cs.Phases)+len(cs.TurnOrders) > 0 &&
		len(cs.Positions)+len(cs.Trips)+len(cs.Eliminations)+len(cs.Points)+len(cs.Finished) == 0
}

// copy of the ChangeSet. Nothing is shared with the original.
func (cs *ChangeSet) Copy() *ChangeSet {
	c := &ChangeSet{
		Positions:    make([]*PositionChange, len(cs.Positions)),
		Trips:        slices.Clone(cs.Trips),
		Eliminations: slices.Clone(cs.Eliminations),
		Points:       slices.Clone(cs.Points),
		Phases:       slices.Clone(cs.Phases),
		TurnOrders:   make([]TurnOrderChange, len(cs.TurnOrders)),
		Finished:     slices.Clone(cs.Finished),
		Messages:     slices.Clone(cs.Messages),
		ProcessedBy:  maps.Clone(cs.ProcessedBy),
		TrackDone:    cs.TrackDone,
		Flags:        maps.Clone(cs.Flags),
	}
	for i, pc := range cs.Positions {
		c.Positions[i] = pc.copy()
	}
	for i, tc := range cs.TurnOrders {
		c.TurnOrders[i] = TurnOrderChange{Order: slices.Clone(tc.Order)}
	}
	if c.ProcessedBy == nil {
		c.ProcessedBy = make(map[RacerName]bool)
	}
	if c.Flags == nil {
		c.Flags = make(map[string]bool)
	}
	return c
}

// ChangeList is an ordered sequence of ChangeSets.
type ChangeList []*ChangeSet

func (cl ChangeList) Copy() ChangeList {
	c := make(ChangeList, len(cl))
	for i, cs := range cl {
		c[i] = cs.Copy()
	}
	return c
}

// Messages returns the messages of every set in order.
func (cl ChangeList) Messages() []string {
	var msgs []string
	for _, cs := range cl {
		msgs = append(msgs, cs.Messages...)
	}
	return msgs
}
