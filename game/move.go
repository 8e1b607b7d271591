package game

import "fmt"

// MoveType tells what caused a position change.
type MoveType int

const (
	MainMove MoveType = iota
	PowerMove
	TrackMove
)

var moveTypeNames = []string{"MAIN", "POWER", "TRACK"}

func (m MoveType) String() string {
	if m < 0 || int(m) >= len(moveTypeNames) {
		return "UNKNOWN"
	}
	return moveTypeNames[m]
}

func (m MoveType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MoveType) UnmarshalText(text []byte) error {
	for i, name := range moveTypeNames {
		if name == string(text) {
			*m = MoveType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown move type %q", text)
}

// PositionChange moves a racer from Old to New.
type PositionChange struct {
	Racer     RacerName             `json:"racer"`
	Old       int                   `json:"old"`
	New       int                   `json:"new"`
	Type      MoveType              `json:"type"`
	Intended  int                   `json:"intended"`             // Movement before any adjustment
	DiceRolls map[RacerName][]int   `json:"diceRolls,omitempty"` // Rolls that produced the movement
}

func (pc *PositionChange) WithType(t MoveType) *PositionChange {
	pc.Type = t
	return pc
}

func (pc *PositionChange) WithIntended(movement int) *PositionChange {
	pc.Intended = movement
	return pc
}

func (pc *PositionChange) WithRolls(racer RacerName, rolls ...int) *PositionChange {
	if pc.DiceRolls == nil {
		pc.DiceRolls = make(map[RacerName][]int)
	}
	pc.DiceRolls[racer] = append(pc.DiceRolls[racer], rolls...)
	return pc
}

// Moved reports whether the change actually moves the racer.
func (pc *PositionChange) Moved() bool {
	return pc.Old != pc.New
}

func (pc *PositionChange) copy() *PositionChange {
	c := *pc
	if pc.DiceRolls != nil {
		c.DiceRolls = make(map[RacerName][]int, len(pc.DiceRolls))
		for racer, rolls := range pc.DiceRolls {
			c.DiceRolls[racer] = append([]int(nil), rolls...)
		}
	}
	return &c
}

type TripChange struct {
	Racer  RacerName `json:"racer"`
	Before bool      `json:"before"`
	After  bool      `json:"after"`
}

type EliminateChange struct {
	Racer RacerName `json:"racer"`
}

type PointChange struct {
	Player Player `json:"player"`
	Delta  int    `json:"delta"`
}

type PhaseChange struct {
	Old Phase `json:"old"`
	New Phase `json:"new"`
}

type TurnOrderChange struct {
	Order []Player `json:"order"`
}
