package game

import "fmt"

const (
	FirstPlacePoints  = 3
	SecondPlacePoints = 1
	StarPoints        = 1

	// DieFaces is the highest value of a main move roll.
	DieFaces = 6

	MinPlayers = 2
	MaxPlayers = 6

	// OffBoard is the position of finished and eliminated racers.
	OffBoard = -1
)

type Phase int

const (
	BetweenTurnsPhase Phase = iota
	StartOfTurnPhase
	BeforeMainMovePhase
	MainMovePhase
	EndOfTurnPhase
)

var phaseNames = []string{"BETWEEN_TURNS", "START_OF_TURN", "BEFORE_MAIN_MOVE", "MAIN_MOVE", "END_OF_TURN"}

// Next returns the phase that follows p. The cycle wraps from END_OF_TURN to BETWEEN_TURNS.
func (p Phase) Next() Phase {
	return (p + 1) % Phase(len(phaseNames))
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}
