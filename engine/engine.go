package engine

import (
	"errors"
	"runners/game"
)

var (
	ErrPlayerCount    = errors.New("wrong number of players")
	ErrDuplicateRacer = errors.New("racer entered twice")
	ErrSeat           = errors.New("racer seated at the wrong player")
)

type Engine interface {
	// Run plays until the race is over and returns the full change history
	Run() game.ChangeList
}

// Outcome tells how a race ended.
type Outcome int

const (
	Running Outcome = iota
	Finished
	NoRacersLeft // Every racer left the race before both places were taken
	TurnLimit
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "RUNNING"
	case Finished:
		return "FINISHED"
	case NoRacersLeft:
		return "NO_RACERS_LEFT"
	case TurnLimit:
		return "TURN_LIMIT"
	}
	return "UNKNOWN"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Convergence tells why the reactions of a step stopped.
type Convergence int

const (
	Settled Convergence = iota
	WouldFinish
	LoopDetected
	PassLimit
)

func (c Convergence) String() string {
	switch c {
	case Settled:
		return "SETTLED"
	case WouldFinish:
		return "WOULD_FINISH"
	case LoopDetected:
		return "LOOP_DETECTED"
	case PassLimit:
		return "PASS_LIMIT"
	}
	return "UNKNOWN"
}
