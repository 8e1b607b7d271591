package game

import (
	"fmt"
	"strings"
)

// Player identifies a seat at the table. Seats are numbered from 1.
type Player int

const (
	P1 Player = iota + 1
	P2
	P3
	P4
	P5
	P6
)

func (p Player) String() string {
	return fmt.Sprintf("P%d", int(p))
}

// RacerName identifies a racer. Names are unique within a race.
type RacerName string

const (
	Banana          RacerName = "Banana"
	Gunk            RacerName = "Gunk"
	Mouth           RacerName = "Mouth"
	Romantic        RacerName = "Romantic"
	Suckerfish      RacerName = "Suckerfish"
	Egg             RacerName = "Egg"
	RocketScientist RacerName = "RocketScientist"
)

// RacerNames lists every racer in the roster.
var RacerNames = []RacerName{Banana, Gunk, Mouth, Romantic, Suckerfish, Egg, RocketScientist}

// ParseRacerName matches a racer name case-insensitively, ignoring spaces,
// dashes and underscores.
func ParseRacerName(s string) (RacerName, bool) {
	normalized := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
	for _, name := range RacerNames {
		if strings.ToLower(string(name)) == normalized {
			return name, true
		}
	}
	return "", false
}

type StateHash uint64
