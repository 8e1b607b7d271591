package game

import "sort"

// Standing summarises one seat at a given moment of the race.
type Standing struct {
	Player   Player    `json:"player"`
	Racer    RacerName `json:"racer"`
	Points   int       `json:"points"`
	Position int       `json:"position"`
	Place    int       `json:"place"` // 1 or 2 once finished, 0 otherwise
	Out      bool      `json:"out"`   // Eliminated
}

// Standings ranks the seats by points, then placement, then distance covered.
func Standings(bs *BoardState) []Standing {
	standings := make([]Standing, 0, len(bs.Seats))
	for _, player := range bs.Seats {
		racer := bs.Racers[player]
		s := Standing{
			Player:   player,
			Racer:    racer,
			Points:   bs.Points[player],
			Position: bs.PositionOf(racer),
			Out:      bs.Eliminated[racer],
		}
		switch racer {
		case bs.First:
			s.Place = 1
		case bs.Second:
			s.Place = 2
		}
		standings = append(standings, s)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if placeRank(a.Place) != placeRank(b.Place) {
			return placeRank(a.Place) < placeRank(b.Place)
		}
		return a.Position > b.Position
	})
	return standings
}

func placeRank(place int) int {
	if place == 0 {
		return 3
	}
	return place
}

// Score is how a player judges a board: own points first, own racer's position second.
func Score(bs *BoardState, player Player, racer RacerName) (points, position int) {
	return bs.Points[player], bs.PositionOf(racer)
}
