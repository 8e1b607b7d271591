package gamemaster

import (
	"context"
	"fmt"
	"runners/agent"
	"runners/engine"
	"runners/experiments/metrics"
	"runners/game"
	"runners/racer"
	"runners/store"
	"time"

	"github.com/rs/zerolog/log"
)

// Settings configure a series of races with the same line-up.
type Settings struct {
	Track    *game.Track
	Racers   []game.RacerName // Seat order, P1 first
	Policies []agent.Kind     // One per seat, or a single kind for every seat
	Races    int
	MaxTurns int
	Seed     uint64
	Rerolls  int
	Metrics  bool
	Input    racer.InputFunc
}

type RaceSummary struct {
	ID      string
	Outcome engine.Outcome
	Turns   int
	First   game.RacerName
	Second  game.RacerName
	Points  map[game.Player]int
}

type Summary struct {
	Races    []RaceSummary
	Wins     map[game.RacerName]int // First places
	Points   map[game.Player]int    // Total over the series
	Outcomes map[engine.Outcome]int

	RaceRecords []metrics.RaceRecord
	StepRecords []metrics.StepRecord
}

// Series runs races one after another and saves each of them.
type Series struct {
	settings Settings
	store    store.Store
}

// NewSeries checks the settings once so that no race of the series can fail to start.
func NewSeries(settings Settings, st store.Store) (*Series, error) {
	if settings.Track == nil {
		return nil, fmt.Errorf("no track")
	}
	if err := settings.Track.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate track: %w", err)
	}
	n := len(settings.Racers)
	if n < game.MinPlayers || n > game.MaxPlayers {
		return nil, fmt.Errorf("%w: %d racers, need %d to %d", engine.ErrPlayerCount, n, game.MinPlayers, game.MaxPlayers)
	}
	seen := make(map[game.RacerName]bool, n)
	for _, name := range settings.Racers {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", engine.ErrDuplicateRacer, name)
		}
		seen[name] = true
	}
	if p := len(settings.Policies); p > 1 && p != n {
		return nil, fmt.Errorf("got %d policies for %d racers", p, n)
	}
	if settings.Races <= 0 {
		settings.Races = 1
	}
	if _, err := localRacers(settings, 0); err != nil {
		return nil, err
	}
	if st == nil {
		st = store.Discard()
	}
	return &Series{settings: settings, store: st}, nil
}

// Run plays every race of the series. It stops early when ctx is done or a
// race cannot be saved.
func (s *Series) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		Wins:     make(map[game.RacerName]int),
		Points:   make(map[game.Player]int),
		Outcomes: make(map[engine.Outcome]int),
	}
	total := s.settings.Races

	log.Info().Msgf("starting series of %d races on %s with %v...", total, s.settings.Track.Name, s.settings.Racers)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		log.Info().Msgf("starting race %d of %d...", i+1, total)

		race, err := s.newRace(i)
		if err != nil {
			return summary, err
		}
		history := race.Run()
		result := race.Result()

		rec := &store.Record{
			ID:        race.ID,
			Track:     result.Track,
			Racers:    append([]game.RacerName(nil), s.settings.Racers...),
			Outcome:   result.Outcome.String(),
			Turns:     result.Turns,
			First:     result.First,
			Second:    result.Second,
			Initial:   race.Initial(),
			History:   history,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.SaveRace(ctx, rec); err != nil {
			return summary, fmt.Errorf("failed to save race %d: %w", i+1, err)
		}

		board := race.Board()
		rs := RaceSummary{
			ID:      race.ID.String(),
			Outcome: result.Outcome,
			Turns:   result.Turns,
			First:   result.First,
			Second:  result.Second,
			Points:  make(map[game.Player]int, len(board.Points)),
		}
		for player, points := range board.Points {
			rs.Points[player] = points
			summary.Points[player] += points
		}
		if result.First != "" {
			summary.Wins[result.First]++
		}
		summary.Outcomes[result.Outcome]++
		summary.Races = append(summary.Races, rs)

		if s.settings.Metrics {
			raceMetric, stepMetrics := race.Metrics()
			summary.RaceRecords = append(summary.RaceRecords, metrics.RaceRecord{ID: rs.ID, RaceMetric: raceMetric})
			for _, m := range stepMetrics {
				summary.StepRecords = append(summary.StepRecords, metrics.StepRecord{Race: rs.ID, StepMetric: m})
			}
		}

		log.Info().Msgf("completed race %d of %d: %s after %d turns, first=%s second=%s",
			i+1, total, result.Outcome, result.Turns, result.First, result.Second)
	}

	log.Info().Msgf("completed series with wins %v", summary.Wins)
	return summary, nil
}

func (s *Series) newRace(i int) (*engine.Race, error) {
	racers, err := localRacers(s.settings, i)
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{engine.WithMaxTurns(s.settings.MaxTurns)}
	if s.settings.Metrics {
		opts = append(opts, engine.WithMetrics())
	}
	return engine.NewRace(s.settings.Track, racers, opts...)
}
