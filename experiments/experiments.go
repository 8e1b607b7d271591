package experiments

import (
	"context"
	"fmt"
	"runners/agent"
	"runners/experiments/metrics"
	"runners/game"
	"runners/gamemaster"
	"runners/store"

	"github.com/rs/zerolog/log"
)

const NumRaces = 30 // Per series

var lineUp = []string{
	string(game.Banana), string(game.Gunk), string(game.Mouth), string(game.Romantic), string(game.Suckerfish),
}

// RunPolicyExperiment plays the full roster on the wild track once per
// decision policy, every seat using the same policy.
func RunPolicyExperiment(ctx context.Context, dir string, st store.Store) error {
	configs := []metrics.SeriesConfig{
		{ID: 1, Track: string(game.Wild), Racers: lineUp, Policy: string(agent.First), Races: NumRaces, Seed: 1},
		{ID: 2, Track: string(game.Wild), Racers: lineUp, Policy: string(agent.Naive), Races: NumRaces, Seed: 1},
		{ID: 3, Track: string(game.Wild), Racers: lineUp, Policy: string(agent.Random), Races: NumRaces, Seed: 1},
	}
	return runExperiment(ctx, dir, "policies", configs, st)
}

func runExperiment(ctx context.Context, dir, name string, configs []metrics.SeriesConfig, st store.Store) error {
	raceRecords := []metrics.RaceRecord{}
	stepRecords := []metrics.StepRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for ci, config := range configs {
		log.Info().Msgf("starting series %d of %d with %+v...", ci+1, len(configs), config)

		series, err := newSeries(config, st)
		if err != nil {
			return fmt.Errorf("failed to create series %d: %w", config.ID, err)
		}
		summary, err := series.Run(ctx)
		if err != nil {
			return fmt.Errorf("failed to run series %d: %w", config.ID, err)
		}
		for _, rr := range summary.RaceRecords {
			rr.Series = config.ID
			raceRecords = append(raceRecords, rr)
		}
		stepRecords = append(stepRecords, summary.StepRecords...)

		log.Info().Msgf("completed series %d of %d with wins %v", ci+1, len(configs), summary.Wins)
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteSeriesConfigs(configs)
	if err != nil {
		return fmt.Errorf("failed to store series configs: %w", err)
	}
	log.Info().Msg("stored series configs")

	err = writer.WriteRaceRecords(raceRecords)
	if err != nil {
		return fmt.Errorf("failed to write race records: %w", err)
	}
	log.Info().Msg("stored race records")

	err = writer.WriteStepRecords(stepRecords)
	if err != nil {
		return fmt.Errorf("failed to write step records: %w", err)
	}
	log.Info().Msgf("stored step records in %s", writer.Dir())

	return nil
}

// newSeries turns a series config into a series that collects metrics.
func newSeries(config metrics.SeriesConfig, st store.Store) (*gamemaster.Series, error) {
	track, err := game.NewTrack(game.TrackVersion(config.Track))
	if err != nil {
		return nil, err
	}
	racers := make([]game.RacerName, len(config.Racers))
	for i, name := range config.Racers {
		r, ok := game.ParseRacerName(name)
		if !ok {
			return nil, fmt.Errorf("unknown racer %q", name)
		}
		racers[i] = r
	}
	return gamemaster.NewSeries(gamemaster.Settings{
		Track:    track,
		Racers:   racers,
		Policies: []agent.Kind{agent.Kind(config.Policy)},
		Races:    config.Races,
		Seed:     config.Seed,
		Rerolls:  config.Rerolls,
		Metrics:  true,
	}, st)
}
