package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runners/config"
	"runners/experiments"
	"runners/gamemaster"
	"runners/replay"
	"runners/store"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("runners", pflag.ExitOnError)
	configPath := fs.String("config", "", "config file (yaml or json)")
	replayID := fs.String("replay", "", "replay a stored race by id instead of racing")
	if err := config.BindFlags(fs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *replayID); err != nil {
		log.Error().Err(err).Msg("runners failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, replayID string) error {
	st, err := store.Open(store.Kind(cfg.Storage.Type), cfg.Storage.Dir, cfg.Storage.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	if replayID != "" {
		return replayRace(ctx, st, replayID)
	}

	switch cfg.Experiment {
	case "":
	case "policies":
		return experiments.RunPolicyExperiment(ctx, cfg.Metrics.Dir, st)
	case "rerolls":
		return experiments.RunRerollExperiment(ctx, cfg.Metrics.Dir, st)
	default:
		return fmt.Errorf("unknown experiment %q", cfg.Experiment)
	}

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	series, err := gamemaster.NewSeries(settings, st)
	if err != nil {
		return fmt.Errorf("failed to create series: %w", err)
	}
	summary, err := series.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to run series: %w", err)
	}

	for _, rs := range summary.Races {
		log.Info().Msgf("race %s: %s after %d turns, first=%s second=%s points=%v",
			rs.ID, rs.Outcome, rs.Turns, rs.First, rs.Second, rs.Points)
	}
	log.Info().Msgf("wins %v, points %v, outcomes %v", summary.Wins, summary.Points, summary.Outcomes)
	return nil
}

// replayRace logs the moves of a stored race step by step.
func replayRace(ctx context.Context, st store.Store, id string) error {
	loader, ok := st.(store.Loader)
	if !ok {
		return fmt.Errorf("store %T cannot load races", st)
	}
	raceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid race id: %w", err)
	}
	rec, err := loader.LoadRace(ctx, raceID)
	if err != nil {
		return fmt.Errorf("failed to load race %s: %w", id, err)
	}

	log.Info().Msgf("replaying race %s on %s with %v", rec.ID, rec.Track, rec.Racers)
	cursor := replay.NewCursor(rec.Initial, rec.History, replay.SkipPhaseOnly())
	seen := 0
	for {
		state, ok := cursor.Next()
		if !ok {
			break
		}
		msgs := cursor.Messages()
		for _, msg := range msgs[seen:] {
			log.Info().Msgf("[turn %d, step %d] %s", state.Turn, cursor.Step(), msg)
		}
		seen = len(msgs)
	}
	final := cursor.State()
	log.Info().Msgf("%s after %d turns, first=%s second=%s points=%v",
		rec.Outcome, rec.Turns, rec.First, rec.Second, final.Points)
	return nil
}
