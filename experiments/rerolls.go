package experiments

import (
	"context"
	"runners/agent"
	"runners/experiments/metrics"
	"runners/game"
	"runners/store"
)

// RunRerollExperiment gives every racer the same reroll budget and compares
// budgets of 0 to 3 with the naive policy deciding when to reroll.
func RunRerollExperiment(ctx context.Context, dir string, st store.Store) error {
	configs := []metrics.SeriesConfig{}
	for rerolls := 0; rerolls <= 3; rerolls++ {
		configs = append(configs, metrics.SeriesConfig{
			ID:      rerolls + 1,
			Track:   string(game.Wild),
			Racers:  lineUp,
			Policy:  string(agent.Naive),
			Races:   NumRaces,
			Rerolls: rerolls,
			Seed:    1,
		})
	}
	return runExperiment(ctx, dir, "rerolls", configs, st)
}
