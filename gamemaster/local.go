package gamemaster

import (
	"fmt"
	"runners/agent"
	"runners/game"
	"runners/racer"
)

// seedStride separates the dice and policy seeds of consecutive races.
const seedStride = 1000

// raceSeed returns the base seed of race i (0-based) of a series.
func raceSeed(seed uint64, i int) uint64 {
	return seed + uint64(i)*seedStride
}

// policyFor returns the policy kind for a seat. A single kind applies to every seat.
func policyFor(policies []agent.Kind, seat int) agent.Kind {
	switch {
	case len(policies) == 0:
		return agent.First
	case len(policies) == 1:
		return policies[0]
	}
	return policies[seat]
}

// localRacers builds fresh racers for race i of a series, seated in order,
// each with its own dice and policy.
func localRacers(settings Settings, i int) ([]racer.Racer, error) {
	base := raceSeed(settings.Seed, i)
	racers := make([]racer.Racer, len(settings.Racers))
	for seat, name := range settings.Racers {
		player := game.Player(seat + 1)
		seed := base + uint64(seat)
		policy, err := agent.New(policyFor(settings.Policies, seat), player, name, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to create policy for %s: %w", name, err)
		}
		opts := []racer.Option{
			racer.WithPolicy(policy),
			racer.WithRoller(racer.NewRandomRoller(seed)),
			racer.WithRerolls(settings.Rerolls),
		}
		if settings.Input != nil {
			opts = append(opts, racer.WithInput(settings.Input))
		}
		r, err := racer.New(name, player, opts...)
		if err != nil {
			return nil, err
		}
		racers[seat] = r
	}
	return racers, nil
}
