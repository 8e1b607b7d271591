package agent

import (
	"math/rand/v2"
	"runners/game"
	"sync"
)

type randomPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPolicy returns a policy that decides by coin flip. The same seed gives the same decisions.
func NewRandomPolicy(seed uint64) Policy {
	return &randomPolicy{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (p *randomPolicy) ChoosePath(_ *game.BoardState, options []*game.BoardState) int {
	if len(options) == 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(len(options))
}

func (p *randomPolicy) DecideReroll(*game.BoardState, int, int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(2) == 0
}
