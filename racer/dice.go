package racer

import (
	"math/rand/v2"
	"sync"
)

// Roller produces die values in [lo, hi].
type Roller interface {
	Roll(lo, hi int) int
}

type randomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller returns a roller that repeats its sequence for the same seed.
func NewRandomRoller(seed uint64) Roller {
	return &randomRoller{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *randomRoller) Roll(lo, hi int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rng.IntN(hi-lo+1)
}

// ScriptedRoller replays fixed values, then repeats the last one.
type ScriptedRoller struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: values}
}

func (s *ScriptedRoller) Roll(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return lo
	}
	v := s.values[min(s.next, len(s.values)-1)]
	s.next++
	return clampInt(v, lo, hi)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
