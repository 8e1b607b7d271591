package replay

import (
	"runners/game"
	"sort"
	"sync"
)

// Filter reports whether a cursor should stop after a change set.
type Filter func(cs *game.ChangeSet) bool

// SkipNoMovement passes over change sets in which no racer moves.
func SkipNoMovement() Filter {
	return func(cs *game.ChangeSet) bool {
		return cs.HasMovement()
	}
}

// SkipPhaseOnly passes over change sets that only advance the phase.
func SkipPhaseOnly() Filter {
	return func(cs *game.ChangeSet) bool {
		return !cs.IsPhaseOnly()
	}
}

// Cursor walks a recorded history. Step k is the board after the first k
// change sets; it is always rebuilt from the initial board.
type Cursor struct {
	initial *game.BoardState
	history game.ChangeList
	stops   []int // Steps the cursor stops at, ascending
	step    int
	mu      sync.RWMutex
}

// NewCursor returns a cursor at step 0. The start and the end of the history
// are always stops, any other step only when every filter keeps its change set.
func NewCursor(initial *game.BoardState, history game.ChangeList, filters ...Filter) *Cursor {
	c := &Cursor{
		initial: initial.Copy(),
		history: history.Copy(),
		stops:   []int{0},
	}
	for k := 1; k <= len(c.history); k++ {
		if k == len(c.history) || keep(c.history[k-1], filters) {
			c.stops = append(c.stops, k)
		}
	}
	return c
}

func keep(cs *game.ChangeSet, filters []Filter) bool {
	for _, f := range filters {
		if !f(cs) {
			return false
		}
	}
	return true
}

// Len returns the number of change sets in the history.
func (c *Cursor) Len() int {
	return len(c.history)
}

// Step returns the current step.
func (c *Cursor) Step() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.step
}

// Next moves to the next stop. It returns false at the end of the history.
func (c *Cursor) Next() (*game.BoardState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := sort.SearchInts(c.stops, c.step+1)
	if i >= len(c.stops) {
		return c.stateLocked(), false
	}
	c.step = c.stops[i]
	return c.stateLocked(), true
}

// Previous moves to the previous stop. It returns false at step 0.
func (c *Cursor) Previous() (*game.BoardState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := sort.SearchInts(c.stops, c.step) - 1
	if i < 0 {
		return c.stateLocked(), false
	}
	c.step = c.stops[i]
	return c.stateLocked(), true
}

// Seek moves to step k, clamped to the history, regardless of the filters.
func (c *Cursor) Seek(k int) *game.BoardState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.step = min(max(k, 0), len(c.history))
	return c.stateLocked()
}

// End moves to the last step.
func (c *Cursor) End() *game.BoardState {
	return c.Seek(len(c.history))
}

// State returns the board at the current step.
func (c *Cursor) State() *game.BoardState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.stateLocked()
}

// Current returns the change set that led to the current step, nil at step 0.
func (c *Cursor) Current() *game.ChangeSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.step == 0 {
		return nil
	}
	return c.history[c.step-1].Copy()
}

// Messages returns the messages of every change set up to the current step.
func (c *Cursor) Messages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.history[:c.step].Messages()
}

func (c *Cursor) stateLocked() *game.BoardState {
	return game.ReplayTo(c.initial, c.history, c.step)
}
