package engine

import (
	"fmt"
	"runners/experiments/metrics"
	"runners/game"
	"runners/meta"
	"runners/racer"
	"runners/utils"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Race runs one race on a single goroutine. The live board is owned by the
// race; racers and the track only ever see copies.
type Race struct {
	ID        uuid.UUID
	board     *game.BoardState
	initial   *game.BoardState
	racers    map[game.RacerName]racer.Racer
	history   game.ChangeList
	maxTurns  int
	maxPasses int
	outcome   Outcome
	collector metrics.Collector
	log       zerolog.Logger

	steps      int
	startTime  time.Time
	endTime    time.Time
	stepMetric []metrics.StepMetric
}

type Option func(*Race)

func WithMaxTurns(n int) Option {
	return func(r *Race) {
		if n > 0 {
			r.maxTurns = n
		}
	}
}

func WithMaxPasses(n int) Option {
	return func(r *Race) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// WithMetrics collects a metric for every step of the race.
func WithMetrics() Option {
	return func(r *Race) {
		r.collector = metrics.NewCollector()
	}
}

func WithID(id uuid.UUID) Option {
	return func(r *Race) {
		r.ID = id
	}
}

// NewRace seats the racers in order as P1, P2, ... Every racer must already
// belong to the player of its seat.
func NewRace(track *game.Track, racers []racer.Racer, opts ...Option) (*Race, error) {
	if len(racers) < game.MinPlayers || len(racers) > game.MaxPlayers {
		return nil, fmt.Errorf("%w: %d racers, need %d to %d", ErrPlayerCount, len(racers), game.MinPlayers, game.MaxPlayers)
	}
	names := make([]game.RacerName, len(racers))
	byName := make(map[game.RacerName]racer.Racer, len(racers))
	for i, rc := range racers {
		if _, ok := byName[rc.Name()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRacer, rc.Name())
		}
		if want := game.Player(i + 1); rc.Player() != want {
			return nil, fmt.Errorf("%w: %s plays for %s, seat is %s", ErrSeat, rc.Name(), rc.Player(), want)
		}
		names[i] = rc.Name()
		byName[rc.Name()] = rc
	}
	if err := track.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate track: %w", err)
	}

	board := game.NewBoardState(track, names...)
	r := &Race{
		ID:        uuid.New(),
		board:     board,
		initial:   board.Copy(),
		racers:    byName,
		maxTurns:  meta.MAX_TURNS,
		maxPasses: meta.MAX_FIXPOINT_PASSES,
		collector: metrics.NewDummyCollector(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = log.With().Str("race", r.ID.String()).Str("track", string(track.Version)).Logger()
	return r, nil
}

// Run executes the race loop until the race is finished, every racer left or
// the turn ceiling is reached.
func (r *Race) Run() game.ChangeList {
	r.startTime = time.Now()
	r.log.Info().Msgf("starting race with %v", r.board.ActiveRacers())

	for r.outcome == Running {
		r.Step()
	}

	r.endTime = time.Now()
	switch r.outcome {
	case TurnLimit:
		r.log.Warn().Msgf("stopped after %d turns without a winner", r.board.Turn)
	default:
		r.log.Info().Msgf("race over after %d turns: %s, first=%s second=%s", r.board.Turn, r.outcome, r.board.First, r.board.Second)
	}
	return r.History()
}

// Step advances the race by one phase and settles all reactions to it. It
// returns the change sets applied to the board.
func (r *Race) Step() (game.ChangeList, Convergence) {
	if r.outcome != Running {
		return nil, Settled
	}
	start := r.board.Copy()

	phase := start.Phase.Next()
	advance := game.NewChangeSet()
	advance.AddPhase(start.Phase, phase)
	if phase == game.BetweenTurnsPhase {
		order := utils.Filter(utils.Rotate(start.TurnOrder), func(p game.Player) bool {
			return start.IsActive(start.RacerOf(p))
		})
		advance.AddTurnOrder(order)
	}
	snapshot := start.Copy().Apply(advance)
	if phase == game.StartOfTurnPhase {
		advance.AddMessage("turn %d begins", snapshot.Turn)
	}

	changes := game.ChangeList{advance}
	changes = append(changes, r.phaseActions(snapshot, phase)...)

	r.collector.Start()
	changes, convergence := r.settle(start, changes)
	m := r.collector.Complete()

	r.board.Apply(changes...)
	r.history = append(r.history, changes...)
	r.steps++

	player, _ := r.board.CurrentPlayer()
	r.stepMetric = append(r.stepMetric, metrics.StepMetric{
		Step:           r.steps,
		Turn:           r.board.Turn,
		Player:         int(player),
		Phase:          phase.String(),
		ChangeSets:     len(changes),
		Convergence:    convergence.String(),
		FixpointMetric: m,
	})
	for _, msg := range changes.Messages() {
		r.log.Debug().Msg(msg)
	}
	if convergence == PassLimit {
		r.log.Warn().Msgf("turn %d %s did not settle after %d passes", r.board.Turn, phase, r.maxPasses)
	}

	r.outcome = r.checkOutcome()
	return changes, convergence
}

// phaseActions returns what the racers do when the race enters phase.
func (r *Race) phaseActions(state *game.BoardState, phase game.Phase) game.ChangeList {
	var changes game.ChangeList
	if phase == game.MainMovePhase {
		if player, ok := state.CurrentPlayer(); ok {
			name := state.RacerOf(player)
			if state.IsActive(name) {
				changes = append(changes, r.racers[name].MainMove(state.Copy()))
			}
		}
	}
	for _, name := range state.ActiveRacers() {
		changes = append(changes, r.racers[name].OnPhase(state.Copy(), phase)...)
	}
	return changes
}

func (r *Race) checkOutcome() Outcome {
	switch {
	case r.board.Finished:
		return Finished
	case len(r.board.ActiveRacers()) == 0:
		return NoRacersLeft
	case r.board.Phase == game.BetweenTurnsPhase && r.board.Turn >= r.maxTurns:
		return TurnLimit
	}
	return Running
}

// Result summarizes the race so far.
type Result struct {
	RaceID    uuid.UUID
	Track     game.TrackVersion
	Outcome   Outcome
	Turns     int
	First     game.RacerName
	Second    game.RacerName
	Standings []game.Standing
}

func (r *Race) Result() Result {
	return Result{
		RaceID:    r.ID,
		Track:     r.board.Track.Version,
		Outcome:   r.outcome,
		Turns:     r.board.Turn,
		First:     r.board.First,
		Second:    r.board.Second,
		Standings: game.Standings(r.board),
	}
}

func (r *Race) Outcome() Outcome {
	return r.outcome
}

// Board returns a copy of the live board.
func (r *Race) Board() *game.BoardState {
	return r.board.Copy()
}

// Initial returns a copy of the board the race started from.
func (r *Race) Initial() *game.BoardState {
	return r.initial.Copy()
}

func (r *Race) History() game.ChangeList {
	return r.history.Copy()
}

func (r *Race) Steps() int {
	return r.steps
}

// Metrics returns the race metric and one metric per step. Step metrics only
// carry fixpoint counts when the race was created WithMetrics.
func (r *Race) Metrics() (metrics.RaceMetric, []metrics.StepMetric) {
	return metrics.RaceMetric{
		Track:     string(r.board.Track.Version),
		Outcome:   r.outcome.String(),
		First:     string(r.board.First),
		Second:    string(r.board.Second),
		Turns:     r.board.Turn,
		Steps:     r.steps,
		StartTime: r.startTime,
		EndTime:   r.endTime,
		Duration:  r.endTime.Sub(r.startTime),
	}, r.stepMetric
}
