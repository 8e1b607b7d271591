package metrics

import (
	"sync/atomic"
	"time"
)

// FixpointMetric describes how one step of a race settled.
type FixpointMetric struct {
	Passes    int
	Reactions int
	Triggers  int // Track resolutions that produced follow-ups
	Duration  time.Duration
}

type StepMetric struct {
	Step        int
	Turn        int
	Player      int // Player at the front of the turn order
	Phase       string
	ChangeSets  int
	Convergence string
	FixpointMetric
}

type RaceMetric struct {
	Track     string
	Outcome   string
	First     string
	Second    string
	Turns     int
	Steps     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type Collector interface {
	Start()
	AddPass()
	AddReaction()
	AddTrigger()
	Complete() FixpointMetric
}

type collector struct {
	startTime time.Time
	passes    atomic.Int32
	reactions atomic.Int32
	triggers  atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.passes.Store(0)
	m.reactions.Store(0)
	m.triggers.Store(0)
}

func (m *collector) AddPass() {
	m.passes.Add(1)
}

func (m *collector) AddReaction() {
	m.reactions.Add(1)
}

func (m *collector) AddTrigger() {
	m.triggers.Add(1)
}

func (m *collector) Complete() FixpointMetric {
	return FixpointMetric{
		Passes:    int(m.passes.Load()),
		Reactions: int(m.reactions.Load()),
		Triggers:  int(m.triggers.Load()),
		Duration:  time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                   {}
func (m *dummyCollector) AddPass()                 {}
func (m *dummyCollector) AddReaction()             {}
func (m *dummyCollector) AddTrigger()              {}
func (m *dummyCollector) Complete() FixpointMetric { return FixpointMetric{} }
