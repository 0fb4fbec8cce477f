package metrics

import (
	"sort"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

//go:generate counterfeiter . Emitter

type Emitter interface {
	Counter(name string) Counter
	Gauge(name string) Gauge
	Timer(name string) Timer
}

//go:generate counterfeiter . Registry

// Registry is the process-wide home of every counter, gauge and timer. Values
// only go back to zero through Reset, which the admin endpoint calls.
type Registry interface {
	Emitter

	Snapshot() Snapshot
	Reset()
}

type Snapshot struct {
	Environment string                   `json:"environment"`
	Since       time.Time                `json:"since"`
	Counters    map[string]int64         `json:"counters"`
	Gauges      map[string]float64       `json:"gauges"`
	Timers      map[string]TimerSnapshot `json:"timers"`
}

type TimerSnapshot struct {
	Count        int64   `json:"count"`
	TotalSeconds float64 `json:"totalSeconds"`
	MaxSeconds   float64 `json:"maxSeconds"`
}

func (s Snapshot) CounterNames() []string {
	names := make([]string, 0, len(s.Counters))
	for name := range s.Counters {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

type registry struct {
	environment string
	clock       clock.Clock

	mu       sync.Mutex
	since    time.Time
	counters map[string]*counter
	gauges   map[string]*gauge
	timers   map[string]*timer
}

func NewRegistry(environment string, clock clock.Clock) *registry {
	return &registry{
		environment: environment,
		clock:       clock,
		since:       clock.Now(),
		counters:    map[string]*counter{},
		gauges:      map[string]*gauge{},
		timers:      map[string]*timer{},
	}
}

func (r *registry) Counter(name string) Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.counters[name]
	if !ok {
		c = &counter{name: name, environment: r.environment}
		r.counters[name] = c
	}

	return c
}

func (r *registry) Gauge(name string) Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gauges[name]
	if !ok {
		g = &gauge{name: name, environment: r.environment}
		r.gauges[name] = g
	}

	return g
}

func (r *registry) Timer(name string) Timer {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[name]
	if !ok {
		t = &timer{name: name, clock: r.clock}
		r.timers[name] = t
	}

	return t
}

func (r *registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := Snapshot{
		Environment: r.environment,
		Since:       r.since,
		Counters:    make(map[string]int64, len(r.counters)),
		Gauges:      make(map[string]float64, len(r.gauges)),
		Timers:      make(map[string]TimerSnapshot, len(r.timers)),
	}

	for name, c := range r.counters {
		snapshot.Counters[name] = c.value()
	}

	for name, g := range r.gauges {
		snapshot.Gauges[name] = g.value()
	}

	for name, t := range r.timers {
		snapshot.Timers[name] = t.snapshot()
	}

	return snapshot
}

// Reset zeroes every instrument in place so handles held by components keep
// reporting into the registry afterwards.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.counters {
		c.reset()
	}

	for _, g := range r.gauges {
		g.reset()
	}

	for _, t := range r.timers {
		t.reset()
	}

	r.since = r.clock.Now()
}

type nullEmitter struct{}

func NewNullEmitter() Emitter {
	return &nullEmitter{}
}

func (e *nullEmitter) Counter(name string) Counter {
	return nullCounter{}
}

func (e *nullEmitter) Gauge(name string) Gauge {
	return nullGauge{}
}

func (e *nullEmitter) Timer(name string) Timer {
	return &nullTimer{}
}
