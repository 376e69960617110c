package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"roadsaver_backend/internal/events"
	"roadsaver_backend/internal/requests/domain"
	"roadsaver_backend/internal/requests/repository"
)

// fakeClock fires timers synchronously from Advance in deadline order.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.fn()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// stubRand always picks index pick and returns f for floats.
type stubRand struct {
	pick int
	f    float64
}

func (r stubRand) IntN(n int) int {
	if r.pick >= n {
		return n - 1
	}
	return r.pick
}
func (r stubRand) Int64N(int64) int64 { return 0 }
func (r stubRand) Float64() float64   { return r.f }

type simConfig struct {
	submit, quoteMin, quoteMax, revision, reassign time.Duration
	tick, maxTravel, arrival, retain               time.Duration
	speed                                          float64
}

func testConfig() simConfig {
	return simConfig{
		submit:    time.Second,
		quoteMin:  2 * time.Second,
		quoteMax:  2 * time.Second,
		revision:  2 * time.Second,
		reassign:  time.Second,
		tick:      time.Second,
		maxTravel: 5 * time.Second,
		arrival:   3 * time.Second,
		retain:    10 * time.Second,
		speed:     40,
	}
}

func (c simConfig) GetSubmitDelay() time.Duration { return c.submit }
func (c simConfig) GetQuoteDelayRange() (time.Duration, time.Duration) {
	return c.quoteMin, c.quoteMax
}
func (c simConfig) GetRevisionDelay() time.Duration  { return c.revision }
func (c simConfig) GetReassignDelay() time.Duration  { return c.reassign }
func (c simConfig) GetTickInterval() time.Duration   { return c.tick }
func (c simConfig) GetMaxTravel() time.Duration      { return c.maxTravel }
func (c simConfig) GetArrivalDelay() time.Duration   { return c.arrival }
func (c simConfig) GetRetainFinished() time.Duration { return c.retain }
func (c simConfig) GetTravelSpeedKmh() float64       { return c.speed }

type fakeEmployees struct {
	mu       sync.Mutex
	all      []domain.Employee
	err      error
	excludes [][]string
}

func (f *fakeEmployees) ListAvailable(_ context.Context, exclude []string) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.excludes = append(f.excludes, slices.Clone(exclude))
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Employee, 0, len(f.all))
	for _, e := range f.all {
		if !slices.Contains(exclude, e.Name) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeRecorder struct {
	mu          sync.Mutex
	completions []CompletionRecord
	declines    []DeclineRecord
}

func (f *fakeRecorder) RecordCompletion(_ context.Context, rec CompletionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completions = append(f.completions, rec)
	return nil
}

func (f *fakeRecorder) RecordDecline(_ context.Context, rec DeclineRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declines = append(f.declines, rec)
	return nil
}

// recordingBus delivers nothing and remembers every published event.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventName())
	}
	return out
}

func (b *recordingBus) count(name string) int {
	n := 0
	for _, got := range b.names() {
		if got == name {
			n++
		}
	}
	return n
}

// gatedSnapshots blocks the first Save until release is closed.
type gatedSnapshots struct {
	SnapshotStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedSnapshots() *gatedSnapshots {
	return &gatedSnapshots{
		SnapshotStore: repository.NewMemorySnapshotStore(time.Hour),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (g *gatedSnapshots) Save(ctx context.Context, snap domain.QuoteSnapshot) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.SnapshotStore.Save(ctx, snap)
}
