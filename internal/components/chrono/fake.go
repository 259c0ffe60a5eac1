package chrono

import (
	"context"
	"sync"
	"time"
)

// FakeImpl is an API whose clock only moves when Sleep is called, it records
// every requested sleep so tests can assert on synchronization points.
type FakeImpl struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func NewFakeImpl(start time.Time) *FakeImpl {
	return &FakeImpl{now: start}
}

func (f *FakeImpl) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *FakeImpl) Location() *time.Location {
	return f.Now().Location()
}

func (f *FakeImpl) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleeps = append(f.sleeps, d)
	f.now = f.now.Add(d)
	return nil
}

// Sleeps returns a copy of the durations passed to Sleep, in call order.
func (f *FakeImpl) Sleeps() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.sleeps))
	copy(out, f.sleeps)
	return out
}

// FakeCron is a CronAPI whose jobs only run when Tick is called.
type FakeCron struct {
	mu    sync.Mutex
	specs []string
	jobs  []func()
}

func (f *FakeCron) Cron(spec string, callback func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.specs = append(f.specs, spec)
	f.jobs = append(f.jobs, callback)
	return nil
}

// Tick runs every registered job once, in registration order.
func (f *FakeCron) Tick() {
	f.mu.Lock()
	jobs := append([]func(){}, f.jobs...)
	f.mu.Unlock()
	for _, job := range jobs {
		job()
	}
}

func (f *FakeCron) Specs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.specs...)
}

func (f *FakeCron) Stop() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
