// Package schedule provides a per-key refresh scheduler that debounces,
// coalesces and adaptively delays runner execution. Each key moves through
// Idle -> Scheduled -> Executing, with at most one queued follow-up captured
// while a runner is in flight. Requests carry monotonically increasing
// versions; a stale request never displaces a newer one.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Runner performs one refresh for a key.
type Runner func(ctx context.Context) error

// Options tunes a single Schedule call.
type Options struct {
	// Immediate bypasses the debounce delay.
	Immediate bool
}

// Completion resolves when its request has run, been superseded by a newer
// request, or been cancelled. Superseded and cancelled requests resolve
// without error; only a runner's own failure is reported as an error.
type Completion struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

func (c *Completion) resolve(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Done is closed when the completion resolves.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Err returns the resolution error. Only valid after Done is closed.
func (c *Completion) Err() error { return c.err }

// Wait blocks until the completion resolves or ctx is cancelled.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return c.err
	}
}

// Config tunes the scheduler's delays and its execution-time moving average.
type Config struct {
	// Debounce is the default delay between a request and its execution.
	Debounce time.Duration
	// HeavyDelay replaces Debounce for keys whose average runner execution
	// time exceeds HeavyThreshold. Backpressure for expensive runners.
	HeavyDelay     time.Duration
	HeavyThreshold time.Duration
	// Alpha is the smoothing factor of the execution-time moving average.
	Alpha float64
}

// DefaultConfig returns the tuning used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		Debounce:       250 * time.Millisecond,
		HeavyDelay:     time.Second,
		HeavyThreshold: 500 * time.Millisecond,
		Alpha:          0.3,
	}
}

type phase int

const (
	phaseScheduled phase = iota
	phaseExecuting
)

type request struct {
	version   int32
	runner    Runner
	immediate bool
	comp      *Completion
}

type keyState struct {
	phase  phase
	gen    uint64
	timer  *time.Timer
	req    request
	queued *request
}

// Scheduler coordinates per-key refresh execution. The zero value is not
// usable; construct with New.
type Scheduler struct {
	mu     sync.Mutex
	cfg    Config
	keys   map[string]*keyState
	avg    map[string]time.Duration
	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg Config) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:    cfg,
		keys:   make(map[string]*keyState),
		avg:    make(map[string]time.Duration),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule requests a refresh of key at the given version.
//
// Idle keys arm a timer. For a key already scheduled, an older version is
// ignored and the caller shares the armed request's completion, while an
// equal or newer version supersedes it: the old timer is stopped, its
// completion resolves without error, and a new timer is armed. For a key
// currently executing, the request becomes the queued follow-up; a queued
// request is only displaced by an equal or newer version, and whichever
// request loses resolves immediately so no caller hangs.
func (s *Scheduler) Schedule(key string, version int32, runner Runner, opts Options) *Completion {
	s.mu.Lock()
	defer s.mu.Unlock()

	comp := newCompletion()
	req := request{version: version, runner: runner, immediate: opts.Immediate, comp: comp}

	ks, ok := s.keys[key]
	if !ok {
		ks = &keyState{phase: phaseScheduled, req: req}
		s.keys[key] = ks
		s.armLocked(key, ks)
		return comp
	}

	switch ks.phase {
	case phaseScheduled:
		if version < ks.req.version {
			return ks.req.comp
		}
		if ks.timer != nil {
			ks.timer.Stop()
		}
		ks.req.comp.resolve(nil) // superseded, not failed
		ks.req = req
		s.armLocked(key, ks)

	case phaseExecuting:
		if ks.queued == nil {
			ks.queued = &req
		} else if version >= ks.queued.version {
			ks.queued.comp.resolve(nil)
			ks.queued = &req
		} else {
			comp.resolve(nil) // stale, dropped
		}
	}
	return comp
}

// armLocked starts the timer for the key's current request. The generation
// counter keeps a late-firing stale timer from executing a newer request.
func (s *Scheduler) armLocked(key string, ks *keyState) {
	ks.gen++
	gen := ks.gen
	ks.timer = time.AfterFunc(s.delayLocked(key, ks.req.immediate), func() {
		s.execute(key, gen)
	})
}

func (s *Scheduler) delayLocked(key string, immediate bool) time.Duration {
	if immediate {
		return 0
	}
	if avg, ok := s.avg[key]; ok && avg > s.cfg.HeavyThreshold {
		return s.cfg.HeavyDelay
	}
	return s.cfg.Debounce
}

func (s *Scheduler) execute(key string, gen uint64) {
	s.mu.Lock()
	ks, ok := s.keys[key]
	if !ok || ks.phase != phaseScheduled || ks.gen != gen {
		s.mu.Unlock()
		return
	}
	ks.phase = phaseExecuting
	ks.timer = nil
	req := ks.req
	s.mu.Unlock()

	start := time.Now()
	var err error
	if req.runner != nil {
		err = req.runner(s.ctx)
	}
	s.RecordDuration(key, time.Since(start))
	req.comp.resolve(err)

	s.mu.Lock()
	if s.keys[key] == ks {
		if ks.queued != nil {
			q := ks.queued
			ks.queued = nil
			ks.phase = phaseScheduled
			ks.req = *q
			s.armLocked(key, ks)
		} else {
			delete(s.keys, key)
		}
	}
	s.mu.Unlock()
}

// Cancel clears any armed timer for the key and resolves its completion and
// any queued follow-up without error. A runner already in flight is not
// preempted.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ks, ok := s.keys[key]
	if !ok {
		return
	}
	if ks.queued != nil {
		ks.queued.comp.resolve(nil)
		ks.queued = nil
	}
	if ks.phase == phaseScheduled {
		if ks.timer != nil {
			ks.timer.Stop()
		}
		ks.req.comp.resolve(nil)
		delete(s.keys, key)
	}
}

// RecordDuration feeds a measured runner execution time into the key's
// exponential moving average. The first sample seeds the average directly.
func (s *Scheduler) RecordDuration(key string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if avg, ok := s.avg[key]; ok {
		s.avg[key] = time.Duration(float64(avg)*(1-s.cfg.Alpha) + float64(d)*s.cfg.Alpha)
	} else {
		s.avg[key] = d
	}
}

// Average returns the key's current execution-time moving average.
func (s *Scheduler) Average(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	avg, ok := s.avg[key]
	return avg, ok
}

// Forget disposes all per-key state: any armed request is cancelled and the
// execution-time average is dropped. Call when the resource closes.
func (s *Scheduler) Forget(key string) {
	s.Cancel(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	delete(s.avg, key)
}

// Close cancels the context handed to runners and resolves every armed or
// queued request. Runners already in flight finish on their own.
func (s *Scheduler) Close() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ks := range s.keys {
		if ks.queued != nil {
			ks.queued.comp.resolve(nil)
			ks.queued = nil
		}
		if ks.phase == phaseScheduled {
			if ks.timer != nil {
				ks.timer.Stop()
			}
			ks.req.comp.resolve(nil)
			delete(s.keys, key)
		}
	}
}
