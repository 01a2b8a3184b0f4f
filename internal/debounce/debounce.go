// Package debounce delays an action until its input has been quiet for a
// while. Each new call cancels the pending one; only the last call within
// the quiet window runs.
package debounce

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	scheduler Scheduler
}

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// Debouncer wraps fn so that bursts of calls collapse into one.
type Debouncer[T any] struct {
	mu      sync.Mutex
	fn      func(T)
	delay   time.Duration
	sched   Scheduler
	timer   Timer
	gen     uint64
	pending bool
	stopped bool
	arg     T
}

// New returns a debounced wrapper around fn.
func New[T any](fn func(T), delay time.Duration, opts ...Option) *Debouncer[T] {
	o := options{scheduler: realScheduler{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{fn: fn, delay: delay, sched: o.scheduler}
}

// Call schedules fn(arg) after the delay, replacing any pending call.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.arg = arg
	d.pending = true
	d.timer = d.sched.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush runs the pending call now, if there is one.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	arg := d.arg
	d.mu.Unlock()
	d.fn(arg)
}

// Stop cancels the pending call and ignores later calls.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	arg := d.arg
	d.mu.Unlock()
	d.fn(arg)
}

// Gate is the message-driven form used inside an event loop: each input
// takes a token with Next, and the delayed message carrying that token is
// acted on only if Fire reports it is still the latest.
type Gate struct {
	mu  sync.Mutex
	seq uint64
}

// Next invalidates every earlier token and returns a new one.
func (g *Gate) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return g.seq
}

// Fire reports whether token is the most recent one.
func (g *Gate) Fire(token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return token != 0 && token == g.seq
}

// Cancel invalidates the outstanding token.
func (g *Gate) Cancel() {
	g.Next()
}
