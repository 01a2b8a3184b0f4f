package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.now += d
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			t.f()
		}
	}
}

func TestDebouncer_ThreeQuickCallsRunOnceWithLastArg(t *testing.T) {
	sched := &fakeScheduler{}
	var got []string
	d := New(func(s string) { got = append(got, s) }, 300*time.Millisecond, WithScheduler(sched))

	d.Call("i")
	sched.Advance(100 * time.Millisecond)
	d.Call("ip")
	sched.Advance(100 * time.Millisecond)
	d.Call("iph")
	sched.Advance(299 * time.Millisecond)
	assert.Empty(t, got)
	assert.True(t, d.Pending())

	sched.Advance(time.Millisecond)
	assert.Equal(t, []string{"iph"}, got)
	assert.False(t, d.Pending())

	sched.Advance(time.Second)
	assert.Len(t, got, 1)
}

func TestDebouncer_SeparateBurstsFireSeparately(t *testing.T) {
	sched := &fakeScheduler{}
	var got []int
	d := New(func(n int) { got = append(got, n) }, 50*time.Millisecond, WithScheduler(sched))

	d.Call(1)
	sched.Advance(60 * time.Millisecond)
	d.Call(2)
	sched.Advance(60 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, got)
}

func TestDebouncer_StaleTimerIsIgnored(t *testing.T) {
	sched := &fakeScheduler{}
	var got []int
	d := New(func(n int) { got = append(got, n) }, 50*time.Millisecond, WithScheduler(sched))

	d.Call(1)
	stale := sched.timers[0]
	d.Call(2)
	// A timer that already left the runtime queue still runs its callback.
	stale.f()
	assert.Empty(t, got)

	sched.Advance(50 * time.Millisecond)
	assert.Equal(t, []int{2}, got)
}

func TestDebouncer_FlushAndStop(t *testing.T) {
	sched := &fakeScheduler{}
	var got []string
	d := New(func(s string) { got = append(got, s) }, time.Second, WithScheduler(sched))

	d.Call("now")
	d.Flush()
	assert.Equal(t, []string{"now"}, got)
	sched.Advance(2 * time.Second)
	assert.Len(t, got, 1)

	d.Flush()
	assert.Len(t, got, 1)

	d.Call("never")
	d.Stop()
	d.Call("ignored")
	sched.Advance(2 * time.Second)
	assert.Len(t, got, 1)
}

func TestDebouncer_WallClock(t *testing.T) {
	var mu sync.Mutex
	var calls []int
	done := make(chan struct{})
	d := New(func(n int) {
		mu.Lock()
		calls = append(calls, n)
		mu.Unlock()
		close(done)
	}, 20*time.Millisecond)

	for i := 1; i <= 3; i++ {
		d.Call(i)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0])
}

func TestGate(t *testing.T) {
	var g Gate
	assert.False(t, g.Fire(0))

	first := g.Next()
	second := g.Next()
	assert.False(t, g.Fire(first))
	assert.True(t, g.Fire(second))

	g.Cancel()
	assert.False(t, g.Fire(second))
}
