package layout

import (
	"slices"
	"sync"
	"time"
)

// DefaultDebounce is the quiescence interval used when a Debouncer is
// created with a zero delay.
const DefaultDebounce = 100 * time.Millisecond

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing and reports whether it was
	// still pending.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules callbacks with the time package.
type RealClock struct{}

// AfterFunc wraps time.AfterFunc.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// ManualClock is a Clock that only advances when told to. Callbacks run on
// the goroutine calling Advance, in deadline order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	at    time.Duration
	seq   int
	f     func()
}

// AfterFunc schedules f to run once the clock advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Stop removes the timer.
func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.Index(c.timers, t)
	if i < 0 {
		return false
	}
	c.timers = slices.Delete(c.timers, i, i+1)
	return true
}

// Advance moves the clock forward by d and runs every callback that became
// due, including callbacks scheduled by earlier callbacks within the window.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := -1
		for i, t := range c.timers {
			if t.at > target {
				continue
			}
			if next < 0 || t.at < c.timers[next].at || (t.at == c.timers[next].at && t.seq < c.timers[next].seq) {
				next = i
			}
		}
		if next < 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		t := c.timers[next]
		c.timers = slices.Delete(c.timers, next, next+1)
		c.now = t.at
		c.mu.Unlock()
		t.f()
	}
}

// Pending returns the number of scheduled callbacks.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Debouncer coalesces bursts of requests into one trailing invocation per
// key. Each Trigger resets the key's timer; the latest run function fires
// once the key has been quiet for the delay. A key never has two runs in
// flight: a request arriving while its run is in progress is re-armed when
// the run signals completion.
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu       sync.Mutex
	slots    map[string]*slot
	closed   bool
	inflight int        // runs started and not yet done
	idle     *sync.Cond // signaled when inflight drops to zero
}

type slot struct {
	gen     int
	timer   Timer
	run     func(done func())
	running bool
	rearm   bool
}

// NewDebouncer creates a debouncer. A nil clock uses RealClock and a
// non-positive delay uses DefaultDebounce.
func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = RealClock{}
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	d := &Debouncer{clock: clock, delay: delay, slots: make(map[string]*slot)}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Trigger schedules run for key, replacing any pending run for the same
// key. run receives a done callback it must call when its work, including
// any asynchronous part, is finished.
func (d *Debouncer) Trigger(key string, run func(done func())) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	s, ok := d.slots[key]
	if !ok {
		s = &slot{}
		d.slots[key] = s
	}
	s.run = run
	if s.running {
		s.rearm = true
		return
	}
	d.arm(key, s)
}

// arm (re)starts the slot timer. d.mu must be held.
func (d *Debouncer) arm(key string, s *slot) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = d.clock.AfterFunc(d.delay, func() { d.fire(key, s, gen) })
}

func (d *Debouncer) fire(key string, s *slot, gen int) {
	d.mu.Lock()
	if d.closed || d.slots[key] != s || s.gen != gen || s.running {
		d.mu.Unlock()
		return
	}
	s.timer = nil
	s.running = true
	d.inflight++
	run := s.run
	d.mu.Unlock()

	var once sync.Once
	run(func() { once.Do(func() { d.finish(key, s) }) })
}

func (d *Debouncer) finish(key string, s *slot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s.running = false
	if d.inflight--; d.inflight == 0 {
		d.idle.Broadcast()
	}
	if s.rearm && !d.closed {
		s.rearm = false
		d.arm(key, s)
		return
	}
	if s.timer == nil && d.slots[key] == s {
		delete(d.slots, key)
	}
}

// Pending reports whether key has a run scheduled or in progress.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.slots[key]
	return ok
}

// Keys returns the keys with scheduled or running work, sorted.
func (d *Debouncer) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.slots))
	for k := range d.slots {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Wait blocks until no run is in progress. Runs still waiting for their
// delay are not waited for.
func (d *Debouncer) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.inflight > 0 {
		d.idle.Wait()
	}
}

// Close cancels every pending run. Runs already in progress complete but
// are not re-armed. Later triggers are ignored, so a Wait after Close
// returns once the last started run is done.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for k, s := range d.slots {
		if s.timer != nil {
			s.timer.Stop()
		}
		delete(d.slots, k)
	}
}
