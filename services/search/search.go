package search

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultDelay is the debounce window applied when none is configured.
const DefaultDelay = 300 * time.Millisecond

// ErrSuperseded is delivered for a query that a newer keystroke displaced,
// either before its debounce fired or after its fetch returned stale. Every
// Search call gets exactly one deliver, so callers waiting on a response
// channel never block forever.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Sequencer issues monotonically increasing generation tokens for a stream
// of lookups and cancels the context of every superseded one. A result is
// only current when its token is still the latest, so slow responses from
// older queries can never overwrite newer ones.
type Sequencer struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Next registers a new lookup: any in-flight predecessor is cancelled and the
// returned context belongs to this generation alone.
func (s *Sequencer) Next(parent context.Context) (uint64, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return s.gen, ctx
}

// Latest reports whether gen is still the newest issued generation.
func (s *Sequencer) Latest(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Cancel aborts whatever lookup is currently in flight without issuing a new
// generation.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Debouncer collapses a burst of calls into one, firing only after the
// configured quiet period. Each call resets the timer and replaces the
// pending function.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer builds a debouncer; delay <= 0 uses DefaultDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Do schedules fn after the quiet period, discarding any previously pending
// function.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop drops whatever is pending without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Runner glues a debouncer and a sequencer into the standard typeahead shape:
// wait out the keystroke burst, run the newest query, deliver its result only
// if nothing newer started meanwhile.
type Runner struct {
	debounce  *Debouncer
	sequencer Sequencer

	mu       sync.Mutex
	displace func()
}

// NewRunner builds a Runner with the given debounce delay.
func NewRunner(delay time.Duration) *Runner {
	return &Runner{debounce: NewDebouncer(delay)}
}

// Search schedules query. fetch runs with a generation-scoped context after
// the debounce window; deliver fires exactly once per call, with the result
// when it is still current and with ErrSuperseded when a newer Search
// displaced it.
func (r *Runner) Search(parent context.Context, query string, fetch func(ctx context.Context, query string) (interface{}, error), deliver func(query string, result interface{}, err error)) {
	var once sync.Once
	superseded := func() {
		once.Do(func() { deliver(query, nil, ErrSuperseded) })
	}

	r.mu.Lock()
	if r.displace != nil {
		r.displace()
	}
	r.displace = superseded
	r.mu.Unlock()

	r.debounce.Do(func() {
		gen, ctx := r.sequencer.Next(parent)
		result, err := fetch(ctx, query)
		if !r.sequencer.Latest(gen) {
			superseded()
			return
		}
		once.Do(func() { deliver(query, result, err) })
	})
}

// Stop cancels the pending debounce and any in-flight lookup, answering the
// displaced query with ErrSuperseded.
func (r *Runner) Stop() {
	r.debounce.Stop()
	r.sequencer.Cancel()
	r.mu.Lock()
	if r.displace != nil {
		r.displace()
		r.displace = nil
	}
	r.mu.Unlock()
}
