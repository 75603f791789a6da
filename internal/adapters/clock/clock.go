// Package clock provides ports.Clock implementations: a ticker-backed real
// clock and a manually advanced clock for tests.
package clock

import (
	"sync"
	"time"
)

// Real is a wall clock. Every runs fn on its own goroutine.
type Real struct{}

// NewReal returns a wall clock.
func NewReal() Real {
	return Real{}
}

// Now returns the current time.
func (Real) Now() time.Time {
	return time.Now()
}

// Every calls fn once per interval until cancel is called.
func (Real) Every(interval time.Duration, fn func()) (cancel func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// Manual is a clock that only moves when Advance is called. Callbacks run
// synchronously on the goroutine calling Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	tickers map[int]*manualTicker
}

type manualTicker struct {
	interval time.Duration
	next     time.Time
	fn       func()
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, tickers: make(map[int]*manualTicker)}
}

// Now returns the manual clock's current time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Every registers fn to run each time the clock passes a multiple of interval.
func (m *Manual) Every(interval time.Duration, fn func()) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.tickers[id] = &manualTicker{interval: interval, next: m.now.Add(interval), fn: fn}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.tickers, id)
	}
}

// Active returns the number of registered, uncancelled tickers.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// Advance moves the clock forward by d, one second-sized step at a time,
// firing every ticker that comes due along the way.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		fn, ok := m.nextDue(target)
		if !ok {
			break
		}
		fn()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// nextDue pops the earliest ticker due at or before target and moves the
// clock to its deadline.
func (m *Manual) nextDue(target time.Time) (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due *manualTicker
	for _, t := range m.tickers {
		if t.next.After(target) {
			continue
		}
		if due == nil || t.next.Before(due.next) {
			due = t
		}
	}
	if due == nil {
		return nil, false
	}
	m.now = due.next
	due.next = due.next.Add(due.interval)
	return due.fn, true
}

// Tick advances the clock by n seconds.
func (m *Manual) Tick(n int) {
	m.Advance(time.Duration(n) * time.Second)
}
