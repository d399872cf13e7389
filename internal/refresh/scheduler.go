package refresh

import (
	"fmt"
	"sync"
	"time"

	"objbrowse/internal/logging"
)

var refreshLog = logging.ForComponent(logging.CompRefresh)

// tickSource produces the tick channel the scheduler waits on, plus a stop
// function. Swapped out in tests for a hand-driven channel.
type tickSource func(d time.Duration) (<-chan time.Time, func())

func tickerSource(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Scheduler fires a refresh callback at a fixed interval. The callback is
// expected to hand the work to the goroutine that owns the session state
// (the UI loop); the scheduler itself never touches that state.
//
// Start and Stop are idempotent. Stop only suppresses future firings: a
// firing already in progress runs to completion.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	fire     func()
	ticks    tickSource
	stop     chan struct{}
	running  bool
}

// NewScheduler returns a scheduler that invokes fire on every tick. The
// scheduler is unconfigured until Configure is called.
func NewScheduler(fire func()) *Scheduler {
	return &Scheduler{fire: fire, ticks: tickerSource}
}

// Configure sets the firing interval. A non-positive interval is a
// configuration error and leaves the scheduler unchanged.
func (s *Scheduler) Configure(intervalSeconds int) error {
	if intervalSeconds <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %d", intervalSeconds)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = time.Duration(intervalSeconds) * time.Second
	return nil
}

// Interval returns the configured firing interval (zero if unconfigured).
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Running reports whether the scheduler is currently firing.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start begins periodic firing. No-op if already started.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	if s.interval <= 0 {
		panic("refresh: Start before Configure")
	}

	ch, stopTicks := s.ticks(s.interval)
	stop := make(chan struct{})
	s.stop = stop
	s.running = true
	refreshLog.Printf("auto-refresh on, interval %s", s.interval)

	go func() {
		defer stopTicks()
		for {
			select {
			case <-stop:
				return
			case <-ch:
				s.fire()
			}
		}
	}()
}

// Stop halts future firings. No-op if already stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
	refreshLog.Printf("auto-refresh off")
}
