package stub

import (
	"context"
	"sort"
	"sync"
	"time"

	pkgtime "github.com/fitcircle/fitcircle-client/pkg/time"
)

// Scheduler is a manually advanced scheduler. Due callbacks run synchronously inside Advance.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*Timer
}

type Timer struct {
	scheduler *Scheduler
	seq       int
	at        time.Time
	delay     time.Duration
	f         func()
	stopped   bool
	fired     bool
}

func NewScheduler(now time.Time) *Scheduler {
	return &Scheduler{now: now}
}

func (s *Scheduler) Now(context.Context) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) pkgtime.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &Timer{
		scheduler: s,
		seq:       s.seq,
		at:        s.now.Add(d),
		delay:     d,
		f:         f,
	}
	s.timers = append(s.timers, t)
	return t
}

// Pending returns timers that were neither stopped nor fired, ordered by fire time.
func (s *Scheduler) Pending() []*Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*Timer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].at.Equal(result[j].at) {
			return result[i].seq < result[j].seq
		}
		return result[i].at.Before(result[j].at)
	})
	return result
}

// Advance moves the clock forward and fires every timer that became due.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		due := s.nextDue(target)
		if due == nil {
			break
		}
		due.f()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

func (s *Scheduler) nextDue(target time.Time) *Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next *Timer
	for _, t := range s.timers {
		if t.stopped || t.fired || t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	if next != nil {
		next.fired = true
		s.now = next.at
	}
	return next
}

func (t *Timer) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Fire runs the callback even when the timer was stopped, as a timer whose Stop lost the race with firing.
func (t *Timer) Fire() {
	t.scheduler.mu.Lock()
	t.fired = true
	t.scheduler.mu.Unlock()

	t.f()
}

// Delay is the duration the timer was scheduled with.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

func (t *Timer) At() time.Time {
	return t.at
}
