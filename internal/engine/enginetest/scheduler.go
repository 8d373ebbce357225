// Package enginetest provides a deterministic scheduler for tests that drive an engine.
package enginetest

import (
	"sync"
	"time"

	"ctchen222/tictak/internal/engine"
)

// Scheduler queues tasks until the test fires them with RunPending.
type Scheduler struct {
	mu        sync.Mutex
	tasks     []*task
	lastDelay time.Duration
}

type task struct {
	mu   sync.Mutex
	f    func()
	done bool
}

func (t *task) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// claim marks the task as run, reporting whether it was still pending.
func (t *task) claim() bool {
	return t.Stop()
}

// NewScheduler creates an empty manual scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) engine.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &task{f: f}
	s.tasks = append(s.tasks, t)
	s.lastDelay = d
	return t
}

// Pending returns the number of tasks that are neither run nor stopped.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		t.mu.Lock()
		if !t.done {
			n++
		}
		t.mu.Unlock()
	}
	return n
}

// RunPending synchronously runs every pending task and returns how many ran.
func (s *Scheduler) RunPending() int {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	ran := 0
	for _, t := range tasks {
		if t.claim() {
			t.f()
			ran++
		}
	}
	return ran
}

// FireStale runs tasks even if they were stopped, simulating a timer that fired just before Stop.
func (s *Scheduler) FireStale() int {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, t := range tasks {
		t.f()
	}
	return len(tasks)
}

// LastDelay returns the delay passed to the most recent AfterFunc call.
func (s *Scheduler) LastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDelay
}
