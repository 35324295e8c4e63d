package agent

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from running. It reports false when the call
	// already ran or was stopped.
	Stop() bool
}

// Scheduler runs delayed deliveries. Stopping a timer is advisory; sessions
// still compare generation tokens when a call fires.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler uses time.AfterFunc.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// InlineScheduler runs every call immediately on the caller's goroutine.
type InlineScheduler struct{}

func (InlineScheduler) AfterFunc(_ time.Duration, f func()) Timer {
	f()
	return doneTimer{}
}

type doneTimer struct{}

func (doneTimer) Stop() bool { return false }

// ManualScheduler only runs calls when Advance moves its clock past their
// due time.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
	owner   *ManualScheduler
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{due: m.now + d, seq: m.seq, f: f, owner: m}
	m.tasks = append(m.tasks, task)
	return task
}

func (t *manualTask) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and runs every call that became due, in
// due-time order. Calls scheduled while advancing run too if they fall
// inside the window.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		task := m.nextDue(target)
		if task == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		task.fired = true
		if task.due > m.now {
			m.now = task.due
		}
		m.mu.Unlock()
		task.f()
	}
}

func (m *ManualScheduler) nextDue(target time.Duration) *manualTask {
	pending := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped && !t.fired {
			pending = append(pending, t)
		}
	}
	m.tasks = pending
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].due == pending[j].due {
			return pending[i].seq < pending[j].seq
		}
		return pending[i].due < pending[j].due
	})
	if len(pending) == 0 || pending[0].due > target {
		return nil
	}
	return pending[0]
}

// Pending is the number of calls that are neither stopped nor fired.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
