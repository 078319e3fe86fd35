package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	stopped bool
}

func (h *fakeHandle) Stop() bool {
	wasRunning := !h.stopped
	h.stopped = true
	return wasRunning
}

type scheduled struct {
	d      time.Duration
	f      func()
	handle *fakeHandle
}

// fakeScheduler never fires on its own; tests call fire explicitly, including on
// stopped handles, to simulate callbacks that were already in flight.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*scheduled
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &scheduled{d: d, f: f, handle: &fakeHandle{}}
	s.tasks = append(s.tasks, task)
	return task.handle
}

func (s *fakeScheduler) fire(i int) {
	s.mu.Lock()
	task := s.tasks[i]
	s.mu.Unlock()
	task.f()
}

func TestCountdown_FiresOnce(t *testing.T) {
	sched := &fakeScheduler{}
	c := New(WithScheduler(sched))

	calls := 0
	c.Start(20*time.Second, func() { calls++ })
	require.Len(t, sched.tasks, 1)
	assert.Equal(t, 20*time.Second, sched.tasks[0].d)

	sched.fire(0)
	sched.fire(0)
	assert.Equal(t, 1, calls)
	assert.Zero(t, c.Remaining())
}

func TestCountdown_RestartIgnoresStaleCallback(t *testing.T) {
	sched := &fakeScheduler{}
	c := New(WithScheduler(sched))

	var fired []string
	first := c.Start(10*time.Second, func() { fired = append(fired, "first") })
	second := c.Start(10*time.Second, func() { fired = append(fired, "second") })

	assert.NotEqual(t, first, second)
	assert.True(t, sched.tasks[0].handle.stopped, "restart stops the previous countdown")

	sched.fire(0)
	assert.Empty(t, fired)

	sched.fire(1)
	assert.Equal(t, []string{"second"}, fired)
}

func TestCountdown_Stop(t *testing.T) {
	sched := &fakeScheduler{}
	c := New(WithScheduler(sched))

	calls := 0
	c.Start(30*time.Second, func() { calls++ })
	c.Stop()
	sched.fire(0)

	assert.Zero(t, calls)
	assert.True(t, sched.tasks[0].handle.stopped)
}

func TestCountdown_Remaining(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(WithScheduler(&fakeScheduler{}), WithClock(func() time.Time { return now }))

	assert.Zero(t, c.Remaining())
	c.Start(30*time.Second, func() {})

	now = now.Add(12 * time.Second)
	assert.Equal(t, 18*time.Second, c.Remaining())

	now = now.Add(time.Minute)
	assert.Zero(t, c.Remaining())
}

func TestCountdown_RealScheduler(t *testing.T) {
	c := New()
	done := make(chan struct{})
	c.Start(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown did not expire")
	}
}
