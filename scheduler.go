package scratchcard

import (
	"sync"
	"time"
)

// FrameID identifies a pending frame request.
type FrameID uint64

// FrameFunc is a per-frame callback. now is the host's frame timestamp.
type FrameFunc func(now time.Time)

// Scheduler is the host's per-frame callback facility, the equivalent of
// requestAnimationFrame. Callbacks run on the UI goroutine.
type Scheduler interface {
	// RequestFrame schedules fn to run once on the next frame.
	RequestFrame(fn FrameFunc) FrameID

	// CancelFrame drops a pending request. Unknown IDs are ignored.
	CancelFrame(id FrameID)
}

// FrameLoop is a Scheduler driven explicitly by the host: call Step once per
// rendered frame. Callbacks requested while a step is running are deferred to
// the next step, so a self-rescheduling task runs exactly once per frame.
//
// RequestFrame, CancelFrame and Step belong to the UI goroutine. Post is the
// only method safe to call from other goroutines.
type FrameLoop struct {
	next    FrameID
	order   []FrameID
	pending map[FrameID]FrameFunc

	mu    sync.Mutex
	inbox []func()
}

// NewFrameLoop creates an empty FrameLoop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{pending: make(map[FrameID]FrameFunc)}
}

// RequestFrame implements Scheduler.
func (l *FrameLoop) RequestFrame(fn FrameFunc) FrameID {
	l.next++
	id := l.next
	l.pending[id] = fn
	l.order = append(l.order, id)
	return id
}

// CancelFrame implements Scheduler.
func (l *FrameLoop) CancelFrame(id FrameID) {
	delete(l.pending, id)
}

// Post queues fn to run at the start of the next Step. It is safe for
// concurrent use and is how asynchronous work re-enters the UI goroutine.
func (l *FrameLoop) Post(fn func()) {
	l.mu.Lock()
	l.inbox = append(l.inbox, fn)
	l.mu.Unlock()
}

// Pending returns the number of frame callbacks waiting for the next step.
func (l *FrameLoop) Pending() int {
	return len(l.pending)
}

// Step runs posted functions, then every frame callback requested before this
// call, in request order.
func (l *FrameLoop) Step(now time.Time) {
	l.mu.Lock()
	inbox := l.inbox
	l.inbox = nil
	l.mu.Unlock()
	for _, fn := range inbox {
		fn()
	}

	order := l.order
	l.order = nil
	for _, id := range order {
		fn, ok := l.pending[id]
		if !ok {
			continue
		}
		delete(l.pending, id)
		fn(now)
	}
}

// task is a self-rescheduling frame callback. step returns whether the task
// wants another frame; cancel stops it without running step again.
type task struct {
	sched   Scheduler
	step    func(now time.Time) bool
	id      FrameID
	running bool
}

func (t *task) start() {
	if t.running || t.sched == nil {
		return
	}
	t.running = true
	t.id = t.sched.RequestFrame(t.frame)
}

func (t *task) frame(now time.Time) {
	if !t.running {
		return
	}
	if t.step(now) {
		t.id = t.sched.RequestFrame(t.frame)
		return
	}
	t.running = false
}

func (t *task) cancel() {
	if !t.running {
		return
	}
	t.running = false
	t.sched.CancelFrame(t.id)
}

// Running reports whether the task has a frame pending.
func (t *task) Running() bool {
	return t.running
}
