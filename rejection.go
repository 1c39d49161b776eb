package ionbridge

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

// RejectionFunc receives a tracked rejection.
type RejectionFunc func(id uint64, err error)

// DefaultRejectionDelay is how long a rejection may stay unhandled before
// it is reported.
const DefaultRejectionDelay = 2 * time.Second

// RejectionTracker tracks failed asynchronous work. A rejection registered
// with Reject is reported to the unhandled hook unless it is handled within
// the detection delay. Handling a rejection that was already reported goes
// to the handled hook instead.
type RejectionTracker struct {
	mu      sync.Mutex
	delay   time.Duration
	nextID  uint64
	pending map[uint64]*Rejection

	onUnhandled *Hook[RejectionFunc]
	onHandled   *Hook[RejectionFunc]
}

// NewRejectionTracker creates a tracker. delay <= 0 selects
// DefaultRejectionDelay.
func NewRejectionTracker(delay time.Duration) *RejectionTracker {
	if delay <= 0 {
		delay = DefaultRejectionDelay
	}
	return &RejectionTracker{
		delay:       delay,
		pending:     make(map[uint64]*Rejection),
		onUnhandled: NewHook[RejectionFunc](nil),
		onHandled:   NewHook[RejectionFunc](nil),
	}
}

// Delay returns the detection delay.
func (t *RejectionTracker) Delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delay
}

// SetDelay changes the detection delay for rejections registered afterwards.
func (t *RejectionTracker) SetDelay(d time.Duration) {
	if d <= 0 {
		d = DefaultRejectionDelay
	}
	t.mu.Lock()
	t.delay = d
	t.mu.Unlock()
}

// OnUnhandled returns the hook called for rejections nobody handled in time.
func (t *RejectionTracker) OnUnhandled() *Hook[RejectionFunc] { return t.onUnhandled }

// OnHandled returns the hook called when a reported rejection is handled late.
func (t *RejectionTracker) OnHandled() *Hook[RejectionFunc] { return t.onHandled }

// Pending returns the number of rejections awaiting detection.
func (t *RejectionTracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Reject registers a rejection. It returns nil for a nil err.
func (t *RejectionTracker) Reject(err error) *Rejection {
	if err == nil {
		return nil
	}

	t.mu.Lock()
	t.nextID++
	r := &Rejection{tracker: t, id: t.nextID, err: err}
	t.pending[r.id] = r
	delay := t.delay
	t.mu.Unlock()

	r.mu.Lock()
	r.timer = time.AfterFunc(delay, r.detect)
	r.mu.Unlock()
	return r
}

// Sweep reports every pending rejection as unhandled now, without waiting
// for its timer.
func (t *RejectionTracker) Sweep() {
	t.mu.Lock()
	pending := make([]*Rejection, 0, len(t.pending))
	for _, r := range t.pending {
		pending = append(pending, r)
	}
	t.mu.Unlock()

	for _, r := range pending {
		r.detect()
	}
}

func (t *RejectionTracker) forget(id uint64) {
	t.mu.Lock()
	delete(t.pending, id)
	t.mu.Unlock()
}

type rejectionState uint8

const (
	rejectionPending rejectionState = iota
	rejectionReported
	rejectionHandled
)

// Rejection is a tracked failure.
type Rejection struct {
	tracker *RejectionTracker
	id      uint64
	err     error

	mu    sync.Mutex
	state rejectionState
	timer *time.Timer
}

// ID returns the tracker-assigned id.
func (r *Rejection) ID() uint64 { return r.id }

// Err returns the rejection reason.
func (r *Rejection) Err() error { return r.err }

// Handle marks the rejection handled. Safe on a nil receiver and
// idempotent.
func (r *Rejection) Handle() {
	if r == nil {
		return
	}

	r.mu.Lock()
	prev := r.state
	r.state = rejectionHandled
	if prev == rejectionPending && r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()

	switch prev {
	case rejectionPending:
		r.tracker.forget(r.id)
	case rejectionReported:
		if fn := r.tracker.onHandled.Load(); fn != nil {
			fn(r.id, r.err)
		}
	}
}

func (r *Rejection) detect() {
	r.mu.Lock()
	if r.state != rejectionPending {
		r.mu.Unlock()
		return
	}
	r.state = rejectionReported
	r.mu.Unlock()

	r.tracker.forget(r.id)
	if fn := r.tracker.onUnhandled.Load(); fn != nil {
		fn(r.id, r.err)
	}
}

// Future is the result of work started with RejectionTracker.Go.
type Future struct {
	done chan struct{}
	err  error
	rej  *Rejection
}

// Go runs fn in a new goroutine. A returned error, or a panic converted to
// *PanicError, becomes a rejection that is handled by Wait.
func (t *RejectionTracker) Go(fn func() error) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		err := runRecovered(fn)
		if err != nil {
			f.err = err
			f.rej = t.Reject(err)
		}
	}()
	return f
}

func runRecovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r, debug.Stack())
		}
	}()
	return fn()
}

// Done is closed when the work has finished.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the work has finished, marks its rejection handled and
// returns its error.
func (f *Future) Wait() error {
	<-f.done
	f.rej.Handle()
	return f.err
}

func (f *Future) String() string {
	select {
	case <-f.done:
		if f.err != nil {
			return fmt.Sprintf("Future(rejected: %v)", f.err)
		}
		return "Future(resolved)"
	default:
		return "Future(pending)"
	}
}
