// Package preview coalesces bursts of edits into a single render.
package preview

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a scheduled render starts.
const DefaultDelay = time.Second

// Func renders a preview. It should return promptly once ctx is done.
type Func func(ctx context.Context) ([]byte, error)

// Result is what a completed, non-superseded render produced.
type Result struct {
	Seq  uint64
	Data []byte
	Err  error
}

// Debouncer runs the latest scheduled Func after a quiet period. Scheduling
// again restarts the timer and cancels a render already in flight; results
// of superseded renders are dropped.
type Debouncer struct {
	delay   time.Duration
	deliver func(Result)

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	stopped bool
}

// New returns a Debouncer that hands results to deliver. A non-positive
// delay means DefaultDelay.
func New(delay time.Duration, deliver func(Result)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, deliver: deliver}
}

// Schedule supersedes whatever is pending or running and returns the
// sequence number of the new request.
func (d *Debouncer) Schedule(fn Func) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return d.seq
	}
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.timer = time.AfterFunc(d.delay, func() { d.run(seq, fn) })
	return seq
}

func (d *Debouncer) run(seq uint64, fn Func) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	data, err := fn(ctx)

	d.mu.Lock()
	current := !d.stopped && seq == d.seq
	live := ctx.Err() == nil
	if current {
		d.cancel = nil
	}
	d.mu.Unlock()
	cancel()

	if current && live && d.deliver != nil {
		d.deliver(Result{Seq: seq, Data: data, Err: err})
	}
}

// Stop cancels the pending timer and any render in flight. Later calls to
// Schedule are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
