package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Task is a unit of work run on the consumer goroutine.
type Task func(ctx context.Context) error

type task struct {
	id   string
	name string
	fn   Task
	done chan struct{}
	err  error
}

// complete records the result. Called exactly once per task.
func (t *task) complete(err error) {
	t.err = err
	close(t.done)
}

// Future is the handle returned by Submit.
type Future struct {
	t *task
}

// ID returns the task id used in logs.
func (f *Future) ID() string { return f.t.id }

// Done is closed once the task has finished or been abandoned by a
// stopped dispatcher.
func (f *Future) Done() <-chan struct{} { return f.t.done }

// Wait blocks until the task finishes or ctx ends. A context that ends
// by deadline yields ErrTimeout; cancellation yields ctx.Err(). The task
// keeps running after Wait gives up.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.t.done:
		return f.t.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("task %s (%s): %w", f.t.name, f.t.id, ErrTimeout)
		}
		return ctx.Err()
	}
}

// Dispatcher owns a FIFO of tasks drained by a single Run goroutine.
type Dispatcher struct {
	queue   *taskQueue
	ids     IDGenerator
	running atomic.Bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithIDGenerator replaces the default UUIDv7 task ids.
func WithIDGenerator(g IDGenerator) Option {
	return func(d *Dispatcher) { d.ids = g }
}

// New creates a dispatcher. Nothing runs until Run is called.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue: newTaskQueue(),
		ids:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit enqueues fn and returns its future. If the dispatcher is
// stopped the future is already complete with ErrClosed.
func (d *Dispatcher) Submit(name string, fn Task) *Future {
	t := &task{
		id:   d.ids.Generate(),
		name: name,
		fn:   fn,
		done: make(chan struct{}),
	}
	if !d.queue.Enqueue(t) {
		t.complete(ErrClosed)
	}
	return &Future{t: t}
}

// Do submits fn and waits for it. A positive timeout bounds the wait.
func (d *Dispatcher) Do(ctx context.Context, timeout time.Duration, name string, fn Task) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.Submit(name, fn).Wait(ctx)
}

// Pending returns the number of queued tasks.
func (d *Dispatcher) Pending() int {
	return d.queue.Len()
}

// Run drains the queue until ctx is cancelled or Stop is called. Tasks
// run one at a time with ctx. Tasks still queued on exit complete with
// ErrClosed. Run may only be active on one goroutine at a time.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("dispatcher already running")
	}
	defer d.running.Store(false)

	slog.Debug("dispatcher starting")

	for {
		if t, ok := d.queue.TryDequeue(); ok {
			d.execute(ctx, t)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Debug("dispatcher stopping: context cancelled")
			d.Stop()
			return ctx.Err()

		case <-d.queue.Wait():
			// The signal channel closes with the queue.
			if d.queue.Len() == 0 && d.closed() {
				slog.Debug("dispatcher stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue. Pending tasks complete with ErrClosed and Run
// returns once the task in progress, if any, finishes.
func (d *Dispatcher) Stop() {
	for _, t := range d.queue.Close() {
		t.complete(ErrClosed)
	}
}

func (d *Dispatcher) closed() bool {
	d.queue.mu.Lock()
	defer d.queue.mu.Unlock()
	return d.queue.closed
}

func (d *Dispatcher) execute(ctx context.Context, t *task) {
	start := time.Now()
	err := d.call(ctx, t)
	if err != nil {
		slog.Warn("task failed", "task", t.name, "id", t.id, "error", err)
	} else {
		slog.Debug("task done", "task", t.name, "id", t.id, "elapsed", time.Since(start))
	}
	t.complete(err)
}

// call runs the task, turning a panic into an error so the consumer survives.
func (d *Dispatcher) call(ctx context.Context, t *task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", t.name, r)
		}
	}()
	return t.fn(ctx)
}
