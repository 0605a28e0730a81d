package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/plotstore/internal/testutil"
)

// startDispatcher runs d in the background and stops it on cleanup.
func startDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestDispatcher_RunsTaskAndReturnsError(t *testing.T) {
	d := New()
	startDispatcher(t, d)

	want := errors.New("boom")
	err := d.Do(context.Background(), time.Second, "fail", func(context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)

	err = d.Do(context.Background(), time.Second, "ok", func(context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestDispatcher_FIFOOnSingleGoroutine(t *testing.T) {
	d := New()

	var (
		mu      sync.Mutex
		order   []int
		running int
		maxSeen int
	)
	futures := make([]*Future, 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		futures = append(futures, d.Submit("step", func(context.Context) error {
			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			order = append(order, i)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			return nil
		}))
	}

	startDispatcher(t, d)
	for _, f := range futures {
		require.NoError(t, f.Wait(context.Background()))
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
	assert.Equal(t, 1, maxSeen, "tasks must never overlap")
}

func TestFuture_WaitTimeout(t *testing.T) {
	d := New()
	startDispatcher(t, d)

	release := make(chan struct{})
	defer close(release)

	err := d.Do(context.Background(), 20*time.Millisecond, "slow", func(context.Context) error {
		<-release
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFuture_WaitCancelled(t *testing.T) {
	d := New() // never run

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Submit("never", func(context.Context) error { return nil }).Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestFuture_AbandonedTaskStillCompletes(t *testing.T) {
	d := New()
	startDispatcher(t, d)

	release := make(chan struct{})
	ran := make(chan struct{})
	f := d.Submit("late", func(context.Context) error {
		<-release
		close(ran)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, f.Wait(ctx), ErrTimeout)

	close(release)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("abandoned task never ran")
	}
	<-f.Done()

	// The consumer is free for the next task.
	assert.NoError(t, d.Do(context.Background(), time.Second, "next", func(context.Context) error { return nil }))
}

func TestDispatcher_SubmitAfterStop(t *testing.T) {
	d := New()
	d.Stop()

	err := d.Submit("late", func(context.Context) error { return nil }).Wait(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDispatcher_StopFailsPending(t *testing.T) {
	d := New()
	f := d.Submit("pending", func(context.Context) error { return nil })
	require.Equal(t, 1, d.Pending())

	d.Stop()

	assert.ErrorIs(t, f.Wait(context.Background()), ErrClosed)
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcher_RunReturnsOnStop(t *testing.T) {
	d := New()
	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	require.NoError(t, d.Do(context.Background(), time.Second, "warmup", func(context.Context) error { return nil }))
	d.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestDispatcher_RunReturnsOnCancel(t *testing.T) {
	d := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	err := d.Submit("late", func(context.Context) error { return nil }).Wait(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDispatcher_PanicBecomesError(t *testing.T) {
	d := New()
	startDispatcher(t, d)

	err := d.Do(context.Background(), time.Second, "explode", func(context.Context) error {
		panic("kaboom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")

	assert.NoError(t, d.Do(context.Background(), time.Second, "after", func(context.Context) error { return nil }))
}

func TestDispatcher_SecondRunRejected(t *testing.T) {
	d := New()
	startDispatcher(t, d)

	// Ensure the first Run is active before starting a second.
	require.NoError(t, d.Do(context.Background(), time.Second, "sync", func(context.Context) error { return nil }))

	err := d.Run(context.Background())
	assert.Error(t, err)
}

func TestDispatcher_FixedIDs(t *testing.T) {
	d := New(WithIDGenerator(NewFixedGenerator("task-1", "task-2")))

	assert.Equal(t, "task-1", d.Submit("a", func(context.Context) error { return nil }).ID())
	assert.Equal(t, "task-2", d.Submit("b", func(context.Context) error { return nil }).ID())
	assert.Panics(t, func() { d.Submit("c", func(context.Context) error { return nil }) })
}

func TestDispatcher_CountingIDs(t *testing.T) {
	ids := testutil.NewCountingGenerator("task-")
	d := New(WithIDGenerator(ids))
	startDispatcher(t, d)

	f := d.Submit("first", func(context.Context) error { return nil })
	assert.Equal(t, "task-1", f.ID())
	require.NoError(t, f.Wait(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.Do(context.Background(), time.Second, "many", func(context.Context) error { return nil }))
		}()
	}
	wg.Wait()
	assert.Equal(t, 11, ids.Count())
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
