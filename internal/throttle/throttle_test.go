package throttle

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestThrottle_ConcurrencyCap tests that in-flight permits never exceed the cap
func TestThrottle_ConcurrencyCap(t *testing.T) {
	tr := New(Config{Concurrency: 2})

	var inFlight, peak int64
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, tr.Acquire(context.Background()))
			defer tr.Release()

			n := atomic.AddInt64(&inFlight, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
		}()
	}

	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

// TestThrottle_Serialised tests the default single-permit behaviour
func TestThrottle_Serialised(t *testing.T) {
	tr := New(Config{})

	require.NoError(t, tr.Acquire(context.Background()))
	assert.Equal(t, 1, tr.InFlight())

	// A second acquire must block until the permit is returned.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := tr.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	tr.Release()
	assert.Equal(t, 0, tr.InFlight())

	require.NoError(t, tr.Acquire(context.Background()))
	tr.Release()
}

// TestThrottle_Pacing tests minimum spacing between grants
func TestThrottle_Pacing(t *testing.T) {
	const gap = 30 * time.Millisecond
	tr := New(Config{Every: gap, Burst: 1, Concurrency: 1})

	var grants []time.Time
	for i := 0; i < 3; i++ {
		require.NoError(t, tr.Acquire(context.Background()))
		grants = append(grants, time.Now())
		tr.Release()
	}

	// The first grant consumes the initial token; subsequent grants wait.
	for i := 1; i < len(grants); i++ {
		spacing := grants[i].Sub(grants[i-1])
		assert.GreaterOrEqual(t, spacing, gap-5*time.Millisecond,
			"grant %d followed too quickly", i)
	}
}

// TestThrottle_Burst tests that the bucket allows an initial burst
func TestThrottle_Burst(t *testing.T) {
	tr := New(Config{Every: time.Second, Burst: 3, Concurrency: 3})

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, tr.Acquire(context.Background()))
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	for i := 0; i < 3; i++ {
		tr.Release()
	}
}

// TestThrottle_AcquireHonoursContext tests cancellation while waiting for a permit
func TestThrottle_AcquireHonoursContext(t *testing.T) {
	tr := New(Config{Concurrency: 1})
	require.NoError(t, tr.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tr.Acquire(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("acquire did not observe cancellation")
	}

	tr.Release()
}

// TestThrottle_CancelledLimiterWaitReturnsPermit tests the slot is freed on pacing abort
func TestThrottle_CancelledLimiterWaitReturnsPermit(t *testing.T) {
	tr := New(Config{Every: time.Hour, Burst: 1, Concurrency: 1})

	// Drain the single token.
	require.NoError(t, tr.Acquire(context.Background()))
	tr.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := tr.Acquire(ctx)
	require.Error(t, err)

	// The semaphore slot must have been returned.
	assert.Equal(t, 0, tr.InFlight())
}

// TestThrottle_IndependentLanes tests that two instances never share capacity
func TestThrottle_IndependentLanes(t *testing.T) {
	src := New(Config{Concurrency: 1})
	dst := New(Config{Concurrency: 1})

	require.NoError(t, src.Acquire(context.Background()))

	// Exhausting the source lane leaves the destination lane untouched.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, dst.Acquire(ctx))

	src.Release()
	dst.Release()
}
