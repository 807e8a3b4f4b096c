package workerpool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPool_SubmitWithResult(t *testing.T) {
	pool, err := New(&Config{Workers: 2}, zap.NewNop())
	require.NoError(t, err)
	defer pool.Shutdown()

	assert.Equal(t, 2, pool.Cap())

	ok := pool.SubmitWithResult(func() (interface{}, error) { return "done", nil })
	bad := pool.SubmitWithResult(func() (interface{}, error) { return nil, errors.New("boom") })

	res := <-ok
	assert.NoError(t, res.Error)
	assert.Equal(t, "done", res.Data)

	res = <-bad
	assert.EqualError(t, res.Error, "boom")

	assert.Eventually(t, func() bool {
		s := pool.Stats()
		return s.Completed == 1 && s.Failed == 1 && s.Running == 0
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(2), pool.Stats().Submitted)
}

func TestPool_PanicBecomesError(t *testing.T) {
	pool, err := New(nil, nil)
	require.NoError(t, err)
	defer pool.Shutdown()

	res := <-pool.SubmitWithResult(func() (interface{}, error) {
		panic("kaboom")
	})
	require.Error(t, res.Error)
	assert.Contains(t, res.Error.Error(), "kaboom")
}

func TestPool_BoundsConcurrency(t *testing.T) {
	pool, err := New(&Config{Workers: 3}, zap.NewNop())
	require.NoError(t, err)
	defer pool.Shutdown()

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			n := atomic.AddInt32(&current, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
		}))
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestPool_ClosedPool(t *testing.T) {
	pool, err := New(&Config{Workers: 1}, zap.NewNop())
	require.NoError(t, err)
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)

	res := <-pool.SubmitWithResult(func() (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, res.Error, ErrPoolClosed)
}

func TestPool_ShutdownWaitsForTasks(t *testing.T) {
	pool, err := New(&Config{Workers: 2}, zap.NewNop())
	require.NoError(t, err)

	var finished int32
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(func() {
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&finished, 1)
		}))
	}
	slow := pool.SubmitWithResult(func() (interface{}, error) {
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&finished, 1)
		return nil, nil
	})

	pool.Shutdown()

	assert.Equal(t, int32(5), atomic.LoadInt32(&finished))
	assert.NoError(t, (<-slow).Error)
	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)
}
