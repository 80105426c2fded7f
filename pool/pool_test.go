package pool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1, 0}

	results, err := Map(context.Background(), items, Options{Workers: 3}, func(_ context.Context, n int) (int, error) {
		// Later items finish first.
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{25, 16, 9, 4, 1, 0}, results)
}

func TestMapEmpty(t *testing.T) {
	results, err := Map(context.Background(), nil, Options{Progress: true}, func(_ context.Context, s string) (string, error) {
		return s, nil
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMapBoundsConcurrency(t *testing.T) {
	var running, peak int32

	items := make([]int, 32)
	_, err := Map(context.Background(), items, Options{Workers: 4}, func(_ context.Context, _ int) (struct{}, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&running, -1)
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))
}

var errTask = errors.New("task failed")

func TestMapFailFast(t *testing.T) {
	var started int32

	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	results, err := Map(context.Background(), items, Options{Workers: 1}, func(ctx context.Context, n int) (int, error) {
		atomic.AddInt32(&started, 1)
		if n == 0 {
			return 0, errTask
		}
		return n, nil
	})
	assert.Equal(t, errTask, err)
	assert.Nil(t, results)
	assert.Less(t, atomic.LoadInt32(&started), int32(len(items)), "remaining tasks are skipped")
}

func TestMapWaitAll(t *testing.T) {
	var finished int32

	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}

	_, err := Map(context.Background(), items, Options{Workers: 2, Policy: WaitAll}, func(ctx context.Context, n int) (int, error) {
		defer atomic.AddInt32(&finished, 1)
		if n == 0 {
			return 0, errTask
		}
		return n, nil
	})
	assert.Equal(t, errTask, err)
	assert.Equal(t, int32(len(items)), atomic.LoadInt32(&finished))
}

func TestMapProgressLeavesStdout(t *testing.T) {
	out, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	require.NoError(t, err)
	defer out.Close()

	stdout := os.Stdout
	os.Stdout = out
	_, err = Map(context.Background(), []int{1, 2, 3}, Options{Workers: 1, Progress: true}, func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	os.Stdout = stdout
	require.NoError(t, err)

	info, err := out.Stat()
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
