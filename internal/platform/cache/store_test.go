package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := t.Context()

	_, ok := s.Get(ctx, "reports:list")
	require.False(t, ok)

	s.Set(ctx, "reports:list", []int{1, 2})
	v, ok := s.Get(ctx, "reports:list")
	require.True(t, ok)
	require.Equal(t, []int{1, 2}, v)

	s.Delete(ctx, "reports:list")
	_, ok = s.Get(ctx, "reports:list")
	require.False(t, ok)
}

func TestStore_TTLExpiry(t *testing.T) {
	s := NewStore(time.Nanosecond)
	ctx := t.Context()

	s.Set(ctx, "k", "v")
	time.Sleep(time.Millisecond)

	_, ok := s.Get(ctx, "k")
	require.False(t, ok)
}

func TestStore_DeletePrefix(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := t.Context()

	s.Set(ctx, "reports:list", 1)
	s.Set(ctx, "reports:match:1", 2)
	s.Set(ctx, "other", 3)

	s.DeletePrefix(ctx, "reports:")

	_, ok := s.Get(ctx, "reports:list")
	require.False(t, ok)
	_, ok = s.Get(ctx, "reports:match:1")
	require.False(t, ok)
	_, ok = s.Get(ctx, "other")
	require.True(t, ok)
}

func TestStore_GetOrCompute(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := t.Context()

	calls := 0
	compute := func() (any, error) {
		calls++
		return "value", nil
	}

	v, err := s.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	require.Equal(t, "value", v)

	v, err = s.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	require.Equal(t, "value", v)
	require.Equal(t, 1, calls, "second call must hit the cache")
}

func TestStore_GetOrCompute_CollapsesConcurrentMisses(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := t.Context()

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func() (any, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	const goroutines = 5
	var wg sync.WaitGroup
	results := make([]any, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := s.GetOrCompute(ctx, "k", compute)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let the callers pile up on the in-flight computation.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load(), "concurrent misses must share one computation")
	for _, v := range results {
		require.Equal(t, "value", v)
	}
}

func TestStore_GetOrCompute_ErrorNotCached(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := t.Context()

	boom := errors.New("boom")
	calls := 0

	_, err := s.GetOrCompute(ctx, "k", func() (any, error) {
		calls++
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.GetOrCompute(ctx, "k", func() (any, error) {
		calls++
		return "recovered", nil
	})
	require.NoError(t, err)
	require.Equal(t, "recovered", v)
	require.Equal(t, 2, calls)
}

func TestStore_NilStorePassesThrough(t *testing.T) {
	var s *Store

	v, err := s.GetOrCompute(t.Context(), "k", func() (any, error) { return 7, nil })
	require.NoError(t, err)
	require.Equal(t, 7, v)
}
