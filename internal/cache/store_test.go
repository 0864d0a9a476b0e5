package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "corpus", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "all", loader)
			assert.NoError(t, err)
			assert.Equal(t, "corpus", v)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_ErrorsNotCached(t *testing.T) {
	store := NewStore[int](time.Minute)
	boom := errors.New("boom")

	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore[int](time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set("k", 1)
	_, ok := store.Get("k")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = store.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore[int](0)
	store.Set("corpus:2023", 1)
	store.Set("corpus:2024", 2)
	store.Set("names", 3)

	store.DeletePrefix("corpus:")
	assert.Equal(t, 1, store.Len())
	_, ok := store.Get("names")
	assert.True(t, ok)
}
