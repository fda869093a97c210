package corpus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingBuilder(calls *atomic.Int32, b *Bundle, err error) Builder {
	return func(context.Context) (*Bundle, error) {
		calls.Add(1)
		return b, err
	}
}

func TestService_GetOrCreate_BuildsOnceThenCaches(t *testing.T) {
	svc := NewService(newTestFileStore(t))
	ctx := context.Background()

	var calls atomic.Int32
	build := countingBuilder(&calls, testBundle(), nil)

	first, err := svc.GetOrCreate(ctx, "widget x", build)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	second, err := svc.GetOrCreate(ctx, "widget x", build)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "second request must hit the cache")
	assert.Equal(t, first.Passages, second.Passages)
}

func TestService_GetOrCreate_BuildFailureNotCached(t *testing.T) {
	svc := NewService(newTestFileStore(t))
	ctx := context.Background()

	var calls atomic.Int32
	failing := countingBuilder(&calls, nil, eris.New("scrape blocked"))

	_, err := svc.GetOrCreate(ctx, "widget x", failing)
	assert.Error(t, err)

	// A later request tries again instead of caching the failure.
	ok := countingBuilder(&calls, testBundle(), nil)
	_, err = svc.GetOrCreate(ctx, "widget x", ok)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestService_GetOrCreate_SingleBuildUnderConcurrency(t *testing.T) {
	svc := NewService(newTestFileStore(t))
	ctx := context.Background()

	var calls atomic.Int32
	build := countingBuilder(&calls, testBundle(), nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetOrCreate(ctx, "widget x", build)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestService_KeyedByProductIdentity(t *testing.T) {
	svc := NewService(newTestFileStore(t))
	ctx := context.Background()

	var aCalls, bCalls atomic.Int32
	_, err := svc.GetOrCreate(ctx, "widget x", countingBuilder(&aCalls, testBundle(), nil))
	require.NoError(t, err)
	_, err = svc.GetOrCreate(ctx, "gadget y", countingBuilder(&bCalls, testBundle(), nil))
	require.NoError(t, err)

	assert.Equal(t, int32(1), aCalls.Load())
	assert.Equal(t, int32(1), bCalls.Load())
}

func TestService_Refresh_Rebuilds(t *testing.T) {
	svc := NewService(newTestFileStore(t))
	ctx := context.Background()

	var calls atomic.Int32
	build := countingBuilder(&calls, testBundle(), nil)

	_, err := svc.GetOrCreate(ctx, "widget x", build)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, "widget x", build)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestService_Get_Missing(t *testing.T) {
	svc := NewService(newTestFileStore(t))
	_, err := svc.Get(context.Background(), "widget x")
	assert.ErrorIs(t, err, ErrNotFound)
}
