package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_MutualExclusion(t *testing.T) {
	l := NewLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "ws/out", time.Minute)
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			assert.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestLocker_ContextCancel(t *testing.T) {
	l := NewLocker()
	unlock, err := l.Lock(context.Background(), "k", time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Unlocking twice is harmless.
	require.NoError(t, unlock(context.Background()))
	require.NoError(t, unlock(context.Background()))

	unlock, err = l.Lock(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(context.Background()))
}

func TestLocker_NoLeak(t *testing.T) {
	l := NewLocker()
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		unlock, err := l.Lock(ctx, fmt.Sprintf("ws/out-%d", i), time.Minute)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
	}
	assert.Empty(t, l.locks)
}
