package fanout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesKeyOrder(t *testing.T) {
	keys := []string{"c3", "c1", "c2"}

	results := Map(context.Background(), keys, func(_ context.Context, key string) (string, error) {
		return "fetched:" + key, nil
	})

	require.Len(t, results, 3)
	for i, key := range keys {
		assert.Equal(t, key, results[i].Key)
		assert.Equal(t, "fetched:"+key, results[i].Value)
		assert.NoError(t, results[i].Err)
	}
}

func TestMapOneFailureDoesNotAffectSiblings(t *testing.T) {
	boom := errors.New("boom")

	results := Map(context.Background(), []string{"a", "b", "c"}, func(_ context.Context, key string) (int, error) {
		if key == "b" {
			return 0, boom
		}
		return len(key), nil
	})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, results[0].Value)
	assert.Equal(t, 1, results[2].Value)
}

func TestMapEmptyKeys(t *testing.T) {
	results := Map(context.Background(), nil, func(_ context.Context, key string) (string, error) {
		t.Fatal("fn must not be called")
		return "", nil
	})
	assert.Empty(t, results)
}

func TestLatestDiscardsSupersededCommit(t *testing.T) {
	var guard Latest
	applied := ""

	first := guard.Begin()
	second := guard.Begin()

	// The slow first load arrives after the second one began.
	ok := guard.Commit(first, func() { applied = "first" })
	assert.False(t, ok)
	assert.Empty(t, applied)

	ok = guard.Commit(second, func() { applied = "second" })
	assert.True(t, ok)
	assert.Equal(t, "second", applied)
}

func TestLatestCommitAfterAbandonIsDiscarded(t *testing.T) {
	var guard Latest

	ticket := guard.Begin()
	guard.Begin() // view unmounted: newer ticket, never committed

	ok := guard.Commit(ticket, func() { t.Fatal("stale commit must not run") })
	assert.False(t, ok)
}

func TestLatestConcurrentLoadersApplyExactlyNewest(t *testing.T) {
	var guard Latest
	var mu sync.Mutex
	committed := 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticket := guard.Begin()
			guard.Commit(ticket, func() {
				mu.Lock()
				committed++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	// At least the final Begin always commits; earlier ones may or may not
	// have been superseded before committing.
	assert.GreaterOrEqual(t, committed, 1)
	assert.LessOrEqual(t, committed, 16)
}
