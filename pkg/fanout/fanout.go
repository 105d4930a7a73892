// Package fanout coordinates the per-view burst of independent directory
// requests: every request settles on its own, and only the newest load of a
// view is allowed to reach displayed state.
package fanout

import (
	"context"
	"sync"
)

// Result pairs a key with the settled outcome of its fetch.
type Result[K comparable, V any] struct {
	Key   K
	Value V
	Err   error
}

// Map runs fn once per key, all concurrently, and waits for every call to
// settle. A failed key carries its error in the result; it never cancels its
// siblings. Results preserve key order.
func Map[K comparable, V any](ctx context.Context, keys []K, fn func(context.Context, K) (V, error)) []Result[K, V] {
	results := make([]Result[K, V], len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key K) {
			defer wg.Done()
			value, err := fn(ctx, key)
			results[i] = Result[K, V]{Key: key, Value: value, Err: err}
		}(i, key)
	}
	wg.Wait()

	return results
}
