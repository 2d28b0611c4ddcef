// Command cachecore-demo exercises the Builder, LoadingCache, and
// EventBus together against a small in-memory workload. It replaces
// the teacher's stray root-level main.go, which was a second,
// non-compiling package main sharing a directory with package
// tempuscache.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Krishna8167/cachecore"
	"github.com/Krishna8167/cachecore/builder"
	"github.com/Krishna8167/cachecore/eviction"
)

func main() {
	lc := builder.New[string]().
		WithMaxSize(128).
		WithExpireAfterWrite(5 * time.Minute).
		WithEvictionPolicy(eviction.LFU).
		WithRecordStats().
		WithRemovalListener(func(key string, value string, cause builder.RemovalCause) {
			fmt.Printf("removed %q (%q): %s\n", key, value, cause)
		}).
		BuildAsync(func(ctx context.Context, key string) (string, error) {
			return "loaded:" + key, nil
		})

	ctx := context.Background()

	for _, key := range []string{"alpha", "beta", "gamma"} {
		v, err := lc.Get(ctx, key)
		if err != nil {
			fmt.Println("load failed:", err)
			continue
		}
		fmt.Println(key, "=>", v)
	}

	sub, ok := lc.Cache().Subscribe()
	if ok {
		go func() {
			for event := range cachecore.Evictions[string](sub.Events()) {
				fmt.Println("eviction event for", event.Key)
			}
		}()
	}

	lc.Invalidate("alpha")

	stats := lc.Cache().Stats()
	fmt.Printf("hits=%d misses=%d hitRatio=%.2f\n", stats.Hits, stats.Misses, stats.HitRatio)

	if sub != nil {
		sub.Dispose()
	}
	lc.Cache().Dispose()
}
