package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/tornado/pkg/observability"
)

type instrumented struct {
	Cache
}

// Instrument wraps c so that every lookup and write is reported to
// [observability.Cache]. Errors are not reported as hits or misses.
func Instrument(c Cache) Cache {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Cache: c}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := i.Cache.Get(ctx, key)
	if err != nil {
		return data, hit, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, KindOf(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, KindOf(key))
	}
	return data, hit, nil
}

func (i *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := i.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KindOf(key), len(data))
	return nil
}

// KindOf returns the namespace of a key produced by a [Keyer], skipping any
// scope prefix. Unknown keys report "other".
func KindOf(key string) string {
	for _, part := range strings.Split(key, ":") {
		switch part {
		case KindLayout, KindArtifact, KindSession, KindFetch:
			return part
		}
	}
	return "other"
}
