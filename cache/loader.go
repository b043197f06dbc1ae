package cache

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Loader reads through a Cache. Concurrent misses on one key share a single
// computation, and failed computations are never stored.
//
// Every Purge starts a new generation. A computation that began before a
// purge still answers its own callers but is never stored, and callers
// arriving after the purge do not join it.
type Loader struct {
	cache      Cache
	group      singleflight.Group
	generation atomic.Uint64
	logger     zerolog.Logger
}

func NewLoader(c Cache, logger zerolog.Logger) *Loader {
	if c == nil {
		c = Nop{}
	}
	return &Loader{cache: c, logger: logger}
}

// Load returns the cached bytes for key, or computes, stores and returns
// them. hit reports whether the value came from the cache. compute runs on
// a context that outlives ctx's cancellation, since other callers may be
// waiting on it.
func (l *Loader) Load(ctx context.Context, key string, compute func(context.Context) ([]byte, error)) (value []byte, hit bool, err error) {
	gen := l.generation.Load()
	if cached, ok := l.cache.Get(key); ok {
		return cached, true, nil
	}

	shared := context.WithoutCancel(ctx)
	flight := strconv.FormatUint(gen, 10) + ":" + key
	v, err, _ := l.group.Do(flight, func() (any, error) {
		data, err := compute(shared)
		if err != nil {
			return nil, err
		}
		if l.generation.Load() != gen {
			l.logger.Debug().Str("key", key).Msg("cache purged during compute, not storing")
			return data, nil
		}
		if err := l.cache.Put(key, data); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("failed to write cache entry")
		}
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

// Purge drops every entry and starts a new generation. Failures are
// logged; a stale entry expires on its own within one TTL.
func (l *Loader) Purge() {
	l.generation.Add(1)
	if err := l.cache.Purge(); err != nil {
		l.logger.Error().Err(err).Msg("failed to purge cache")
	}
}
