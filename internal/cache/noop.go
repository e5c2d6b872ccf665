package cache

import (
	"context"
	"time"
)

type noopCache struct{}

// NewNoop returns a Client where every Get is a miss and every write
// does nothing. Used when caching is disabled by configuration.
func NewNoop() Client {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) (string, bool)     { return "", false }
func (noopCache) Set(context.Context, string, string, time.Duration) {}
func (noopCache) Delete(context.Context, ...string)              {}
func (noopCache) DeletePattern(context.Context, string) int      { return 0 }
func (noopCache) Close() error                                   { return nil }
