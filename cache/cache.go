/*
Package cache keeps rendered pages in a groupcache group.

groupcache does not support expiration, so keys carry a quantized timestamp:
a value is reloaded once its time slot passes. Each name gets its own offset
within the slot so that entries do not all expire at once. A duration of zero
disables expiry.

Loads of the same key are de-duplicated by groupcache, so concurrent requests
for a page that is being rendered wait for the one render.
*/
package cache

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"strconv"
	"time"

	"github.com/golang/groupcache"
)

// A Getter loads the value for name when it is not cached.
type Getter func(ctx context.Context, name string) ([]byte, error)

// Cache holds values by name.
type Cache struct {
	duration time.Duration
	group    *groupcache.Group
}

// New creates a cache with the given groupName and sizeInBytes. Group names
// must be unique within the process.
func New(groupName string, sizeInBytes int64, duration time.Duration, getter Getter) *Cache {
	return &Cache{
		duration: duration,
		group: groupcache.NewGroup(groupName, sizeInBytes, groupcache.GetterFunc(
			func(ctx context.Context, key string, dest groupcache.Sink) error {
				// Parse query which contains quantize info and name
				q, err := url.ParseQuery(key)
				if err != nil {
					return fmt.Errorf("Invalid cache key: %w", err)
				}
				b, err := getter(ctx, q.Get("name"))
				if err != nil {
					return err
				}
				return dest.SetBytes(b)
			})),
	}
}

// Get returns the value for name, loading it if needed. Errors from the
// getter are wrapped, so errors.Is works on them.
func (c *Cache) Get(ctx context.Context, name string) ([]byte, error) {
	var (
		buf groupcache.ByteView
		q   = make(url.Values, 2)
	)
	t := quantize(time.Now(), c.duration, name)
	q.Set("t", strconv.FormatInt(t, 10))
	q.Set("name", name)
	err := c.group.Get(ctx, q.Encode(), groupcache.ByteViewSink(&buf))
	if err != nil {
		return nil, fmt.Errorf("Get %q: %w", name, err)
	}
	return buf.ByteSlice(), nil
}

// quantize returns the time slot of now for name. Names are spread across
// the slot so they expire at different times.
func quantize(now time.Time, d time.Duration, name string) int64 {
	if d <= 0 {
		return 0
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	offset := int64(h.Sum64() % uint64(d))
	return (now.UnixNano() + offset) / int64(d)
}
