package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ancientlore/knownblog/cache"
)

func TestGet(t *testing.T) {
	const count = 8
	var loads int32
	c := cache.New(uuid.NewString(), 1024*1024, time.Hour, func(ctx context.Context, name string) ([]byte, error) {
		atomic.AddInt32(&loads, 1)
		return []byte("value of " + name), nil
	})
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			b, err := c.Get(context.Background(), "page")
			if err != nil {
				t.Error(err)
				return
			}
			if string(b) != "value of page" {
				t.Errorf("Unexpected value %q", b)
			}
		}()
	}
	wg.Wait()
	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Errorf("Expected a single load but got %d", n)
	}
}

func TestGetError(t *testing.T) {
	errMissing := errors.New("missing")
	var loads int32
	c := cache.New(uuid.NewString(), 1024*1024, 0, func(ctx context.Context, name string) ([]byte, error) {
		atomic.AddInt32(&loads, 1)
		return nil, errMissing
	})
	for i := 0; i < 2; i++ {
		_, err := c.Get(context.Background(), "x")
		if !errors.Is(err, errMissing) {
			t.Errorf("Expected the getter error but got %v", err)
		}
	}
	if n := atomic.LoadInt32(&loads); n != 2 {
		t.Errorf("Errors should not be cached; expected 2 loads but got %d", n)
	}
}

func TestExpiry(t *testing.T) {
	var loads int32
	c := cache.New(uuid.NewString(), 1024*1024, 50*time.Millisecond, func(ctx context.Context, name string) ([]byte, error) {
		atomic.AddInt32(&loads, 1)
		return []byte(name), nil
	})
	if _, err := c.Get(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(120 * time.Millisecond)
	if _, err := c.Get(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&loads); n != 2 {
		t.Errorf("Expected a reload after expiry but got %d loads", n)
	}
}
