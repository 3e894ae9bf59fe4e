package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ava-backend/internal/email/domain"
)

// digestCache is the single-slot TTL cache for the homescreen digest.
// Concurrent refreshes are collapsed through singleflight so the categorizer
// is called at most once per expiry. A failed refresh leaves the previous
// slot intact.
type digestCache struct {
	mu         sync.Mutex
	digest     *domain.HomescreenDigest
	producedAt time.Time
	ttl        time.Duration
	group      singleflight.Group
	now        func() time.Time
}

func newDigestCache(ttl time.Duration) *digestCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &digestCache{ttl: ttl, now: time.Now}
}

// fresh returns the cached digest if one exists and is within its TTL.
func (c *digestCache) fresh() (*domain.HomescreenDigest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.digest == nil || c.now().Sub(c.producedAt) >= c.ttl {
		return nil, false
	}
	return c.digest, true
}

// last returns whatever is in the slot, stale or not.
func (c *digestCache) last() (*domain.HomescreenDigest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.digest == nil {
		return nil, false
	}
	return c.digest, true
}

// refresh produces a new digest and stores it. Callers arriving while a
// refresh is in flight share its result instead of starting their own.
func (c *digestCache) refresh(ctx context.Context, produce func(context.Context) (*domain.HomescreenDigest, error)) (*domain.HomescreenDigest, error) {
	v, err, _ := c.group.Do("digest", func() (interface{}, error) {
		digest, err := produce(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.digest = digest
		c.producedAt = c.now()
		c.mu.Unlock()
		return digest, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.HomescreenDigest), nil
}
