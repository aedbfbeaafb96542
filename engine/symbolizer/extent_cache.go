package symbolizer

import (
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/paulmach/orb"
)

const (
	// DefaultExtentTTL is how long an extent stays cached without being read.
	DefaultExtentTTL = 30 * time.Second
	// DefaultExtentCapacity bounds the number of cached extents.
	DefaultExtentCapacity = 4096
)

// ExtentCache memoises symbolizer extents per feature and view state.
// A view state change bumps the snapshot version, so stale entries are never hit; they
// expire through the TTL or the capacity bound.
type ExtentCache struct {
	cache *ttlcache.Cache[string, orb.Bound]
}

// NewExtentCache creates an ExtentCache.
//
// Parameters:
//   - ttl: idle lifetime of an entry
//   - capacity: maximum number of entries
//
// Returns:
//   - *ExtentCache: the cache
func NewExtentCache(ttl time.Duration, capacity uint64) *ExtentCache {
	return &ExtentCache{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, orb.Bound](ttl),
			ttlcache.WithCapacity[string, orb.Bound](capacity),
		),
	}
}

// Extent returns the cached extent of s for ctx, computing and storing it on a miss.
// Features without an ID are never cached.
//
// Parameters:
//   - s: the symbolizer
//   - ctx: the render context
//
// Returns:
//   - orb.Bound: the extent
//   - bool: false when the feature has no render points
func (c *ExtentCache) Extent(s *PointSymbolizer, ctx RenderContext) (orb.Bound, bool) {
	if c == nil || s.Feature.ID == "" {
		return s.Extent(ctx)
	}

	key := extentKey(s, ctx)
	if item := c.cache.Get(key); item != nil {
		return item.Value(), true
	}
	b, ok := s.Extent(ctx)
	if ok {
		c.cache.Set(key, b, ttlcache.DefaultTTL)
	}
	return b, ok
}

// Len returns the number of cached extents.
func (c *ExtentCache) Len() int {
	return c.cache.Len()
}

// Purge drops every entry.
func (c *ExtentCache) Purge() {
	c.cache.DeleteAll()
}

func extentKey(s *PointSymbolizer, ctx RenderContext) string {
	st := s.Style
	return fmt.Sprintf("%s@%d/%g,%g,%g,%g/%s", s.Feature.ID, ctx.Snapshot.Version(), st.Width, st.Height, st.Dx, st.Dy, st.Placement)
}
