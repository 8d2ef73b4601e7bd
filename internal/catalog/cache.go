package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/harlandtools/commerce-backend/pkg/db/models"
	"github.com/harlandtools/commerce-backend/pkg/logger"
	"github.com/harlandtools/commerce-backend/pkg/redis"
)

// snapshotPayload is the serialized form of a snapshot: the raw reference
// rows, not the derived indexes. Rebuilding on read re-runs validation, so
// a cached payload can never bypass the load-time checks.
type snapshotPayload struct {
	Products      []models.Product            `json:"products"`
	LadderRows    []models.ToolDiscountTier   `json:"ladder_rows"`
	BreakRows     []models.CategoryPriceBreak `json:"break_rows"`
	ShippingRates []models.ShippingRate       `json:"shipping_rates"`
}

// SnapshotCache stores reference data in Redis so repeated quotes reuse
// one snapshot instead of re-reading four tables.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache builds a cache with the supplied TTL.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot, or ok=false on a miss or unreadable
// payload.
func (c *SnapshotCache) Get(ctx context.Context) (*Snapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.client.SnapshotKey("catalog"))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var payload snapshotPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false, err
	}
	snap, err := BuildSnapshot(payload.Products, payload.LadderRows, payload.BreakRows, payload.ShippingRates)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// Put stores the raw reference rows under the cache TTL.
func (c *SnapshotCache) Put(ctx context.Context, payload snapshotPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.client.SnapshotKey("catalog"), string(raw), c.ttl)
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.client.SnapshotKey("catalog"))
}

// Loader combines the repository and the cache. Cache failures degrade to
// a direct database load: pricing availability wins over cache health.
type Loader struct {
	repo  *Repository
	cache *SnapshotCache
	logg  *logger.Logger
}

// NewLoader builds a loader; cache may be nil when caching is disabled.
func NewLoader(repo *Repository, cache *SnapshotCache, logg *logger.Logger) *Loader {
	return &Loader{repo: repo, cache: cache, logg: logg}
}

// Snapshot returns a validated snapshot, from cache when possible.
func (l *Loader) Snapshot(ctx context.Context) (*Snapshot, error) {
	if l.cache != nil {
		snap, ok, err := l.cache.Get(ctx)
		if err != nil && l.logg != nil {
			l.logg.Warn(l.logg.WithField(ctx, "cache_error", err.Error()), "snapshot.cache_read_failed")
		}
		if ok {
			l.logLadderIssues(ctx, snap)
			return snap, nil
		}
	}

	products, err := l.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := l.repo.ListToolDiscountTiers(ctx)
	if err != nil {
		return nil, err
	}
	breaks, err := l.repo.ListCategoryPriceBreaks(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := l.repo.ListShippingRates(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := BuildSnapshot(products, tiers, breaks, rates)
	if err != nil {
		return nil, err
	}
	l.logLadderIssues(ctx, snap)

	if l.cache != nil {
		payload := snapshotPayload{Products: products, LadderRows: tiers, BreakRows: breaks, ShippingRates: rates}
		if err := l.cache.Put(ctx, payload); err != nil && l.logg != nil {
			l.logg.Warn(l.logg.WithField(ctx, "cache_error", err.Error()), "snapshot.cache_write_failed")
		}
	}
	return snap, nil
}

// logLadderIssues surfaces the integrity problems recorded when the tool
// ladder was validated; pricing degrades around them, so they would
// otherwise go unnoticed.
func (l *Loader) logLadderIssues(ctx context.Context, snap *Snapshot) {
	if l.logg == nil {
		return
	}
	for _, issue := range snap.Ladder().Issues() {
		l.logg.Warn(l.logg.WithField(ctx, "issue", issue), "catalog.ladder_integrity")
	}
}
