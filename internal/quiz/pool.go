package quiz

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"
)

// ErrNoStore is returned by pool lookups when no database is configured.
var ErrNoStore = errors.New("quiz store not configured")

// CategoryPool loads the stored categories that are complete enough to play:
// exactly five questions each. Reads go through the cache when one is set.
type CategoryPool struct {
	store  Store
	cache  PoolCache
	logger zerolog.Logger
}

// NewCategoryPool wires a pool. store and cache may both be nil.
func NewCategoryPool(store Store, cache PoolCache, logger zerolog.Logger) *CategoryPool {
	return &CategoryPool{
		store:  store,
		cache:  cache,
		logger: logger.With().Str("component", "category_pool").Logger(),
	}
}

// Valid returns the playable categories and whether they came from the cache.
func (p *CategoryPool) Valid(ctx context.Context) ([]Category, bool, error) {
	if p.cache != nil {
		cached, err := p.cache.Get(ctx)
		if err != nil {
			p.logger.Warn().Err(err).Msg("pool cache read failed")
		} else if len(cached) > 0 {
			return cached, true, nil
		}
	}

	pool, err := p.Refresh(ctx)
	return pool, false, err
}

// Refresh reloads the pool from the store and repopulates the cache.
func (p *CategoryPool) Refresh(ctx context.Context) ([]Category, error) {
	if p.store == nil {
		return nil, ErrNoStore
	}
	stored, err := p.store.CategoryPool(ctx)
	if err != nil {
		return nil, err
	}

	valid := filterValid(fromPool(stored))
	if p.cache != nil && len(valid) > 0 {
		if err := p.cache.Set(ctx, valid); err != nil {
			p.logger.Warn().Err(err).Msg("pool cache write failed")
		}
	}
	return valid, nil
}

func filterValid(categories []Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, cat := range categories {
		if len(cat.Questions) != len(PointTiers) {
			continue
		}
		sorted := append([]Question(nil), cat.Questions...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Points < sorted[j].Points })
		cat.Questions = sorted
		out = append(out, cat)
	}
	return out
}
