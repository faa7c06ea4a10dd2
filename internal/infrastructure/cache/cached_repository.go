package cache

import (
	"context"
	"log/slog"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
)

// CachedProductRepository is a read-through decorator over a product
// repository. Only FindByCode is cached; List always reads the store. Cache
// failures are logged and never fail a lookup.
type CachedProductRepository struct {
	next   port.ProductRepository
	cache  port.ProductCache
	logger *slog.Logger
}

// NewCachedProductRepository wraps next with cache.
func NewCachedProductRepository(next port.ProductRepository, cache port.ProductCache, logger *slog.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

// FindByCode serves from the cache when possible and fills it on a miss.
func (r *CachedProductRepository) FindByCode(ctx context.Context, code string) (model.LoanProduct, error) {
	product, found, err := r.cache.Get(ctx, code)
	if err != nil {
		r.logger.WarnContext(ctx, "product cache read failed", "code", code, "error", err)
	}
	if found {
		return product, nil
	}

	product, err = r.next.FindByCode(ctx, code)
	if err != nil {
		return model.LoanProduct{}, err
	}

	if err := r.cache.Set(ctx, product); err != nil {
		r.logger.WarnContext(ctx, "product cache write failed", "code", code, "error", err)
	}
	return product, nil
}

// List reads through to the underlying repository.
func (r *CachedProductRepository) List(ctx context.Context, activeOnly bool) ([]model.LoanProduct, error) {
	return r.next.List(ctx, activeOnly)
}

// Upsert writes through. Evicting the written codes is left to the caller,
// which holds the cache and decides whether a failed eviction is fatal.
func (r *CachedProductRepository) Upsert(ctx context.Context, products ...model.LoanProduct) error {
	return r.next.Upsert(ctx, products...)
}
