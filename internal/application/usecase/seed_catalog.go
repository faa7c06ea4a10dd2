package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/port"
)

// SeedCatalog upserts the products from a catalog source into the repository
// and drops any cached copies.
type SeedCatalog struct {
	source   port.CatalogSource
	products port.ProductRepository
	cache    port.ProductCache
}

// NewSeedCatalog creates a new SeedCatalog use case. cache may be nil.
func NewSeedCatalog(source port.CatalogSource, products port.ProductRepository, cache port.ProductCache) *SeedCatalog {
	return &SeedCatalog{
		source:   source,
		products: products,
		cache:    cache,
	}
}

// Execute loads, persists and invalidates in that order.
func (uc *SeedCatalog) Execute(ctx context.Context) (dto.SeedCatalogResponse, error) {
	products, err := uc.source.Load(ctx)
	if err != nil {
		return dto.SeedCatalogResponse{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(products) == 0 {
		return dto.SeedCatalogResponse{Codes: []string{}}, nil
	}

	if err := uc.products.Upsert(ctx, products...); err != nil {
		return dto.SeedCatalogResponse{}, fmt.Errorf("failed to upsert catalog: %w", err)
	}

	codes := make([]string, 0, len(products))
	for _, p := range products {
		codes = append(codes, p.Code())
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, codes...); err != nil {
			return dto.SeedCatalogResponse{}, fmt.Errorf("failed to invalidate cached products: %w", err)
		}
	}

	return dto.SeedCatalogResponse{Upserted: len(products), Codes: codes}, nil
}
