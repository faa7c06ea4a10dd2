package port

import (
	"context"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/pkg/events"
)

// ProductRepository defines the persistence port for the loan product catalog.
type ProductRepository interface {
	// FindByCode returns the product with the given code or model.ErrProductNotFound.
	FindByCode(ctx context.Context, code string) (model.LoanProduct, error)

	// List returns products ordered by code. When activeOnly is set,
	// inactive products are omitted.
	List(ctx context.Context, activeOnly bool) ([]model.LoanProduct, error)

	// Upsert inserts or replaces products atomically.
	Upsert(ctx context.Context, products ...model.LoanProduct) error
}

// ProductCache is a read-through cache in front of ProductRepository.
type ProductCache interface {
	// Get returns the cached product and whether it was found.
	Get(ctx context.Context, code string) (model.LoanProduct, bool, error)

	// Set stores a product.
	Set(ctx context.Context, product model.LoanProduct) error

	// Invalidate removes the given codes from the cache.
	Invalidate(ctx context.Context, codes ...string) error
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, domainEvents ...events.DomainEvent) error
}

// CatalogSource supplies loan products from outside the repository, such as
// a catalog file shipped with the deployment.
type CatalogSource interface {
	// Load returns every product the source defines.
	Load(ctx context.Context) ([]model.LoanProduct, error)
}
