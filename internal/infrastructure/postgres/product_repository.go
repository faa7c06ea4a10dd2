package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
	pkgpostgres "github.com/bibbank/credit-risk/pkg/postgres"
)

const productColumns = `
	code, name, currency, annual_rate_percent,
	min_tenure_months, max_tenure_months, max_principal,
	active, updated_at`

// ProductRepository implements port.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// FindByCode retrieves a product by its code.
func (r *ProductRepository) FindByCode(ctx context.Context, code string) (model.LoanProduct, error) {
	query := `SELECT ` + productColumns + ` FROM loan_products WHERE code = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LoanProduct{}, fmt.Errorf("%w: %s", model.ErrProductNotFound, code)
		}
		return model.LoanProduct{}, err
	}
	return product, nil
}

// List retrieves products ordered by code.
func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]model.LoanProduct, error) {
	query := `SELECT ` + productColumns + `
		FROM loan_products
		WHERE NOT $1 OR active
		ORDER BY code`

	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.LoanProduct
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// Upsert inserts or replaces products in a single transaction.
func (r *ProductRepository) Upsert(ctx context.Context, products ...model.LoanProduct) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO loan_products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			currency = EXCLUDED.currency,
			annual_rate_percent = EXCLUDED.annual_rate_percent,
			min_tenure_months = EXCLUDED.min_tenure_months,
			max_tenure_months = EXCLUDED.max_tenure_months,
			max_principal = EXCLUDED.max_principal,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`

	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, p := range products {
			batch.Queue(query,
				p.Code(),
				p.Name(),
				p.Currency().Code(),
				p.AnnualRatePercent(),
				p.MinTenureMonths(),
				p.MaxTenureMonths(),
				p.MaxPrincipal(),
				p.Active(),
				p.UpdatedAt(),
			)
		}

		br := tx.SendBatch(ctx, batch)
		for _, p := range products {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to upsert product %s: %w", p.Code(), err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close upsert batch: %w", err)
		}
		return nil
	})
}

func scanProduct(row pgx.Row) (model.LoanProduct, error) {
	var (
		code         string
		name         string
		currency     string
		rate         decimal.Decimal
		minTenure    int
		maxTenure    int
		maxPrincipal decimal.Decimal
		active       bool
		updatedAt    time.Time
	)

	err := row.Scan(
		&code, &name, &currency, &rate,
		&minTenure, &maxTenure, &maxPrincipal,
		&active, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LoanProduct{}, err
		}
		return model.LoanProduct{}, fmt.Errorf("failed to scan product: %w", err)
	}

	product, err := model.NewLoanProduct(model.LoanProductParams{
		Code:              code,
		Name:              name,
		Currency:          currency,
		AnnualRatePercent: rate,
		MinTenureMonths:   minTenure,
		MaxTenureMonths:   maxTenure,
		MaxPrincipal:      maxPrincipal,
		Active:            active,
		UpdatedAt:         updatedAt,
	})
	if err != nil {
		return model.LoanProduct{}, fmt.Errorf("failed to reconstruct product %s: %w", code, err)
	}
	return product, nil
}
