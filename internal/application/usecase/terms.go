package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/pkg/money"
)

// Terms are the pricing terms a request is evaluated under.
type Terms struct {
	product           *model.LoanProduct
	AnnualRatePercent decimal.Decimal
	Currency          money.Currency
	ProductCode       string
}

// PrincipalLimit is the largest principal the terms allow: the product's
// maximum, or the global cap when no product applies.
func (t Terms) PrincipalLimit() decimal.Decimal {
	if t.product == nil {
		return model.MaxPrincipal
	}
	return t.product.MaxPrincipal()
}

// Admit checks the loan against the product envelope, if a product applies.
func (t Terms) Admit(loan model.LoanRequest) error {
	if t.product == nil {
		return nil
	}
	return t.product.Supports(loan.TenureMonths, loan.Principal)
}

// TermsResolver picks the interest rate and currency for a request: an
// explicit rate wins, then the product's rate, then the configured default.
type TermsResolver struct {
	products        port.ProductRepository
	defaultRate     decimal.Decimal
	defaultCurrency money.Currency
}

// NewTermsResolver creates a TermsResolver. products may be nil when no
// catalog is configured; requests naming a product then fail with
// model.ErrProductNotFound.
func NewTermsResolver(products port.ProductRepository, defaultRate decimal.Decimal, defaultCurrency money.Currency) *TermsResolver {
	return &TermsResolver{
		products:        products,
		defaultRate:     defaultRate,
		defaultCurrency: defaultCurrency,
	}
}

// Resolve returns the terms for an optional product code and optional rate.
func (r *TermsResolver) Resolve(ctx context.Context, productCode string, rate decimal.NullDecimal) (Terms, error) {
	terms := Terms{
		AnnualRatePercent: r.defaultRate,
		Currency:          r.defaultCurrency,
	}

	code := strings.ToUpper(strings.TrimSpace(productCode))
	if code != "" {
		if r.products == nil {
			return Terms{}, fmt.Errorf("%w: %s", model.ErrProductNotFound, code)
		}
		product, err := r.products.FindByCode(ctx, code)
		if err != nil {
			return Terms{}, fmt.Errorf("failed to load product %s: %w", code, err)
		}
		terms.product = &product
		terms.ProductCode = product.Code()
		terms.AnnualRatePercent = product.AnnualRatePercent()
		terms.Currency = product.Currency()
	}

	if rate.Valid {
		terms.AnnualRatePercent = rate.Decimal
	}
	return terms, nil
}
