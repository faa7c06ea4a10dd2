package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/bibbank/credit-risk/pkg/money"
)

var productCodeRe = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,31}$`)

// LoanProduct is a catalog entry describing the terms a lender offers. A
// product supplies the default rate and the tenure/principal envelope for
// requests that reference it.
type LoanProduct struct {
	updatedAt         time.Time
	maxPrincipal      decimal.Decimal
	annualRatePercent decimal.Decimal
	currency          money.Currency
	code              string
	name              string
	minTenureMonths   int
	maxTenureMonths   int
	active            bool
}

// LoanProductParams carries the fields needed to build a LoanProduct.
type LoanProductParams struct {
	UpdatedAt         time.Time
	MaxPrincipal      decimal.Decimal
	AnnualRatePercent decimal.Decimal
	Code              string
	Name              string
	Currency          string
	MinTenureMonths   int
	MaxTenureMonths   int
	Active            bool
}

// NewLoanProduct validates params and returns a LoanProduct.
func NewLoanProduct(p LoanProductParams) (LoanProduct, error) {
	code := strings.ToUpper(strings.TrimSpace(p.Code))
	if !productCodeRe.MatchString(code) {
		return LoanProduct{}, fmt.Errorf("%w: code %q", ErrInvalidProduct, p.Code)
	}
	name := norm.NFC.String(strings.TrimSpace(p.Name))
	if name == "" {
		return LoanProduct{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	cur, err := money.NewCurrency(strings.ToUpper(strings.TrimSpace(p.Currency)))
	if err != nil {
		return LoanProduct{}, fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	if p.AnnualRatePercent.IsNegative() ||
		p.AnnualRatePercent.GreaterThan(decimal.NewFromInt(MaxAnnualRatePercent)) {
		return LoanProduct{}, fmt.Errorf("%w: rate %s", ErrInvalidProduct, p.AnnualRatePercent)
	}
	if p.MinTenureMonths < MinTenureMonths || p.MaxTenureMonths > MaxTenureMonths ||
		p.MinTenureMonths > p.MaxTenureMonths {
		return LoanProduct{}, fmt.Errorf("%w: tenure range %d-%d", ErrInvalidProduct, p.MinTenureMonths, p.MaxTenureMonths)
	}
	if !p.MaxPrincipal.IsPositive() || p.MaxPrincipal.GreaterThan(MaxPrincipal) {
		return LoanProduct{}, fmt.Errorf("%w: max principal %s", ErrInvalidProduct, p.MaxPrincipal)
	}

	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	return LoanProduct{
		code:              code,
		name:              name,
		currency:          cur,
		annualRatePercent: p.AnnualRatePercent,
		minTenureMonths:   p.MinTenureMonths,
		maxTenureMonths:   p.MaxTenureMonths,
		maxPrincipal:      p.MaxPrincipal,
		active:            p.Active,
		updatedAt:         updatedAt,
	}, nil
}

// Supports checks that a request fits within the product's envelope.
func (p LoanProduct) Supports(tenureMonths int, principal decimal.Decimal) error {
	if !p.active {
		return fmt.Errorf("%w: %s", ErrProductInactive, p.code)
	}
	if tenureMonths < p.minTenureMonths || tenureMonths > p.maxTenureMonths {
		return fmt.Errorf("%w: %s allows %d-%d months, got %d",
			ErrTenureOutsideProduct, p.code, p.minTenureMonths, p.maxTenureMonths, tenureMonths)
	}
	if principal.GreaterThan(p.maxPrincipal) {
		return fmt.Errorf("%w: %s allows up to %s", ErrPrincipalAboveProduct, p.code, p.maxPrincipal)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (p LoanProduct) Code() string                       { return p.code }
func (p LoanProduct) Name() string                       { return p.name }
func (p LoanProduct) Currency() money.Currency           { return p.currency }
func (p LoanProduct) AnnualRatePercent() decimal.Decimal { return p.annualRatePercent }
func (p LoanProduct) MinTenureMonths() int               { return p.minTenureMonths }
func (p LoanProduct) MaxTenureMonths() int               { return p.maxTenureMonths }
func (p LoanProduct) MaxPrincipal() decimal.Decimal      { return p.maxPrincipal }
func (p LoanProduct) Active() bool                       { return p.active }
func (p LoanProduct) UpdatedAt() time.Time               { return p.updatedAt }
