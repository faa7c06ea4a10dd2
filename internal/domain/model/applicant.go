package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Input limits enforced before a profile or request reaches the decision engine.
const (
	MinApplicantAge      = 18
	MaxApplicantAge      = 120
	MinCreditScore       = 300
	MaxCreditScore       = 900
	MinTenureMonths      = 1
	MaxTenureMonths      = 360
	MaxAnnualRatePercent = 1000
)

var (
	// MaxPrincipal caps any single request regardless of product.
	MaxPrincipal = decimal.NewFromInt(1_000_000_000)
	// MaxAnnualIncome caps income, monthly expenses and existing loan amounts
	// so every figure stays well inside float64 range for the amortization math.
	MaxAnnualIncome = decimal.NewFromInt(1_000_000_000_000)
)

var monthsPerYear = decimal.NewFromInt(12)

// ApplicantProfile holds the financial attributes of a loan applicant. It is
// immutable per assessment.
type ApplicantProfile struct {
	EmploymentYears          decimal.Decimal
	AnnualIncome             decimal.Decimal
	MonthlyExpenses          decimal.Decimal
	ExistingLoanAnnualAmount decimal.Decimal
	Age                      int
	CreditScore              int
	// HasExpenseMismatch is an upstream fraud indicator; the engine treats it as opaque.
	HasExpenseMismatch bool
}

// MonthlyIncome returns annual income spread over twelve months.
func (p ApplicantProfile) MonthlyIncome() decimal.Decimal {
	return p.AnnualIncome.Div(monthsPerYear)
}

// ExistingMonthlyDebt returns the monthly share of existing annual loan obligations.
func (p ApplicantProfile) ExistingMonthlyDebt() decimal.Decimal {
	return p.ExistingLoanAnnualAmount.Div(monthsPerYear)
}

// Validate checks the profile against the ranges callers must enforce. Zero
// income is accepted; the engine scores it with saturated ratios. Amounts
// above MaxAnnualIncome are refused.
func (p ApplicantProfile) Validate() error {
	if p.Age < MinApplicantAge || p.Age > MaxApplicantAge {
		return fmt.Errorf("%w: got %d", ErrInvalidAge, p.Age)
	}
	if p.CreditScore < MinCreditScore || p.CreditScore > MaxCreditScore {
		return fmt.Errorf("%w: got %d", ErrInvalidCreditScore, p.CreditScore)
	}
	if p.EmploymentYears.IsNegative() {
		return ErrInvalidEmployment
	}
	if p.AnnualIncome.IsNegative() {
		return ErrInvalidIncome
	}
	if p.MonthlyExpenses.IsNegative() {
		return ErrInvalidExpenses
	}
	if p.ExistingLoanAnnualAmount.IsNegative() {
		return ErrInvalidExistingLoans
	}
	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"annual income", p.AnnualIncome},
		{"monthly expenses", p.MonthlyExpenses},
		{"existing loan amount", p.ExistingLoanAnnualAmount},
	}
	for _, a := range amounts {
		if a.value.GreaterThan(MaxAnnualIncome) {
			return fmt.Errorf("%w: %s above %s", ErrAmountTooLarge, a.field, MaxAnnualIncome)
		}
	}
	return nil
}

// LoanRequest is the loan being applied for. The interest rate is always
// supplied by the caller.
type LoanRequest struct {
	Principal                 decimal.Decimal
	AnnualInterestRatePercent decimal.Decimal
	TenureMonths              int
}

// Validate checks the request against the ranges callers must enforce.
func (r LoanRequest) Validate() error {
	if !r.Principal.IsPositive() {
		return ErrInvalidPrincipal
	}
	if r.Principal.GreaterThan(MaxPrincipal) {
		return fmt.Errorf("%w: %s", ErrPrincipalTooLarge, MaxPrincipal)
	}
	if r.TenureMonths < MinTenureMonths || r.TenureMonths > MaxTenureMonths {
		return fmt.Errorf("%w: got %d", ErrInvalidTenure, r.TenureMonths)
	}
	if r.AnnualInterestRatePercent.IsNegative() ||
		r.AnnualInterestRatePercent.GreaterThan(decimal.NewFromInt(MaxAnnualRatePercent)) {
		return fmt.Errorf("%w: got %s", ErrInvalidInterestRate, r.AnnualInterestRatePercent)
	}
	return nil
}
