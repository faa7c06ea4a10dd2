package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// AffordabilityPolicy back-solves the largest principal an applicant can carry
// under a disposable-income ceiling. It is independent of the risk score.
type AffordabilityPolicy struct {
	// IncomeShare is the fraction of monthly income available for all loan
	// installments, existing debt included.
	IncomeShare decimal.Decimal
	// RoundingStep is the unit recommended principals are rounded down to.
	RoundingStep decimal.Decimal
}

// NewAffordabilityPolicy returns the policy with a 40% ceiling and principals
// rounded down to the nearest 1,000.
func NewAffordabilityPolicy() AffordabilityPolicy {
	return AffordabilityPolicy{
		IncomeShare:  decimal.RequireFromString("0.40"),
		RoundingStep: decimal.NewFromInt(1000),
	}
}

// AffordableInstallment is the monthly installment headroom left after
// existing obligations. It may be zero or negative.
func (p AffordabilityPolicy) AffordableInstallment(profile model.ApplicantProfile) decimal.Decimal {
	return profile.MonthlyIncome().Mul(p.IncomeShare).Sub(profile.ExistingMonthlyDebt())
}

// MaxRecommendedPrincipal returns the largest principal, in whole rounding
// steps, whose installment fits the affordable ceiling. It is never negative.
func (p AffordabilityPolicy) MaxRecommendedPrincipal(
	profile model.ApplicantProfile,
	tenureMonths int,
	annualRatePercent decimal.Decimal,
) decimal.Decimal {
	affordable := p.AffordableInstallment(profile)
	if !affordable.IsPositive() || tenureMonths <= 0 {
		return decimal.Zero
	}

	principal := p.floorToStep(model.PrincipalForInstallment(affordable, tenureMonths, annualRatePercent))

	// The closed-form inverse runs in float64; step down until the forward
	// installment agrees so the result always fits the ceiling.
	for principal.IsPositive() &&
		model.ComputeInstallment(principal, tenureMonths, annualRatePercent).GreaterThan(affordable) {
		principal = principal.Sub(p.RoundingStep)
	}

	if principal.IsNegative() {
		return decimal.Zero
	}
	return principal
}

func (p AffordabilityPolicy) floorToStep(v decimal.Decimal) decimal.Decimal {
	if !p.RoundingStep.IsPositive() {
		return v.Floor()
	}
	return v.Div(p.RoundingStep).Floor().Mul(p.RoundingStep)
}
