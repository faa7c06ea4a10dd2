package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

// RiskFactor is one triggered scoring rule.
type RiskFactor struct {
	Code   string
	Reason string
	Points int
}

// RiskAssessment is the decision engine's output for a single request. It is
// created fresh per call and never persisted by the engine.
type RiskAssessment struct {
	Category                valueobject.RiskCategory
	Decision                valueobject.RiskDecision
	MonthlyInstallment      decimal.Decimal
	MaxRecommendedPrincipal decimal.Decimal
	Ratios                  RatioSet
	Reasons                 []string
	Factors                 []RiskFactor
	Score                   int
}

// CounterOffer returns the smaller loan to propose in place of a request that
// was not auto-approved: the affordable maximum, capped at limit. ok is false
// when the request was approved or when nothing positive below requested fits.
func (a RiskAssessment) CounterOffer(requested, limit decimal.Decimal) (principal decimal.Decimal, ok bool) {
	if a.Decision.IsApproved() {
		return decimal.Zero, false
	}
	offer := decimal.Min(a.MaxRecommendedPrincipal, limit)
	if !offer.IsPositive() || !offer.LessThan(requested) {
		return decimal.Zero, false
	}
	return offer, true
}
