package service

import "github.com/bibbank/credit-risk/internal/domain/model"

// DecisionEngine turns an applicant profile and a loan request into a risk
// assessment. It holds no mutable state and is safe for concurrent use.
//
// Inputs are assumed to be validated by the caller.
type DecisionEngine struct {
	scoring       *ScoringPolicy
	affordability AffordabilityPolicy
}

// NewDecisionEngine creates a DecisionEngine with the canonical policies.
func NewDecisionEngine() *DecisionEngine {
	return &DecisionEngine{
		scoring:       NewScoringPolicy(),
		affordability: NewAffordabilityPolicy(),
	}
}

// Assess runs installment, ratios, score, classification and affordability in
// that order and returns the combined result.
func (e *DecisionEngine) Assess(profile model.ApplicantProfile, req model.LoanRequest) model.RiskAssessment {
	installment := model.ComputeInstallment(req.Principal, req.TenureMonths, req.AnnualInterestRatePercent)
	ratios := model.ComputeRatios(profile, installment)
	result := e.scoring.Score(profile, ratios)
	maxPrincipal := e.affordability.MaxRecommendedPrincipal(profile, req.TenureMonths, req.AnnualInterestRatePercent)

	return model.RiskAssessment{
		Score:                   result.Score,
		Category:                Classify(result.Score),
		Decision:                Decide(result.Score, profile.CreditScore, profile.HasExpenseMismatch),
		MonthlyInstallment:      installment,
		Ratios:                  ratios,
		MaxRecommendedPrincipal: maxPrincipal,
		Reasons:                 result.Reasons,
		Factors:                 result.Factors,
	}
}
