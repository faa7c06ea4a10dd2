package service

import "github.com/bibbank/credit-risk/internal/domain/valueobject"

// Decision thresholds.
const (
	AutoApproveScoreCeiling  = 30
	AutoApproveMinCredit     = 650
	ManualReviewScoreCeiling = 50
)

// Classify maps a clamped score to its risk category.
func Classify(score int) valueobject.RiskCategory {
	return valueobject.RiskCategoryFromScore(score)
}

// Decide returns the approval decision. A fraud indicator rejects outright;
// otherwise a low score with good credit is approved, a moderate score is
// routed to review and everything else is rejected.
func Decide(score, creditScore int, hasExpenseMismatch bool) valueobject.RiskDecision {
	switch {
	case hasExpenseMismatch:
		return valueobject.DecisionAutoReject
	case score < AutoApproveScoreCeiling && creditScore >= AutoApproveMinCredit:
		return valueobject.DecisionAutoApprove
	case score < ManualReviewScoreCeiling:
		return valueobject.DecisionManualReview
	default:
		return valueobject.DecisionAutoReject
	}
}
