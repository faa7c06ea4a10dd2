package valueobject

import "fmt"

// RiskDecision is the outcome the engine recommends for a loan request.
type RiskDecision struct {
	value string
}

var (
	DecisionAutoApprove  = RiskDecision{value: "AUTO_APPROVE"}
	DecisionManualReview = RiskDecision{value: "MANUAL_REVIEW"}
	DecisionAutoReject   = RiskDecision{value: "AUTO_REJECT"}
)

// RiskDecisionFromString reconstructs a decision from its string representation.
func RiskDecisionFromString(s string) (RiskDecision, error) {
	switch s {
	case "AUTO_APPROVE":
		return DecisionAutoApprove, nil
	case "MANUAL_REVIEW":
		return DecisionManualReview, nil
	case "AUTO_REJECT":
		return DecisionAutoReject, nil
	default:
		return RiskDecision{}, fmt.Errorf("invalid risk decision: %s", s)
	}
}

// String returns the string representation.
func (d RiskDecision) String() string {
	return d.value
}

// IsZero returns true if the decision has not been set.
func (d RiskDecision) IsZero() bool {
	return d.value == ""
}

// Equal checks equality with another RiskDecision.
func (d RiskDecision) Equal(other RiskDecision) bool {
	return d.value == other.value
}

// IsApproved returns true if the decision is AUTO_APPROVE.
func (d RiskDecision) IsApproved() bool {
	return d.value == "AUTO_APPROVE"
}

// IsRejected returns true if the decision is AUTO_REJECT.
func (d RiskDecision) IsRejected() bool {
	return d.value == "AUTO_REJECT"
}
