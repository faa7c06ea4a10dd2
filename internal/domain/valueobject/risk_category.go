package valueobject

import "fmt"

// RiskCategory is the ordinal risk bucket derived from a risk score.
type RiskCategory struct {
	value string
}

var (
	RiskCategoryLow      = RiskCategory{value: "LOW"}
	RiskCategoryMedium   = RiskCategory{value: "MEDIUM"}
	RiskCategoryHigh     = RiskCategory{value: "HIGH"}
	RiskCategoryCritical = RiskCategory{value: "CRITICAL"}
)

// Score band lower bounds (inclusive).
const (
	MediumRiskFloor   = 30
	HighRiskFloor     = 50
	CriticalRiskFloor = 70
)

// RiskCategoryFromString reconstructs a RiskCategory from its string representation.
func RiskCategoryFromString(s string) (RiskCategory, error) {
	switch s {
	case "LOW":
		return RiskCategoryLow, nil
	case "MEDIUM":
		return RiskCategoryMedium, nil
	case "HIGH":
		return RiskCategoryHigh, nil
	case "CRITICAL":
		return RiskCategoryCritical, nil
	default:
		return RiskCategory{}, fmt.Errorf("invalid risk category: %s", s)
	}
}

// RiskCategoryFromScore maps a 0-100 score onto its band.
func RiskCategoryFromScore(score int) RiskCategory {
	switch {
	case score >= CriticalRiskFloor:
		return RiskCategoryCritical
	case score >= HighRiskFloor:
		return RiskCategoryHigh
	case score >= MediumRiskFloor:
		return RiskCategoryMedium
	default:
		return RiskCategoryLow
	}
}

// String returns the string representation.
func (c RiskCategory) String() string {
	return c.value
}

// IsZero returns true if the category has not been set.
func (c RiskCategory) IsZero() bool {
	return c.value == ""
}

// Equal checks equality with another RiskCategory.
func (c RiskCategory) Equal(other RiskCategory) bool {
	return c.value == other.value
}
