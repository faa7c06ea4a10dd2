package event

import (
	"github.com/bibbank/credit-risk/pkg/events"
)

const (
	// EventTypeRiskAssessed is emitted for every completed assessment.
	EventTypeRiskAssessed = "risk.assessment.completed"

	// EventTypeCounterOfferIssued is emitted when a request that was not
	// approved still leaves room for a smaller loan.
	EventTypeCounterOfferIssued = "risk.counter_offer.issued"

	// AggregateTypeAssessment names the aggregate both events belong to.
	AggregateTypeAssessment = "RiskAssessment"
)

// RiskAssessed carries the outcome of one assessment. Amounts are decimal
// strings so consumers never lose precision.
type RiskAssessed struct {
	events.BaseEvent
	ProductCode             string   `json:"product_code,omitempty"`
	Principal               string   `json:"principal"`
	AnnualRatePercent       string   `json:"annual_rate_percent"`
	MonthlyInstallment      string   `json:"monthly_installment"`
	MaxRecommendedPrincipal string   `json:"max_recommended_principal"`
	Category                string   `json:"category"`
	Decision                string   `json:"decision"`
	Reasons                 []string `json:"reasons"`
	Factors                 []string `json:"factors"`
	TenureMonths            int      `json:"tenure_months"`
	Score                   int      `json:"score"`
}

// NewRiskAssessed creates a RiskAssessed event for the given assessment ID.
func NewRiskAssessed(assessmentID, tenantID string) RiskAssessed {
	return RiskAssessed{
		BaseEvent: events.NewBaseEvent(EventTypeRiskAssessed, assessmentID, AggregateTypeAssessment, tenantID),
	}
}

// CounterOfferIssued proposes the largest affordable principal for the same
// tenure and rate.
type CounterOfferIssued struct {
	events.BaseEvent
	ProductCode        string `json:"product_code,omitempty"`
	RequestedPrincipal string `json:"requested_principal"`
	OfferedPrincipal   string `json:"offered_principal"`
	OfferedInstallment string `json:"offered_installment"`
	AnnualRatePercent  string `json:"annual_rate_percent"`
	OriginalDecision   string `json:"original_decision"`
	TenureMonths       int    `json:"tenure_months"`
}

// NewCounterOfferIssued creates a CounterOfferIssued event for the given assessment ID.
func NewCounterOfferIssued(assessmentID, tenantID string) CounterOfferIssued {
	return CounterOfferIssued{
		BaseEvent: events.NewBaseEvent(EventTypeCounterOfferIssued, assessmentID, AggregateTypeAssessment, tenantID),
	}
}
