package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/credit-risk/internal/domain/service"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		expected    valueobject.RiskDecision
		name        string
		score       int
		creditScore int
		mismatch    bool
	}{
		{name: "low score good credit approves", score: 0, creditScore: 750, expected: valueobject.DecisionAutoApprove},
		{name: "29 with 650 credit approves", score: 29, creditScore: 650, expected: valueobject.DecisionAutoApprove},
		{name: "low score weak credit reviews", score: 10, creditScore: 649, expected: valueobject.DecisionManualReview},
		{name: "30 reviews", score: 30, creditScore: 800, expected: valueobject.DecisionManualReview},
		{name: "49 reviews", score: 49, creditScore: 800, expected: valueobject.DecisionManualReview},
		{name: "50 rejects", score: 50, creditScore: 800, expected: valueobject.DecisionAutoReject},
		{name: "100 rejects", score: 100, creditScore: 900, expected: valueobject.DecisionAutoReject},
		{name: "mismatch overrides low score", score: 0, creditScore: 900, mismatch: true, expected: valueobject.DecisionAutoReject},
		{name: "mismatch overrides review band", score: 40, creditScore: 750, mismatch: true, expected: valueobject.DecisionAutoReject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.Decide(tt.score, tt.creditScore, tt.mismatch))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, valueobject.RiskCategoryLow, service.Classify(29))
	assert.Equal(t, valueobject.RiskCategoryMedium, service.Classify(30))
	assert.Equal(t, valueobject.RiskCategoryHigh, service.Classify(50))
	assert.Equal(t, valueobject.RiskCategoryCritical, service.Classify(70))
}
