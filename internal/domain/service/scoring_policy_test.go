package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/service"
)

// cleanProfile triggers no rule at all.
func cleanProfile() model.ApplicantProfile {
	return model.ApplicantProfile{
		Age:                      35,
		EmploymentYears:          decimal.NewFromInt(10),
		CreditScore:              800,
		AnnualIncome:             decimal.NewFromInt(1200000),
		MonthlyExpenses:          decimal.Zero,
		ExistingLoanAnnualAmount: decimal.Zero,
	}
}

func cleanRatios() model.RatioSet {
	return model.RatioSet{
		MonthlyIncome:       decimal.NewFromInt(100000),
		InstallmentToIncome: decimal.Zero,
		ExpenseToIncome:     decimal.Zero,
		DebtToIncome:        decimal.Zero,
	}
}

func codes(factors []model.RiskFactor) []string {
	out := make([]string, 0, len(factors))
	for _, f := range factors {
		out = append(out, f.Code)
	}
	return out
}

func TestScoringPolicy_NoRulesTriggered(t *testing.T) {
	policy := service.NewScoringPolicy()

	result := policy.Score(cleanProfile(), cleanRatios())

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, []string{service.NeutralReason}, result.Reasons)
	assert.Empty(t, result.Factors)
}

func TestScoringPolicy_SingleRules(t *testing.T) {
	tests := []struct {
		profile  func(p *model.ApplicantProfile)
		ratios   func(r *model.RatioSet)
		name     string
		wantCode string
		want     int
	}{
		{name: "age 24 is young", profile: func(p *model.ApplicantProfile) { p.Age = 24 }, want: 10, wantCode: service.FactorYoungApplicant},
		{name: "age 25 is not young", profile: func(p *model.ApplicantProfile) { p.Age = 25 }},
		{name: "age 55 is not near retirement", profile: func(p *model.ApplicantProfile) { p.Age = 55 }},
		{name: "age 56 is near retirement", profile: func(p *model.ApplicantProfile) { p.Age = 56 }, want: 15, wantCode: service.FactorNearRetirement},

		{name: "1.9 years employment", profile: func(p *model.ApplicantProfile) { p.EmploymentYears = decimal.RequireFromString("1.9") }, want: 20, wantCode: service.FactorLimitedEmployment},
		{name: "2 years employment", profile: func(p *model.ApplicantProfile) { p.EmploymentYears = decimal.NewFromInt(2) }, want: 5, wantCode: service.FactorModerateEmployment},
		{name: "4.99 years employment", profile: func(p *model.ApplicantProfile) { p.EmploymentYears = decimal.RequireFromString("4.99") }, want: 5, wantCode: service.FactorModerateEmployment},
		{name: "5 years employment", profile: func(p *model.ApplicantProfile) { p.EmploymentYears = decimal.NewFromInt(5) }},

		{name: "credit 499", profile: func(p *model.ApplicantProfile) { p.CreditScore = 499 }, want: 35, wantCode: service.FactorPoorCredit},
		{name: "credit 500", profile: func(p *model.ApplicantProfile) { p.CreditScore = 500 }, want: 20, wantCode: service.FactorBelowAverageCredit},
		{name: "credit 649", profile: func(p *model.ApplicantProfile) { p.CreditScore = 649 }, want: 20, wantCode: service.FactorBelowAverageCredit},
		{name: "credit 650", profile: func(p *model.ApplicantProfile) { p.CreditScore = 650 }, want: 10, wantCode: service.FactorAverageCredit},
		{name: "credit 749", profile: func(p *model.ApplicantProfile) { p.CreditScore = 749 }, want: 10, wantCode: service.FactorAverageCredit},
		{name: "credit 750", profile: func(p *model.ApplicantProfile) { p.CreditScore = 750 }},

		{name: "emi 51%", ratios: func(r *model.RatioSet) { r.InstallmentToIncome = decimal.RequireFromString("0.51") }, want: 30, wantCode: service.FactorVeryHighEMIBurden},
		{name: "emi 50%", ratios: func(r *model.RatioSet) { r.InstallmentToIncome = decimal.RequireFromString("0.50") }, want: 20, wantCode: service.FactorHighEMIBurden},
		{name: "emi 41%", ratios: func(r *model.RatioSet) { r.InstallmentToIncome = decimal.RequireFromString("0.41") }, want: 20, wantCode: service.FactorHighEMIBurden},
		{name: "emi 40%", ratios: func(r *model.RatioSet) { r.InstallmentToIncome = decimal.RequireFromString("0.40") }, want: 10, wantCode: service.FactorModerateEMIBurden},
		{name: "emi 31%", ratios: func(r *model.RatioSet) { r.InstallmentToIncome = decimal.RequireFromString("0.31") }, want: 10, wantCode: service.FactorModerateEMIBurden},
		{name: "emi 30%", ratios: func(r *model.RatioSet) { r.InstallmentToIncome = decimal.RequireFromString("0.30") }},

		{name: "expenses 71%", ratios: func(r *model.RatioSet) { r.ExpenseToIncome = decimal.RequireFromString("0.71") }, want: 15, wantCode: service.FactorHighExpenseRatio},
		{name: "expenses 70%", ratios: func(r *model.RatioSet) { r.ExpenseToIncome = decimal.RequireFromString("0.70") }},

		{name: "existing loans above six months income", profile: func(p *model.ApplicantProfile) { p.ExistingLoanAnnualAmount = decimal.NewFromInt(600001) }, want: 20, wantCode: service.FactorHighExistingLoanBurden},
		{name: "existing loans at six months income", profile: func(p *model.ApplicantProfile) { p.ExistingLoanAnnualAmount = decimal.NewFromInt(600000) }},

		{name: "expense mismatch", profile: func(p *model.ApplicantProfile) { p.HasExpenseMismatch = true }, want: 40, wantCode: service.FactorPotentialFraud},
	}

	policy := service.NewScoringPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := cleanProfile()
			ratios := cleanRatios()
			if tt.profile != nil {
				tt.profile(&profile)
			}
			if tt.ratios != nil {
				tt.ratios(&ratios)
			}

			result := policy.Score(profile, ratios)

			assert.Equal(t, tt.want, result.Score)
			if tt.wantCode == "" {
				assert.Empty(t, result.Factors)
				assert.Equal(t, []string{service.NeutralReason}, result.Reasons)
				return
			}
			require.Len(t, result.Factors, 1)
			assert.Equal(t, tt.wantCode, result.Factors[0].Code)
			assert.Equal(t, tt.want, result.Factors[0].Points)
			assert.Equal(t, []string{result.Factors[0].Reason}, result.Reasons)
		})
	}
}

func TestScoringPolicy_GroupsAreAdditiveInOrder(t *testing.T) {
	policy := service.NewScoringPolicy()

	profile := cleanProfile()
	profile.Age = 22
	profile.CreditScore = 600
	ratios := cleanRatios()
	ratios.ExpenseToIncome = decimal.RequireFromString("0.8")

	result := policy.Score(profile, ratios)

	// 10 + 20 + 15
	assert.Equal(t, 45, result.Score)
	assert.Equal(t, []string{
		service.FactorYoungApplicant,
		service.FactorBelowAverageCredit,
		service.FactorHighExpenseRatio,
	}, codes(result.Factors))
	require.Len(t, result.Reasons, 3)
	assert.Contains(t, result.Reasons[0], "age 22")
	assert.Contains(t, result.Reasons[1], "600")
	assert.Contains(t, result.Reasons[2], "80.00%")
}

func TestScoringPolicy_ClampsAt100(t *testing.T) {
	policy := service.NewScoringPolicy()

	profile := model.ApplicantProfile{
		Age:                      22,
		EmploymentYears:          decimal.Zero,
		CreditScore:              400,
		AnnualIncome:             decimal.NewFromInt(120000),
		MonthlyExpenses:          decimal.NewFromInt(9500),
		ExistingLoanAnnualAmount: decimal.NewFromInt(200000),
		HasExpenseMismatch:       true,
	}
	ratios := model.ComputeRatios(profile, decimal.NewFromInt(9000))

	result := policy.Score(profile, ratios)

	// 10 + 20 + 35 + 30 + 15 + 20 + 40 = 170
	assert.Equal(t, service.MaxScore, result.Score)
	assert.Len(t, result.Factors, 7)
	assert.Len(t, result.Reasons, 7)
}

func TestScoringPolicy_EMIReasonFormatsPercent(t *testing.T) {
	policy := service.NewScoringPolicy()
	ratios := cleanRatios()
	ratios.InstallmentToIncome = decimal.RequireFromString("0.5234")

	result := policy.Score(cleanProfile(), ratios)

	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "52.34%")
}
