package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// MaxScore is the ceiling every raw score is clamped to.
const MaxScore = 100

// NeutralReason is reported when no scoring rule triggers.
const NeutralReason = "No significant risk factors identified"

// Rule codes, stable across releases so downstream consumers can key on them.
const (
	FactorYoungApplicant         = "young_applicant"
	FactorNearRetirement         = "near_retirement"
	FactorLimitedEmployment      = "limited_employment"
	FactorModerateEmployment     = "moderate_employment"
	FactorPoorCredit             = "poor_credit"
	FactorBelowAverageCredit     = "below_average_credit"
	FactorAverageCredit          = "average_credit"
	FactorVeryHighEMIBurden      = "very_high_emi_burden"
	FactorHighEMIBurden          = "high_emi_burden"
	FactorModerateEMIBurden      = "moderate_emi_burden"
	FactorHighExpenseRatio       = "high_expense_ratio"
	FactorHighExistingLoanBurden = "high_existing_loan_burden"
	FactorPotentialFraud         = "potential_fraud"
)

var (
	ratio30 = decimal.RequireFromString("0.30")
	ratio40 = decimal.RequireFromString("0.40")
	ratio50 = decimal.RequireFromString("0.50")
	ratio70 = decimal.RequireFromString("0.70")

	existingLoanIncomeMultiple = decimal.NewFromInt(6)
)

type scoringInput struct {
	profile model.ApplicantProfile
	ratios  model.RatioSet
}

type rule struct {
	matches func(in scoringInput) bool
	reason  func(in scoringInput) string
	code    string
	points  int
}

// ruleGroup holds tiers ordered from most to least severe. Each tier states
// both of its bounds, so at most one matches regardless of order; scoring
// stops at the first match.
type ruleGroup []rule

// ScoreResult is the outcome of running the scoring policy.
type ScoreResult struct {
	Reasons []string
	Factors []model.RiskFactor
	Score   int
}

// ScoringPolicy applies an ordered set of weighted rules to a profile and its
// ratios. Groups are additive; tiers within a group are not.
type ScoringPolicy struct {
	groups []ruleGroup
}

// NewScoringPolicy returns the canonical lending rule table.
func NewScoringPolicy() *ScoringPolicy {
	return &ScoringPolicy{groups: defaultRuleGroups()}
}

// Score evaluates every rule group in order and returns the clamped score with
// the reasons for each triggered rule.
func (p *ScoringPolicy) Score(profile model.ApplicantProfile, ratios model.RatioSet) ScoreResult {
	in := scoringInput{profile: profile, ratios: ratios}

	raw := 0
	factors := make([]model.RiskFactor, 0, len(p.groups))
	for _, group := range p.groups {
		for _, r := range group {
			if !r.matches(in) {
				continue
			}
			raw += r.points
			factors = append(factors, model.RiskFactor{
				Code:   r.code,
				Reason: r.reason(in),
				Points: r.points,
			})
			break
		}
	}

	reasons := make([]string, 0, len(factors))
	for _, f := range factors {
		reasons = append(reasons, f.Reason)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, NeutralReason)
	}

	return ScoreResult{
		Score:   clampScore(raw),
		Reasons: reasons,
		Factors: factors,
	}
}

func clampScore(raw int) int {
	if raw > MaxScore {
		return MaxScore
	}
	if raw < 0 {
		return 0
	}
	return raw
}

// inBand reports whether lower < v <= upper.
func inBand(v, lower, upper decimal.Decimal) bool {
	return v.GreaterThan(lower) && v.LessThanOrEqual(upper)
}

func percent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func defaultRuleGroups() []ruleGroup {
	return []ruleGroup{
		// Age.
		{
			{
				code:    FactorYoungApplicant,
				points:  10,
				matches: func(in scoringInput) bool { return in.profile.Age < 25 },
				reason: func(in scoringInput) string {
					return fmt.Sprintf("Young applicant: age %d is below 25", in.profile.Age)
				},
			},
			{
				code:    FactorNearRetirement,
				points:  15,
				matches: func(in scoringInput) bool { return in.profile.Age > 55 },
				reason: func(in scoringInput) string {
					return fmt.Sprintf("Near retirement: age %d is above 55", in.profile.Age)
				},
			},
		},
		// Employment tenure.
		{
			{
				code:   FactorLimitedEmployment,
				points: 20,
				matches: func(in scoringInput) bool {
					return in.profile.EmploymentYears.LessThan(decimal.NewFromInt(2))
				},
				reason: func(in scoringInput) string {
					return fmt.Sprintf("Limited employment history: %s years", in.profile.EmploymentYears)
				},
			},
			{
				code:   FactorModerateEmployment,
				points: 5,
				matches: func(in scoringInput) bool {
					years := in.profile.EmploymentYears
					return years.GreaterThanOrEqual(decimal.NewFromInt(2)) && years.LessThan(decimal.NewFromInt(5))
				},
				reason: func(in scoringInput) string {
					return fmt.Sprintf("Moderate employment history: %s years", in.profile.EmploymentYears)
				},
			},
		},
		// Credit score.
		{
			{
				code:    FactorPoorCredit,
				points:  35,
				matches: func(in scoringInput) bool { return in.profile.CreditScore < 500 },
				reason: func(in scoringInput) string {
					return fmt.Sprintf("Poor credit score: %d", in.profile.CreditScore)
				},
			},
			{
				code:    FactorBelowAverageCredit,
				points:  20,
				matches: func(in scoringInput) bool { return in.profile.CreditScore >= 500 && in.profile.CreditScore < 650 },
				reason: func(in scoringInput) string {
					return fmt.Sprintf("Below-average credit score: %d", in.profile.CreditScore)
				},
			},
			{
				code:    FactorAverageCredit,
				points:  10,
				matches: func(in scoringInput) bool { return in.profile.CreditScore >= 650 && in.profile.CreditScore < 750 },
				reason: func(in scoringInput) string {
					return fmt.Sprintf("Average credit score: %d", in.profile.CreditScore)
				},
			},
		},
		// EMI burden.
		{
			{
				code:    FactorVeryHighEMIBurden,
				points:  30,
				matches: func(in scoringInput) bool { return in.ratios.InstallmentToIncome.GreaterThan(ratio50) },
				reason: func(in scoringInput) string {
					return fmt.Sprintf("Very high EMI burden: %s of monthly income", percent(in.ratios.InstallmentToIncome))
				},
			},
			{
				code:    FactorHighEMIBurden,
				points:  20,
				matches: func(in scoringInput) bool { return inBand(in.ratios.InstallmentToIncome, ratio40, ratio50) },
				reason: func(in scoringInput) string {
					return fmt.Sprintf("High EMI burden: %s of monthly income", percent(in.ratios.InstallmentToIncome))
				},
			},
			{
				code:    FactorModerateEMIBurden,
				points:  10,
				matches: func(in scoringInput) bool { return inBand(in.ratios.InstallmentToIncome, ratio30, ratio40) },
				reason: func(in scoringInput) string {
					return fmt.Sprintf("Moderate EMI burden: %s of monthly income", percent(in.ratios.InstallmentToIncome))
				},
			},
		},
		// Expenses.
		{
			{
				code:    FactorHighExpenseRatio,
				points:  15,
				matches: func(in scoringInput) bool { return in.ratios.ExpenseToIncome.GreaterThan(ratio70) },
				reason: func(in scoringInput) string {
					return fmt.Sprintf("High expense ratio: %s of monthly income", percent(in.ratios.ExpenseToIncome))
				},
			},
		},
		// Existing debt.
		{
			{
				code:   FactorHighExistingLoanBurden,
				points: 20,
				matches: func(in scoringInput) bool {
					limit := in.profile.MonthlyIncome().Mul(existingLoanIncomeMultiple)
					return in.profile.ExistingLoanAnnualAmount.GreaterThan(limit)
				},
				reason: func(in scoringInput) string {
					return fmt.Sprintf("High existing loan burden: %s exceeds six months of income",
						in.profile.ExistingLoanAnnualAmount.StringFixed(2))
				},
			},
		},
		// Fraud indicator.
		{
			{
				code:    FactorPotentialFraud,
				points:  40,
				matches: func(in scoringInput) bool { return in.profile.HasExpenseMismatch },
				reason: func(scoringInput) string {
					return "Potential fraud: declared expenses do not match statements"
				},
			},
		},
	}
}
