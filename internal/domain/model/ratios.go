package model

import "github.com/shopspring/decimal"

// SaturatedRatio is the value every income-relative ratio takes when monthly
// income is zero or negative (100% of income).
var SaturatedRatio = decimal.NewFromInt(1)

// RatioSet holds the affordability ratios derived for one assessment. Ratios
// are fractions (0.35 = 35%).
type RatioSet struct {
	MonthlyIncome       decimal.Decimal
	MonthlyInstallment  decimal.Decimal
	InstallmentToIncome decimal.Decimal
	ExpenseToIncome     decimal.Decimal
	DebtToIncome        decimal.Decimal
	// DisposableIncome may be negative.
	DisposableIncome decimal.Decimal
}

// ComputeRatios derives the ratio set for a profile and a monthly installment.
// A non-positive income saturates every ratio instead of dividing by zero, so
// "no income" scores as the riskiest normal input.
func ComputeRatios(profile ApplicantProfile, installment decimal.Decimal) RatioSet {
	monthlyIncome := profile.MonthlyIncome()
	existingMonthly := profile.ExistingMonthlyDebt()

	set := RatioSet{
		MonthlyIncome:      monthlyIncome,
		MonthlyInstallment: installment,
		DisposableIncome:   monthlyIncome.Sub(profile.MonthlyExpenses).Sub(existingMonthly),
	}

	if !monthlyIncome.IsPositive() {
		set.InstallmentToIncome = SaturatedRatio
		set.ExpenseToIncome = SaturatedRatio
		set.DebtToIncome = SaturatedRatio
		return set
	}

	set.InstallmentToIncome = installment.Div(monthlyIncome)
	set.ExpenseToIncome = profile.MonthlyExpenses.Div(monthlyIncome)
	set.DebtToIncome = installment.Add(existingMonthly).Div(monthlyIncome)
	return set
}
