package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

func TestComputeRatios(t *testing.T) {
	profile := model.ApplicantProfile{
		AnnualIncome:             decimal.NewFromInt(1200000),
		MonthlyExpenses:          decimal.NewFromInt(30000),
		ExistingLoanAnnualAmount: decimal.NewFromInt(120000),
	}

	ratios := model.ComputeRatios(profile, decimal.NewFromInt(20000))

	assert.True(t, decimal.NewFromInt(100000).Equal(ratios.MonthlyIncome))
	assert.True(t, decimal.NewFromInt(20000).Equal(ratios.MonthlyInstallment))
	assert.True(t, decimal.RequireFromString("0.2").Equal(ratios.InstallmentToIncome))
	assert.True(t, decimal.RequireFromString("0.3").Equal(ratios.ExpenseToIncome))
	// (20,000 installment + 10,000 existing) / 100,000
	assert.True(t, decimal.RequireFromString("0.3").Equal(ratios.DebtToIncome))
	assert.True(t, decimal.NewFromInt(60000).Equal(ratios.DisposableIncome))
}

func TestComputeRatios_NonPositiveIncomeSaturates(t *testing.T) {
	for _, income := range []int64{0, -1200} {
		profile := model.ApplicantProfile{
			AnnualIncome:    decimal.NewFromInt(income),
			MonthlyExpenses: decimal.NewFromInt(5000),
		}

		ratios := model.ComputeRatios(profile, decimal.NewFromInt(1000))

		assert.True(t, model.SaturatedRatio.Equal(ratios.InstallmentToIncome))
		assert.True(t, model.SaturatedRatio.Equal(ratios.ExpenseToIncome))
		assert.True(t, model.SaturatedRatio.Equal(ratios.DebtToIncome))
		assert.True(t, ratios.DisposableIncome.IsNegative())
	}
}

func TestComputeRatios_DisposableIncomeCanBeNegative(t *testing.T) {
	profile := model.ApplicantProfile{
		AnnualIncome:             decimal.NewFromInt(120000),
		MonthlyExpenses:          decimal.NewFromInt(9000),
		ExistingLoanAnnualAmount: decimal.NewFromInt(24000),
	}

	ratios := model.ComputeRatios(profile, decimal.Zero)

	// 10,000 - 9,000 - 2,000
	assert.True(t, decimal.NewFromInt(-1000).Equal(ratios.DisposableIncome))
	assert.True(t, ratios.InstallmentToIncome.IsZero())
}
