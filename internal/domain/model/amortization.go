package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRate converts an annual percentage rate (12 = 12%) into the monthly
// decimal rate used by the amortization formulas.
func MonthlyRate(annualRatePercent decimal.Decimal) float64 {
	return annualRatePercent.InexactFloat64() / 12.0 / 100.0
}

// ComputeInstallment returns the fixed monthly installment that amortizes
// principal over tenureMonths at the given annual rate.
//
//	r       = annualRatePercent / 12 / 100
//	f       = (1+r)^n
//	payment = P * r * f / (f - 1)
//
// Degenerate loans (principal <= 0 or tenure <= 0) have no installment and
// yield zero, as do inputs that overflow float64. A zero rate is a
// straight-line split of the principal; all other results are rounded to two
// decimal places.
func ComputeInstallment(principal decimal.Decimal, tenureMonths int, annualRatePercent decimal.Decimal) decimal.Decimal {
	if tenureMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	r := MonthlyRate(annualRatePercent)
	if r == 0 {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths)))
	}

	// Power in float64, money back in decimal.
	factor := math.Pow(1+r, float64(tenureMonths))
	payment := principal.InexactFloat64() * r * factor / (factor - 1)
	if !isFinite(payment) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(payment).Round(2)
}

// PrincipalForInstallment inverts ComputeInstallment: it returns the
// principal whose installment over tenureMonths equals installment. The
// result is unrounded; callers apply their own rounding convention. Inputs
// that overflow float64 yield zero.
func PrincipalForInstallment(installment decimal.Decimal, tenureMonths int, annualRatePercent decimal.Decimal) decimal.Decimal {
	if tenureMonths <= 0 || installment.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	r := MonthlyRate(annualRatePercent)
	if r == 0 {
		return installment.Mul(decimal.NewFromInt(int64(tenureMonths)))
	}

	factor := math.Pow(1+r, float64(tenureMonths))
	principal := installment.InexactFloat64() * (factor - 1) / (r * factor)
	if !isFinite(principal) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(principal)
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// AmortizationEntry is one period of a repayment schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// GenerateAmortizationSchedule expands a loan into its monthly repayment
// schedule. The first payment is due one month after startDate.
//
// Schedules are always paid in whole cents: the installment from
// ComputeInstallment is rounded to two places, which only changes the
// unrounded zero-rate split. The final period absorbs rounding so the balance
// reaches exactly zero.
func GenerateAmortizationSchedule(
	principal decimal.Decimal,
	tenureMonths int,
	annualRatePercent decimal.Decimal,
	startDate time.Time,
) []AmortizationEntry {
	installment := ComputeInstallment(principal, tenureMonths, annualRatePercent).Round(2)
	if installment.IsZero() {
		return nil
	}

	monthlyRate := decimal.NewFromFloat(MonthlyRate(annualRatePercent))
	schedule := make([]AmortizationEntry, 0, tenureMonths)
	remaining := principal

	for period := 1; period <= tenureMonths; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := installment.Sub(interest)

		if period == tenureMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          startDate.AddDate(0, period, 0),
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})

		if remaining.IsZero() {
			break
		}
	}

	return schedule
}

// TotalRepayment sums every installment of a schedule.
func TotalRepayment(schedule []AmortizationEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range schedule {
		total = total.Add(e.Total)
	}
	return total
}
