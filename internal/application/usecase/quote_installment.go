package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/pkg/money"
)

// QuoteInstallment computes the installment and full repayment schedule for a
// prospective loan without assessing the applicant.
type QuoteInstallment struct {
	terms *TermsResolver
}

// NewQuoteInstallment creates a new QuoteInstallment use case.
func NewQuoteInstallment(terms *TermsResolver) *QuoteInstallment {
	return &QuoteInstallment{terms: terms}
}

// Execute resolves the terms and expands the loan into its schedule.
func (uc *QuoteInstallment) Execute(ctx context.Context, req dto.QuoteInstallmentRequest) (dto.QuoteResponse, error) {
	terms, err := uc.terms.Resolve(ctx, req.ProductCode, req.AnnualInterestRatePercent)
	if err != nil {
		return dto.QuoteResponse{}, err
	}

	loan := model.LoanRequest{
		Principal:                 req.Principal,
		TenureMonths:              req.TenureMonths,
		AnnualInterestRatePercent: terms.AnnualRatePercent,
	}
	if err := loan.Validate(); err != nil {
		return dto.QuoteResponse{}, fmt.Errorf("invalid loan request: %w", err)
	}
	if err := terms.Admit(loan); err != nil {
		return dto.QuoteResponse{}, fmt.Errorf("loan request rejected by product: %w", err)
	}

	start := req.StartDate
	if start.IsZero() {
		start = time.Now().UTC()
	}

	installment := model.ComputeInstallment(loan.Principal, loan.TenureMonths, loan.AnnualInterestRatePercent)
	schedule := model.GenerateAmortizationSchedule(loan.Principal, loan.TenureMonths, loan.AnnualInterestRatePercent, start)
	total := model.TotalRepayment(schedule)

	cur := terms.Currency
	return dto.QuoteResponse{
		ProductCode:               terms.ProductCode,
		Currency:                  cur.Code(),
		Principal:                 money.New(loan.Principal, cur).Round().AmountString(),
		AnnualInterestRatePercent: loan.AnnualInterestRatePercent.String(),
		TenureMonths:              loan.TenureMonths,
		MonthlyInstallment:        money.New(installment, cur).Round().AmountString(),
		TotalRepayment:            money.New(total, cur).Round().AmountString(),
		TotalInterest:             money.New(total.Sub(loan.Principal), cur).Round().AmountString(),
		Schedule:                  dto.FromSchedule(schedule, cur),
	}, nil
}
