package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/pkg/money"
)

// ApplicantDTO carries the applicant's financial attributes.
type ApplicantDTO struct {
	EmploymentYears          decimal.Decimal `json:"employment_years"`
	AnnualIncome             decimal.Decimal `json:"annual_income"`
	MonthlyExpenses          decimal.Decimal `json:"monthly_expenses"`
	ExistingLoanAnnualAmount decimal.Decimal `json:"existing_loan_annual_amount"`
	Age                      int             `json:"age"`
	CreditScore              int             `json:"credit_score"`
	HasExpenseMismatch       bool            `json:"has_expense_mismatch"`
}

// ToModel maps the DTO to the domain profile.
func (a ApplicantDTO) ToModel() model.ApplicantProfile {
	return model.ApplicantProfile{
		Age:                      a.Age,
		EmploymentYears:          a.EmploymentYears,
		CreditScore:              a.CreditScore,
		AnnualIncome:             a.AnnualIncome,
		MonthlyExpenses:          a.MonthlyExpenses,
		ExistingLoanAnnualAmount: a.ExistingLoanAnnualAmount,
		HasExpenseMismatch:       a.HasExpenseMismatch,
	}
}

// AssessApplicantRequest is the input DTO for the AssessApplicant use case.
// AnnualInterestRatePercent is optional; when absent the product rate or the
// configured default applies.
type AssessApplicantRequest struct {
	AnnualInterestRatePercent decimal.NullDecimal `json:"annual_interest_rate_percent"`
	Principal                 decimal.Decimal     `json:"principal"`
	TenantID                  string              `json:"tenant_id"`
	ProductCode               string              `json:"product_code"`
	Applicant                 ApplicantDTO        `json:"applicant"`
	TenureMonths              int                 `json:"tenure_months"`
}

// RatiosResponse exposes the affordability ratios as fixed-point strings.
type RatiosResponse struct {
	MonthlyIncome       string `json:"monthly_income"`
	InstallmentToIncome string `json:"installment_to_income"`
	ExpenseToIncome     string `json:"expense_to_income"`
	DebtToIncome        string `json:"debt_to_income"`
	DisposableIncome    string `json:"disposable_income"`
}

// FactorResponse describes one triggered scoring rule.
type FactorResponse struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// CounterOfferResponse proposes a smaller loan the applicant can afford.
type CounterOfferResponse struct {
	Principal          string `json:"principal"`
	MonthlyInstallment string `json:"monthly_installment"`
	TenureMonths       int    `json:"tenure_months"`
}

// AssessmentResponse is the output DTO returned after an assessment.
type AssessmentResponse struct {
	AssessedAt                time.Time             `json:"assessed_at"`
	CounterOffer              *CounterOfferResponse `json:"counter_offer,omitempty"`
	Ratios                    RatiosResponse        `json:"ratios"`
	AssessmentID              string                `json:"assessment_id"`
	ProductCode               string                `json:"product_code,omitempty"`
	Currency                  string                `json:"currency"`
	Category                  string                `json:"category"`
	Decision                  string                `json:"decision"`
	MonthlyInstallment        string                `json:"monthly_installment"`
	MaxRecommendedPrincipal   string                `json:"max_recommended_principal"`
	AnnualInterestRatePercent string                `json:"annual_interest_rate_percent"`
	Reasons                   []string              `json:"reasons"`
	Factors                   []FactorResponse      `json:"factors"`
	Score                     int                   `json:"score"`
	TenureMonths              int                   `json:"tenure_months"`
}

// FromAssessment maps a domain assessment to the response DTO. Amounts are
// rendered in the currency's minor units.
func FromAssessment(a model.RiskAssessment, cur money.Currency) AssessmentResponse {
	factors := make([]FactorResponse, 0, len(a.Factors))
	for _, f := range a.Factors {
		factors = append(factors, FactorResponse{Code: f.Code, Reason: f.Reason, Points: f.Points})
	}

	return AssessmentResponse{
		Currency:                cur.Code(),
		Score:                   a.Score,
		Category:                a.Category.String(),
		Decision:                a.Decision.String(),
		MonthlyInstallment:      formatAmount(a.MonthlyInstallment, cur),
		MaxRecommendedPrincipal: formatAmount(a.MaxRecommendedPrincipal, cur),
		Reasons:                 a.Reasons,
		Factors:                 factors,
		Ratios: RatiosResponse{
			MonthlyIncome:       formatAmount(a.Ratios.MonthlyIncome, cur),
			InstallmentToIncome: a.Ratios.InstallmentToIncome.StringFixed(4),
			ExpenseToIncome:     a.Ratios.ExpenseToIncome.StringFixed(4),
			DebtToIncome:        a.Ratios.DebtToIncome.StringFixed(4),
			DisposableIncome:    formatAmount(a.Ratios.DisposableIncome, cur),
		},
	}
}

// QuoteInstallmentRequest is the input DTO for the QuoteInstallment use case.
type QuoteInstallmentRequest struct {
	StartDate                 time.Time           `json:"start_date"`
	AnnualInterestRatePercent decimal.NullDecimal `json:"annual_interest_rate_percent"`
	Principal                 decimal.Decimal     `json:"principal"`
	ProductCode               string              `json:"product_code"`
	TenureMonths              int                 `json:"tenure_months"`
}

// ScheduleEntryResponse is one period of an amortization schedule.
type ScheduleEntryResponse struct {
	DueDate          time.Time `json:"due_date"`
	Principal        string    `json:"principal"`
	Interest         string    `json:"interest"`
	Total            string    `json:"total"`
	RemainingBalance string    `json:"remaining_balance"`
	Period           int       `json:"period"`
}

// QuoteResponse is the output DTO of QuoteInstallment.
type QuoteResponse struct {
	ProductCode               string                  `json:"product_code,omitempty"`
	Currency                  string                  `json:"currency"`
	Principal                 string                  `json:"principal"`
	AnnualInterestRatePercent string                  `json:"annual_interest_rate_percent"`
	MonthlyInstallment        string                  `json:"monthly_installment"`
	TotalRepayment            string                  `json:"total_repayment"`
	TotalInterest             string                  `json:"total_interest"`
	Schedule                  []ScheduleEntryResponse `json:"schedule"`
	TenureMonths              int                     `json:"tenure_months"`
}

// FromSchedule maps an amortization schedule to its response entries.
func FromSchedule(schedule []model.AmortizationEntry, cur money.Currency) []ScheduleEntryResponse {
	out := make([]ScheduleEntryResponse, 0, len(schedule))
	for _, e := range schedule {
		out = append(out, ScheduleEntryResponse{
			Period:           e.Period,
			DueDate:          e.DueDate,
			Principal:        formatAmount(e.Principal, cur),
			Interest:         formatAmount(e.Interest, cur),
			Total:            formatAmount(e.Total, cur),
			RemainingBalance: formatAmount(e.RemainingBalance, cur),
		})
	}
	return out
}

// GetProductRequest is the input DTO for GetProduct.
type GetProductRequest struct {
	Code string `json:"code"`
}

// ListProductsRequest is the input DTO for ListProducts.
type ListProductsRequest struct {
	ActiveOnly bool `json:"active_only"`
}

// ProductResponse is the output DTO for a loan product.
type ProductResponse struct {
	UpdatedAt         time.Time `json:"updated_at"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Currency          string    `json:"currency"`
	AnnualRatePercent string    `json:"annual_rate_percent"`
	MaxPrincipal      string    `json:"max_principal"`
	MinTenureMonths   int       `json:"min_tenure_months"`
	MaxTenureMonths   int       `json:"max_tenure_months"`
	Active            bool      `json:"active"`
}

// FromProduct maps a domain product to the response DTO.
func FromProduct(p model.LoanProduct) ProductResponse {
	return ProductResponse{
		Code:              p.Code(),
		Name:              p.Name(),
		Currency:          p.Currency().Code(),
		AnnualRatePercent: p.AnnualRatePercent().String(),
		MinTenureMonths:   p.MinTenureMonths(),
		MaxTenureMonths:   p.MaxTenureMonths(),
		MaxPrincipal:      formatAmount(p.MaxPrincipal(), p.Currency()),
		Active:            p.Active(),
		UpdatedAt:         p.UpdatedAt(),
	}
}

// ListProductsResponse wraps a product listing.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

// SeedCatalogResponse reports the outcome of a catalog seed.
type SeedCatalogResponse struct {
	Codes    []string `json:"codes"`
	Upserted int      `json:"upserted"`
}

func formatAmount(amount decimal.Decimal, cur money.Currency) string {
	return money.New(amount, cur).Round().AmountString()
}
