package grpc

import (
	"github.com/bibbank/credit-risk/internal/application/dto"
)

// Proto-aligned request/response message types. Amounts and rates are
// decimal strings.

// ApplicantMsg represents the proto Applicant message.
type ApplicantMsg struct {
	EmploymentYears          string `json:"employment_years"`
	AnnualIncome             string `json:"annual_income"`
	MonthlyExpenses          string `json:"monthly_expenses"`
	ExistingLoanAnnualAmount string `json:"existing_loan_annual_amount"`
	Age                      int32  `json:"age"`
	CreditScore              int32  `json:"credit_score"`
	HasExpenseMismatch       bool   `json:"has_expense_mismatch"`
}

// AssessApplicantRequest represents the proto AssessApplicantRequest message.
// AnnualInterestRatePercent and ProductCode are optional.
type AssessApplicantRequest struct {
	Applicant                 *ApplicantMsg `json:"applicant"`
	Principal                 string        `json:"principal"`
	AnnualInterestRatePercent string        `json:"annual_interest_rate_percent,omitempty"`
	ProductCode               string        `json:"product_code,omitempty"`
	TenureMonths              int32         `json:"tenure_months"`
}

// AssessApplicantResponse represents the proto AssessApplicantResponse message.
type AssessApplicantResponse struct {
	Assessment dto.AssessmentResponse `json:"assessment"`
}

// QuoteInstallmentRequest represents the proto QuoteInstallmentRequest message.
// StartDate is an optional RFC 3339 date.
type QuoteInstallmentRequest struct {
	Principal                 string `json:"principal"`
	AnnualInterestRatePercent string `json:"annual_interest_rate_percent,omitempty"`
	ProductCode               string `json:"product_code,omitempty"`
	StartDate                 string `json:"start_date,omitempty"`
	TenureMonths              int32  `json:"tenure_months"`
}

// QuoteInstallmentResponse represents the proto QuoteInstallmentResponse message.
type QuoteInstallmentResponse struct {
	Quote dto.QuoteResponse `json:"quote"`
}

// GetProductRequest represents the proto GetProductRequest message.
type GetProductRequest struct {
	Code string `json:"code"`
}

// GetProductResponse represents the proto GetProductResponse message.
type GetProductResponse struct {
	Product dto.ProductResponse `json:"product"`
}

// ListProductsRequest represents the proto ListProductsRequest message.
type ListProductsRequest struct {
	ActiveOnly bool `json:"active_only"`
}

// ListProductsResponse represents the proto ListProductsResponse message.
type ListProductsResponse struct {
	Products []dto.ProductResponse `json:"products"`
}
