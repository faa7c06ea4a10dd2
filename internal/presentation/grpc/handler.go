package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/pkg/auth"
)

// Roles allowed per operation.
var (
	assessRoles = []string{auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleLoanOfficer, auth.RoleAPIClient}
	readRoles   = []string{auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleLoanOfficer, auth.RoleAuditor, auth.RoleAPIClient}
)

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	assess       *usecase.AssessApplicant
	quote        *usecase.QuoteInstallment
	getProduct   *usecase.GetProduct
	listProducts *usecase.ListProducts
	logger       *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(
	assess *usecase.AssessApplicant,
	quote *usecase.QuoteInstallment,
	getProduct *usecase.GetProduct,
	listProducts *usecase.ListProducts,
	logger *slog.Logger,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		assess:       assess,
		quote:        quote,
		getProduct:   getProduct,
		listProducts: listProducts,
		logger:       logger,
	}
}

// AssessApplicant runs the decision engine for one application.
func (h *RiskServiceHandler) AssessApplicant(ctx context.Context, req *AssessApplicantRequest) (*AssessApplicantResponse, error) {
	claims, err := auth.RequireRole(ctx, assessRoles...)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Applicant == nil {
		return nil, status.Error(codes.InvalidArgument, "applicant is required")
	}

	applicant, err := parseApplicant(req.Applicant)
	if err != nil {
		return nil, err
	}
	principal, err := parseDecimal("principal", req.Principal)
	if err != nil {
		return nil, err
	}
	rate, err := parseOptionalDecimal("annual_interest_rate_percent", req.AnnualInterestRatePercent)
	if err != nil {
		return nil, err
	}

	resp, err := h.assess.Execute(ctx, dto.AssessApplicantRequest{
		TenantID:                  claims.TenantID,
		Applicant:                 applicant,
		Principal:                 principal,
		TenureMonths:              int(req.TenureMonths),
		AnnualInterestRatePercent: rate,
		ProductCode:               req.ProductCode,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "assess applicant", err)
	}

	h.logger.InfoContext(ctx, "applicant assessed",
		slog.String("assessment_id", resp.AssessmentID),
		slog.String("tenant_id", claims.TenantID),
		slog.String("decision", resp.Decision),
		slog.Int("score", resp.Score),
	)
	return &AssessApplicantResponse{Assessment: resp}, nil
}

// QuoteInstallment returns the installment and amortization schedule for a loan.
func (h *RiskServiceHandler) QuoteInstallment(ctx context.Context, req *QuoteInstallmentRequest) (*QuoteInstallmentResponse, error) {
	if _, err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	principal, err := parseDecimal("principal", req.Principal)
	if err != nil {
		return nil, err
	}
	rate, err := parseOptionalDecimal("annual_interest_rate_percent", req.AnnualInterestRatePercent)
	if err != nil {
		return nil, err
	}
	var start time.Time
	if req.StartDate != "" {
		start, err = parseDate(req.StartDate)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid start_date: %v", err)
		}
	}

	quote, err := h.quote.Execute(ctx, dto.QuoteInstallmentRequest{
		Principal:                 principal,
		TenureMonths:              int(req.TenureMonths),
		AnnualInterestRatePercent: rate,
		ProductCode:               req.ProductCode,
		StartDate:                 start,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "quote installment", err)
	}
	return &QuoteInstallmentResponse{Quote: quote}, nil
}

// GetProduct returns one catalog product.
func (h *RiskServiceHandler) GetProduct(ctx context.Context, req *GetProductRequest) (*GetProductResponse, error) {
	if _, err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	product, err := h.getProduct.Execute(ctx, dto.GetProductRequest{Code: req.Code})
	if err != nil {
		return nil, h.toStatus(ctx, "get product", err)
	}
	return &GetProductResponse{Product: product}, nil
}

// ListProducts returns the catalog ordered by code.
func (h *RiskServiceHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	if _, err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		req = &ListProductsRequest{}
	}

	resp, err := h.listProducts.Execute(ctx, dto.ListProductsRequest{ActiveOnly: req.ActiveOnly})
	if err != nil {
		return nil, h.toStatus(ctx, "list products", err)
	}
	return &ListProductsResponse{Products: resp.Products}, nil
}

// invalidArgumentErrs are the domain errors a caller can fix by changing the request.
var invalidArgumentErrs = []error{
	model.ErrInvalidAge,
	model.ErrInvalidCreditScore,
	model.ErrInvalidEmployment,
	model.ErrInvalidIncome,
	model.ErrInvalidExpenses,
	model.ErrInvalidExistingLoans,
	model.ErrAmountTooLarge,
	model.ErrInvalidPrincipal,
	model.ErrPrincipalTooLarge,
	model.ErrInvalidTenure,
	model.ErrInvalidInterestRate,
	model.ErrInvalidProduct,
	model.ErrTenureOutsideProduct,
	model.ErrPrincipalAboveProduct,
}

// toStatus maps a use case error to a gRPC status. Unexpected errors are
// logged and hidden behind codes.Internal.
func (h *RiskServiceHandler) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, model.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrProductInactive):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	for _, target := range invalidArgumentErrs {
		if errors.Is(err, target) {
			return status.Error(codes.InvalidArgument, err.Error())
		}
	}

	h.logger.ErrorContext(ctx, "request failed", slog.String("op", op), slog.String("error", err.Error()))
	return status.Error(codes.Internal, "internal error")
}

func parseApplicant(m *ApplicantMsg) (dto.ApplicantDTO, error) {
	employment, err := parseDecimal("employment_years", m.EmploymentYears)
	if err != nil {
		return dto.ApplicantDTO{}, err
	}
	income, err := parseDecimal("annual_income", m.AnnualIncome)
	if err != nil {
		return dto.ApplicantDTO{}, err
	}
	expenses, err := parseDecimal("monthly_expenses", m.MonthlyExpenses)
	if err != nil {
		return dto.ApplicantDTO{}, err
	}
	existing, err := parseDecimal("existing_loan_annual_amount", m.ExistingLoanAnnualAmount)
	if err != nil {
		return dto.ApplicantDTO{}, err
	}

	return dto.ApplicantDTO{
		Age:                      int(m.Age),
		EmploymentYears:          employment,
		CreditScore:              int(m.CreditScore),
		AnnualIncome:             income,
		MonthlyExpenses:          expenses,
		ExistingLoanAnnualAmount: existing,
		HasExpenseMismatch:       m.HasExpenseMismatch,
	}, nil
}

// parseDecimal parses a required decimal field; an empty string reads as zero.
func parseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return d, nil
}

func parseOptionalDecimal(field, value string) (decimal.NullDecimal, error) {
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(field, value)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// parseDate accepts a full RFC 3339 timestamp or a bare date.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("want RFC 3339 or YYYY-MM-DD: %w", err)
	}
	return t, nil
}
