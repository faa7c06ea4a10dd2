package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/event"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/service"
	"github.com/bibbank/credit-risk/pkg/money"
	"github.com/bibbank/credit-risk/pkg/testutil"
)

func validAssessRequest() dto.AssessApplicantRequest {
	return dto.AssessApplicantRequest{
		TenantID: "tenant-1",
		Applicant: dto.ApplicantDTO{
			Age:                      30,
			EmploymentYears:          decimal.NewFromInt(5),
			CreditScore:              750,
			AnnualIncome:             decimal.NewFromInt(1200000),
			MonthlyExpenses:          decimal.NewFromInt(30000),
			ExistingLoanAnnualAmount: decimal.Zero,
		},
		Principal:    decimal.NewFromInt(100000),
		TenureMonths: 12,
	}
}

func newAssessUseCase(t *testing.T, repo *mockProductRepository, publisher *mockEventPublisher) *usecase.AssessApplicant {
	t.Helper()
	metrics, err := usecase.NewAssessmentMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	terms := usecase.NewTermsResolver(repo, decimal.NewFromInt(12), money.INR)
	return usecase.NewAssessApplicant(terms, publisher, service.NewDecisionEngine(), metrics)
}

func TestAssessApplicant_Execute(t *testing.T) {
	t.Run("approves a clean applicant at the default rate", func(t *testing.T) {
		publisher := &mockEventPublisher{}
		uc := newAssessUseCase(t, newMockProductRepository(), publisher)

		resp, err := uc.Execute(context.Background(), validAssessRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AssessmentID)
		assert.Equal(t, "INR", resp.Currency)
		assert.Equal(t, "12", resp.AnnualInterestRatePercent)
		assert.Equal(t, "8884.88", resp.MonthlyInstallment)
		assert.Equal(t, "450000.00", resp.MaxRecommendedPrincipal)
		assert.Equal(t, 0, resp.Score)
		assert.Equal(t, "LOW", resp.Category)
		assert.Equal(t, "AUTO_APPROVE", resp.Decision)
		assert.Equal(t, []string{service.NeutralReason}, resp.Reasons)
		assert.Nil(t, resp.CounterOffer)
		assert.False(t, resp.AssessedAt.IsZero())

		require.Len(t, publisher.publishedEvents, 1)
		evt, ok := publisher.publishedEvents[0].(event.RiskAssessed)
		require.True(t, ok)
		assert.Equal(t, event.EventTypeRiskAssessed, evt.EventType())
		assert.Equal(t, resp.AssessmentID, evt.AggregateID())
		assert.Equal(t, "tenant-1", evt.TenantID())
		assert.Equal(t, "AUTO_APPROVE", evt.Decision)
	})

	t.Run("rejects an unaffordable request and issues a counter offer", func(t *testing.T) {
		publisher := &mockEventPublisher{}
		uc := newAssessUseCase(t, newMockProductRepository(), publisher)

		req := validAssessRequest()
		req.Applicant.HasExpenseMismatch = true
		req.Principal = decimal.NewFromInt(600000)
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 70, resp.Score)
		assert.Equal(t, "AUTO_REJECT", resp.Decision)
		require.NotNil(t, resp.CounterOffer)
		assert.Equal(t, "450000.00", resp.CounterOffer.Principal)
		assert.Equal(t, "39981.95", resp.CounterOffer.MonthlyInstallment)
		assert.Equal(t, 12, resp.CounterOffer.TenureMonths)

		require.Len(t, publisher.publishedEvents, 2)
		assert.Equal(t, event.EventTypeRiskAssessed, publisher.publishedEvents[0].EventType())
		offer, ok := publisher.publishedEvents[1].(event.CounterOfferIssued)
		require.True(t, ok)
		assert.Equal(t, "450000.00", offer.OfferedPrincipal)
		assert.Equal(t, "600000", offer.RequestedPrincipal)
	})

	t.Run("risk rejection within affordability gets no counter offer", func(t *testing.T) {
		publisher := &mockEventPublisher{}
		uc := newAssessUseCase(t, newMockProductRepository(), publisher)

		req := validAssessRequest()
		req.Applicant.Age = 22
		req.Applicant.EmploymentYears = decimal.NewFromInt(1)
		req.Applicant.CreditScore = 600
		req.Principal = decimal.NewFromInt(50000)
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 50, resp.Score)
		assert.Equal(t, "AUTO_REJECT", resp.Decision)
		assert.Equal(t, "450000.00", resp.MaxRecommendedPrincipal)
		assert.Nil(t, resp.CounterOffer)
		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, event.EventTypeRiskAssessed, publisher.publishedEvents[0].EventType())
	})

	t.Run("uses the product rate when no rate is given", func(t *testing.T) {
		repo := newMockProductRepository(mustProduct("PERSONAL", "10.5", true))
		uc := newAssessUseCase(t, repo, &mockEventPublisher{})

		req := validAssessRequest()
		req.ProductCode = "personal"
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "PERSONAL", resp.ProductCode)
		assert.Equal(t, "10.5", resp.AnnualInterestRatePercent)
	})

	t.Run("explicit rate overrides the product rate", func(t *testing.T) {
		repo := newMockProductRepository(mustProduct("PERSONAL", "10.5", true))
		uc := newAssessUseCase(t, repo, &mockEventPublisher{})

		req := validAssessRequest()
		req.ProductCode = "PERSONAL"
		req.AnnualInterestRatePercent = decimal.NewNullDecimal(decimal.NewFromInt(9))
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "9", resp.AnnualInterestRatePercent)
	})

	t.Run("zero income is assessed rather than refused", func(t *testing.T) {
		uc := newAssessUseCase(t, newMockProductRepository(), &mockEventPublisher{})

		req := validAssessRequest()
		req.Applicant.AnnualIncome = decimal.Zero
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "1.0000", resp.Ratios.InstallmentToIncome)
		assert.Equal(t, "0.00", resp.MaxRecommendedPrincipal)
		assert.Nil(t, resp.CounterOffer)
	})
}

func TestAssessApplicant_Errors(t *testing.T) {
	tests := []struct {
		mutate  func(r *dto.AssessApplicantRequest)
		wantErr error
		name    string
	}{
		{
			name:    "applicant too young",
			mutate:  func(r *dto.AssessApplicantRequest) { r.Applicant.Age = 17 },
			wantErr: model.ErrInvalidAge,
		},
		{
			name:    "credit score out of bureau range",
			mutate:  func(r *dto.AssessApplicantRequest) { r.Applicant.CreditScore = 950 },
			wantErr: model.ErrInvalidCreditScore,
		},
		{
			name:    "zero tenure",
			mutate:  func(r *dto.AssessApplicantRequest) { r.TenureMonths = 0 },
			wantErr: model.ErrInvalidTenure,
		},
		{
			name:    "negative principal",
			mutate:  func(r *dto.AssessApplicantRequest) { r.Principal = decimal.NewFromInt(-1) },
			wantErr: model.ErrInvalidPrincipal,
		},
		{
			name: "negative explicit rate",
			mutate: func(r *dto.AssessApplicantRequest) {
				r.AnnualInterestRatePercent = decimal.NewNullDecimal(decimal.NewFromInt(-2))
			},
			wantErr: model.ErrInvalidInterestRate,
		},
		{
			name:    "unknown product",
			mutate:  func(r *dto.AssessApplicantRequest) { r.ProductCode = "GOLD" },
			wantErr: model.ErrProductNotFound,
		},
		{
			name:    "inactive product",
			mutate:  func(r *dto.AssessApplicantRequest) { r.ProductCode = "RETIRED" },
			wantErr: model.ErrProductInactive,
		},
		{
			name: "tenure outside product",
			mutate: func(r *dto.AssessApplicantRequest) {
				r.ProductCode = "PERSONAL"
				r.TenureMonths = 3
			},
			wantErr: model.ErrTenureOutsideProduct,
		},
		{
			name: "principal above product maximum",
			mutate: func(r *dto.AssessApplicantRequest) {
				r.ProductCode = "PERSONAL"
				r.Principal = decimal.NewFromInt(2000001)
			},
			wantErr: model.ErrPrincipalAboveProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockProductRepository(
				mustProduct("PERSONAL", "10.5", true),
				mustProduct("RETIRED", "15", false),
			)
			publisher := &mockEventPublisher{}
			uc := newAssessUseCase(t, repo, publisher)

			req := validAssessRequest()
			tt.mutate(&req)
			_, err := uc.Execute(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, publisher.publishedEvents)
		})
	}
}

func TestAssessApplicant_PublishFailure(t *testing.T) {
	publisher := &mockEventPublisher{publishErr: errors.New("broker down")}
	uc := newAssessUseCase(t, newMockProductRepository(), publisher)

	_, err := uc.Execute(context.Background(), validAssessRequest())

	testutil.AssertErrorContains(t, err, "failed to publish events")
}

func TestAssessApplicant_NilMetrics(t *testing.T) {
	terms := usecase.NewTermsResolver(nil, decimal.NewFromInt(12), money.INR)
	uc := usecase.NewAssessApplicant(terms, &mockEventPublisher{}, service.NewDecisionEngine(), nil)

	_, err := uc.Execute(context.Background(), validAssessRequest())
	require.NoError(t, err)

	req := validAssessRequest()
	req.ProductCode = "PERSONAL"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}
