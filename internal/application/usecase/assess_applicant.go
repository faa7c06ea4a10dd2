package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/event"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/service"
	"github.com/bibbank/credit-risk/pkg/events"
	"github.com/bibbank/credit-risk/pkg/money"
)

// AssessApplicant is the use case for running the decision engine on a loan
// application.
type AssessApplicant struct {
	terms     *TermsResolver
	publisher port.EventPublisher
	engine    *service.DecisionEngine
	metrics   *AssessmentMetrics
}

// NewAssessApplicant creates a new AssessApplicant use case. metrics may be nil.
func NewAssessApplicant(
	terms *TermsResolver,
	publisher port.EventPublisher,
	engine *service.DecisionEngine,
	metrics *AssessmentMetrics,
) *AssessApplicant {
	return &AssessApplicant{
		terms:     terms,
		publisher: publisher,
		engine:    engine,
		metrics:   metrics,
	}
}

// Execute validates the request, resolves its terms, runs the engine and
// publishes the outcome.
func (uc *AssessApplicant) Execute(ctx context.Context, req dto.AssessApplicantRequest) (dto.AssessmentResponse, error) {
	// 1. Validate the applicant.
	profile := req.Applicant.ToModel()
	if err := profile.Validate(); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("invalid applicant: %w", err)
	}

	// 2. Resolve rate and currency, then validate the loan against them.
	terms, err := uc.terms.Resolve(ctx, req.ProductCode, req.AnnualInterestRatePercent)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	loan := model.LoanRequest{
		Principal:                 req.Principal,
		TenureMonths:              req.TenureMonths,
		AnnualInterestRatePercent: terms.AnnualRatePercent,
	}
	if err := loan.Validate(); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("invalid loan request: %w", err)
	}
	if err := terms.Admit(loan); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("loan request rejected by product: %w", err)
	}

	// 3. Run the engine.
	assessment := uc.engine.Assess(profile, loan)
	offered, hasOffer := assessment.CounterOffer(loan.Principal, terms.PrincipalLimit())
	if uc.metrics != nil {
		uc.metrics.record(ctx, assessment, terms.ProductCode, hasOffer)
	}

	assessmentID := uuid.NewString()
	resp := dto.FromAssessment(assessment, terms.Currency)
	resp.AssessmentID = assessmentID
	resp.ProductCode = terms.ProductCode
	resp.TenureMonths = loan.TenureMonths
	resp.AnnualInterestRatePercent = loan.AnnualInterestRatePercent.String()
	resp.AssessedAt = time.Now().UTC()

	// 4. Offer a smaller affordable principal when the request was not approved.
	if hasOffer {
		offerInstallment := money.New(
			model.ComputeInstallment(offered, loan.TenureMonths, loan.AnnualInterestRatePercent),
			terms.Currency,
		).Round()
		resp.CounterOffer = &dto.CounterOfferResponse{
			Principal:          money.New(offered, terms.Currency).AmountString(),
			MonthlyInstallment: offerInstallment.AmountString(),
			TenureMonths:       loan.TenureMonths,
		}
	}

	// 5. Publish domain events.
	domainEvents := []events.DomainEvent{uc.assessedEvent(assessmentID, req.TenantID, resp)}
	if resp.CounterOffer != nil {
		domainEvents = append(domainEvents, uc.counterOfferEvent(assessmentID, req.TenantID, resp, loan))
	}
	if err := uc.publisher.Publish(ctx, domainEvents...); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to publish events: %w", err)
	}

	return resp, nil
}

func (uc *AssessApplicant) assessedEvent(id, tenantID string, resp dto.AssessmentResponse) event.RiskAssessed {
	codes := make([]string, 0, len(resp.Factors))
	for _, f := range resp.Factors {
		codes = append(codes, f.Code)
	}

	evt := event.NewRiskAssessed(id, tenantID)
	evt.ProductCode = resp.ProductCode
	evt.AnnualRatePercent = resp.AnnualInterestRatePercent
	evt.MonthlyInstallment = resp.MonthlyInstallment
	evt.MaxRecommendedPrincipal = resp.MaxRecommendedPrincipal
	evt.Category = resp.Category
	evt.Decision = resp.Decision
	evt.Reasons = resp.Reasons
	evt.Factors = codes
	evt.TenureMonths = resp.TenureMonths
	evt.Score = resp.Score
	return evt
}

func (uc *AssessApplicant) counterOfferEvent(
	id, tenantID string,
	resp dto.AssessmentResponse,
	loan model.LoanRequest,
) event.CounterOfferIssued {
	evt := event.NewCounterOfferIssued(id, tenantID)
	evt.ProductCode = resp.ProductCode
	evt.RequestedPrincipal = loan.Principal.String()
	evt.OfferedPrincipal = resp.CounterOffer.Principal
	evt.OfferedInstallment = resp.CounterOffer.MonthlyInstallment
	evt.AnnualRatePercent = resp.AnnualInterestRatePercent
	evt.OriginalDecision = resp.Decision
	evt.TenureMonths = loan.TenureMonths
	return evt
}
