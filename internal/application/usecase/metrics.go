package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// AssessmentMetrics records assessment outcomes.
type AssessmentMetrics struct {
	assessments  metric.Int64Counter
	counterOffer metric.Int64Counter
	scores       metric.Int64Histogram
}

// NewAssessmentMetrics registers the assessment instruments on meter.
func NewAssessmentMetrics(meter metric.Meter) (*AssessmentMetrics, error) {
	assessments, err := meter.Int64Counter("risk.assessments",
		metric.WithDescription("Completed risk assessments by category and decision"),
	)
	if err != nil {
		return nil, fmt.Errorf("create assessments counter: %w", err)
	}

	counterOffer, err := meter.Int64Counter("risk.counter_offers",
		metric.WithDescription("Counter offers issued for requests that were not approved"),
	)
	if err != nil {
		return nil, fmt.Errorf("create counter offer counter: %w", err)
	}

	scores, err := meter.Int64Histogram("risk.assessment.score",
		metric.WithDescription("Distribution of clamped risk scores"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("create score histogram: %w", err)
	}

	return &AssessmentMetrics{
		assessments:  assessments,
		counterOffer: counterOffer,
		scores:       scores,
	}, nil
}

func (m *AssessmentMetrics) record(ctx context.Context, a model.RiskAssessment, productCode string, counterOffer bool) {
	attrs := metric.WithAttributes(
		attribute.String("category", a.Category.String()),
		attribute.String("decision", a.Decision.String()),
		attribute.String("product", productCode),
	)
	m.assessments.Add(ctx, 1, attrs)
	m.scores.Record(ctx, int64(a.Score), attrs)
	if counterOffer {
		m.counterOffer.Add(ctx, 1, metric.WithAttributes(attribute.String("product", productCode)))
	}
}
