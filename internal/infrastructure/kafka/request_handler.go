package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bibbank/credit-risk/internal/application/dto"
	pkgkafka "github.com/bibbank/credit-risk/pkg/kafka"
)

// assessor is satisfied by usecase.AssessApplicant.
type assessor interface {
	Execute(ctx context.Context, req dto.AssessApplicantRequest) (dto.AssessmentResponse, error)
}

// AssessmentRequestHandler turns assessment requests consumed from Kafka into
// engine runs. The outcome leaves through the regular event publisher, so the
// handler only reports failures.
type AssessmentRequestHandler struct {
	assess assessor
	logger *slog.Logger
}

// NewAssessmentRequestHandler creates a handler backed by the assess use case.
func NewAssessmentRequestHandler(assess assessor, logger *slog.Logger) *AssessmentRequestHandler {
	return &AssessmentRequestHandler{assess: assess, logger: logger}
}

// Handle decodes one message and runs the assessment. A tenant_id header
// fills in a request that carries no tenant of its own.
func (h *AssessmentRequestHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var req dto.AssessApplicantRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return fmt.Errorf("decoding assessment request: %w", err)
	}
	if req.TenantID == "" {
		req.TenantID = msg.Headers["tenant_id"]
	}

	resp, err := h.assess.Execute(ctx, req)
	if err != nil {
		return fmt.Errorf("assessing request %s: %w", string(msg.Key), err)
	}

	h.logger.InfoContext(ctx, "assessment request processed",
		slog.String("assessment_id", resp.AssessmentID),
		slog.String("decision", resp.Decision),
		slog.Int("score", resp.Score),
	)
	return nil
}
