package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/service"
	"github.com/bibbank/credit-risk/pkg/auth"
	"github.com/bibbank/credit-risk/pkg/events"
	"github.com/bibbank/credit-risk/pkg/money"
	"github.com/bibbank/credit-risk/pkg/testutil"
)

// --- Mock implementations ---

type mockProductRepository struct {
	products map[string]model.LoanProduct
	err      error
}

func (m *mockProductRepository) FindByCode(_ context.Context, code string) (model.LoanProduct, error) {
	if m.err != nil {
		return model.LoanProduct{}, m.err
	}
	p, ok := m.products[code]
	if !ok {
		return model.LoanProduct{}, fmt.Errorf("%w: %s", model.ErrProductNotFound, code)
	}
	return p, nil
}

func (m *mockProductRepository) List(_ context.Context, activeOnly bool) ([]model.LoanProduct, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.LoanProduct
	for _, p := range m.products {
		if !activeOnly || p.Active() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	return out, nil
}

func (m *mockProductRepository) Upsert(context.Context, ...model.LoanProduct) error { return nil }

type mockEventPublisher struct {
	published []events.DomainEvent
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	m.published = append(m.published, evts...)
	return nil
}

// --- Helpers ---

func testProduct(t *testing.T, code string, active bool) model.LoanProduct {
	t.Helper()
	p, err := model.NewLoanProduct(model.LoanProductParams{
		Code:              code,
		Name:              code + " loan",
		Currency:          "INR",
		AnnualRatePercent: decimal.NewFromInt(12),
		MinTenureMonths:   6,
		MaxTenureMonths:   60,
		MaxPrincipal:      decimal.NewFromInt(2_000_000),
		Active:            active,
	})
	require.NoError(t, err)
	return p
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	handler   *RiskServiceHandler
	repo      *mockProductRepository
	publisher *mockEventPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := &mockProductRepository{products: map[string]model.LoanProduct{
		"PERSONAL": testProduct(t, "PERSONAL", true),
		"LEGACY":   testProduct(t, "LEGACY", false),
	}}
	publisher := &mockEventPublisher{}
	terms := usecase.NewTermsResolver(repo, decimal.NewFromInt(12), money.INR)

	handler := NewRiskServiceHandler(
		usecase.NewAssessApplicant(terms, publisher, service.NewDecisionEngine(), nil),
		usecase.NewQuoteInstallment(terms),
		usecase.NewGetProduct(repo),
		usecase.NewListProducts(repo),
		testLogger(),
	)
	return fixture{handler: handler, repo: repo, publisher: publisher}
}

func contextWithRoles(roles ...string) context.Context {
	return auth.ContextWithClaims(context.Background(), &auth.Claims{
		TenantID: testutil.TestTenantID,
		Roles:    roles,
	})
}

func cleanApplicant() *ApplicantMsg {
	return &ApplicantMsg{
		Age:                      30,
		EmploymentYears:          "5",
		CreditScore:              750,
		AnnualIncome:             "1200000",
		MonthlyExpenses:          "30000",
		ExistingLoanAnnualAmount: "0",
	}
}

func requireGRPCCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %v", err)
	assert.Equal(t, code, st.Code(), st.Message())
}

// --- Tests ---

func TestAssessApplicant(t *testing.T) {
	t.Run("clean applicant is approved", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.handler.AssessApplicant(contextWithRoles(auth.RoleUnderwriter), &AssessApplicantRequest{
			Applicant:    cleanApplicant(),
			Principal:    "100000",
			TenureMonths: 12,
		})

		require.NoError(t, err)
		assert.Equal(t, "AUTO_APPROVE", resp.Assessment.Decision)
		assert.Equal(t, "LOW", resp.Assessment.Category)
		assert.Equal(t, "8884.88", resp.Assessment.MonthlyInstallment)
		assert.Equal(t, "INR", resp.Assessment.Currency)
		require.Len(t, f.publisher.published, 1)
		assert.Equal(t, testutil.TestTenantID, f.publisher.published[0].TenantID())
	})

	t.Run("product terms apply", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.handler.AssessApplicant(contextWithRoles(auth.RoleAPIClient), &AssessApplicantRequest{
			Applicant:    cleanApplicant(),
			Principal:    "100000",
			TenureMonths: 12,
			ProductCode:  "personal",
		})

		require.NoError(t, err)
		assert.Equal(t, "PERSONAL", resp.Assessment.ProductCode)
	})

	tests := []struct {
		name string
		ctx  context.Context
		req  *AssessApplicantRequest
		code codes.Code
	}{
		{
			name: "no claims",
			ctx:  context.Background(),
			req:  &AssessApplicantRequest{Applicant: cleanApplicant()},
			code: codes.Unauthenticated,
		},
		{
			name: "auditor cannot assess",
			ctx:  contextWithRoles(auth.RoleAuditor),
			req:  &AssessApplicantRequest{Applicant: cleanApplicant()},
			code: codes.PermissionDenied,
		},
		{
			name: "missing applicant",
			ctx:  contextWithRoles(auth.RoleUnderwriter),
			req:  &AssessApplicantRequest{Principal: "1000", TenureMonths: 12},
			code: codes.InvalidArgument,
		},
		{
			name: "malformed principal",
			ctx:  contextWithRoles(auth.RoleUnderwriter),
			req:  &AssessApplicantRequest{Applicant: cleanApplicant(), Principal: "lots", TenureMonths: 12},
			code: codes.InvalidArgument,
		},
		{
			name: "credit score out of range",
			ctx:  contextWithRoles(auth.RoleUnderwriter),
			req: &AssessApplicantRequest{
				Applicant:    &ApplicantMsg{Age: 30, CreditScore: 950, AnnualIncome: "100000"},
				Principal:    "1000",
				TenureMonths: 12,
			},
			code: codes.InvalidArgument,
		},
		{
			name: "unknown product",
			ctx:  contextWithRoles(auth.RoleUnderwriter),
			req:  &AssessApplicantRequest{Applicant: cleanApplicant(), Principal: "1000", TenureMonths: 12, ProductCode: "NOPE"},
			code: codes.NotFound,
		},
		{
			name: "inactive product",
			ctx:  contextWithRoles(auth.RoleUnderwriter),
			req:  &AssessApplicantRequest{Applicant: cleanApplicant(), Principal: "1000", TenureMonths: 12, ProductCode: "LEGACY"},
			code: codes.FailedPrecondition,
		},
		{
			name: "tenure outside product",
			ctx:  contextWithRoles(auth.RoleUnderwriter),
			req:  &AssessApplicantRequest{Applicant: cleanApplicant(), Principal: "1000", TenureMonths: 120, ProductCode: "PERSONAL"},
			code: codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.handler.AssessApplicant(tt.ctx, tt.req)
			requireGRPCCode(t, err, tt.code)
			assert.Empty(t, f.publisher.published)
		})
	}
}

func TestQuoteInstallment(t *testing.T) {
	f := newFixture(t)
	ctx := contextWithRoles(auth.RoleAuditor)

	resp, err := f.handler.QuoteInstallment(ctx, &QuoteInstallmentRequest{
		Principal:    "100000",
		TenureMonths: 12,
		StartDate:    "2026-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "8884.88", resp.Quote.MonthlyInstallment)
	require.Len(t, resp.Quote.Schedule, 12)
	assert.Equal(t, "2026-02-15", resp.Quote.Schedule[0].DueDate.Format("2006-01-02"))
	assert.Equal(t, "0.00", resp.Quote.Schedule[11].RemainingBalance)

	_, err = f.handler.QuoteInstallment(ctx, &QuoteInstallmentRequest{Principal: "100000", TenureMonths: 12, StartDate: "15/01/2026"})
	requireGRPCCode(t, err, codes.InvalidArgument)

	_, err = f.handler.QuoteInstallment(ctx, &QuoteInstallmentRequest{Principal: "100000", TenureMonths: 0})
	requireGRPCCode(t, err, codes.InvalidArgument)

	_, err = f.handler.QuoteInstallment(ctx, &QuoteInstallmentRequest{Principal: "100000", TenureMonths: 12, AnnualInterestRatePercent: "x"})
	requireGRPCCode(t, err, codes.InvalidArgument)
}

func TestProducts(t *testing.T) {
	f := newFixture(t)
	ctx := contextWithRoles(auth.RoleLoanOfficer)

	got, err := f.handler.GetProduct(ctx, &GetProductRequest{Code: "PERSONAL"})
	require.NoError(t, err)
	assert.Equal(t, "PERSONAL", got.Product.Code)

	_, err = f.handler.GetProduct(ctx, &GetProductRequest{Code: "NOPE"})
	requireGRPCCode(t, err, codes.NotFound)

	_, err = f.handler.GetProduct(ctx, &GetProductRequest{})
	requireGRPCCode(t, err, codes.InvalidArgument)

	all, err := f.handler.ListProducts(ctx, &ListProductsRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Products, 2)

	active, err := f.handler.ListProducts(ctx, &ListProductsRequest{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active.Products, 1)
	assert.Equal(t, "PERSONAL", active.Products[0].Code)

	f.repo.err = errors.New("connection reset")
	_, err = f.handler.ListProducts(ctx, &ListProductsRequest{})
	requireGRPCCode(t, err, codes.Internal)
}

func TestServer_EndToEnd(t *testing.T) {
	f := newFixture(t)
	jwtSvc := testutil.NewJWTService(t)

	srv, err := NewServer(f.handler, jwtSvc, ServerOptions{ServiceName: "credit-risk"}, testLogger())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.gs.Serve(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
		grpclib.WithDefaultCallOptions(grpclib.CallContentSubtype("json")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	method := "/" + riskServiceName + "/AssessApplicant"
	req := &AssessApplicantRequest{Applicant: cleanApplicant(), Principal: "100000", TenureMonths: 12}

	t.Run("rejects calls without a token", func(t *testing.T) {
		var resp AssessApplicantResponse
		err := conn.Invoke(context.Background(), method, req, &resp)
		requireGRPCCode(t, err, codes.Unauthenticated)
	})

	t.Run("serves authenticated calls", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(),
			"authorization", testutil.BearerToken(t, jwtSvc, auth.RoleUnderwriter))

		var resp AssessApplicantResponse
		require.NoError(t, conn.Invoke(ctx, method, req, &resp))
		assert.Equal(t, "AUTO_APPROVE", resp.Assessment.Decision)
		assert.Equal(t, 0, resp.Assessment.Score)
		assert.NotEmpty(t, resp.Assessment.AssessmentID)
	})
}
