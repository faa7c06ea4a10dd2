package usecase_test

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/pkg/events"
)

// --- Mock implementations ---

type mockProductRepository struct {
	products  map[string]model.LoanProduct
	upserted  []model.LoanProduct
	findErr   error
	upsertErr error
}

func newMockProductRepository(products ...model.LoanProduct) *mockProductRepository {
	m := &mockProductRepository{products: make(map[string]model.LoanProduct)}
	for _, p := range products {
		m.products[p.Code()] = p
	}
	return m
}

func (m *mockProductRepository) FindByCode(_ context.Context, code string) (model.LoanProduct, error) {
	if m.findErr != nil {
		return model.LoanProduct{}, m.findErr
	}
	p, ok := m.products[code]
	if !ok {
		return model.LoanProduct{}, fmt.Errorf("%w: %s", model.ErrProductNotFound, code)
	}
	return p, nil
}

func (m *mockProductRepository) List(_ context.Context, activeOnly bool) ([]model.LoanProduct, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]model.LoanProduct, 0, len(m.products))
	for _, p := range m.products {
		if activeOnly && !p.Active() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	return out, nil
}

func (m *mockProductRepository) Upsert(_ context.Context, products ...model.LoanProduct) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for _, p := range products {
		m.products[p.Code()] = p
	}
	m.upserted = append(m.upserted, products...)
	return nil
}

type mockEventPublisher struct {
	publishErr      error
	publishedEvents []events.DomainEvent
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockProductCache struct {
	invalidateErr error
	invalidated   []string
}

func (m *mockProductCache) Get(context.Context, string) (model.LoanProduct, bool, error) {
	return model.LoanProduct{}, false, nil
}

func (m *mockProductCache) Set(context.Context, model.LoanProduct) error { return nil }

func (m *mockProductCache) Invalidate(_ context.Context, codes ...string) error {
	if m.invalidateErr != nil {
		return m.invalidateErr
	}
	m.invalidated = append(m.invalidated, codes...)
	return nil
}

type mockCatalogSource struct {
	err      error
	products []model.LoanProduct
}

func (m *mockCatalogSource) Load(context.Context) ([]model.LoanProduct, error) {
	return m.products, m.err
}

// --- Fixtures ---

func mustProduct(code string, rate string, active bool) model.LoanProduct {
	p, err := model.NewLoanProduct(model.LoanProductParams{
		Code:              code,
		Name:              code + " loan",
		Currency:          "INR",
		AnnualRatePercent: decimal.RequireFromString(rate),
		MinTenureMonths:   6,
		MaxTenureMonths:   60,
		MaxPrincipal:      decimal.NewFromInt(2000000),
		Active:            active,
	})
	if err != nil {
		panic(err)
	}
	return p
}
