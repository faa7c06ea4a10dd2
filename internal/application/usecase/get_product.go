package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bibbank/credit-risk/internal/application/dto"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
)

// GetProduct is the use case for retrieving a loan product by code.
type GetProduct struct {
	products port.ProductRepository
}

// NewGetProduct creates a new GetProduct use case.
func NewGetProduct(products port.ProductRepository) *GetProduct {
	return &GetProduct{products: products}
}

// Execute retrieves the product.
func (uc *GetProduct) Execute(ctx context.Context, req dto.GetProductRequest) (dto.ProductResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return dto.ProductResponse{}, fmt.Errorf("%w: code is required", model.ErrInvalidProduct)
	}

	product, err := uc.products.FindByCode(ctx, code)
	if err != nil {
		return dto.ProductResponse{}, fmt.Errorf("failed to find product: %w", err)
	}

	return dto.FromProduct(product), nil
}

// ListProducts is the use case for listing the loan product catalog.
type ListProducts struct {
	products port.ProductRepository
}

// NewListProducts creates a new ListProducts use case.
func NewListProducts(products port.ProductRepository) *ListProducts {
	return &ListProducts{products: products}
}

// Execute lists products ordered by code.
func (uc *ListProducts) Execute(ctx context.Context, req dto.ListProductsRequest) (dto.ListProductsResponse, error) {
	products, err := uc.products.List(ctx, req.ActiveOnly)
	if err != nil {
		return dto.ListProductsResponse{}, fmt.Errorf("failed to list products: %w", err)
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.FromProduct(p))
	}
	return dto.ListProductsResponse{Products: out}, nil
}
