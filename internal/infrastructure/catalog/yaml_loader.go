package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

// file is the document layout of a catalog file.
type file struct {
	Products []productEntry `yaml:"products"`
}

// productEntry is one product in a catalog file. Amounts and rates are
// strings so they keep their exact decimal value.
type productEntry struct {
	Active            *bool  `yaml:"active"`
	Code              string `yaml:"code"`
	Name              string `yaml:"name"`
	Currency          string `yaml:"currency"`
	AnnualRatePercent string `yaml:"annual_rate_percent"`
	MaxPrincipal      string `yaml:"max_principal"`
	MinTenureMonths   int    `yaml:"min_tenure_months"`
	MaxTenureMonths   int    `yaml:"max_tenure_months"`
}

// YAMLSource implements port.CatalogSource over a YAML file.
type YAMLSource struct {
	path string
}

// NewYAMLSource creates a catalog source reading path.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// Load reads and validates every product in the file.
func (s *YAMLSource) Load(_ context.Context) ([]model.LoanProduct, error) {
	// #nosec G304 -- path comes from operator configuration.
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", s.path, err)
	}
	products, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.path, err)
	}
	return products, nil
}

// Parse decodes a catalog document. Unknown keys and duplicate codes are
// rejected; a product without an explicit active flag is active.
func Parse(data []byte) ([]model.LoanProduct, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc file
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	products := make([]model.LoanProduct, 0, len(doc.Products))
	seen := make(map[string]struct{}, len(doc.Products))
	for i, entry := range doc.Products {
		p, err := entry.toModel()
		if err != nil {
			return nil, fmt.Errorf("product #%d (%s): %w", i+1, entry.Code, err)
		}
		if _, dup := seen[p.Code()]; dup {
			return nil, fmt.Errorf("product #%d: duplicate code %s", i+1, p.Code())
		}
		seen[p.Code()] = struct{}{}
		products = append(products, p)
	}
	return products, nil
}

func (e productEntry) toModel() (model.LoanProduct, error) {
	rate, err := decimal.NewFromString(e.AnnualRatePercent)
	if err != nil {
		return model.LoanProduct{}, fmt.Errorf("annual_rate_percent: %w", err)
	}
	maxPrincipal, err := decimal.NewFromString(e.MaxPrincipal)
	if err != nil {
		return model.LoanProduct{}, fmt.Errorf("max_principal: %w", err)
	}

	active := true
	if e.Active != nil {
		active = *e.Active
	}

	return model.NewLoanProduct(model.LoanProductParams{
		Code:              e.Code,
		Name:              e.Name,
		Currency:          e.Currency,
		AnnualRatePercent: rate,
		MinTenureMonths:   e.MinTenureMonths,
		MaxTenureMonths:   e.MaxTenureMonths,
		MaxPrincipal:      maxPrincipal,
		Active:            active,
	})
}
