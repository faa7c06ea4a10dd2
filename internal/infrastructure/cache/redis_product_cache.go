package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
)

const defaultKeyPrefix = "risk:product:"

// cachedProduct is the JSON form of a LoanProduct stored in Redis.
type cachedProduct struct {
	UpdatedAt         time.Time       `json:"updated_at"`
	MaxPrincipal      decimal.Decimal `json:"max_principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Currency          string          `json:"currency"`
	MinTenureMonths   int             `json:"min_tenure_months"`
	MaxTenureMonths   int             `json:"max_tenure_months"`
	Active            bool            `json:"active"`
}

func toCached(p model.LoanProduct) cachedProduct {
	return cachedProduct{
		Code:              p.Code(),
		Name:              p.Name(),
		Currency:          p.Currency().Code(),
		AnnualRatePercent: p.AnnualRatePercent(),
		MinTenureMonths:   p.MinTenureMonths(),
		MaxTenureMonths:   p.MaxTenureMonths(),
		MaxPrincipal:      p.MaxPrincipal(),
		Active:            p.Active(),
		UpdatedAt:         p.UpdatedAt(),
	}
}

func (c cachedProduct) toModel() (model.LoanProduct, error) {
	return model.NewLoanProduct(model.LoanProductParams{
		Code:              c.Code,
		Name:              c.Name,
		Currency:          c.Currency,
		AnnualRatePercent: c.AnnualRatePercent,
		MinTenureMonths:   c.MinTenureMonths,
		MaxTenureMonths:   c.MaxTenureMonths,
		MaxPrincipal:      c.MaxPrincipal,
		Active:            c.Active,
		UpdatedAt:         c.UpdatedAt,
	})
}

// RedisProductCache implements port.ProductCache on Redis. Entries expire
// after the configured TTL so an out-of-band catalog edit is eventually seen.
type RedisProductCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisProductCache creates a product cache. A zero ttl keeps entries
// until they are invalidated.
func NewRedisProductCache(client redis.Cmdable, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{
		client: client,
		prefix: defaultKeyPrefix,
		ttl:    ttl,
	}
}

func (c *RedisProductCache) key(code string) string {
	return c.prefix + code
}

// Get returns the cached product for code. A miss is not an error.
func (c *RedisProductCache) Get(ctx context.Context, code string) (model.LoanProduct, bool, error) {
	raw, err := c.client.Get(ctx, c.key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.LoanProduct{}, false, nil
	}
	if err != nil {
		return model.LoanProduct{}, false, fmt.Errorf("redis get %s: %w", code, err)
	}

	var entry cachedProduct
	if err := json.Unmarshal(raw, &entry); err != nil {
		return model.LoanProduct{}, false, fmt.Errorf("decoding cached product %s: %w", code, err)
	}
	product, err := entry.toModel()
	if err != nil {
		return model.LoanProduct{}, false, fmt.Errorf("rebuilding cached product %s: %w", code, err)
	}
	return product, true, nil
}

// Set stores product under its code.
func (c *RedisProductCache) Set(ctx context.Context, product model.LoanProduct) error {
	raw, err := json.Marshal(toCached(product))
	if err != nil {
		return fmt.Errorf("encoding product %s: %w", product.Code(), err)
	}
	if err := c.client.Set(ctx, c.key(product.Code()), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", product.Code(), err)
	}
	return nil
}

// Invalidate deletes the given codes.
func (c *RedisProductCache) Invalidate(ctx context.Context, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(codes))
	for _, code := range codes {
		keys = append(keys, c.key(code))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable. Used by the readiness probe.
func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
