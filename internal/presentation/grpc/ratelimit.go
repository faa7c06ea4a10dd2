package grpc

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RateLimiter is a token bucket shared by every caller of the server.
type RateLimiter struct {
	mu         sync.Mutex
	lastRefill time.Time
	now        func() time.Time
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
}

// NewRateLimiter creates a limiter that allows rps calls per second with a
// burst of rps.
func NewRateLimiter(rps int) *RateLimiter {
	return &RateLimiter{
		tokens:     float64(rps),
		maxTokens:  float64(rps),
		refillRate: float64(rps),
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// Allow consumes one token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.tokens += now.Sub(rl.lastRefill).Seconds() * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// UnaryRateLimitInterceptor rejects calls with ResourceExhausted once the
// limiter runs dry. Methods in skipMethods are never limited.
func UnaryRateLimitInterceptor(limiter *RateLimiter, skipMethods []string) grpc.UnaryServerInterceptor {
	skip := make(map[string]bool, len(skipMethods))
	for _, m := range skipMethods {
		skip[m] = true
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !skip[info.FullMethod] && !limiter.Allow() {
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(ctx, req)
	}
}
