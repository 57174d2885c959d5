package dataset

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum gap between two Riot API calls
const DefaultInterval = time.Second

// Pacer is awaited before every external fetch
type Pacer interface {
	Wait(ctx context.Context) error
}

// RatePacer spaces calls at a fixed interval
type RatePacer struct {
	limiter *rate.Limiter
}

// NewRatePacer allows one call per interval. interval <= 0 disables pacing.
func NewRatePacer(interval time.Duration) *RatePacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RatePacer{limiter: rate.NewLimiter(limit, 1)}
}

func (p *RatePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NoPacer never waits
type NoPacer struct{}

func (NoPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
