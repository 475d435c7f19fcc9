package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle limits how often a repeated action may start. A nil *Throttle
// never blocks, so callers can keep it unset when throttling is disabled.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows perSecond starts per second with a burst of one.
// It returns nil when perSecond is not positive.
func NewThrottle(perSecond float64) *Throttle {
	if perSecond <= 0 {
		return nil
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(perSecond), 1)}
}

// Delay returns how long the next start would have to wait, without
// consuming anything.
func (t *Throttle) Delay() time.Duration {
	if t == nil {
		return 0
	}
	missing := 1 - t.limiter.Tokens()
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / float64(t.limiter.Limit()) * float64(time.Second))
}

// Wait blocks until a start is permitted or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return ctx.Err()
	}
	return t.limiter.Wait(ctx)
}
