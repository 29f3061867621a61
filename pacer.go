package trajviz

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultRate is the default number of frames per second.
const DefaultRate = 60.0

// Pacer throttles the playback to a fixed frame rate.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a pacer at fps frames per second. A non positive rate
// returns a pacer which never blocks.
func NewPacer(fps float64) *Pacer {
	if fps <= 0 {
		return &Pacer{}
	}
	return &Pacer{rate.NewLimiter(rate.Limit(fps), 1)}
}

// Wait blocks until the next frame boundary or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.limiter == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}
