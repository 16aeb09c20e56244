package request

import (
	"context"
	"time"
)

// Cleaner rejects PENDING requests whose owner never responded. It runs on a
// schedule, never in the request path.
type Cleaner interface {
	RejectExpired(ctx context.Context) (int64, error)
}

type cleaner struct {
	r   Repo
	ttl time.Duration
}

func NewCleaner(r Repo, ttl time.Duration) Cleaner { return &cleaner{r: r, ttl: ttl} }

func (c *cleaner) RejectExpired(ctx context.Context) (int64, error) {
	return c.r.RejectExpiredPending(ctx, time.Now().UTC().Add(-c.ttl))
}
