package service

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Reaper periodically purges expired blacklist entries. A failed run is
// logged and the next tick tries again; there is no retry or backoff.
type Reaper struct {
	revocations *RevocationService
	interval    time.Duration
}

func NewReaper(revocations *RevocationService, interval string) (*Reaper, error) {
	parsed, err := time.ParseDuration(interval)
	if err != nil || parsed <= 0 {
		return nil, fmt.Errorf("%w: invalid REAPER_INTERVAL", ErrMisconfigured)
	}
	return &Reaper{revocations: revocations, interval: parsed}, nil
}

// Run blocks until ctx is cancelled, reaping on every tick.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := r.revocations.Reap(ctx)
			if err != nil {
				log.Printf("token reaper run failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("token reaper removed %d expired blacklist entries", count)
			}
		}
	}
}
