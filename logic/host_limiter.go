package logic

import (
	"context"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
	"org_relay/shared"
	"sync"
	"time"
)

type hostSlot struct {
	sem  *semaphore.Weighted
	pace *rate.Limiter
}

// hostLimiter caps parallel fetches per host and spaces the start of consecutive requests to the same host.
type hostLimiter struct {
	perHost  int64
	minDelay time.Duration
	mu       sync.Mutex
	hosts    map[string]*hostSlot
}

func newHostLimiter(perHost int, minDelay time.Duration) *hostLimiter {
	if perHost <= 0 {
		perHost = 1
	}
	return &hostLimiter{
		perHost:  int64(perHost),
		minDelay: minDelay,
		hosts:    make(map[string]*hostSlot),
	}
}

func (hl *hostLimiter) slot(host string) *hostSlot {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if hs, ok := hl.hosts[host]; ok {
		return hs
	}
	limit := rate.Inf
	if hl.minDelay > 0 {
		limit = rate.Every(hl.minDelay)
	}
	hs := &hostSlot{
		sem:  semaphore.NewWeighted(hl.perHost),
		pace: rate.NewLimiter(limit, 1),
	}
	hl.hosts[host] = hs
	return hs
}

func (hl *hostLimiter) acquire(ctx context.Context, host string) error {
	hs := hl.slot(host)
	if err := hs.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := hs.pace.Wait(ctx); err != nil {
		hs.sem.Release(1)
		return err
	}
	return nil
}

func (hl *hostLimiter) release(host string) {
	hl.slot(host).sem.Release(1)
}

func hostKey(feedUrl string) string {
	host, err := shared.GetHostName(feedUrl)
	if err != nil || host == "" {
		return feedUrl
	}
	return host
}
