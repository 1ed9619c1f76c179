package geolocation

import (
	"context"
	"sync"
	"time"

	"github.com/cluckmap/shop-server/internal/shop"
)

// Resolver performs one-shot position acquisition against a Source.
// The request is bounded by a timeout, its terminal outcome (a location or a
// coded error) is cached up to a maximum age and is not re-issued before that
// age has passed. Concurrent resolves share one underlying request.
type Resolver struct {
	source  Source
	timeout time.Duration
	maxAge  time.Duration

	mtx        sync.Mutex
	inFlight   chan struct{}
	location   *shop.Location
	err        *Error
	resolvedAt time.Time
}

// NewResolver creates a new position resolver.
// Non-positive timeout or maxAge values select the defaults.
func NewResolver(source Source, timeout, maxAge time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Resolver{
		source:  source,
		timeout: timeout,
		maxAge:  maxAge,
	}
}

// Resolve returns the user's position or a coded error.
// The first call issues the request; later calls return the cached terminal
// outcome until it exceeds the maximum age. A nil source yields the
// not-supported error.
func (resolver *Resolver) Resolve(ctx context.Context) (*shop.Location, *Error) {
	if resolver.source == nil {
		return nil, ErrNotSupported
	}

	for {
		resolver.mtx.Lock()
		if !resolver.resolvedAt.IsZero() && time.Since(resolver.resolvedAt) <= resolver.maxAge {
			location, err := resolver.location, resolver.err
			resolver.mtx.Unlock()
			return location, err
		}
		if resolver.inFlight != nil {
			// Another caller already issued the request; wait for its outcome
			done := resolver.inFlight
			resolver.mtx.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return nil, Of(ctx.Err())
			}
		}
		done := make(chan struct{})
		resolver.inFlight = done
		resolver.mtx.Unlock()

		location, err := resolver.acquire(ctx)

		resolver.mtx.Lock()
		resolver.location = location
		resolver.err = err
		resolver.resolvedAt = time.Now()
		resolver.inFlight = nil
		close(done)
		resolver.mtx.Unlock()
		return location, err
	}
}

// Pending reports whether a resolve is currently in flight without a terminal
// outcome yet. Listing views suppress their fetches while this holds.
func (resolver *Resolver) Pending() bool {
	resolver.mtx.Lock()
	defer resolver.mtx.Unlock()
	return resolver.inFlight != nil
}

func (resolver *Resolver) acquire(ctx context.Context) (*shop.Location, *Error) {
	ctx, cancel := context.WithTimeout(ctx, resolver.timeout)
	defer cancel()

	location, err := resolver.source.CurrentPosition(ctx)
	if err != nil {
		return nil, Of(err)
	}
	return location, nil
}
