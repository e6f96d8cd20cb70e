package wireline

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ReconnectStrategy decides how long to wait before the next reconnect
// attempt against a given endpoint. Implementations must be safe for
// concurrent use only insofar as the engine never calls them
// concurrently for the same endpoint (spec.md §4.5).
type ReconnectStrategy interface {
	// NextDelay returns how long to wait before retrying endpoint, given
	// attempt, the endpoint's failure count so far (1-based; the engine
	// passes Endpoint.FailureCount, which is never reset on success).
	NextDelay(endpoint *Endpoint, attempt int) time.Duration
	// Reset clears any per-endpoint attempt state, called on success.
	Reset(endpoint *Endpoint)
}

// FixedDelayStrategy waits the same interval between every attempt.
// Grounded on the teacher's FixedDelayStrategy; this is the spec's
// default (spec.md §4.5, "fixed interval is an acceptable default").
type FixedDelayStrategy struct {
	Delay time.Duration
}

// NewFixedDelayStrategy creates a strategy with the given constant delay.
func NewFixedDelayStrategy(delay time.Duration) *FixedDelayStrategy {
	return &FixedDelayStrategy{Delay: delay}
}

func (strategy *FixedDelayStrategy) NextDelay(endpoint *Endpoint, attempt int) time.Duration {
	return strategy.Delay
}

func (strategy *FixedDelayStrategy) Reset(endpoint *Endpoint) {}

// BackoffDelayStrategy wraps cenkalti/backoff/v4's ExponentialBackOff, one
// instance per endpoint, so each endpoint's attempt count and jitter are
// tracked independently. This supersedes the teacher's hand-rolled
// ExponentialDelayStrategy (math.Pow-based) with the ecosystem's
// exponential-backoff library, per the domain stack in SPEC_FULL.md §4.5.
type BackoffDelayStrategy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration // 0 means never give up on elapsed time

	lock     sync.Mutex
	backoffs map[*Endpoint]*backoff.ExponentialBackOff
}

// NewBackoffDelayStrategy creates a per-endpoint exponential backoff
// strategy with the given initial and max intervals.
func NewBackoffDelayStrategy(initialInterval, maxInterval time.Duration) *BackoffDelayStrategy {
	return &BackoffDelayStrategy{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		backoffs:        make(map[*Endpoint]*backoff.ExponentialBackOff),
	}
}

func (strategy *BackoffDelayStrategy) forEndpoint(endpoint *Endpoint) *backoff.ExponentialBackOff {
	strategy.lock.Lock()
	defer strategy.lock.Unlock()

	b, ok := strategy.backoffs[endpoint]
	if !ok {
		b = backoff.NewExponentialBackOff()
		b.InitialInterval = strategy.InitialInterval
		b.MaxInterval = strategy.MaxInterval
		b.MaxElapsedTime = strategy.MaxElapsedTime
		b.Reset() // restart from InitialInterval, not the library default
		strategy.backoffs[endpoint] = b
	}
	return b
}

func (strategy *BackoffDelayStrategy) NextDelay(endpoint *Endpoint, attempt int) time.Duration {
	b := strategy.forEndpoint(endpoint)
	delay := b.NextBackOff()
	if delay == backoff.Stop {
		return b.MaxInterval
	}
	return delay
}

func (strategy *BackoffDelayStrategy) Reset(endpoint *Endpoint) {
	strategy.lock.Lock()
	defer strategy.lock.Unlock()
	if b, ok := strategy.backoffs[endpoint]; ok {
		b.Reset()
	}
}
