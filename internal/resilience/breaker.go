package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrBreakerOpen is returned when a call is rejected without reaching
// the provider because the breaker is open.
var ErrBreakerOpen = eris.New("resilience: breaker open")

// BreakerState is the breaker's position.
type BreakerState int

const (
	// StateClosed passes calls through.
	StateClosed BreakerState = iota
	// StateOpen rejects calls until the cooldown elapses.
	StateOpen
	// StateHalfOpen lets a single probe through after the cooldown.
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// BreakerConfig sets the trip and recovery behavior.
type BreakerConfig struct {
	// TripAfter is the number of consecutive counted failures that
	// opens the breaker. Default 5.
	TripAfter int
	// Cooldown is how long the breaker stays open before allowing a
	// probe. Default 30s.
	Cooldown time.Duration
	// Trippable decides which errors count toward TripAfter. Nil
	// counts every error.
	Trippable func(error) bool
}

// Breaker guards one provider. Consecutive counted failures open it;
// after the cooldown a single probe decides whether it closes again.
type Breaker struct {
	cfg BreakerConfig

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time

	clock func() time.Time
}

// NewBreaker builds a breaker, filling config defaults.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.TripAfter <= 0 {
		cfg.TripAfter = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Breaker{cfg: cfg, clock: time.Now}
}

// State reports the breaker's position, accounting for an elapsed
// cooldown.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.clock().Sub(b.openedAt) >= b.cfg.Cooldown {
		return StateHalfOpen
	}
	return b.state
}

// Guard runs op through the breaker, rejecting it with ErrBreakerOpen
// when the breaker is open and the cooldown has not elapsed.
func Guard[T any](ctx context.Context, b *Breaker, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !b.admit() {
		return zero, ErrBreakerOpen
	}
	val, err := op(ctx)
	b.record(err)
	return val, err
}

func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.clock().Sub(b.openedAt) < b.cfg.Cooldown {
			return false
		}
		b.state = StateHalfOpen
	}
	return true
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	counted := err != nil
	if counted && b.cfg.Trippable != nil {
		counted = b.cfg.Trippable(err)
	}

	if !counted {
		b.state = StateClosed
		b.failures = 0
		return
	}

	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.cfg.TripAfter {
		b.state = StateOpen
		b.openedAt = b.clock()
	}
}
