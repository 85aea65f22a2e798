// Package circuitbreaker wraps sony/gobreaker for outbound calls that may hang or fail repeatedly.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrOpen is returned without calling the wrapped function while the breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

type Settings struct {
	Name string
	// MaxFailures consecutive failures trip the breaker
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial call
	OpenTimeout time.Duration
	Logger      *slog.Logger
}

type Breaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

func New(s Settings) *Breaker {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    s.Name,
		Timeout: s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Breaker{cb: cb}
}

// Do runs fn through the breaker.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

func (b *Breaker) State() string {
	return b.cb.State().String()
}
