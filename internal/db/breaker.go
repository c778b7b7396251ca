package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const breakerTripAfter = 5

type breakerRunner struct {
	next Runner
	cb   *gobreaker.CircuitBreaker[[]Record]
}

func newBreakerRunner(next Runner, logger *zap.SugaredLogger) *breakerRunner {
	cb := gobreaker.NewCircuitBreaker[[]Record](gobreaker.Settings{
		Name:        "neo4j",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("Circuit breaker changed state.", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &breakerRunner{next: next, cb: cb}
}

func (r *breakerRunner) Execute(ctx context.Context, query string, params map[string]interface{}) ([]Record, error) {
	rows, err := r.cb.Execute(func() ([]Record, error) {
		return r.next.Execute(ctx, query, params)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	return rows, err
}
