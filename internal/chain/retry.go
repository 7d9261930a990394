package chain

import (
	"context"
	"time"
)

const (
	defaultBackoff = 100 * time.Millisecond
	maxBackoff     = 10 * time.Second
)

// backoff retries an RPC with doubling pauses capped at maxBackoff.
type backoff struct {
	retries int
	base    time.Duration
}

func newBackoff(retries int, base time.Duration) backoff {
	if retries < 0 {
		retries = 0
	}
	if base <= 0 {
		base = defaultBackoff
	}
	return backoff{retries: retries, base: base}
}

// run calls fn until it succeeds, the retries are spent or ctx is done.
// onFailure, when set, sees every failed attempt numbered from 1.
func (b backoff) run(ctx context.Context, fn func(context.Context) error, onFailure func(attempt int, err error)) error {
	delay := b.base
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if onFailure != nil {
			onFailure(attempt, err)
		}
		if attempt > b.retries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = min(delay*2, maxBackoff)
	}
}
