package retry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum/rpc"
)

// JSON-RPC error codes that never succeed on a second try.
const (
	codeExecutionReverted = 3
	codeInvalidParams     = -32602
)

// Class tells whether a failed call is worth repeating.
type Class int

const (
	ClassTransient Class = iota
	ClassPermanent
)

func (c Class) String() string {
	if c == ClassPermanent {
		return "permanent"
	}
	return "transient"
}

// Policy sets the attempt limit and the fixed pause between attempts.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Notify is called after a failed attempt that is about to be retried.
type Notify func(err error, attempt int, next time.Duration)

// Do runs fn until it succeeds, fails permanently, or the attempt limit is reached.
// The error of the final attempt is returned as fn produced it.
func Do[T any](ctx context.Context, policy Policy, fn func(context.Context) (T, error), notify Notify) (T, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := policy.Delay
	if delay < 0 {
		delay = 0
	}

	attempt := 0
	operation := func() (T, error) {
		attempt++
		value, err := fn(ctx)
		if err != nil && Classify(err) == ClassPermanent {
			return value, backoff.Permanent(err)
		}
		return value, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewConstantBackOff(delay)),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(0),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			notify(err, attempt, next)
		}))
	}

	value, err := backoff.Retry(ctx, operation, opts...)
	if perm, ok := err.(*backoff.PermanentError); ok {
		err = perm.Err
	}
	return value, err
}

// Permanent marks err so that Do stops after the attempt that returned it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Classify sorts err into transient or permanent.
func Classify(err error) Class {
	if err == nil {
		return ClassTransient
	}

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return ClassPermanent
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassPermanent
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeExecutionReverted, codeInvalidParams:
			return ClassPermanent
		}
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		status := httpErr.StatusCode
		if status >= 400 && status < 500 && status != http.StatusRequestTimeout && status != http.StatusTooManyRequests {
			return ClassPermanent
		}
	}

	return ClassTransient
}
