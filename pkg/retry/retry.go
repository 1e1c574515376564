package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrExhausted возвращается, когда все попытки завершились временной ошибкой
var ErrExhausted = errors.New("retry: attempts exhausted")

const (
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = 100 * time.Millisecond
	DefaultMaxBackoff     = 2 * time.Second
)

// Policy политика повторов обращений к хранилищу
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Retryable решает, является ли ошибка временной. По умолчанию IsTransient
	Retryable func(err error) bool

	// OnRetry вызывается перед каждой повторной попыткой
	OnRetry func(operation string, attempt int, err error)
}

// DefaultPolicy политика по умолчанию: 3 попытки, экспоненциальная задержка
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		Retryable:      IsTransient,
	}
}

// Do выполняет fn, повторяя ее при временных ошибках.
// Невременная ошибка возвращается сразу и без обертки.
// Если попытки закончились, ошибка оборачивается в ErrExhausted
func (p Policy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := fn(ctx)
		if err == nil {
			return struct{}{}, nil
		}
		if !p.retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(p.newBackOff()),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			if p.OnRetry != nil {
				p.OnRetry(operation, attempt, err)
			}
		}),
	)
	if err == nil {
		return nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}

	if p.retryable(err) {
		return fmt.Errorf("%w: %s after %d attempts: %w", ErrExhausted, operation, attempt, err)
	}

	return err
}

func (p Policy) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return IsTransient(err)
}

func (p Policy) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialBackoff > 0 {
		b.InitialInterval = p.InitialBackoff
	}
	if p.MaxBackoff > 0 {
		b.MaxInterval = p.MaxBackoff
	}
	return b
}
