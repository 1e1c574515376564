package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	var hooks []int
	p := fastPolicy(3)
	p.OnRetry = func(operation string, attempt int, err error) {
		assert.Equal(t, "FetchActiveIntervals", operation)
		hooks = append(hooks, attempt)
	}

	calls := 0
	err := p.Do(context.Background(), "FetchActiveIntervals", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("booking.repository: failed to execute query: %v", driver.ErrBadConn)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, hooks)
}

func TestDo_ExhaustedWrapsLastError(t *testing.T) {
	transient := errors.New("read tcp 10.0.0.1:5432: connection reset by peer")

	calls := 0
	err := fastPolicy(3).Do(context.Background(), "FetchActiveIntervals", func(ctx context.Context) error {
		calls++
		return transient
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, transient)
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	notFound := errors.New("space.repository: space not found")

	calls := 0
	err := fastPolicy(5).Do(context.Background(), "GetByID", func(ctx context.Context) error {
		calls++
		return notFound
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, notFound, err)
	assert.NotErrorIs(t, err, ErrExhausted)
}

func TestDo_SingleAttemptPermanent(t *testing.T) {
	notFound := errors.New("not found")

	err := fastPolicy(1).Do(context.Background(), "GetByID", func(ctx context.Context) error {
		return notFound
	})

	assert.Equal(t, notFound, err)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastPolicy(3).Do(ctx, "FetchActiveIntervals", func(ctx context.Context) error {
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrExhausted)
}

func TestDo_CustomClassifier(t *testing.T) {
	p := fastPolicy(2)
	p.Retryable = func(err error) bool { return false }

	calls := 0
	_ = p.Do(context.Background(), "op", func(ctx context.Context) error {
		calls++
		return driver.ErrBadConn
	})

	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"pq connection class", &pq.Error{Code: "08006"}, true},
		{"pq serialization failure", &pq.Error{Code: "40001"}, true},
		{"pq unique violation", &pq.Error{Code: "23505"}, false},
		{"wrapped text", fmt.Errorf("exec: %v", errors.New("pq: could not serialize access due to concurrent update")), true},
		{"handler closed", errors.New("handler is closed"), true},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"validation", errors.New("create_booking: slot is not available"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestDefaultPolicy_RetriesTransientErrors(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts)
	assert.Equal(t, DefaultMaxBackoff, p.MaxBackoff)

	p.InitialBackoff = time.Millisecond
	p.MaxBackoff = time.Millisecond

	calls := 0
	err := p.Do(context.Background(), "FetchActiveIntervals", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return driver.ErrBadConn
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
