package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SQLSTATE codes worth another attempt.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
	pgErrLockNotAvailable     = "55P03"
)

// Retrier re-runs record writes that lost a lock race or never reached the
// server.
type Retrier struct {
	table    string
	attempts uint64
	backoff  func() *backoff.ExponentialBackOff
	logger   zerolog.Logger
}

// NewRetrier creates a retrier for writes against table. It makes at most
// four attempts within two seconds.
func NewRetrier(table string) *Retrier {
	return &Retrier{
		table:    table,
		attempts: 4,
		backoff: func() *backoff.ExponentialBackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 25 * time.Millisecond
			b.MaxInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 2 * time.Second
			return b
		},
		logger: log.Logger,
	}
}

// Retry runs op until it succeeds, fails permanently or runs out of attempts.
func (r *Retrier) Retry(ctx context.Context, op func() error) error {
	attempt := 0
	policy := backoff.WithContext(backoff.WithMaxRetries(r.backoff(), r.attempts-1), ctx)

	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil || !isRetryableError(err) {
			return permanent(err)
		}

		r.logger.Warn().
			Err(err).
			Str("table", r.table).
			Int("attempt", attempt).
			Msg("retryable write error")
		return err
	}, policy)
}

func permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlock, pgErrLockNotAvailable:
			return true
		}
		return false
	}
	return pgconn.SafeToRetry(err)
}
