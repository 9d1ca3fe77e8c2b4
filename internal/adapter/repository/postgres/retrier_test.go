package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
)

func fastRetrier(attempts uint64) *Retrier {
	r := NewRetrier("licenses")
	r.attempts = attempts
	r.backoff = func() *backoff.ExponentialBackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = time.Millisecond
		b.MaxInterval = time.Millisecond
		b.MaxElapsedTime = time.Second
		return b
	}
	return r
}

func TestRetrier(t *testing.T) {
	tests := []struct {
		name     string
		attempts uint64
		errs     []error
		wantErr  bool
		wantRuns int
	}{
		{
			name:     "first attempt succeeds",
			attempts: 3,
			errs:     []error{nil},
			wantRuns: 1,
		},
		{
			name:     "deadlock then success",
			attempts: 3,
			errs:     []error{&pgconn.PgError{Code: pgErrDeadlock}, nil},
			wantRuns: 2,
		},
		{
			name:     "lock not available retried",
			attempts: 3,
			errs:     []error{&pgconn.PgError{Code: pgErrLockNotAvailable}, &pgconn.PgError{Code: pgErrSerializationFailure}, nil},
			wantRuns: 3,
		},
		{
			name:     "unique violation is final",
			attempts: 3,
			errs:     []error{&pgconn.PgError{Code: pgErrUniqueViolation}},
			wantErr:  true,
			wantRuns: 1,
		},
		{
			name:     "attempts exhausted",
			attempts: 2,
			errs:     []error{&pgconn.PgError{Code: pgErrDeadlock}, &pgconn.PgError{Code: pgErrDeadlock}, nil},
			wantErr:  true,
			wantRuns: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := 0
			err := fastRetrier(tt.attempts).Retry(context.Background(), func() error {
				err := tt.errs[runs]
				runs++
				return err
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if runs != tt.wantRuns {
				t.Fatalf("Retry() ran %d times, want %d", runs, tt.wantRuns)
			}
		})
	}
}

func TestRetrierKeepsOriginalError(t *testing.T) {
	plain := errors.New("syntax error")

	err := fastRetrier(3).Retry(context.Background(), func() error { return plain })
	if !errors.Is(err, plain) {
		t.Fatalf("expected original error, got %v", err)
	}
}

func TestRetrierStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runs := 0
	err := fastRetrier(5).Retry(ctx, func() error {
		runs++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if runs > 1 {
		t.Fatalf("expected at most one run, got %d", runs)
	}
}
