package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/trafficadmin/internal/domain"
)

const pgErrUniqueViolation = "23505"

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// table maps a record type onto a SQL table. The first column is the
// primary key.
type table[T domain.Record] struct {
	name    string
	columns []string
	values  func(T) []any
	scan    func(pgx.Row) (T, error)
}

func (t table[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func (t table[T]) insertSQL() string {
	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "))
}

// updateSQL sets every column except the key and created_at. updateArgs
// yields the matching arguments.
func (t table[T]) updateSQL() string {
	sets := make([]string, 0, len(t.columns))
	n := 2
	for _, col := range t.columns[1:] {
		if col == "created_at" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, n))
		n++
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1", t.name, strings.Join(sets, ", "), t.columns[0])
}

func (t table[T]) updateArgs(record T) []any {
	values := t.values(record)
	args := make([]any, 0, len(values))
	for i, v := range values {
		if t.columns[i] == "created_at" {
			continue
		}
		args = append(args, v)
	}
	return args
}

// RecordRepository persists one record type in PostgreSQL.
type RecordRepository[T domain.Record] struct {
	db      DB
	table   table[T]
	retrier *Retrier
}

func newRecordRepository[T domain.Record](db DB, t table[T]) *RecordRepository[T] {
	return &RecordRepository[T]{db: db, table: t, retrier: NewRetrier(t.name)}
}

// List returns every row in insertion order.
func (r *RecordRepository[T]) List(ctx context.Context) ([]T, error) {
	rows, err := r.db.Query(ctx, r.table.selectSQL()+" ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table.name, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := r.table.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.table.name, err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetByID retrieves a row by primary key.
func (r *RecordRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	row := r.db.QueryRow(ctx, r.table.selectSQL()+" WHERE id = $1", id)

	item, err := r.table.scan(row)
	if err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, domain.ErrRecordNotFound
		}
		return zero, fmt.Errorf("failed to get %s: %w", r.table.name, err)
	}

	return item, nil
}

// Create inserts a row.
func (r *RecordRepository[T]) Create(ctx context.Context, record T) error {
	return r.create(ctx, r.db, record)
}

// CreateTx inserts a row inside tx.
func (r *RecordRepository[T]) CreateTx(ctx context.Context, tx *Tx, record T) error {
	return r.create(ctx, tx.PgxTx(), record)
}

func (r *RecordRepository[T]) create(ctx context.Context, db DB, record T) error {
	query := r.table.insertSQL()
	err := r.retrier.Retry(ctx, func() error {
		_, err := db.Exec(ctx, query, r.table.values(record)...)
		return err
	})
	return mapWriteError(err)
}

// Update replaces a row. created_at is left untouched.
func (r *RecordRepository[T]) Update(ctx context.Context, record T) error {
	var tag pgconn.CommandTag
	query := r.table.updateSQL()
	err := r.retrier.Retry(ctx, func() error {
		var err error
		tag, err = r.db.Exec(ctx, query, r.table.updateArgs(record)...)
		return err
	})
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// Delete removes a row.
func (r *RecordRepository[T]) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM "+r.table.name+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.table.name, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// Count returns the number of rows.
func (r *RecordRepository[T]) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+r.table.name).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table.name, err)
	}
	return n, nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, pgErr.ConstraintName)
	}
	return err
}

// Helper functions

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.String())
	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullableDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func dateTimePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	v := d.Time
	return &v
}
