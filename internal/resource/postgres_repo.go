package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalogapi/internal/platform/postgres"
	"catalogapi/internal/record"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var columns = []string{"id", "name", "created_at", "updated_at"}

type PostgresRepo struct {
	db      *pgxpool.Pool
	kind    Kind
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, kind Kind, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, kind: kind, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Record, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(r.kind.Table).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind.Table, err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Record, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(r.kind.Table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Record{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var rec Record
	err = r.db.QueryRow(timeoutCtx, query, args...).Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, record.NotFound(r.kind.Model, id)
		}
		return Record{}, fmt.Errorf("get %s: %w", r.kind.Table, err)
	}
	return rec, nil
}

func (r *PostgresRepo) Create(ctx context.Context, rec *Record) error {
	query, args, err := postgres.Builder.
		Insert(r.kind.Table).
		Columns("name", "created_at", "updated_at").
		Values(rec.Name, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return fmt.Errorf("create %s: %w", r.kind.Table, err)
	}
	return nil
}

func (r *PostgresRepo) Upsert(ctx context.Context, rec *Record) (bool, error) {
	query, args, err := postgres.Builder.
		Insert(r.kind.Table).
		Columns("id", "name", "created_at", "updated_at").
		Values(rec.ID, rec.Name, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING (xmax = 0), created_at, updated_at`).
		ToSql()
	if err != nil {
		return false, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(timeoutCtx)

	// xmax is zero only for a freshly inserted row version.
	var created bool
	if err := tx.QueryRow(timeoutCtx, query, args...).Scan(&created, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return false, fmt.Errorf("upsert %s: %w", r.kind.Table, err)
	}
	if created {
		if err := postgres.SyncSequence(timeoutCtx, tx, r.kind.Table, rec.ID); err != nil {
			return false, err
		}
	}
	return created, tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := postgres.Builder.
		Delete(r.kind.Table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return &record.ConflictError{
				Message: fmt.Sprintf("Cannot delete %s with 'id'=%d because dependent books exist", r.kind.Model, id),
			}
		}
		return fmt.Errorf("delete %s: %w", r.kind.Table, err)
	}
	if tag.RowsAffected() == 0 {
		return record.NotFound(r.kind.Model, id)
	}
	return nil
}
