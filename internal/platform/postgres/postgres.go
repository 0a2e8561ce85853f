// Package postgres holds the pgx plumbing shared by the repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const foreignKeyViolation = "23503"

// Builder renders squirrel statements with pgx-style $n placeholders.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Open creates a pool for dsn and checks that the database answers.
func Open(ctx context.Context, dsn string, pingTimeout time.Duration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(dsn), err)
	}
	return pool, nil
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}

// IsForeignKeyViolation reports whether err was raised by a foreign key
// constraint, e.g. deleting a row that is still referenced.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// SyncSequence moves the BIGSERIAL sequence of table past id after a row
// was inserted with an explicit id, so that later generated ids skip it.
// The sequence is never moved backwards.
func SyncSequence(ctx context.Context, tx pgx.Tx, table string, id int64) error {
	seq := table + "_id_seq"
	query := fmt.Sprintf(`
		SELECT setval($2::text::regclass, $1::bigint)
		FROM %s
		WHERE $1::bigint > CASE WHEN is_called THEN last_value ELSE last_value - 1 END`,
		pgx.Identifier{seq}.Sanitize())

	if _, err := tx.Exec(ctx, query, id, seq); err != nil {
		return fmt.Errorf("sync %s: %w", seq, err)
	}
	return nil
}
