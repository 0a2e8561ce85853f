package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalogapi/internal/platform/postgres"
	"catalogapi/internal/record"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	booksTable   = "books"
	authorsTable = "authors_books"
	genresTable  = "books_genres"
)

// Constraint names set in db/migrations.
const (
	publisherFK = "books_publisher_id_fkey"
	authorFK    = "authors_books_author_id_fkey"
)

var columns = []string{"id", "title", "pages", "publisher_id", "created_at", "updated_at"}

// querier is the part of pgxpool.Pool and pgx.Tx the association loaders
// need.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanBook(row pgx.Row, b *Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Pages, &b.PublisherID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(booksTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	out := make([]Book, 0)
	for rows.Next() {
		var b Book
		if err := scanBook(rows, &b); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadAssociations(timeoutCtx, r.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(booksTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Book{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var b Book
	if err := scanBook(r.db.QueryRow(timeoutCtx, query, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, record.NotFound(Model, id)
		}
		return Book{}, fmt.Errorf("get book: %w", err)
	}

	books := []Book{b}
	if err := loadAssociations(timeoutCtx, r.db, books); err != nil {
		return Book{}, err
	}
	return books[0], nil
}

// Create inserts the book and its author rows in one transaction.
func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	query, args, err := postgres.Builder.
		Insert(booksTable).
		Columns("title", "pages", "publisher_id", "created_at", "updated_at").
		Values(b.Title, b.Pages, b.PublisherID, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if err := tx.QueryRow(timeoutCtx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return unresolvedReference(fmt.Errorf("create book: %w", err), b)
	}
	if err := insertAuthors(timeoutCtx, tx, b.ID, b.AuthorsIDs); err != nil {
		return unresolvedReference(err, b)
	}
	b.GenresIDs = []int64{}
	return tx.Commit(timeoutCtx)
}

// Upsert writes the book with its explicit id. The author rows are replaced
// and the genre rows are left untouched.
func (r *PostgresRepo) Upsert(ctx context.Context, b *Book) (bool, error) {
	query, args, err := postgres.Builder.
		Insert(booksTable).
		Columns("id", "title", "pages", "publisher_id", "created_at", "updated_at").
		Values(b.ID, b.Title, b.Pages, b.PublisherID, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			pages = EXCLUDED.pages,
			publisher_id = EXCLUDED.publisher_id,
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

	var created bool
	if err := tx.QueryRow(timeoutCtx, query, args...).Scan(&created, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return false, unresolvedReference(fmt.Errorf("upsert book: %w", err), b)
	}
	if created {
		if err := postgres.SyncSequence(timeoutCtx, tx, booksTable, b.ID); err != nil {
			return false, err
		}
	}

	del, delArgs, err := postgres.Builder.
		Delete(authorsTable).
		Where(sq.Eq{"book_id": b.ID}).
		ToSql()
	if err != nil {
		return false, err
	}
	if _, err := tx.Exec(timeoutCtx, del, delArgs...); err != nil {
		return false, fmt.Errorf("clear book authors: %w", err)
	}
	if err := insertAuthors(timeoutCtx, tx, b.ID, b.AuthorsIDs); err != nil {
		return false, unresolvedReference(err, b)
	}

	genres, err := loadLinks(timeoutCtx, tx, genresTable, "genre_id", []int64{b.ID})
	if err != nil {
		return false, err
	}
	b.GenresIDs = linkedIDs(genres, b.ID)

	return created, tx.Commit(timeoutCtx)
}

// Delete removes the book; its author and genre rows cascade.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := postgres.Builder.
		Delete(booksTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.NotFound(Model, id)
	}
	return nil
}

func insertAuthors(ctx context.Context, tx pgx.Tx, bookID int64, authorIDs []int64) error {
	if len(authorIDs) == 0 {
		return nil
	}
	ins := postgres.Builder.
		Insert(authorsTable).
		Columns("book_id", "author_id")
	for _, authorID := range authorIDs {
		ins = ins.Values(bookID, authorID)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert book authors: %w", err)
	}
	return nil
}

// unresolvedReference turns a foreign key violation into the error the
// validator would have reported. It happens when an author or publisher is
// deleted between validation and the write.
func unresolvedReference(err error, b *Book) error {
	var pgErr *pgconn.PgError
	if !postgres.IsForeignKeyViolation(err) || !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.ConstraintName {
	case publisherFK:
		return &record.UnresolvedReferenceError{Model: "Publisher", ID: record.FormatID(b.PublisherID)}
	case authorFK:
		if id, ok := violatingKey(pgErr.Detail); ok {
			return &record.UnresolvedReferenceError{Model: "Author", ID: id}
		}
	}
	return err
}

// violatingKey reads the value out of a detail such as
// `Key (author_id)=(5) is not present in table "authors".`
func violatingKey(detail string) (string, bool) {
	_, rest, ok := strings.Cut(detail, ")=(")
	if !ok {
		return "", false
	}
	key, _, ok := strings.Cut(rest, ")")
	return key, ok && key != ""
}
