package book

import (
	"context"
	"fmt"

	"catalogapi/internal/platform/postgres"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

// link is one row of a book join table.
type link struct {
	bookID int64
	refID  int64
}

// loadAssociations fills AuthorsIDs and GenresIDs of books with two
// queries, whatever the number of books.
func loadAssociations(ctx context.Context, q querier, books []Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := lo.Map(books, func(b Book, _ int) int64 { return b.ID })

	authors, err := loadLinks(ctx, q, authorsTable, "author_id", ids)
	if err != nil {
		return err
	}
	genres, err := loadLinks(ctx, q, genresTable, "genre_id", ids)
	if err != nil {
		return err
	}

	for i := range books {
		books[i].AuthorsIDs = linkedIDs(authors, books[i].ID)
		books[i].GenresIDs = linkedIDs(genres, books[i].ID)
	}
	return nil
}

// loadLinks returns the rows of table for bookIDs grouped by book id.
func loadLinks(ctx context.Context, q querier, table, refColumn string, bookIDs []int64) (map[int64][]link, error) {
	query, args, err := postgres.Builder.
		Select("book_id", refColumn).
		From(table).
		Where(sq.Eq{"book_id": bookIDs}).
		OrderBy("book_id", refColumn).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var links []link
	for rows.Next() {
		var l link
		if err := rows.Scan(&l.bookID, &l.refID); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lo.GroupBy(links, func(l link) int64 { return l.bookID }), nil
}

// linkedIDs never returns nil so books always serialize an array.
func linkedIDs(grouped map[int64][]link, bookID int64) []int64 {
	return lo.Map(grouped[bookID], func(l link, _ int) int64 { return l.refID })
}
