package book

import (
	"errors"
	"fmt"
	"testing"

	"catalogapi/internal/record"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnresolvedReference(t *testing.T) {
	b := &Book{PublisherID: 42, AuthorsIDs: []int64{1, 5}}

	t.Run("publisher deleted", func(t *testing.T) {
		err := unresolvedReference(fmt.Errorf("create book: %w", &pgconn.PgError{
			Code:           "23503",
			ConstraintName: publisherFK,
		}), b)

		var unresolved *record.UnresolvedReferenceError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "Couldn't find Publisher with 'id'=42", err.Error())
	})

	t.Run("author deleted", func(t *testing.T) {
		err := unresolvedReference(fmt.Errorf("insert book authors: %w", &pgconn.PgError{
			Code:           "23503",
			ConstraintName: authorFK,
			Detail:         `Key (author_id)=(5) is not present in table "authors".`,
		}), b)

		assert.EqualError(t, err, "Couldn't find Author with 'id'=5")
	})

	t.Run("author detail unreadable", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23503", ConstraintName: authorFK}

		err := unresolvedReference(pgErr, b)

		assert.Same(t, pgErr, err)
	})

	t.Run("other errors untouched", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Same(t, boom, unresolvedReference(boom, b))

		unique := &pgconn.PgError{Code: "23505", ConstraintName: "books_pkey"}
		assert.Equal(t, error(unique), unresolvedReference(unique, b))
	})
}
