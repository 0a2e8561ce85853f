package book

import (
	"context"

	"catalogapi/internal/resource"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book storage. Implementations persist
// AuthorsIDs as join rows together with the book and return a
// *record.NotFoundError from Get and Delete for unknown ids.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, b *Book) error
	Upsert(ctx context.Context, b *Book) (created bool, err error)
	Delete(ctx context.Context, id int64) error
}

// Finder looks up an author or a publisher referenced by a book.
type Finder interface {
	Get(ctx context.Context, id int64) (resource.Record, error)
}
