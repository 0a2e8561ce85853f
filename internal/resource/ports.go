package resource

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=resource

// Repository defines the contract for storing records of one Kind.
// Get and Delete return a *record.NotFoundError for unknown ids.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id int64) (Record, error)
	Create(ctx context.Context, rec *Record) error
	// Upsert inserts rec with its explicit ID, or updates the existing row.
	Upsert(ctx context.Context, rec *Record) (created bool, err error)
	Delete(ctx context.Context, id int64) error
}
