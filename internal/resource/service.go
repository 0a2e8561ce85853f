package resource

import (
	"context"

	"catalogapi/internal/record"
)

// Service provides the record-level rules on top of a Repository.
type Service struct {
	repo Repository
}

// NewService creates a new resource service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Record, error) {
	return s.repo.Get(ctx, id)
}

// Create validates name and stores a new record with a generated id.
func (s *Service) Create(ctx context.Context, name string) (Record, error) {
	rec := Record{Name: name}
	if err := record.Validate(rec); err != nil {
		return Record{}, err
	}
	if err := s.repo.Create(ctx, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Upsert creates the record with id when it does not exist yet, otherwise
// renames it. created tells the two apart.
func (s *Service) Upsert(ctx context.Context, id int64, name string) (rec Record, created bool, err error) {
	rec = Record{ID: id, Name: name}
	if err := record.Validate(rec); err != nil {
		return Record{}, false, err
	}
	created, err = s.repo.Upsert(ctx, &rec)
	if err != nil {
		return Record{}, false, err
	}
	return rec, created, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
