package book

import (
	"context"
	"strconv"
	"strings"

	"catalogapi/internal/record"
	"catalogapi/internal/resource"

	"github.com/samber/lo"
)

// attributes are the book fields validated on every write.
type attributes struct {
	Title string `validate:"notblank"`
	Pages string `validate:"notblank,number"`
}

// Service applies the book rules on top of a Repository.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new book built from a resolved payload.
func (s *Service) Create(ctx context.Context, p Payload) (Book, error) {
	b, err := newBook(0, p)
	if err != nil {
		return Book{}, err
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Upsert creates the book with id or replaces its attributes and authors.
func (s *Service) Upsert(ctx context.Context, id int64, p Payload) (b Book, created bool, err error) {
	b, err = newBook(id, p)
	if err != nil {
		return Book{}, false, err
	}
	created, err = s.repo.Upsert(ctx, &b)
	if err != nil {
		return Book{}, false, err
	}
	return b, created, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func newBook(id int64, p Payload) (Book, error) {
	attrs := attributes{Title: p.Title, Pages: strings.TrimSpace(p.Pages)}
	if err := record.Validate(attrs); err != nil {
		return Book{}, err
	}
	// pages is an INTEGER column; "number" alone accepts any digit string.
	pages, err := strconv.ParseInt(attrs.Pages, 10, 32)
	if err != nil {
		return Book{}, &record.ValidationError{Messages: []string{"Pages is not a number"}}
	}

	return Book{
		ID:          id,
		Title:       p.Title,
		Pages:       int(pages),
		PublisherID: p.Publisher.ID,
		AuthorsIDs: lo.Uniq(lo.Map(p.Authors, func(a resource.Record, _ int) int64 {
			return a.ID
		})),
		GenresIDs: []int64{},
	}, nil
}
