package book

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"catalogapi/internal/httpx"
	"catalogapi/internal/record"
	"catalogapi/internal/resource"

	"github.com/samber/lo"
)

const (
	msgParamsRequired     = "'title', 'pages', 'authors_ids' and 'publisher_id' parameters are required"
	msgAuthorsInvalidJSON = "'authors_ids' has an invalid JSON value"
	msgAuthorsNotArray    = "'authors_ids' must be an array in JSON format"
	msgAuthorsEmpty       = "'authors_ids' must contain at least one author id"
)

// Form is the raw input of a book create or update. A nil field was not
// sent by the client.
type Form struct {
	Title       *string
	Pages       *string
	AuthorsIDs  *string
	PublisherID *string
}

// FormFromParams picks the book fields out of the request parameters.
func FormFromParams(p httpx.Params) Form {
	field := func(key string) *string {
		if v, ok := p.Lookup(key); ok {
			return &v
		}
		return nil
	}
	return Form{
		Title:       field("title"),
		Pages:       field("pages"),
		AuthorsIDs:  field("authors_ids"),
		PublisherID: field("publisher_id"),
	}
}

// Payload is a book input whose references have been resolved. Title and
// Pages are still raw; the service validates them as record fields.
type Payload struct {
	Title     string
	Pages     string
	Publisher resource.Record
	Authors   []resource.Record
}

// Validator checks a Form and resolves its author and publisher ids.
type Validator struct {
	authors    Finder
	publishers Finder
}

func NewValidator(authors, publishers Finder) *Validator {
	return &Validator{authors: authors, publishers: publishers}
}

// Validate runs the checks in order and stops at the first failure:
// presence of every field, authors_ids being a non-empty JSON array, every
// author existing (in array order), then the publisher existing.
func (v *Validator) Validate(ctx context.Context, f Form) (Payload, error) {
	if f.Title == nil || f.Pages == nil || f.AuthorsIDs == nil || f.PublisherID == nil {
		return Payload{}, &record.InvalidInputError{Message: msgParamsRequired}
	}

	refs, err := parseAuthorsIDs(*f.AuthorsIDs)
	if err != nil {
		return Payload{}, err
	}

	authors, err := v.resolveAuthors(ctx, refs)
	if err != nil {
		return Payload{}, err
	}

	publisher, err := resolve(ctx, v.publishers, "Publisher", *f.PublisherID)
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		Title:     *f.Title,
		Pages:     *f.Pages,
		Publisher: publisher,
		Authors:   authors,
	}, nil
}

// parseAuthorsIDs returns the raw id strings of a JSON array such as
// [1, "2"]. Elements keep their JSON spelling except strings, which are
// unquoted.
func parseAuthorsIDs(raw string) ([]string, error) {
	data := bytes.TrimSpace([]byte(raw))
	if !json.Valid(data) {
		return nil, &record.InvalidInputError{Message: msgAuthorsInvalidJSON}
	}
	if data[0] != '[' {
		return nil, &record.InvalidInputError{Message: msgAuthorsNotArray}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, &record.InvalidInputError{Message: msgAuthorsInvalidJSON}
	}
	if len(elems) == 0 {
		return nil, &record.InvalidInputError{Message: msgAuthorsEmpty}
	}

	return lo.Map(elems, func(elem json.RawMessage, _ int) string {
		var s string
		if elem[0] == '"' && json.Unmarshal(elem, &s) == nil {
			return s
		}
		return string(elem)
	}), nil
}

func (v *Validator) resolveAuthors(ctx context.Context, refs []string) ([]resource.Record, error) {
	authors := make([]resource.Record, 0, len(refs))
	for _, ref := range lo.Uniq(refs) {
		author, err := resolve(ctx, v.authors, "Author", ref)
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return lo.UniqBy(authors, func(a resource.Record) int64 { return a.ID }), nil
}

// resolve loads the record ref points at. A ref that is not an id, or an id
// with no record, is an unresolved reference.
func resolve(ctx context.Context, finder Finder, model, ref string) (resource.Record, error) {
	unresolved := &record.UnresolvedReferenceError{Model: model, ID: ref}

	id, ok := record.ParseID(ref)
	if !ok {
		return resource.Record{}, unresolved
	}
	rec, err := finder.Get(ctx, id)
	if err != nil {
		if record.IsNotFound(err) {
			return resource.Record{}, unresolved
		}
		return resource.Record{}, fmt.Errorf("resolve %s %d: %w", model, id, err)
	}
	return rec, nil
}
