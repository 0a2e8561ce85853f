// Package resource serves the name-only catalog records: authors, genres
// and publishers. The three share one table shape and one HTTP contract and
// differ only by their Kind.
package resource

import (
	"time"

	"catalogapi/internal/record"
)

// Record is an author, genre or publisher.
type Record struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"notblank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Kind names a resource: the model name used in messages and the table
// that also gives the collection path.
type Kind struct {
	Model string
	Table string
}

var (
	Authors    = Kind{Model: "Author", Table: "authors"}
	Genres     = Kind{Model: "Genre", Table: "genres"}
	Publishers = Kind{Model: "Publisher", Table: "publishers"}
)

// Path is the collection path, e.g. /authors.
func (k Kind) Path() string {
	return "/" + k.Table
}

// URL is the location of a single record, e.g. /authors/6.
func (k Kind) URL(id int64) string {
	return k.Path() + "/" + record.FormatID(id)
}
