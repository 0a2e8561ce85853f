package book

import (
	"time"

	"catalogapi/internal/record"
)

// Model is the name used for books in client-facing messages.
const Model = "Book"

// Book is a catalog book with the ids of its associations. Genres can only
// be read through the API.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Pages       int       `json:"pages"`
	PublisherID int64     `json:"publisher_id"`
	AuthorsIDs  []int64   `json:"authors_ids"`
	GenresIDs   []int64   `json:"genres_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// URL is the location of the book with id.
func URL(id int64) string {
	return "/books/" + record.FormatID(id)
}
