package catalog

import "time"

type Genre struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Only populated by GetGenre.
	Books []BookSummary `json:"books,omitempty"`
}

type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Writer          string    `json:"writer"`
	Publisher       string    `json:"publisher"`
	PublicationYear int       `json:"publication_year"`
	Description     string    `json:"description,omitempty"`
	PriceCents      int       `json:"price_cents"`
	Stock           int       `json:"stock"`
	GenreID         string    `json:"genre_id"`
	GenreName       string    `json:"genre_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Writer     string `json:"writer"`
	PriceCents int    `json:"price_cents"`
	Stock      int    `json:"stock"`
}

// NewBook / NewGenre carry the caller-supplied fields of a create request.

type NewGenre struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type NewBook struct {
	Title           string `json:"title"`
	Writer          string `json:"writer"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	Description     string `json:"description"`
	PriceCents      int    `json:"price_cents"`
	Stock           int    `json:"stock"`
	GenreID         string `json:"genre_id"`
}

// Update types use pointers so absent fields keep their current value.

type GenreUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type BookUpdate struct {
	Title           *string `json:"title"`
	Writer          *string `json:"writer"`
	Publisher       *string `json:"publisher"`
	PublicationYear *int    `json:"publication_year"`
	Description     *string `json:"description"`
	PriceCents      *int    `json:"price_cents"`
	Stock           *int    `json:"stock"`
	GenreID         *string `json:"genre_id"`
}

type BookFilters struct {
	Search  string
	GenreID string
}
