package catalog

import (
	"errors"
	"fmt"
)

// NotFoundError identifies the missing entity by kind so callers branch on
// the type, never on message text.
type NotFoundError struct {
	Entity string // "book", "genre", "user", "order"
	ID     string // empty for batch lookups ("one or more books")
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

var (
	// Referential guards: deletes are rejected while dependants exist.
	ErrBookHasOrders  = errors.New("cannot delete book with existing orders")
	ErrGenreHasBooks  = errors.New("cannot delete genre with existing books")
	ErrGenreNameTaken = errors.New("genre with this name already exists")
)
