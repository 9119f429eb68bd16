package orders

import "fmt"

// InsufficientStockError reports the first book whose requested quantity
// exceeds the stock observed under the reservation lock.
type InsufficientStockError struct {
	BookID    string
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %q: requested %d, available %d",
		e.Title, e.Requested, e.Available)
}
