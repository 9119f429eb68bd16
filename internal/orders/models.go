package orders

import "time"

// Order is the committed aggregate: header plus line items, immutable after
// placement. TotalCents is derived from the items, never stored separately.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	CreatedAt  time.Time   `json:"created_at"`
	Items      []OrderItem `json:"items"`
	TotalCents int         `json:"total_cents"`
}

// OrderItem captures the unit price at the moment of purchase; the book's
// catalog price may change later without touching committed orders.
type OrderItem struct {
	BookID         string `json:"book_id"`
	Title          string `json:"title"`
	Qty            int    `json:"qty"`
	UnitPriceCents int    `json:"unit_price_cents"`
}

// ItemInput is one (book, quantity) pair of a placement request.
type ItemInput struct {
	BookID string `json:"book_id"`
	Qty    int    `json:"qty"`
}

// BookRow is the snapshot of a book as observed, row-locked, inside the
// placement transaction.
type BookRow struct {
	ID         string
	Title      string
	PriceCents int
	Stock      int
}

type Statistics struct {
	OrderCount   int `json:"order_count"`
	RevenueCents int `json:"revenue_cents"`
	ItemsSold    int `json:"items_sold"`
}
