package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/catalog"
)

// reserveAll checks stock sufficiency for every item before decrementing
// anything. The caller holds row locks on all referenced books, so the
// observed stock cannot move under us. Quantities for the same book are
// summed, so a request listing a book twice cannot slip past the check.
func reserveAll(ctx context.Context, tx TxStore, books map[string]BookRow, items []ItemInput) ([]OrderItem, error) {
	required := make(map[string]int, len(items))
	for _, it := range items {
		required[it.BookID] += it.Qty
	}
	for id, qty := range required {
		if b := books[id]; b.Stock < qty {
			return nil, &InsufficientStockError{
				BookID:    b.ID,
				Title:     b.Title,
				Requested: qty,
				Available: b.Stock,
			}
		}
	}

	reserved := make([]OrderItem, 0, len(items))
	for _, it := range items {
		if err := tx.DecrementStock(ctx, it.BookID, it.Qty); err != nil {
			return nil, err
		}
		b := books[it.BookID]
		reserved = append(reserved, OrderItem{
			BookID:         b.ID,
			Title:          b.Title,
			Qty:            it.Qty,
			UnitPriceCents: b.PriceCents,
		})
	}
	return reserved, nil
}

// assembleOrder builds the aggregate from reserved items. In-memory only;
// persistence stays with the placement transaction.
func assembleOrder(userID string, reserved []OrderItem) *Order {
	o := &Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Items:     reserved,
	}
	for _, it := range reserved {
		o.TotalCents += it.Qty * it.UnitPriceCents
	}
	return o
}

func uniqueBookIDs(items []ItemInput) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it.BookID] {
			seen[it.BookID] = true
			ids = append(ids, it.BookID)
		}
	}
	return ids
}

// placeOrder is the transactional body of the workflow: user check, batch
// book lookup under lock, reservation, assembly, insert. Any non-nil
// return rolls the whole thing back.
func placeOrder(ctx context.Context, tx TxStore, userID string, items []ItemInput) (*Order, error) {
	ok, err := tx.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &catalog.NotFoundError{Entity: "user", ID: userID}
	}

	ids := uniqueBookIDs(items)
	books, err := tx.BooksForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(books) != len(ids) {
		// one or more books missing; nothing has been decremented
		return nil, &catalog.NotFoundError{Entity: "book"}
	}

	reserved, err := reserveAll(ctx, tx, books, items)
	if err != nil {
		return nil, err
	}

	o := assembleOrder(userID, reserved)
	if err := tx.InsertOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
