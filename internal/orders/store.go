package orders

import (
	"context"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/pagination"
)

// TxStore is the storage capability visible inside one placement
// transaction. Every mutation made through it commits or rolls back as a
// unit with the enclosing InTx scope.
type TxStore interface {
	UserExists(ctx context.Context, userID string) (bool, error)

	// BooksForUpdate loads the referenced book rows and holds them locked
	// until the transaction ends; ids without a row are omitted.
	BooksForUpdate(ctx context.Context, ids []string) (map[string]BookRow, error)

	DecrementStock(ctx context.Context, bookID string, qty int) error

	InsertOrder(ctx context.Context, o *Order) error
}

type Store interface {
	// InTx runs fn in a transaction: commit when fn returns nil, rollback
	// otherwise. Concurrent transactions touching the same books are
	// serialized by the implementation (row locks in Postgres).
	InTx(ctx context.Context, fn func(tx TxStore) error) error

	ListOrders(ctx context.Context, page, limit int) ([]Order, pagination.Result, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	Statistics(ctx context.Context) (Statistics, error)
}
