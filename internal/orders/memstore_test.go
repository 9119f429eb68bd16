package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/catalog"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/pagination"
)

// memStore is the in-memory Store used by the tests. A store-wide mutex
// held for the whole transaction gives the same serialized, all-or-nothing
// semantics the Postgres store gets from row locks: staged stock changes
// and inserts are applied only when the transaction body returns nil.
type memStore struct {
	mu     sync.Mutex
	users  map[string]bool
	books  map[string]BookRow
	orders []*Order
}

func newMemStore() *memStore {
	return &memStore{users: map[string]bool{}, books: map[string]BookRow{}}
}

func (m *memStore) addUser(id string) { m.users[id] = true }
func (m *memStore) addBook(b BookRow) { m.books[b.ID] = b }

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[id].Stock
}

func (m *memStore) setPrice(id string, priceCents int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.books[id]
	b.PriceCents = priceCents
	m.books[id] = b
}

func (m *memStore) seedOrder(o *Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
}

func (m *memStore) InTx(ctx context.Context, fn func(tx TxStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memTx{s: m, stocks: map[string]int{}}
	if err := fn(tx); err != nil {
		return err // staged changes dropped
	}
	for id, st := range tx.stocks {
		b := m.books[id]
		b.Stock = st
		m.books[id] = b
	}
	m.orders = append(m.orders, tx.inserted...)
	return nil
}

type memTx struct {
	s        *memStore
	stocks   map[string]int // staged stock per book id
	inserted []*Order
}

func (t *memTx) UserExists(_ context.Context, id string) (bool, error) {
	return t.s.users[id], nil
}

func (t *memTx) BooksForUpdate(_ context.Context, ids []string) (map[string]BookRow, error) {
	out := make(map[string]BookRow, len(ids))
	for _, id := range ids {
		b, ok := t.s.books[id]
		if !ok {
			continue
		}
		if st, staged := t.stocks[id]; staged {
			b.Stock = st
		}
		out[id] = b
	}
	return out, nil
}

func (t *memTx) DecrementStock(_ context.Context, id string, qty int) error {
	cur, staged := t.stocks[id]
	if !staged {
		cur = t.s.books[id].Stock
	}
	if cur < qty {
		return fmt.Errorf("stock update conflict for book %s", id)
	}
	t.stocks[id] = cur - qty
	return nil
}

func (t *memTx) InsertOrder(_ context.Context, o *Order) error {
	t.inserted = append(t.inserted, o)
	return nil
}

func (m *memStore) ListOrders(_ context.Context, page, limit int) ([]Order, pagination.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := append([]*Order(nil), m.orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	var out []Order
	for i := pagination.Skip(page, limit); i < len(sorted) && len(out) < limit; i++ {
		out = append(out, *sorted[i])
	}
	return out, pagination.New(page, limit, len(sorted)), nil
}

func (m *memStore) GetOrder(_ context.Context, id string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, &catalog.NotFoundError{Entity: "order", ID: id}
}

func (m *memStore) Statistics(_ context.Context) (Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := Statistics{OrderCount: len(m.orders)}
	for _, o := range m.orders {
		for _, it := range o.Items {
			st.RevenueCents += it.Qty * it.UnitPriceCents
			st.ItemsSold += it.Qty
		}
	}
	return st, nil
}
