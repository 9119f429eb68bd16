package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/catalog"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/pagination"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/postgres"
)

// PgStore implements Store on Postgres. Reservation atomicity comes from
// a single transaction with `SELECT ... FOR UPDATE` row locks on the
// referenced books.
type PgStore struct{ DB *pgxpool.Pool }

func (s *PgStore) InTx(ctx context.Context, fn func(tx TxStore) error) error {
	return postgres.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) UserExists(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID).Scan(&ok)
	return ok, err
}

// BooksForUpdate locks rows in id order so two placements over the same
// books cannot deadlock each other.
func (t *pgTx) BooksForUpdate(ctx context.Context, ids []string) (map[string]BookRow, error) {
	if len(ids) == 0 {
		return map[string]BookRow{}, nil
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	params := ""
	args := make([]any, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 {
			params += ","
		}
		params += fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	rows, err := t.tx.Query(ctx, `
		SELECT id, title, price_cents, stock FROM books
		WHERE id IN (`+params+`)
		ORDER BY id
		FOR UPDATE`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]BookRow, len(sorted))
	for rows.Next() {
		var b BookRow
		if err := rows.Scan(&b.ID, &b.Title, &b.PriceCents, &b.Stock); err != nil {
			return nil, err
		}
		out[b.ID] = b
	}
	return out, rows.Err()
}

func (t *pgTx) DecrementStock(ctx context.Context, bookID string, qty int) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE books SET stock = stock - $2, updated_at = now()
		WHERE id=$1 AND stock >= $2`, bookID, qty)
	if err != nil {
		return err
	}
	// rows are locked and pre-checked, so this only trips on a logic bug
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("stock update conflict for book %s", bookID)
	}
	return nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, created_at) VALUES ($1,$2,$3)`,
		o.ID, o.UserID, o.CreatedAt)
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		_, err = t.tx.Exec(ctx, `
			INSERT INTO order_items(order_id, book_id, qty, unit_price_cents)
			VALUES ($1,$2,$3,$4)`,
			o.ID, it.BookID, it.Qty, it.UnitPriceCents)
		if err != nil {
			return err
		}
	}
	return nil
}

// ---- read side ----

func (s *PgStore) ListOrders(ctx context.Context, page, limit int) ([]Order, pagination.Result, error) {
	var (
		out   []Order
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.DB.Query(gctx, `
			SELECT id, user_id, created_at FROM orders
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`, limit, pagination.Skip(page, limit))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var o Order
			if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
				return err
			}
			out = append(out, o)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return s.DB.QueryRow(gctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, pagination.Result{}, err
	}

	if err := s.loadItems(ctx, out); err != nil {
		return nil, pagination.Result{}, err
	}
	return out, pagination.New(page, limit, total), nil
}

func (s *PgStore) loadItems(ctx context.Context, list []Order) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	byID := make(map[string]*Order, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
		byID[list[i].ID] = &list[i]
	}
	rows, err := s.DB.Query(ctx, `
		SELECT i.order_id, i.book_id, b.title, i.qty, i.unit_price_cents
		FROM order_items i JOIN books b ON b.id = i.book_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			orderID string
			it      OrderItem
		)
		if err := rows.Scan(&orderID, &it.BookID, &it.Title, &it.Qty, &it.UnitPriceCents); err != nil {
			return err
		}
		o := byID[orderID]
		o.Items = append(o.Items, it)
		o.TotalCents += it.Qty * it.UnitPriceCents
	}
	return rows.Err()
}

func (s *PgStore) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := s.DB.QueryRow(ctx, `SELECT id, user_id, created_at FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &catalog.NotFoundError{Entity: "order", ID: id}
	}
	if err != nil {
		return nil, err
	}

	list := []Order{o}
	if err := s.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *PgStore) Statistics(ctx context.Context) (Statistics, error) {
	var st Statistics
	err := s.DB.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM orders),
		       COALESCE(SUM(qty * unit_price_cents), 0),
		       COALESCE(SUM(qty), 0)
		FROM order_items`).
		Scan(&st.OrderCount, &st.RevenueCents, &st.ItemsSold)
	return st, err
}
