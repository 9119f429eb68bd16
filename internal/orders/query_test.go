package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/catalog"
)

func seedOrders(m *memStore, n int) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		m.seedOrder(&Order{
			ID:        fmt.Sprintf("o%02d", i),
			UserID:    "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Items: []OrderItem{
				{BookID: "b1", Title: "Dune", Qty: 1, UnitPriceCents: 1000},
			},
			TotalCents: 1000,
		})
	}
}

func TestListOrders_Pagination(t *testing.T) {
	m := newMemStore()
	seedOrders(m, 25)
	svc := newTestService(m)

	got, pg, err := svc.ListOrders(context.Background(), 2, 10)
	require.NoError(t, err)

	assert.Len(t, got, 10)
	assert.Equal(t, 2, pg.Page)
	assert.Equal(t, 10, pg.Limit)
	assert.Equal(t, 25, pg.Total)
	assert.Equal(t, 3, pg.TotalPages)

	// newest first: page 2 starts at the 11th newest order
	assert.Equal(t, "o14", got[0].ID)
	assert.Equal(t, "o05", got[9].ID)
}

func TestListOrders_LastPagePartial(t *testing.T) {
	m := newMemStore()
	seedOrders(m, 25)
	svc := newTestService(m)

	got, pg, err := svc.ListOrders(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, 3, pg.TotalPages)
}

func TestGetOrder_NotFound(t *testing.T) {
	m := newMemStore()
	svc := newTestService(m)

	_, err := svc.GetOrder(context.Background(), "missing")

	var nf *catalog.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "order", nf.Entity)
}

func TestStatistics(t *testing.T) {
	m := newMemStore()
	m.seedOrder(&Order{ID: "o1", UserID: "u1", CreatedAt: time.Now(),
		Items: []OrderItem{{BookID: "b1", Qty: 1, UnitPriceCents: 1000}}})
	m.seedOrder(&Order{ID: "o2", UserID: "u1", CreatedAt: time.Now(),
		Items: []OrderItem{{BookID: "b1", Qty: 2, UnitPriceCents: 1000}}})
	m.seedOrder(&Order{ID: "o3", UserID: "u2", CreatedAt: time.Now(),
		Items: []OrderItem{{BookID: "b2", Qty: 1, UnitPriceCents: 3000}}})
	svc := newTestService(m)

	st, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.OrderCount)
	assert.Equal(t, 6000, st.RevenueCents)
	assert.Equal(t, 4, st.ItemsSold)
}

func TestStatistics_Empty(t *testing.T) {
	svc := newTestService(newMemStore())

	st, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Statistics{}, st)
}
