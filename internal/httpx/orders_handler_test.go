package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/catalog"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/orders"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/pagination"
)

type stubOrders struct {
	placeCalls int
	lastUser   string
	lastItems  []orders.ItemInput
	placeErr   error
	placed     *orders.Order

	list   []orders.Order
	listPg pagination.Result
	order  *orders.Order
	getErr error
	stats  orders.Statistics
}

func (s *stubOrders) PlaceOrder(_ context.Context, userID string, items []orders.ItemInput) (*orders.Order, error) {
	s.placeCalls++
	s.lastUser = userID
	s.lastItems = items
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return s.placed, nil
}

func (s *stubOrders) ListOrders(_ context.Context, page, limit int) ([]orders.Order, pagination.Result, error) {
	return s.list, s.listPg, nil
}

func (s *stubOrders) GetOrder(_ context.Context, id string) (*orders.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubOrders) Statistics(_ context.Context) (orders.Statistics, error) {
	return s.stats, nil
}

func serveOrders(s *stubOrders, req *http.Request) *httptest.ResponseRecorder {
	r := NewRouter()
	(&OrdersHandler{Service: s}).Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPlaceOrder_Created(t *testing.T) {
	s := &stubOrders{placed: &orders.Order{
		ID: "o1", UserID: "u1", CreatedAt: time.Now().UTC(),
		Items:      []orders.OrderItem{{BookID: "b1", Title: "Dune", Qty: 2, UnitPriceCents: 1500}},
		TotalCents: 3000,
	}}

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"items":[{"book_id":"b1","qty":2}]}`))
	req.Header.Set("X-User-Id", "u1")
	rec := serveOrders(s, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u1", s.lastUser)
	require.Len(t, s.lastItems, 1)

	var body struct {
		Message string       `json:"message"`
		Data    orders.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Order created successfully", body.Message)
	assert.Equal(t, "o1", body.Data.ID)
	assert.Equal(t, 3000, body.Data.TotalCents)
}

func TestPlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		user   string
		body   string
	}{
		{"missing user header", "", `{"items":[{"book_id":"b1","qty":1}]}`},
		{"invalid json", "u1", `{`},
		{"empty items", "u1", `{"items":[]}`},
		{"zero qty", "u1", `{"items":[{"book_id":"b1","qty":0}]}`},
		{"negative qty", "u1", `{"items":[{"book_id":"b1","qty":-2}]}`},
		{"missing book id", "u1", `{"items":[{"qty":1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubOrders{}
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			if tt.user != "" {
				req.Header.Set("X-User-Id", tt.user)
			}
			rec := serveOrders(s, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, s.placeCalls, "service must not be called on invalid input")
		})
	}
}

func TestPlaceOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"user not found", &catalog.NotFoundError{Entity: "user", ID: "u1"}, http.StatusNotFound},
		{"books not found", &catalog.NotFoundError{Entity: "book"}, http.StatusNotFound},
		{"insufficient stock",
			&orders.InsufficientStockError{BookID: "b1", Title: "Dune", Requested: 2, Available: 1},
			http.StatusBadRequest},
		{"storage failure", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubOrders{placeErr: tt.err}
			req := httptest.NewRequest(http.MethodPost, "/orders",
				strings.NewReader(`{"items":[{"book_id":"b1","qty":2}]}`))
			req.Header.Set("X-User-Id", "u1")
			rec := serveOrders(s, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestPlaceOrder_InsufficientStockMessage(t *testing.T) {
	s := &stubOrders{placeErr: &orders.InsufficientStockError{
		BookID: "b1", Title: "Dune", Requested: 3, Available: 1,
	}}
	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"items":[{"book_id":"b1","qty":3}]}`))
	req.Header.Set("X-User-Id", "u1")
	rec := serveOrders(s, req)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `insufficient stock for book "Dune": requested 3, available 1`, body["error"])
}

func TestListOrders_PassesClampedPaging(t *testing.T) {
	s := &stubOrders{listPg: pagination.Result{Page: 2, Limit: 10, Total: 25, TotalPages: 3}}
	req := httptest.NewRequest(http.MethodGet, "/orders?page=2&limit=10", nil)
	rec := serveOrders(s, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Pagination pagination.Result `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 25, body.Pagination.Total)
	assert.Equal(t, 3, body.Pagination.TotalPages)
}

func TestGetOrder_NotFound(t *testing.T) {
	s := &stubOrders{getErr: &catalog.NotFoundError{Entity: "order", ID: "x"}}
	rec := serveOrders(s, httptest.NewRequest(http.MethodGet, "/orders/x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// /orders/statistics must route to the aggregator, not match /orders/{id}.
func TestStatistics_Route(t *testing.T) {
	s := &stubOrders{stats: orders.Statistics{OrderCount: 3, RevenueCents: 6000, ItemsSold: 4}}
	rec := serveOrders(s, httptest.NewRequest(http.MethodGet, "/orders/statistics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data orders.Statistics `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.OrderCount)
	assert.Equal(t, 6000, body.Data.RevenueCents)
}
