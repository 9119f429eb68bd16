package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/orders"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/pagination"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, items []orders.ItemInput) (*orders.Order, error)
	ListOrders(ctx context.Context, page, limit int) ([]orders.Order, pagination.Result, error)
	GetOrder(ctx context.Context, id string) (*orders.Order, error)
	Statistics(ctx context.Context) (orders.Statistics, error)
}

type OrdersHandler struct {
	Service OrderService
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.placeOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/statistics", h.statistics)
	r.Get("/orders/{id}", h.getOrder)
}

type placeOrderReq struct {
	Items []orders.ItemInput `json:"items"`
}

// Shape validation lives here; the workflow below assumes well-formed input.
func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing X-User-Id header")
		return
	}

	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items must not be empty")
		return
	}
	for _, it := range req.Items {
		if it.BookID == "" || it.Qty <= 0 {
			writeError(w, http.StatusBadRequest, "each item needs a book_id and a positive qty")
			return
		}
	}

	ctx, cancel := reqCtx(r, writeTimeout)
	defer cancel()

	o, err := h.Service.PlaceOrder(ctx, userID, req.Items)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"data":    o,
	})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := queryPage(r)

	ctx, cancel := reqCtx(r, readTimeout)
	defer cancel()

	list, pg, err := h.Service.ListOrders(ctx, page, limit)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Orders retrieved successfully",
		"data":       list,
		"pagination": pg,
	})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := reqCtx(r, readTimeout)
	defer cancel()

	o, err := h.Service.GetOrder(ctx, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

func (h *OrdersHandler) statistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, readTimeout)
	defer cancel()

	st, err := h.Service.Statistics(ctx)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order statistics retrieved successfully",
		"data":    st,
	})
}

func queryPage(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return pagination.Clamp(page, limit)
}
