package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/catalog"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/orders"
)

// Per-handler deadlines, inside the router-wide 15s middleware timeout.
// Writes get headroom for lock waits in the placement transaction.
const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
)

func reqCtx(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainErr maps error kinds to statuses: not-found -> 404, stock and
// referential conflicts -> 400, anything else -> 500.
func writeDomainErr(w http.ResponseWriter, err error) {
	var (
		nf  *catalog.NotFoundError
		ise *orders.InsufficientStockError
	)
	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ise):
		writeError(w, http.StatusBadRequest, ise.Error())
	case errors.Is(err, catalog.ErrBookHasOrders),
		errors.Is(err, catalog.ErrGenreHasBooks),
		errors.Is(err, catalog.ErrGenreNameTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
