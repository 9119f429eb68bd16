package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/catalog"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/pagination"
)

type CatalogService interface {
	CreateGenre(ctx context.Context, in catalog.NewGenre) (*catalog.Genre, error)
	ListGenres(ctx context.Context, page, limit int) ([]catalog.Genre, pagination.Result, error)
	GetGenre(ctx context.Context, id string) (*catalog.Genre, error)
	UpdateGenre(ctx context.Context, id string, upd catalog.GenreUpdate) (*catalog.Genre, error)
	DeleteGenre(ctx context.Context, id string) error

	CreateBook(ctx context.Context, in catalog.NewBook) (*catalog.Book, error)
	ListBooks(ctx context.Context, page, limit int, f catalog.BookFilters) ([]catalog.Book, pagination.Result, error)
	ListBooksByGenre(ctx context.Context, genreID string, page, limit int) ([]catalog.Book, pagination.Result, error)
	GetBook(ctx context.Context, id string) (*catalog.Book, error)
	UpdateBook(ctx context.Context, id string, upd catalog.BookUpdate) (*catalog.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

type CatalogHandler struct {
	Service CatalogService
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Post("/books", h.createBook)
	r.Get("/books", h.listBooks)
	r.Get("/books/{id}", h.getBook)
	r.Put("/books/{id}", h.updateBook)
	r.Delete("/books/{id}", h.deleteBook)

	r.Post("/genres", h.createGenre)
	r.Get("/genres", h.listGenres)
	r.Get("/genres/{id}", h.getGenre)
	r.Put("/genres/{id}", h.updateGenre)
	r.Delete("/genres/{id}", h.deleteGenre)
	r.Get("/genres/{id}/books", h.listBooksByGenre)
}

// ---- books ----

func (h *CatalogHandler) createBook(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewBook
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Title == "" || in.Writer == "" || in.GenreID == "" {
		writeError(w, http.StatusBadRequest, "title, writer and genre_id are required")
		return
	}
	if in.PriceCents < 0 || in.Stock < 0 {
		writeError(w, http.StatusBadRequest, "price_cents and stock must be non-negative")
		return
	}

	ctx, cancel := reqCtx(r, writeTimeout)
	defer cancel()

	b, err := h.Service.CreateBook(ctx, in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Book created successfully",
		"data":    b,
	})
}

func (h *CatalogHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	page, limit := queryPage(r)
	f := catalog.BookFilters{
		Search:  r.URL.Query().Get("search"),
		GenreID: r.URL.Query().Get("genre_id"),
	}

	ctx, cancel := reqCtx(r, readTimeout)
	defer cancel()

	books, pg, err := h.Service.ListBooks(ctx, page, limit, f)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Books retrieved successfully",
		"data":       books,
		"pagination": pg,
	})
}

func (h *CatalogHandler) getBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, readTimeout)
	defer cancel()

	b, err := h.Service.GetBook(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Book retrieved successfully",
		"data":    b,
	})
}

func (h *CatalogHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	var upd catalog.BookUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if (upd.PriceCents != nil && *upd.PriceCents < 0) || (upd.Stock != nil && *upd.Stock < 0) {
		writeError(w, http.StatusBadRequest, "price_cents and stock must be non-negative")
		return
	}

	ctx, cancel := reqCtx(r, writeTimeout)
	defer cancel()

	b, err := h.Service.UpdateBook(ctx, chi.URLParam(r, "id"), upd)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Book updated successfully",
		"data":    b,
	})
}

func (h *CatalogHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, writeTimeout)
	defer cancel()

	if err := h.Service.DeleteBook(ctx, chi.URLParam(r, "id")); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}

// ---- genres ----

func (h *CatalogHandler) createGenre(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewGenre
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := reqCtx(r, writeTimeout)
	defer cancel()

	g, err := h.Service.CreateGenre(ctx, in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Genre created successfully",
		"data":    g,
	})
}

func (h *CatalogHandler) listGenres(w http.ResponseWriter, r *http.Request) {
	page, limit := queryPage(r)

	ctx, cancel := reqCtx(r, readTimeout)
	defer cancel()

	genres, pg, err := h.Service.ListGenres(ctx, page, limit)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Genres retrieved successfully",
		"data":       genres,
		"pagination": pg,
	})
}

func (h *CatalogHandler) getGenre(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, readTimeout)
	defer cancel()

	g, err := h.Service.GetGenre(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Genre retrieved successfully",
		"data":    g,
	})
}

func (h *CatalogHandler) updateGenre(w http.ResponseWriter, r *http.Request) {
	var upd catalog.GenreUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := reqCtx(r, writeTimeout)
	defer cancel()

	g, err := h.Service.UpdateGenre(ctx, chi.URLParam(r, "id"), upd)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Genre updated successfully",
		"data":    g,
	})
}

func (h *CatalogHandler) deleteGenre(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, writeTimeout)
	defer cancel()

	if err := h.Service.DeleteGenre(ctx, chi.URLParam(r, "id")); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Genre deleted successfully"})
}

func (h *CatalogHandler) listBooksByGenre(w http.ResponseWriter, r *http.Request) {
	page, limit := queryPage(r)

	ctx, cancel := reqCtx(r, readTimeout)
	defer cancel()

	books, pg, err := h.Service.ListBooksByGenre(ctx, chi.URLParam(r, "id"), page, limit)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Books by genre retrieved successfully",
		"data":       books,
		"pagination": pg,
	})
}
