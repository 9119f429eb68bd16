package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/pagination"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/postgres"
)

type Repo struct{ DB *pgxpool.Pool }

const uniqueViolation = "23505"

// ---- genres ----

func (r *Repo) CreateGenre(ctx context.Context, in NewGenre) (*Genre, error) {
	g := &Genre{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO genres(id, name, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)`,
		g.ID, g.Name, g.Description, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrGenreNameTaken
		}
		return nil, err
	}
	return g, nil
}

func (r *Repo) ListGenres(ctx context.Context, page, limit int) ([]Genre, pagination.Result, error) {
	var (
		genres []Genre
		total  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.DB.Query(gctx, `
			SELECT id, name, description, created_at, updated_at
			FROM genres ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`, limit, pagination.Skip(page, limit))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var x Genre
			if err := rows.Scan(&x.ID, &x.Name, &x.Description, &x.CreatedAt, &x.UpdatedAt); err != nil {
				return err
			}
			genres = append(genres, x)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.DB.QueryRow(gctx, `SELECT COUNT(*) FROM genres`).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, pagination.Result{}, err
	}
	return genres, pagination.New(page, limit, total), nil
}

func (r *Repo) GetGenre(ctx context.Context, id string) (*Genre, error) {
	var g Genre
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM genres WHERE id=$1`, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "genre", ID: id}
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, title, writer, price_cents, stock
		FROM books WHERE genre_id=$1 ORDER BY title`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var b BookSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.Writer, &b.PriceCents, &b.Stock); err != nil {
			return nil, err
		}
		g.Books = append(g.Books, b)
	}
	return &g, rows.Err()
}

func (r *Repo) UpdateGenre(ctx context.Context, id string, upd GenreUpdate) (*Genre, error) {
	g, err := r.GetGenre(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		g.Name = *upd.Name
	}
	if upd.Description != nil {
		g.Description = *upd.Description
	}
	g.UpdatedAt = time.Now().UTC()

	_, err = r.DB.Exec(ctx, `
		UPDATE genres SET name=$2, description=$3, updated_at=$4 WHERE id=$1`,
		g.ID, g.Name, g.Description, g.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrGenreNameTaken
		}
		return nil, err
	}
	return g, nil
}

// DeleteGenre removes a genre unless books still reference it. The guard
// and the delete share one transaction so a book created in between
// cannot be orphaned.
func (r *Repo) DeleteGenre(ctx context.Context, id string) error {
	return postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM genres WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Entity: "genre", ID: id}
		}
		var hasBooks bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE genre_id=$1)`, id).Scan(&hasBooks); err != nil {
			return err
		}
		if hasBooks {
			return ErrGenreHasBooks
		}
		_, err := tx.Exec(ctx, `DELETE FROM genres WHERE id=$1`, id)
		return err
	})
}

// ---- books ----

func (r *Repo) CreateBook(ctx context.Context, in NewBook) (*Book, error) {
	var genreName string
	err := r.DB.QueryRow(ctx, `SELECT name FROM genres WHERE id=$1`, in.GenreID).Scan(&genreName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "genre", ID: in.GenreID}
	}
	if err != nil {
		return nil, err
	}

	b := &Book{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Writer:          in.Writer,
		Publisher:       in.Publisher,
		PublicationYear: in.PublicationYear,
		Description:     in.Description,
		PriceCents:      in.PriceCents,
		Stock:           in.Stock,
		GenreID:         in.GenreID,
		GenreName:       genreName,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO books(id, title, writer, publisher, publication_year,
		                  description, price_cents, stock, genre_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		b.ID, b.Title, b.Writer, b.Publisher, b.PublicationYear,
		b.Description, b.PriceCents, b.Stock, b.GenreID, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Repo) ListBooks(ctx context.Context, page, limit int, f BookFilters) ([]Book, pagination.Result, error) {
	where := ""
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = fmt.Sprintf(` WHERE (b.title ILIKE $%d OR b.writer ILIKE $%d OR b.description ILIKE $%d)`,
			len(args), len(args), len(args))
	}
	if f.GenreID != "" {
		args = append(args, f.GenreID)
		if where == "" {
			where = fmt.Sprintf(` WHERE b.genre_id=$%d`, len(args))
		} else {
			where += fmt.Sprintf(` AND b.genre_id=$%d`, len(args))
		}
	}

	var (
		books []Book
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := `SELECT b.id, b.title, b.writer, b.publisher, b.publication_year,
		             b.description, b.price_cents, b.stock, b.genre_id, g.name,
		             b.created_at, b.updated_at
		      FROM books b JOIN genres g ON g.id = b.genre_id` + where +
			fmt.Sprintf(` ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		rows, err := r.DB.Query(gctx, q, append(append([]any{}, args...), limit, pagination.Skip(page, limit))...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var b Book
			if err := rows.Scan(&b.ID, &b.Title, &b.Writer, &b.Publisher, &b.PublicationYear,
				&b.Description, &b.PriceCents, &b.Stock, &b.GenreID, &b.GenreName,
				&b.CreatedAt, &b.UpdatedAt); err != nil {
				return err
			}
			books = append(books, b)
		}
		return rows.Err()
	})
	g.Go(func() error {
		q := `SELECT COUNT(*) FROM books b` + where
		return r.DB.QueryRow(gctx, q, args...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, pagination.Result{}, err
	}
	return books, pagination.New(page, limit, total), nil
}

func (r *Repo) ListBooksByGenre(ctx context.Context, genreID string, page, limit int) ([]Book, pagination.Result, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM genres WHERE id=$1)`, genreID).Scan(&exists); err != nil {
		return nil, pagination.Result{}, err
	}
	if !exists {
		return nil, pagination.Result{}, &NotFoundError{Entity: "genre", ID: genreID}
	}
	return r.ListBooks(ctx, page, limit, BookFilters{GenreID: genreID})
}

func (r *Repo) GetBook(ctx context.Context, id string) (*Book, error) {
	var b Book
	err := r.DB.QueryRow(ctx, `
		SELECT b.id, b.title, b.writer, b.publisher, b.publication_year,
		       b.description, b.price_cents, b.stock, b.genre_id, g.name,
		       b.created_at, b.updated_at
		FROM books b JOIN genres g ON g.id = b.genre_id
		WHERE b.id=$1`, id).
		Scan(&b.ID, &b.Title, &b.Writer, &b.Publisher, &b.PublicationYear,
			&b.Description, &b.PriceCents, &b.Stock, &b.GenreID, &b.GenreName,
			&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "book", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBook merges the provided fields under a row lock. The lock matters
// for stock: a placement transaction may decrement it concurrently, and
// writing back a stale pre-placement snapshot would resurrect sold units.
func (r *Repo) UpdateBook(ctx context.Context, id string, upd BookUpdate) (*Book, error) {
	var b *Book
	err := postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		var cur Book
		err := tx.QueryRow(ctx, `
			SELECT id, title, writer, publisher, publication_year,
			       description, price_cents, stock, genre_id, created_at, updated_at
			FROM books WHERE id=$1
			FOR UPDATE`, id).
			Scan(&cur.ID, &cur.Title, &cur.Writer, &cur.Publisher, &cur.PublicationYear,
				&cur.Description, &cur.PriceCents, &cur.Stock, &cur.GenreID,
				&cur.CreatedAt, &cur.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "book", ID: id}
		}
		if err != nil {
			return err
		}

		if upd.GenreID != nil && *upd.GenreID != cur.GenreID {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM genres WHERE id=$1)`, *upd.GenreID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return &NotFoundError{Entity: "genre", ID: *upd.GenreID}
			}
		}

		applyBookUpdate(&cur, upd)
		cur.UpdatedAt = time.Now().UTC()

		_, err = tx.Exec(ctx, `
			UPDATE books SET title=$2, writer=$3, publisher=$4, publication_year=$5,
			       description=$6, price_cents=$7, stock=$8, genre_id=$9, updated_at=$10
			WHERE id=$1`,
			cur.ID, cur.Title, cur.Writer, cur.Publisher, cur.PublicationYear,
			cur.Description, cur.PriceCents, cur.Stock, cur.GenreID, cur.UpdatedAt)
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, `SELECT name FROM genres WHERE id=$1`, cur.GenreID).Scan(&cur.GenreName); err != nil {
			return err
		}
		b = &cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// applyBookUpdate copies only the caller-provided fields onto b. Absent
// fields, stock included, keep the value read under the lock.
func applyBookUpdate(b *Book, upd BookUpdate) {
	if upd.Title != nil {
		b.Title = *upd.Title
	}
	if upd.Writer != nil {
		b.Writer = *upd.Writer
	}
	if upd.Publisher != nil {
		b.Publisher = *upd.Publisher
	}
	if upd.PublicationYear != nil {
		b.PublicationYear = *upd.PublicationYear
	}
	if upd.Description != nil {
		b.Description = *upd.Description
	}
	if upd.PriceCents != nil {
		b.PriceCents = *upd.PriceCents
	}
	if upd.Stock != nil {
		b.Stock = *upd.Stock
	}
	if upd.GenreID != nil {
		b.GenreID = *upd.GenreID
	}
}

// DeleteBook refuses to remove a book that is referenced by order items:
// committed orders keep their line items resolvable forever.
func (r *Repo) DeleteBook(ctx context.Context, id string) error {
	return postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Entity: "book", ID: id}
		}
		var ordered bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM order_items WHERE book_id=$1)`, id).Scan(&ordered); err != nil {
			return err
		}
		if ordered {
			return ErrBookHasOrders
		}
		_, err := tx.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
		return err
	})
}
