package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rhnbztnl/perpustakaan-api/internal/app"
	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

// BookCatalog is the minimal interface needed by the book endpoints.
type BookCatalog interface {
	ListBooks(ctx context.Context) ([]domain.BookDetail, error)
	SearchBooks(ctx context.Context, keyword string) ([]domain.BookDetail, error)
	CreateBook(ctx context.Context, in app.BookInput) (domain.Book, error)
	UpdateBook(ctx context.Context, id int64, in app.BookInput) error
	DeleteBook(ctx context.Context, id int64) error
}

// HandleBooks serves listing/search and creation on /books.
func HandleBooks(svc BookCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			keyword := r.URL.Query().Get("q")
			var (
				books []domain.BookDetail
				err   error
			)
			if keyword != "" {
				books, err = svc.SearchBooks(r.Context(), keyword)
			} else {
				books, err = svc.ListBooks(r.Context())
			}
			if err != nil {
				writeDomainError(w, err)
				return
			}

			resp := make([]bookResponse, 0, len(books))
			for _, b := range books {
				resp = append(resp, newBookResponse(b))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req bookRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			book, err := svc.CreateBook(r.Context(), req.toInput())
			if err != nil {
				writeDomainError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newBookResponse(domain.BookDetail{Book: book}))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleBookByID serves update and delete on /books/{id}.
func HandleBookByID(svc BookCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(r.URL.Path)
		if len(parts) != 2 || parts[0] != "books" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		id, ok := parseID(parts[1])
		if !ok {
			writeError(w, http.StatusBadRequest, codeInvalidID, "invalid id")
			return
		}

		switch r.Method {
		case http.MethodPut:
			var req bookRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if err := svc.UpdateBook(r.Context(), id, req.toInput()); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			if err := svc.DeleteBook(r.Context(), id); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type bookRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Publisher  string `json:"publisher"`
	Year       int    `json:"year"`
	Stock      int    `json:"stock"`
	CategoryID *int64 `json:"category_id"`
}

func (r bookRequest) toInput() app.BookInput {
	return app.BookInput{
		Title:      r.Title,
		Author:     r.Author,
		Publisher:  r.Publisher,
		Year:       r.Year,
		Stock:      r.Stock,
		CategoryID: r.CategoryID,
	}
}

type bookResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Publisher  string    `json:"publisher"`
	Year       int       `json:"year"`
	Stock      int       `json:"stock"`
	CategoryID *int64    `json:"category_id"`
	Category   string    `json:"category,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newBookResponse(b domain.BookDetail) bookResponse {
	return bookResponse{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Publisher:  b.Publisher,
		Year:       b.Year,
		Stock:      b.Stock,
		CategoryID: b.CategoryID,
		Category:   b.Category,
		CreatedAt:  b.CreatedAt,
	}
}
