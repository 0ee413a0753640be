package http

import (
	"context"
	"net/http"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

// CategoryCatalog is the minimal interface needed by the category endpoints.
type CategoryCatalog interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string) (domain.Category, error)
}

// HandleCategories serves listing and creation on /categories.
func HandleCategories(svc CategoryCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			categories, err := svc.ListCategories(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]categoryResponse, 0, len(categories))
			for _, c := range categories {
				resp = append(resp, categoryResponse{ID: c.ID, Name: c.Name})
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createCategoryRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			category, err := svc.CreateCategory(r.Context(), req.Name)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(categoryResponse{ID: category.ID, Name: category.Name})
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
