package app

import (
	"context"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

type BookRepository interface {
	ListBooks(ctx context.Context) ([]domain.BookDetail, error)
	SearchBooks(ctx context.Context, keyword string) ([]domain.BookDetail, error)
	CreateBook(ctx context.Context, book domain.Book) (domain.Book, error)
	UpdateBook(ctx context.Context, book domain.Book) error
	DeleteBook(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta int) (int, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
}

// CatalogService owns book and category records. It validates catalog
// writes; stock movements from circulation go through the ledger, which
// uses the repository's atomic adjustment directly.
type CatalogService struct {
	repo BookRepository
}

func NewCatalogService(repo BookRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

type BookInput struct {
	Title      string
	Author     string
	Publisher  string
	Year       int
	Stock      int
	CategoryID *int64
}

func (in BookInput) validate() error {
	if in.Title == "" {
		return domain.ErrTitleRequired
	}
	if in.Author == "" {
		return domain.ErrAuthorRequired
	}
	if in.Stock < 0 {
		return domain.ErrInvalidStock
	}
	return nil
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.BookDetail, error) {
	return s.repo.ListBooks(ctx)
}

func (s *CatalogService) SearchBooks(ctx context.Context, keyword string) ([]domain.BookDetail, error) {
	if keyword == "" {
		return s.repo.ListBooks(ctx)
	}
	return s.repo.SearchBooks(ctx, keyword)
}

func (s *CatalogService) CreateBook(ctx context.Context, in BookInput) (domain.Book, error) {
	if err := in.validate(); err != nil {
		return domain.Book{}, err
	}
	return s.repo.CreateBook(ctx, domain.Book{
		Title:      in.Title,
		Author:     in.Author,
		Publisher:  in.Publisher,
		Year:       in.Year,
		Stock:      in.Stock,
		CategoryID: in.CategoryID,
	})
}

func (s *CatalogService) UpdateBook(ctx context.Context, id int64, in BookInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return s.repo.UpdateBook(ctx, domain.Book{
		ID:         id,
		Title:      in.Title,
		Author:     in.Author,
		Publisher:  in.Publisher,
		Year:       in.Year,
		Stock:      in.Stock,
		CategoryID: in.CategoryID,
	})
}

func (s *CatalogService) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

// AdjustStock applies a manual stock correction. Circulation flows never
// call this; they adjust stock inside the ledger transaction.
func (s *CatalogService) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	return s.repo.AdjustStock(ctx, id, delta)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	if name == "" {
		return domain.Category{}, domain.ErrCategoryNameRequired
	}
	return s.repo.CreateCategory(ctx, domain.Category{Name: name})
}
