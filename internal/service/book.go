package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akila4352/library-service/internal/models"
	"github.com/akila4352/library-service/internal/repository"
)

// CreateBookRequest carries the fields of a new catalog entry. None of them
// is required.
type CreateBookRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsAvailable *bool  `json:"is_available"`
	ImgSrc      string `json:"imgsrc"`
}

// BookService defines catalog operations.
type BookService interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, req CreateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	bookRepo repository.BookRepository
}

// NewBookService creates a new BookService instance.
func NewBookService(bookRepo repository.BookRepository) BookService {
	return &bookService{bookRepo: bookRepo}
}

func (s *bookService) List(ctx context.Context) ([]models.Book, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return books, nil
}

func (s *bookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return book, nil
}

func (s *bookService) Create(ctx context.Context, req CreateBookRequest) (*models.Book, error) {
	book := &models.Book{
		Title:       req.Title,
		Description: req.Description,
		IsAvailable: true,
		ImgSrc:      req.ImgSrc,
	}
	if req.IsAvailable != nil {
		book.IsAvailable = *req.IsAvailable
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return book, nil
}

// Delete removes a book. An unknown id is a storage error, not a silent
// success.
func (s *bookService) Delete(ctx context.Context, id int64) error {
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
