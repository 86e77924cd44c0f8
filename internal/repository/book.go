package repository

import (
	"context"
	"fmt"

	"github.com/akila4352/library-service/internal/models"
	"gorm.io/gorm"
)

// BookRepository defines the interface for catalog data operations.
type BookRepository interface {
	List(ctx context.Context) ([]models.Book, error)
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new BookRepository instance.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) List(ctx context.Context) ([]models.Book, error) {
	books := []models.Book{}
	if err := r.db.WithContext(ctx).Order("id").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find book by id %d: %w", id, translate(err))
	}
	return &book, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", translate(err))
	}
	return nil
}

// Delete removes a book. Deleting an id that does not exist, or a book
// referenced by any loan, is an error.
func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book id %d: %w", id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete book id %d: %w", id, ErrNotFound)
	}
	return nil
}
