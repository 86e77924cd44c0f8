package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akila4352/library-service/internal/models"
	"gorm.io/gorm"
)

// LoanRepository defines the interface for borrowed book data operations.
type LoanRepository interface {
	CreateActive(ctx context.Context, loan *models.Loan) error
	ListAll(ctx context.Context) ([]models.Loan, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Loan, error)
	UpdateStatus(ctx context.Context, id int64, returned bool, returnedAt *time.Time) (*models.Loan, error)
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new LoanRepository instance.
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// CreateActive checks that the user has no active loan and inserts the new
// one. Two concurrent callers can both pass the check; the partial unique
// index on (user_id) WHERE returned = false rejects the second insert, and
// both paths surface as ErrActiveLoanExists.
func (r *loanRepository) CreateActive(ctx context.Context, loan *models.Loan) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := countActive(tx, loan.UserID)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveLoanExists
		}
		loan.Returned = false
		loan.ReturnedAt = nil
		return tx.Create(loan).Error
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrActiveLoanExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("failed to create loan for user %d: %w", loan.UserID, ErrActiveLoanExists)
	default:
		return fmt.Errorf("failed to create loan for user %d: %w", loan.UserID, translate(err))
	}
}

func (r *loanRepository) ListAll(ctx context.Context) ([]models.Loan, error) {
	loans := []models.Loan{}
	err := r.db.WithContext(ctx).
		Joins("Book").
		Order("borrowed_books.borrow_date DESC, borrowed_books.id DESC").
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

func (r *loanRepository) ListByUser(ctx context.Context, userID int64) ([]models.Loan, error) {
	loans := []models.Loan{}
	err := r.db.WithContext(ctx).
		Joins("Book").
		Where("borrowed_books.user_id = ?", userID).
		Order("borrowed_books.borrow_date DESC, borrowed_books.id DESC").
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for user %d: %w", userID, err)
	}
	return loans, nil
}

// UpdateStatus sets the returned flag of a loan and reloads it with its book.
// Reactivating a loan while the user holds another active one fails with
// ErrActiveLoanExists.
func (r *loanRepository) UpdateStatus(ctx context.Context, id int64, returned bool, returnedAt *time.Time) (*models.Loan, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"returned":    returned,
			"returned_at": returnedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to update loan id %d: %w", id, ErrActiveLoanExists)
		}
		return nil, fmt.Errorf("failed to update loan id %d: %w", id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to update loan id %d: %w", id, ErrNotFound)
	}

	var loan models.Loan
	err := r.db.WithContext(ctx).
		Joins("Book").
		Where("borrowed_books.id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload loan id %d: %w", id, translate(err))
	}
	return &loan, nil
}

func countActive(db *gorm.DB, userID int64) (int64, error) {
	var count int64
	err := db.Model(&models.Loan{}).
		Where("user_id = ? AND returned = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active loans for user %d: %w", userID, err)
	}
	return count, nil
}
