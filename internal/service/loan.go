package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akila4352/library-service/internal/metrics"
	"github.com/akila4352/library-service/internal/models"
	"github.com/akila4352/library-service/internal/repository"
)

// BorrowRequest carries a borrow command. BorrowDate defaults to now and
// DueDate to BorrowDate plus the loan period.
type BorrowRequest struct {
	UserID     int64
	BookID     int64
	BorrowDate *time.Time
	DueDate    *time.Time
}

// LoanService defines the borrow/return workflow.
type LoanService interface {
	Borrow(ctx context.Context, req BorrowRequest) (*models.Loan, error)
	ListAll(ctx context.Context) ([]models.Loan, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Loan, error)
	UpdateStatus(ctx context.Context, loanID int64, returned bool) (*models.Loan, error)
}

type loanService struct {
	loanRepo   repository.LoanRepository
	loanPeriod time.Duration
	now        func() time.Time
	metrics    *metrics.Metrics
}

// NewLoanService creates a new LoanService instance.
func NewLoanService(loanRepo repository.LoanRepository, loanPeriod time.Duration, m *metrics.Metrics) LoanService {
	return &loanService{
		loanRepo:   loanRepo,
		loanPeriod: loanPeriod,
		now:        func() time.Time { return time.Now().UTC() },
		metrics:    m,
	}
}

// Borrow creates an active loan when the user holds no other active loan.
func (s *loanService) Borrow(ctx context.Context, req BorrowRequest) (*models.Loan, error) {
	if err := validateBorrow(req); err != nil {
		return nil, err
	}

	borrowDate := s.now()
	if req.BorrowDate != nil {
		borrowDate = req.BorrowDate.UTC()
	}
	dueDate := borrowDate.Add(s.loanPeriod)
	if req.DueDate != nil {
		dueDate = req.DueDate.UTC()
	}
	if dueDate.Before(borrowDate) {
		return nil, invalid("dueDate must not be before borrowDate")
	}

	loan := &models.Loan{
		UserID:     req.UserID,
		BookID:     req.BookID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	}

	err := s.loanRepo.CreateActive(ctx, loan)
	switch {
	case err == nil:
		s.metrics.ObserveBorrow(metrics.OutcomeSuccess)
		return loan, nil
	case errors.Is(err, repository.ErrActiveLoanExists):
		s.metrics.ObserveBorrow(metrics.OutcomeRejected)
		return nil, ErrActiveLoan
	default:
		s.metrics.ObserveBorrow(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
}

func (s *loanService) ListAll(ctx context.Context) ([]models.Loan, error) {
	loans, err := s.loanRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return loans, nil
}

func (s *loanService) ListByUser(ctx context.Context, userID int64) ([]models.Loan, error) {
	if userID <= 0 {
		return nil, invalid("invalid user id")
	}
	loans, err := s.loanRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return loans, nil
}

// UpdateStatus flips the returned flag of a loan. There is no ownership
// check.
func (s *loanService) UpdateStatus(ctx context.Context, loanID int64, returned bool) (*models.Loan, error) {
	if loanID <= 0 {
		return nil, invalid("invalid loan id")
	}

	var returnedAt *time.Time
	if returned {
		now := s.now()
		returnedAt = &now
	}

	loan, err := s.loanRepo.UpdateStatus(ctx, loanID, returned, returnedAt)
	switch {
	case err == nil:
		if returned {
			s.metrics.ObserveReturn()
		}
		return loan, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("loan %d: %w", loanID, ErrNotFound)
	case errors.Is(err, repository.ErrActiveLoanExists):
		return nil, ErrActiveLoan
	default:
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
}

func validateBorrow(req BorrowRequest) error {
	var missing []string
	if req.UserID <= 0 {
		missing = append(missing, "userId")
	}
	if req.BookID <= 0 {
		missing = append(missing, "bookId")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
