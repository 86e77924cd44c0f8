// Package service implements the business rules of the library service.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akila4352/library-service/internal/metrics"
	"github.com/akila4352/library-service/internal/models"
	"github.com/akila4352/library-service/internal/repository"
)

// RegisterRequest carries the fields of a new user account.
type RegisterRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	UserID      int64  `json:"-"`
	Email       string `json:"-"`
	FirstName   string `json:"firstName"`
	UserType    string `json:"userType"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthService defines registration and login operations.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password, userType string) (*LoginResponse, error)
	CreateAdmin(ctx context.Context, firstName, lastName, email, password string) (*models.Admin, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     PasswordHasher
	jwtService JWTService
	metrics    *metrics.Metrics
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, jwtService JWTService, m *metrics.Metrics) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		metrics:    m,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := requireFields(
		field{"firstName", req.FirstName},
		field{"lastName", req.LastName},
		field{"username", req.Username},
		field{"email", req.Email},
		field{"password", req.Password},
	); err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Username:     strings.TrimSpace(req.Username),
		Email:        normalizeEmail(req.Email),
		PasswordHash: s.hasher.Digest(req.Password),
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password, userType string) (*LoginResponse, error) {
	if err := requireFields(
		field{"email", email},
		field{"password", password},
		field{"userType", userType},
	); err != nil {
		return nil, err
	}

	userType = strings.ToLower(strings.TrimSpace(userType))
	account, err := s.findAccount(ctx, normalizeEmail(email), userType)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			// Unknown emails cost one digest, like a wrong password
			s.hasher.Digest(password)
			s.metrics.ObserveLogin(userType, metrics.OutcomeRejected)
		}
		return nil, err
	}

	if !s.hasher.Verify(account.PasswordHash, password) {
		s.metrics.ObserveLogin(userType, metrics.OutcomeRejected)
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(account.ID, account.Email, userType)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	s.metrics.ObserveLogin(userType, metrics.OutcomeSuccess)
	return &LoginResponse{
		UserID:      account.ID,
		Email:       account.Email,
		FirstName:   account.FirstName,
		UserType:    userType,
		AccessToken: token,
		ExpiresIn:   int64(s.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// findAccount looks up the email in the namespace selected by userType. A
// missing record is reported as ErrInvalidCredentials.
func (s *authService) findAccount(ctx context.Context, email, userType string) (*models.Account, error) {
	var (
		account *models.Account
		err     error
	)

	switch userType {
	case models.UserTypeUser:
		var user *models.User
		if user, err = s.userRepo.FindByEmail(ctx, email); err == nil {
			account = &models.Account{ID: user.ID, FirstName: user.FirstName, Email: user.Email, PasswordHash: user.PasswordHash}
		}
	case models.UserTypeAdmin:
		var admin *models.Admin
		if admin, err = s.userRepo.FindAdminByEmail(ctx, email); err == nil {
			account = &models.Account{ID: admin.ID, FirstName: admin.FirstName, Email: admin.Email, PasswordHash: admin.PasswordHash}
		}
	default:
		return nil, invalid("userType must be one of: user, admin")
	}

	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return account, nil
}

// CreateAdmin provisions an administrator account. It is not exposed over
// HTTP.
func (s *authService) CreateAdmin(ctx context.Context, firstName, lastName, email, password string) (*models.Admin, error) {
	if err := requireFields(
		field{"firstName", firstName},
		field{"email", email},
		field{"password", password},
	); err != nil {
		return nil, err
	}

	admin := &models.Admin{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        normalizeEmail(email),
		PasswordHash: s.hasher.Digest(password),
	}
	if err := s.userRepo.CreateAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return admin, nil
}
