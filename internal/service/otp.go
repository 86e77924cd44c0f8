package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/akila4352/library-service/internal/metrics"
	"github.com/akila4352/library-service/pkg/mailer"
	"github.com/redis/go-redis/v9"
)

const (
	otpMin     = 100000
	otpMax     = 999999
	otpSubject = "Your OTP Code"
)

// OTPService generates one-time passcodes, mails them and verifies them.
type OTPService interface {
	Send(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
}

type otpService struct {
	sender   mailer.Sender
	redis    *redis.Client
	ttl      time.Duration
	generate func() (string, error)
	metrics  *metrics.Metrics
}

// NewOTPService creates a new OTPService instance.
func NewOTPService(sender mailer.Sender, redisClient *redis.Client, ttl time.Duration, m *metrics.Metrics) OTPService {
	return &otpService{
		sender:   sender,
		redis:    redisClient,
		ttl:      ttl,
		generate: GenerateOTP,
		metrics:  m,
	}
}

// GenerateOTP returns a uniformly random six digit code in 100000..999999.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+otpMin), nil
}

// Send stores a fresh code for email and mails it. The code is returned so
// the caller can decide whether to expose it.
func (s *otpService) Send(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if err := requireFields(field{"email", email}); err != nil {
		return "", err
	}

	code, err := s.generate()
	if err != nil {
		s.metrics.ObserveOTP(metrics.OutcomeError)
		return "", err
	}

	key := otpKey(email)
	if err := s.redis.Set(ctx, key, code, s.ttl).Err(); err != nil {
		s.metrics.ObserveOTP(metrics.OutcomeError)
		return "", fmt.Errorf("%w: failed to store otp: %w", ErrStorage, err)
	}

	err = s.sender.Send(ctx, mailer.Message{
		To:      email,
		Subject: otpSubject,
		Body:    "Your OTP code is " + code,
	})
	if err != nil {
		// An undelivered code must not stay verifiable
		s.redis.Del(context.WithoutCancel(ctx), key)
		s.metrics.ObserveOTP(metrics.OutcomeError)
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}

	s.metrics.ObserveOTP(metrics.OutcomeSuccess)
	return code, nil
}

// Verify consumes the stored code. A wrong guess also consumes it.
func (s *otpService) Verify(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if err := requireFields(field{"email", email}, field{"otp", code}); err != nil {
		return err
	}

	stored, err := s.redis.GetDel(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidOTP
	}
	if err != nil {
		return fmt.Errorf("%w: failed to read otp: %w", ErrStorage, err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return ErrInvalidOTP
	}
	return nil
}

func otpKey(email string) string {
	return "otp:" + email
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
