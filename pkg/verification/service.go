package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/mail"
	"github.com/tendant/simple-account/pkg/metrics"
	"github.com/tendant/simple-account/pkg/otp"
	"github.com/tendant/simple-account/pkg/user"
	"github.com/tendant/simple-account/pkg/utils"
)

// VerificationService issues and confirms email verification codes.
type VerificationService struct {
	repo    user.Repository
	gen     otp.Generator
	mailer  mail.Dispatcher
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
}

// Option configures a VerificationService
type Option func(*VerificationService)

// WithTTL sets how long an issued code stays valid
func WithTTL(ttl time.Duration) Option {
	return func(s *VerificationService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithGenerator replaces the code generator
func WithGenerator(gen otp.Generator) Option {
	return func(s *VerificationService) {
		s.gen = gen
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(s *VerificationService) {
		s.now = now
	}
}

// WithMetrics records operation outcomes on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *VerificationService) {
		s.metrics = m
	}
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(repo user.Repository, mailer mail.Dispatcher, opts ...Option) *VerificationService {
	s := &VerificationService{
		repo:   repo,
		gen:    otp.NewGenerator(),
		mailer: mailer,
		ttl:    otp.DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestEmailVerification issues a fresh code for the user, replacing any
// pending one, and dispatches it by email.
func (s *VerificationService) RequestEmailVerification(ctx context.Context, userID uuid.UUID) (err error) {
	defer func() { s.metrics.ObserveOperation("verify_request", err) }()

	now := s.now().UTC()
	var challenge *otp.Challenge
	u, err := s.repo.Update(ctx, userID, func(current user.User) (user.User, error) {
		if current.IsVerified {
			return current, ErrAlreadyVerified
		}
		c, err := otp.Issue(s.gen, now, s.ttl)
		if err != nil {
			return current, apperrors.InternalWrap(err, "failed to generate OTP")
		}
		current.VerifyChallenge = c
		challenge = c
		return current, nil
	})
	if err != nil {
		return storeError(err, "failed to store verification OTP")
	}

	// the challenge is stored; a rejected dispatch is counted by the dispatcher
	// and the user can ask for a fresh code
	if err := s.mailer.Dispatch(ctx, mail.VerifyOTP(u.Email, u.Name, challenge.Code)); err != nil {
		slog.Error("Failed to dispatch verification email", "user_id", u.ID, "email", utils.MaskEmail(u.Email), "error", err)
	}

	slog.Info("Verification OTP issued", "user_id", u.ID, "email", utils.MaskEmail(u.Email), "expires_at", challenge.ExpiresAt)
	return nil
}

// ConfirmEmailVerification checks code against the pending challenge and, on
// a match within its validity, marks the account verified and consumes the code.
func (s *VerificationService) ConfirmEmailVerification(ctx context.Context, userID uuid.UUID, code string) (err error) {
	defer func() { s.metrics.ObserveOperation("verify_confirm", err) }()

	if utils.AnyBlank(code) {
		return ErrMissingOTP
	}
	code, err = otp.Normalize(code)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	_, err = s.repo.Update(ctx, userID, func(current user.User) (user.User, error) {
		if err := current.VerifyChallenge.Check(code, now); err != nil {
			return current, err
		}
		current.IsVerified = true
		current.VerifyChallenge = nil
		return current, nil
	})
	if err != nil {
		if errors.Is(err, otp.ErrExpired) || errors.Is(err, otp.ErrInvalid) {
			slog.Info("Verification OTP rejected", "user_id", userID, "code", apperrors.GetCode(err))
		}
		return storeError(err, "failed to confirm verification OTP")
	}

	slog.Info("Email verified", "user_id", userID)
	return nil
}

// Status reports whether the user's email is verified.
func (s *VerificationService) Status(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false, storeError(err, "failed to load user")
	}
	return u.IsVerified, nil
}

// storeError passes business errors through and wraps everything else as internal.
func storeError(err error, message string) error {
	if errors.Is(err, user.ErrNotFound) {
		return ErrUserNotFound
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.InternalWrap(err, message)
}
