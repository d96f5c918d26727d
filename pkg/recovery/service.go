package recovery

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/mail"
	"github.com/tendant/simple-account/pkg/metrics"
	"github.com/tendant/simple-account/pkg/otp"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/session"
	"github.com/tendant/simple-account/pkg/user"
	"github.com/tendant/simple-account/pkg/utils"
)

// RecoveryService issues password reset codes and applies resets.
type RecoveryService struct {
	repo    user.Repository
	hasher  password.Hasher
	revoker session.Revoker
	gen     otp.Generator
	mailer  mail.Dispatcher
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics

	maskUnknownEmail bool
}

// Option configures a RecoveryService
type Option func(*RecoveryService)

// WithTTL sets how long an issued code stays valid
func WithTTL(ttl time.Duration) Option {
	return func(s *RecoveryService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithGenerator replaces the code generator
func WithGenerator(gen otp.Generator) Option {
	return func(s *RecoveryService) {
		s.gen = gen
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(s *RecoveryService) {
		s.now = now
	}
}

// WithMetrics records operation outcomes on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *RecoveryService) {
		s.metrics = m
	}
}

// WithMaskUnknownEmail makes requests for unknown emails look successful and
// reports confirmations for them as an invalid code.
func WithMaskUnknownEmail(mask bool) Option {
	return func(s *RecoveryService) {
		s.maskUnknownEmail = mask
	}
}

// NewRecoveryService creates a new RecoveryService
func NewRecoveryService(repo user.Repository, hasher password.Hasher, revoker session.Revoker, mailer mail.Dispatcher, opts ...Option) *RecoveryService {
	s := &RecoveryService{
		repo:    repo,
		hasher:  hasher,
		revoker: revoker,
		gen:     otp.NewGenerator(),
		mailer:  mailer,
		ttl:     otp.DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestPasswordReset issues a fresh reset code for the account registered
// under email, replacing any pending one, and dispatches it by email.
func (s *RecoveryService) RequestPasswordReset(ctx context.Context, email string) (err error) {
	defer func() { s.metrics.ObserveOperation("reset_request", err) }()

	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) && s.maskUnknownEmail {
			slog.Info("Password reset requested for unknown email", "email", utils.MaskEmail(email))
			return nil
		}
		return storeError(err, "failed to look up user")
	}

	now := s.now().UTC()
	var challenge *otp.Challenge
	u, err = s.repo.Update(ctx, u.ID, func(current user.User) (user.User, error) {
		c, err := otp.Issue(s.gen, now, s.ttl)
		if err != nil {
			return current, apperrors.InternalWrap(err, "failed to generate OTP")
		}
		current.ResetChallenge = c
		challenge = c
		return current, nil
	})
	if err != nil {
		return storeError(err, "failed to store reset OTP")
	}

	// the challenge is stored; a rejected dispatch is counted by the dispatcher
	// and the user can ask for a fresh code
	if err := s.mailer.Dispatch(ctx, mail.ResetOTP(u.Email, u.Name, challenge.Code)); err != nil {
		slog.Error("Failed to dispatch reset email", "user_id", u.ID, "email", utils.MaskEmail(u.Email), "error", err)
	}

	slog.Info("Password reset OTP issued", "user_id", u.ID, "email", utils.MaskEmail(u.Email), "expires_at", challenge.ExpiresAt)
	return nil
}

// ResetPassword checks code against the pending reset challenge and, on a
// match within its validity, replaces the password hash, consumes the code
// and revokes all outstanding sessions of the account.
func (s *RecoveryService) ResetPassword(ctx context.Context, email, code, newPassword string) (err error) {
	defer func() { s.metrics.ObserveOperation("reset_confirm", err) }()

	utils.TrimAll(&email)
	if utils.AnyBlank(email, code, newPassword) {
		return ErrMissingFields
	}
	code, err = otp.Normalize(code)
	if err != nil {
		return err
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) && s.maskUnknownEmail {
			return otp.ErrInvalid
		}
		return storeError(err, "failed to look up user")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		return apperrors.InternalWrap(err, "failed to hash password")
	}

	now := s.now().UTC()
	_, err = s.repo.Update(ctx, u.ID, func(current user.User) (user.User, error) {
		if err := current.ResetChallenge.Check(code, now); err != nil {
			return current, err
		}
		current.PasswordHash = hash
		current.ResetChallenge = nil
		return current, nil
	})
	if err != nil {
		if errors.Is(err, otp.ErrExpired) || errors.Is(err, otp.ErrInvalid) {
			slog.Info("Password reset OTP rejected", "user_id", u.ID, "code", apperrors.GetCode(err))
		}
		return storeError(err, "failed to reset password")
	}

	epoch, err := s.revoker.RevokeAll(ctx, u.ID)
	if err != nil {
		return apperrors.InternalWrap(err, "password changed but failed to revoke sessions")
	}

	slog.Info("Password reset", "user_id", u.ID, "session_epoch", epoch)
	return nil
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
