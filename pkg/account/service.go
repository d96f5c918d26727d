package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/mail"
	"github.com/tendant/simple-account/pkg/metrics"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/session"
	"github.com/tendant/simple-account/pkg/user"
	"github.com/tendant/simple-account/pkg/utils"
)

// RegisterParams holds the registration form.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// AccountService implements register, login and logout.
type AccountService struct {
	repo     user.Repository
	hasher   password.Hasher
	codec    *session.Codec
	mailer   mail.Dispatcher
	validate *validator.Validate
	metrics  *metrics.Metrics

	// decoy is verified against for unknown emails so both login failures cost a hash.
	decoy func() (string, error)
}

// Option configures an AccountService
type Option func(*AccountService)

// WithMetrics records operation outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *AccountService) {
		s.metrics = m
	}
}

// WithValidator replaces the default validator instance.
func WithValidator(v *validator.Validate) Option {
	return func(s *AccountService) {
		s.validate = v
	}
}

// NewAccountService creates a new AccountService
func NewAccountService(repo user.Repository, hasher password.Hasher, codec *session.Codec, mailer mail.Dispatcher, opts ...Option) *AccountService {
	s := &AccountService{
		repo:     repo,
		hasher:   hasher,
		codec:    codec,
		mailer:   mailer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.decoy = sync.OnceValues(func() (string, error) {
		return s.hasher.Hash("decoy-password-for-unknown-users")
	})

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unverified account and opens a session for it. The
// welcome mail is dispatched in the background; a dispatch failure is logged only.
func (s *AccountService) Register(ctx context.Context, params RegisterParams) (tok session.Token, u user.User, err error) {
	defer func() { s.metrics.ObserveOperation("register", err) }()

	name, email := params.Name, params.Email
	utils.TrimAll(&name, &email)
	if utils.AnyBlank(name, email, params.Password) {
		return session.Token{}, user.User{}, ErrMissingDetails
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return session.Token{}, user.User{}, apperrors.InvalidInput("email", "must be a valid address")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return session.Token{}, user.User{}, ErrUserExists
	} else if !errors.Is(err, user.ErrNotFound) {
		return session.Token{}, user.User{}, apperrors.InternalWrap(err, "failed to look up user")
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return session.Token{}, user.User{}, ErrPasswordTooLong
		}
		return session.Token{}, user.User{}, apperrors.InternalWrap(err, "failed to hash password")
	}

	u, err = s.repo.Create(ctx, user.CreateParams{Email: email, Name: name, PasswordHash: hash})
	if err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, user.ErrEmailTaken) {
			return session.Token{}, user.User{}, ErrUserExists
		}
		return session.Token{}, user.User{}, apperrors.InternalWrap(err, "failed to create user")
	}

	tok, err = s.codec.Issue(ctx, u.ID)
	if err != nil {
		return session.Token{}, user.User{}, err
	}

	if err := s.mailer.Dispatch(ctx, mail.Welcome(u.Email, u.Name)); err != nil {
		slog.Warn("Failed to dispatch welcome email", "user_id", u.ID, "email", utils.MaskEmail(u.Email), "error", err)
	}

	slog.Info("User registered", "user_id", u.ID, "email", utils.MaskEmail(u.Email))
	return tok, u, nil
}

// Login checks the credentials and opens a new session. It never changes the
// verification state of the account.
func (s *AccountService) Login(ctx context.Context, email, pw string) (tok session.Token, u user.User, err error) {
	defer func() { s.metrics.ObserveOperation("login", err) }()

	email = strings.TrimSpace(email)
	if utils.AnyBlank(email, pw) {
		return session.Token{}, user.User{}, ErrMissingCredentials
	}

	u, err = s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return session.Token{}, user.User{}, apperrors.InternalWrap(err, "failed to look up user")
		}
		s.burnDecoy(pw)
		slog.Info("Login failed", "email", utils.MaskEmail(email), "reason", "unknown email")
		return session.Token{}, user.User{}, ErrInvalidCredentials
	}

	// The epoch is read before the hash the password is checked against. A
	// reset that commits after this point leaves the new token stale; one that
	// committed before it is visible in the reloaded hash.
	epoch, err := s.codec.Epoch(ctx, u.ID)
	if err != nil {
		return session.Token{}, user.User{}, err
	}
	u, err = s.repo.GetByID(ctx, u.ID)
	if err != nil {
		return session.Token{}, user.User{}, apperrors.InternalWrap(err, "failed to load user")
	}

	ok, err := s.hasher.Verify(pw, u.PasswordHash)
	if err != nil {
		return session.Token{}, user.User{}, apperrors.InternalWrap(err, "failed to verify password")
	}
	if !ok {
		slog.Info("Login failed", "user_id", u.ID, "reason", "password mismatch")
		return session.Token{}, user.User{}, ErrInvalidCredentials
	}

	tok, err = s.codec.IssueAt(u.ID, epoch)
	if err != nil {
		return session.Token{}, user.User{}, err
	}

	slog.Info("User logged in", "user_id", u.ID)
	return tok, u, nil
}

// Logout closes the caller's session. Tokens are stateless, so this only
// records the event; the handler clears the cookie. It always succeeds.
func (s *AccountService) Logout(ctx context.Context) error {
	if userID, ok := session.UserIDFromContext(ctx); ok {
		slog.Info("User logged out", "user_id", userID)
	}
	s.metrics.ObserveOperation("logout", nil)
	return nil
}

func (s *AccountService) burnDecoy(pw string) {
	hash, err := s.decoy()
	if err != nil {
		return
	}
	_, _ = s.hasher.Verify(pw, hash)
}
