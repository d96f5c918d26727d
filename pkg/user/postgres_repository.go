package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"github.com/tendant/simple-account/pkg/otp"
)

// DBTX is the subset of pgxpool.Pool used by PostgresRepository.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, email, name, password_hash, is_verified,
	verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,
	version, created_at, updated_at`

const (
	defaultUpdateRetries = 5
	defaultUpdateBackoff = 10 * time.Millisecond
	maxUpdateBackoff     = 250 * time.Millisecond
)

// PostgresRepository implements Repository using PostgreSQL. Updates use
// optimistic concurrency on the version column.
type PostgresRepository struct {
	db         DBTX
	maxRetries uint64
	backoff    time.Duration
}

// PostgresOption configures a PostgresRepository.
type PostgresOption func(*PostgresRepository)

// WithUpdateRetries bounds how many times a conflicting update is retried.
func WithUpdateRetries(n uint64, base time.Duration) PostgresOption {
	return func(r *PostgresRepository) {
		r.maxRetries = n
		r.backoff = base
	}
}

// NewPostgresRepository creates a new PostgreSQL user repository
func NewPostgresRepository(db DBTX, opts ...PostgresOption) *PostgresRepository {
	r := &PostgresRepository{
		db:         db,
		maxRetries: defaultUpdateRetries,
		backoff:    defaultUpdateBackoff,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PostgresRepository) Create(ctx context.Context, params CreateParams) (User, error) {
	u := newUser(params, time.Now().UTC())

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, is_verified, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.IsVerified, u.Version, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (User, error) {
	backoff := retry.NewExponential(r.backoff)
	backoff = retry.WithCappedDuration(maxUpdateBackoff, backoff)
	backoff = retry.WithJitterPercent(20, backoff)
	backoff = retry.WithMaxRetries(r.maxRetries, backoff)

	return retry.DoValue(ctx, backoff, func(ctx context.Context) (User, error) {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return User{}, err
		}
		next, err := fn(current)
		if err != nil {
			return User{}, err
		}
		next = settle(current, next, time.Now().UTC())

		verifyCode, verifyExpires := challengeColumns(next.VerifyChallenge)
		resetCode, resetExpires := challengeColumns(next.ResetChallenge)

		tag, err := r.db.Exec(ctx, `
			UPDATE users SET
				name = $3, password_hash = $4, is_verified = $5,
				verify_otp = $6, verify_otp_expires_at = $7,
				reset_otp = $8, reset_otp_expires_at = $9,
				version = $10, updated_at = $11
			WHERE id = $1 AND version = $2`,
			current.ID, current.Version,
			next.Name, next.PasswordHash, next.IsVerified,
			verifyCode, verifyExpires, resetCode, resetExpires,
			next.Version, next.UpdatedAt,
		)
		if err != nil {
			return User{}, fmt.Errorf("failed to update user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return User{}, retry.RetryableError(ErrVersionConflict)
		}
		return next, nil
	})
}

func scanUser(row pgx.Row) (User, error) {
	var (
		u                           User
		verifyCode, resetCode       *string
		verifyExpires, resetExpires *time.Time
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsVerified,
		&verifyCode, &verifyExpires, &resetCode, &resetExpires,
		&u.Version, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to load user: %w", err)
	}
	u.VerifyChallenge = challengeFromColumns(verifyCode, verifyExpires)
	u.ResetChallenge = challengeFromColumns(resetCode, resetExpires)
	return u, nil
}

func challengeColumns(c *otp.Challenge) (*string, *time.Time) {
	if c == nil {
		return nil, nil
	}
	code, expires := c.Code, c.ExpiresAt
	return &code, &expires
}

func challengeFromColumns(code *string, expires *time.Time) *otp.Challenge {
	if code == nil || expires == nil {
		return nil
	}
	return &otp.Challenge{Code: *code, ExpiresAt: expires.UTC()}
}
