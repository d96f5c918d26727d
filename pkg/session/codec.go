// Package session issues and verifies stateless signed session tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/tendant/simple-account/pkg/errors"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 7 * 24 * time.Hour

const msgNotAuthorized = "Not authorized. Login again"

// Claims are the registered JWT claims plus the user's revocation epoch at
// issue time.
type Claims struct {
	jwt.RegisteredClaims
	Epoch int64 `json:"epoch"`
}

// UserID parses the subject claim.
func (c Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Token is a signed session token.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Codec signs and verifies HS256 session tokens.
type Codec struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithTTL sets the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithIssuer sets the iss claim written and required on verification.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a codec signing with secret.
func NewCodec(secret string, revoker Revoker, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	c := &Codec{
		secret:  []byte(secret),
		ttl:     DefaultTTL,
		revoker: revoker,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Revoker returns the revocation store consulted by Verify.
func (c *Codec) Revoker() Revoker {
	return c.revoker
}

// Epoch reads the current revocation epoch of userID.
func (c *Codec) Epoch(ctx context.Context, userID uuid.UUID) (int64, error) {
	epoch, err := c.revoker.Epoch(ctx, userID)
	if err != nil {
		return 0, apperrors.InternalWrap(err, "failed to read session epoch")
	}
	return epoch, nil
}

// Issue creates a token for userID valid for the configured TTL, stamped with
// the current epoch.
func (c *Codec) Issue(ctx context.Context, userID uuid.UUID) (Token, error) {
	epoch, err := c.Epoch(ctx, userID)
	if err != nil {
		return Token{}, err
	}
	return c.IssueAt(userID, epoch)
}

// IssueAt creates a token stamped with an epoch read earlier. Callers that
// check credentials read the epoch first, so a revocation that lands while the
// check runs makes the token stale.
func (c *Codec) IssueAt(userID uuid.UUID, epoch int64) (Token, error) {
	now := c.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(c.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Epoch: epoch,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Token{}, apperrors.InternalWrap(err, "failed to sign session token")
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature, time claims and revocation epoch of a token.
// Every rejection is UNAUTHORIZED; a revocation store failure is INTERNAL_ERROR.
func (c *Codec) Verify(ctx context.Context, tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, apperrors.Unauthorized(msgNotAuthorized)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, msgNotAuthorized)
	}

	userID, err := claims.UserID()
	if err != nil {
		return Claims{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, msgNotAuthorized)
	}

	current, err := c.revoker.Epoch(ctx, userID)
	if err != nil {
		return Claims{}, apperrors.InternalWrap(err, "failed to read session epoch")
	}
	if claims.Epoch != current {
		return Claims{}, apperrors.Unauthorized("Session has been revoked. Login again")
	}

	return claims, nil
}

// String is used in log output and never includes the token itself.
func (t Token) String() string {
	return fmt.Sprintf("session token expiring %s", t.ExpiresAt.Format(time.RFC3339))
}
