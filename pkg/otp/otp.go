// Package otp issues and checks short-lived six-digit one-time passcodes.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	pqotp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	apperrors "github.com/tendant/simple-account/pkg/errors"
)

const (
	// CodeLength is the number of decimal digits in a code.
	CodeLength = 6
	// DefaultTTL is how long an issued code stays valid.
	DefaultTTL = 10 * time.Minute

	secretSize = 20
	period     = 30
)

var (
	ErrInvalid = apperrors.New(apperrors.ErrCodeOtpInvalid, "Invalid OTP")
	ErrExpired = apperrors.New(apperrors.ErrCodeOtpExpired, "OTP expired")
)

// Challenge is a pending passcode. Holders replace it wholesale and never
// mutate one that has been stored.
type Challenge struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Generator produces six-digit codes.
type Generator interface {
	Generate(now time.Time) (string, error)
}

// TOTPGenerator derives each code from a fresh random TOTP secret, so codes
// are uniformly distributed and independent of one another.
type TOTPGenerator struct{}

func NewGenerator() *TOTPGenerator {
	return &TOTPGenerator{}
}

// Generate implements Generator.
func (g *TOTPGenerator) Generate(now time.Time) (string, error) {
	raw := make([]byte, secretSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random secret: %w", err)
	}
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)

	code, err := totp.GenerateCodeCustom(secret, now.UTC(), totp.ValidateOpts{
		Period:    period,
		Digits:    pqotp.DigitsSix,
		Algorithm: pqotp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate passcode: %w", err)
	}
	return code, nil
}

// Issue creates a challenge valid for ttl from now.
func Issue(gen Generator, now time.Time, ttl time.Duration) (*Challenge, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	code, err := gen.Generate(now)
	if err != nil {
		return nil, err
	}
	return &Challenge{Code: code, ExpiresAt: now.Add(ttl).UTC()}, nil
}

// Normalize trims a submitted code. Anything but exactly six digits cannot
// match a challenge and is ErrInvalid.
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) != CodeLength {
		return "", ErrInvalid
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return "", ErrInvalid
		}
	}
	return code, nil
}

// Check compares a normalized code against c. A nil challenge or a mismatch
// is ErrInvalid; a match past ExpiresAt is ErrExpired. An expiry instant
// equal to now is still accepted.
func (c *Challenge) Check(code string, now time.Time) error {
	if c == nil || c.Code == "" {
		return ErrInvalid
	}
	if subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) != 1 {
		return ErrInvalid
	}
	if now.After(c.ExpiresAt) {
		return ErrExpired
	}
	return nil
}
