// Package auth exchanges the admin passcode for short-lived capability
// tokens and checks those tokens on privileged operations.
package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CapEntriesAdmin allows editing, deleting and bulk-clearing entries.
const CapEntriesAdmin = "entries:admin"

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 12 * time.Hour

var (
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrForbidden       = errors.New("token lacks the required capability")
)

// Claims is the token payload.
type Claims struct {
	jwt.RegisteredClaims
	Scopes []string `json:"scopes"`
}

// Can reports whether the token grants capability.
func (c *Claims) Can(capability string) bool {
	return c != nil && slices.Contains(c.Scopes, capability)
}

// Require returns ErrForbidden unless the token grants capability.
func (c *Claims) Require(capability string) error {
	if !c.Can(capability) {
		return fmt.Errorf("%w: %s", ErrForbidden, capability)
	}
	return nil
}

// Authorizer validates tokens presented by callers.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*Claims, error)
}

// Config configures an Issuer.
type Config struct {
	Secret       string
	PasscodeHash string
	Issuer       string
	TTL          time.Duration
}

// Issuer signs and verifies HS256 capability tokens.
type Issuer struct {
	secret       []byte
	passcodeHash []byte
	issuer       string
	ttl          time.Duration
	now          func() time.Time
}

var _ Authorizer = (*Issuer)(nil)

// NewIssuer requires a signing secret. An empty passcode hash disables
// Exchange but still allows verifying tokens.
func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "tutorlog"
	}
	return &Issuer{
		secret:       []byte(cfg.Secret),
		passcodeHash: []byte(cfg.PasscodeHash),
		issuer:       cfg.Issuer,
		ttl:          cfg.TTL,
		now:          time.Now,
	}, nil
}

// HashPasscode produces the bcrypt hash stored in configuration.
// cost <= 0 uses bcrypt.DefaultCost.
func HashPasscode(passcode string, cost int) (string, error) {
	if passcode == "" {
		return "", errors.New("passcode must not be empty")
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), cost)
	if err != nil {
		return "", fmt.Errorf("hashing passcode: %w", err)
	}
	return string(hash), nil
}

// Exchange checks passcode against the configured hash and issues an admin
// token.
func (i *Issuer) Exchange(passcode string) (string, time.Time, error) {
	if len(i.passcodeHash) == 0 {
		return "", time.Time{}, fmt.Errorf("%w: no admin passcode configured", ErrInvalidPasscode)
	}
	if err := bcrypt.CompareHashAndPassword(i.passcodeHash, []byte(passcode)); err != nil {
		return "", time.Time{}, ErrInvalidPasscode
	}
	return i.Issue("admin", CapEntriesAdmin)
}

// Issue signs a token for subject carrying capabilities.
func (i *Issuer) Issue(subject string, capabilities ...string) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Scopes: capabilities,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expires, nil
}

// Authorize verifies the signature, issuer and expiry of token.
func (i *Issuer) Authorize(_ context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
