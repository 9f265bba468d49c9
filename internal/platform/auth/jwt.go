// Package auth resolves bearer tokens issued by the session service
package auth

import (
	"errors"
	"strings"
	"time"

	perr "feedline/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret means the verifier was built without a signing key
var ErrNoSecret = errors.New("auth: empty signing secret")

// Verifier checks HS256 tokens and yields the subject as user id
type Verifier struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// Option tunes a Verifier
type Option func(*Verifier)

// WithIssuer requires tokens to carry iss
func WithIssuer(iss string) Option { return func(v *Verifier) { v.issuer = iss } }

// WithClock overrides the verification clock
func WithClock(now func() time.Time) Option { return func(v *Verifier) { v.now = now } }

// NewVerifier builds a Verifier for secret
func NewVerifier(secret string, opts ...Option) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}
	v := &Verifier{key: []byte(secret), now: time.Now}
	for _, o := range opts {
		o(v)
	}
	return v, nil
}

// UserID validates raw and returns its subject
// matches httpkit.TokenFunc so it can back a Port directly
func (v *Verifier) UserID(raw string) (string, error) {
	popts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		popts = append(popts, jwt.WithIssuer(v.issuer))
	}

	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return v.key, nil }, popts...)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnauthorized, "invalid bearer token")
	}
	if !tok.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	return claims.Subject, nil
}

// Sign issues a token for userID valid for ttl; used by tests and local tooling
func (v *Verifier) Sign(userID string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.key)
}
