package auth

import (
	"errors"
	"testing"
	"time"

	perr "feedline/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestNewVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewVerifier("  "); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("err = %v", err)
	}
}

func TestVerifier_RoundTrip(t *testing.T) {
	v, err := NewVerifier("s3cret", WithIssuer("sessions"))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	tok, err := v.Sign("u-1", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	uid, err := v.UserID(tok)
	if err != nil || uid != "u-1" {
		t.Fatalf("UserID = %q, %v", uid, err)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	v, _ := NewVerifier("s3cret", WithClock(fixedClock(now)))
	other, _ := NewVerifier("other", WithClock(fixedClock(now)))
	strict, _ := NewVerifier("s3cret", WithIssuer("sessions"), WithClock(fixedClock(now)))

	expired, _ := v.Sign("u-1", -time.Minute)
	foreign, _ := other.Sign("u-1", time.Hour)
	noSubject, _ := v.Sign("", time.Hour)
	noIssuer, _ := v.Sign("u-1", time.Hour)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u-1"}).SignedString([]byte("s3cret"))

	cases := []struct {
		name string
		v    *Verifier
		tok  string
	}{
		{"garbage", v, "not.a.token"},
		{"expired", v, expired},
		{"wrong key", v, foreign},
		{"empty subject", v, noSubject},
		{"alg none", v, none},
		{"no expiry", v, noExpiry},
		{"wrong issuer", strict, noIssuer},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			uid, err := c.v.UserID(c.tok)
			if err == nil || uid != "" {
				t.Fatalf("UserID = %q, %v", uid, err)
			}
			if perr.CodeOf(err) != perr.ErrorCodeUnauthorized {
				t.Fatalf("code = %v", perr.CodeOf(err))
			}
		})
	}
}
