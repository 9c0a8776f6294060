// Package entitlement decides whether a caller holds a Pro subscription.
//
// Subscriptions live in an external account service, which mints HS256
// tokens carrying a "pro" claim. This package only verifies them; it never
// stores anything.
package entitlement

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrDisabled is returned when no signing secret is configured
var ErrDisabled = errors.New("entitlement verification disabled")

// Entitlement is what a caller may do
type Entitlement struct {
	Subject string
	Pro     bool
}

// Free is the entitlement of anonymous callers
var Free = Entitlement{}

// Claims extends the registered JWT claims with the Pro flag
type Claims struct {
	Pro bool `json:"pro"`
	jwt.RegisteredClaims
}

// Verifier checks entitlement tokens. It is created once at start-up and
// shared by every request.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a verifier for secret. An empty secret disables
// verification and every caller is Free.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Enabled reports whether tokens can be verified
func (v *Verifier) Enabled() bool {
	return len(v.secret) > 0
}

// Verify parses tokenString and returns the entitlement it grants
func (v *Verifier) Verify(tokenString string) (Entitlement, error) {
	if !v.Enabled() {
		return Free, ErrDisabled
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Free, fmt.Errorf("invalid entitlement token: %w", err)
	}

	return Entitlement{Subject: claims.Subject, Pro: claims.Pro}, nil
}

// Issue mints a token for subject. The account service does this in
// production; the service uses it for local development and tests.
func (v *Verifier) Issue(subject string, pro bool, ttl time.Duration) (string, error) {
	if !v.Enabled() {
		return "", ErrDisabled
	}
	now := time.Now()
	claims := Claims{
		Pro: pro,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
