package entitlement

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.Issue("user-42", true, time.Hour)
	require.NoError(t, err)

	ent, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Entitlement{Subject: "user-42", Pro: true}, ent)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier("test-secret")

	t.Run("expired", func(t *testing.T) {
		token, err := v.Issue("user-42", true, -time.Minute)
		require.NoError(t, err)
		ent, err := v.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
		assert.Equal(t, Free, ent)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewVerifier("other-secret").Issue("user-42", true, time.Hour)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Pro: true}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.Error(t, err)
	})

	t.Run("unsigned token", func(t *testing.T) {
		claims := Claims{Pro: true, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		assert.Error(t, err)
	})
}

func TestDisabledVerifier(t *testing.T) {
	v := NewVerifier("")
	assert.False(t, v.Enabled())

	ent, err := v.Verify("anything")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Equal(t, Free, ent)

	_, err = v.Issue("user", true, time.Hour)
	assert.ErrorIs(t, err, ErrDisabled)
}
