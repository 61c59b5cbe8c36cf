package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)

	t.Run("DefaultTTLIsOneDay", func(t *testing.T) {
		assert.Equal(t, 24*time.Hour, tm.TTL())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		token, exp, err := tm.GenerateToken("a@x.com")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 5*time.Second)

		claims, err := tm.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Email)
		require.NotNil(t, claims.IssuedAt)
		require.NotNil(t, claims.ExpiresAt)
	})

	t.Run("RejectsExpiredToken", func(t *testing.T) {
		issued := NewTokenManager("test-secret", time.Hour)
		issued.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := issued.GenerateToken("a@x.com")
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("AcceptsTokenJustBeforeExpiry", func(t *testing.T) {
		base := time.Now()
		clock := NewTokenManager("test-secret", time.Hour)
		clock.now = func() time.Time { return base }
		token, _, err := clock.GenerateToken("a@x.com")
		require.NoError(t, err)

		clock.now = func() time.Time { return base.Add(59 * time.Minute) }
		_, err = clock.ParseToken(token)
		assert.NoError(t, err)

		clock.now = func() time.Time { return base.Add(61 * time.Minute) }
		_, err = clock.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("RejectsTamperedSignature", func(t *testing.T) {
		token, _, err := tm.GenerateToken("a@x.com")
		require.NoError(t, err)

		_, err = tm.ParseToken(tamper(token))
		assert.Error(t, err)
	})

	t.Run("RejectsOtherSecret", func(t *testing.T) {
		other := NewTokenManager("rotated-secret", 0)
		token, _, err := other.GenerateToken("a@x.com")
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("RejectsUnsignedToken", func(t *testing.T) {
		claims := &Claims{
			Email: "a@x.com",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("RejectsTokenWithoutExpiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: "a@x.com"}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("RejectsTokenWithoutEmail", func(t *testing.T) {
		token, _, err := tm.GenerateToken("")
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-token")
		assert.Error(t, err)
	})
}

// tamper flips one character in the middle of the signature segment.
func tamper(token string) string {
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	i := len(sig) / 2
	if sig[i] == 'A' {
		sig[i] = 'B'
	} else {
		sig[i] = 'A'
	}
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}
