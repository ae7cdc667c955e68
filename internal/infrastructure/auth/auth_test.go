package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.IssueToken(ctx, "v1", "vendor")
	require.NoError(t, err)

	identity, err := m.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{UID: "v1", Kind: "vendor"}, identity)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	token, err := NewJWTManager("one", time.Hour).IssueToken(ctx, "u1", "customer")
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour).VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	claims := Claims{
		Kind: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = NewJWTManager("s", time.Hour).VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewJWTManager("s", time.Hour).VerifyToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
