package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-for-token-tests")

func TestIssueAndVerify(t *testing.T) {
	signer := NewSigner(testSecret, "authd", 30*time.Minute)

	signed, err := signer.Issue("alice", true)
	require.NoError(t, err)

	parsed, err := signer.Verify(signed)
	require.NoError(t, err)

	assert.Equal(t, "alice", parsed.Subject)
	assert.True(t, parsed.Admin)
	assert.Equal(t, "authd", parsed.Issuer)
	assert.WithinDuration(t, time.Now(), parsed.IssuedAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), parsed.ExpiresAt, 5*time.Second)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer := NewSigner(testSecret, "authd", 30*time.Minute)
	other := NewSigner([]byte("a-different-secret"), "authd", 30*time.Minute)

	signed, err := other.Issue("alice", false)
	require.NoError(t, err)

	_, err = signer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	signer := NewSigner(testSecret, "authd", -1*time.Minute)

	signed, err := signer.Issue("alice", false)
	require.NoError(t, err)

	_, err = signer.Verify(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	// Sign a token with the right secret but no "sub" claim.
	claims := jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	signer := NewSigner(testSecret, "authd", 30*time.Minute)
	_, err = signer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	// "none" algorithm tokens must never pass.
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	signer := NewSigner(testSecret, "authd", 30*time.Minute)
	_, err = signer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer := NewSigner(testSecret, "authd", 30*time.Minute)
	_, err := signer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateSecret(t *testing.T) {
	first, err := GenerateSecret()
	require.NoError(t, err)
	second, err := GenerateSecret()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	raw, err := base64.StdEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}
