// Package token mints and verifies the HS256 access tokens issued by authd.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature or claim
	// validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for structurally valid tokens past their
	// expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Parsed holds the validated claims of an access token.
type Parsed struct {
	Subject   string
	Admin     bool
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Signer mints and verifies access tokens with a shared HS256 secret.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSigner creates a Signer. The issuer claim is always set; some API
// gateways reject tokens without one.
func NewSigner(secret []byte, issuer string, ttl time.Duration) *Signer {
	return &Signer{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue mints a token for the given user.
func (s *Signer) Issue(username string, admin bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   username,
		"admin": admin,
		"iss":   s.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token string and returns its claims.
// A missing or empty "sub" claim is treated as invalid even when the
// signature checks out.
func (s *Signer) Verify(tokenString string) (*Parsed, error) {
	tok, err := jwt.Parse(
		tokenString,
		func(tok *jwt.Token) (interface{}, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	parsed := &Parsed{Subject: sub}
	parsed.Admin, _ = claims["admin"].(bool)
	parsed.Issuer, _ = claims["iss"].(string)
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		parsed.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		parsed.ExpiresAt = exp.Time
	}

	return parsed, nil
}

// GenerateSecret generates a random 256-bit signing secret, base64 encoded.
func GenerateSecret() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
