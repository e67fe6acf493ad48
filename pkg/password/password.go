// Package password provides bcrypt hashing and verification for user
// passwords.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used when no cost is configured.
const DefaultCost = bcrypt.DefaultCost

// ErrInvalidCost indicates the configured bcrypt cost is out of range.
var ErrInvalidCost = errors.New("bcrypt cost out of range")

// dummyHash is a hash of an unguessable throwaway value. Verifying against
// it keeps login timing uniform when the user does not exist.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("authd-timing-equalizer"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// Hash returns a bcrypt hash of plain at the given cost.
func Hash(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the bcrypt hash.
func Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// VerifyDummy burns one bcrypt comparison against a throwaway hash. Called
// on login for unknown usernames so the response time does not reveal
// whether the account exists.
func VerifyDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}
