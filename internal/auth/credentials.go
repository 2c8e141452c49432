package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Verifier checks a username/password pair and returns the subject name
// tokens should be issued for. A user database can be plugged in behind
// this interface without touching the token issuer or the middleware.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (string, error)
}

// StaticVerifier accepts exactly one configured credential pair, with the
// password held as a bcrypt hash.
type StaticVerifier struct {
	username     string
	passwordHash []byte
}

// NewStaticVerifier builds a verifier from a username and a plain-text
// password, hashing the password once up front.
func NewStaticVerifier(username, password string) (*StaticVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &StaticVerifier{username: username, passwordHash: hash}, nil
}

// NewStaticVerifierHash builds a verifier from a username and an existing
// bcrypt hash (see scripts/genhash.go).
func NewStaticVerifierHash(username, passwordHash string) *StaticVerifier {
	return &StaticVerifier{username: username, passwordHash: []byte(passwordHash)}
}

// Verify returns the username as subject when the pair matches,
// ErrInvalidCredentials otherwise.
func (v *StaticVerifier) Verify(_ context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	if username != v.username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return username, nil
}
