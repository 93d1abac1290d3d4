package auth

import (
	"crypto/subtle"
	"errors"
)

// ErrUnauthorized is returned when a presented credential does not match
var ErrUnauthorized = errors.New("unauthorized")

// Authorizer decides whether a presented credential grants a privileged action.
type Authorizer interface {
	Authorize(credential string) error
}

// SharedSecret authorizes callers that present a fixed secret.
// An empty secret authorizes nobody.
type SharedSecret struct {
	secret []byte
}

func NewSharedSecret(secret string) *SharedSecret {
	return &SharedSecret{secret: []byte(secret)}
}

func (s *SharedSecret) Authorize(credential string) error {
	if len(s.secret) == 0 || credential == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare(s.secret, []byte(credential)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Deny rejects every credential.
type Deny struct{}

func (Deny) Authorize(string) error { return ErrUnauthorized }
