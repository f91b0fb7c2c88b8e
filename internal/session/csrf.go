package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

const (
	// CSRFFormField is the form field name carrying the CSRF token.
	CSRFFormField = "csrf_token"
	// CSRFHeader carries the token for requests without a form body.
	CSRFHeader = "X-CSRF-Token"
)

var (
	ErrCSRFTokenMissing  = errors.New("csrf token missing")
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// CSRF issues and verifies tokens bound to a session id. The token is an HMAC
// of the id, so nothing has to be stored beside the session cookie.
type CSRF struct {
	secret []byte
}

// NewCSRF returns a CSRF using secret. An empty secret is replaced by random
// bytes, which invalidates outstanding tokens on restart.
func NewCSRF(secret string) (*CSRF, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	return &CSRF{secret: key}, nil
}

// Token returns the token for sessionID.
func (c *CSRF) Token(sessionID string) string {
	mac := hmac.New(sha256.New, c.secret)
	_, _ = mac.Write([]byte("csrf|"))
	_, _ = mac.Write([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify compares token with the token of sessionID.
func (c *CSRF) Verify(sessionID, token string) error {
	if sessionID == "" || token == "" {
		return ErrCSRFTokenMissing
	}
	if !hmac.Equal([]byte(c.Token(sessionID)), []byte(token)) {
		return ErrCSRFTokenMismatch
	}
	return nil
}
