package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRF_TokenIsBoundToSession(t *testing.T) {
	csrf, err := NewCSRF("secret")
	require.NoError(t, err)

	token := csrf.Token("session-a")

	assert.Equal(t, token, csrf.Token("session-a"))
	assert.NoError(t, csrf.Verify("session-a", token))
	assert.ErrorIs(t, csrf.Verify("session-b", token), ErrCSRFTokenMismatch)
}

func TestCSRF_MissingToken(t *testing.T) {
	csrf, err := NewCSRF("secret")
	require.NoError(t, err)

	assert.ErrorIs(t, csrf.Verify("session-a", ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, csrf.Verify("", csrf.Token("")), ErrCSRFTokenMissing)
}

func TestCSRF_SecretsDiffer(t *testing.T) {
	a, err := NewCSRF("")
	require.NoError(t, err)
	b, err := NewCSRF("")
	require.NoError(t, err)

	assert.ErrorIs(t, b.Verify("session-a", a.Token("session-a")), ErrCSRFTokenMismatch)
}
