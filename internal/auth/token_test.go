package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("customer@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := issuer.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "customer@example.com", subject)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := issuer.Issue("customer@example.com")
	require.NoError(t, err)

	_, err = other.Subject(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue("customer@example.com")
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }

	_, err = issuer.Subject(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	_, err := issuer.Subject("not-a-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_EmptySubject(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("")
	require.NoError(t, err)

	_, err = issuer.Subject(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
