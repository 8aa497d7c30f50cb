package identity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeguard/dashkit/pkg/identity"
)

func newVerifier(t *testing.T) *identity.Verifier {
	t.Helper()
	v, err := identity.NewVerifier([]byte("test-signing-key-of-decent-length"))
	require.NoError(t, err)
	return v
}

func TestNewVerifier_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := identity.NewVerifier(nil)
	assert.ErrorIs(t, err, identity.ErrMissingSigningKey)
}

func TestVerifier_RoundTrip(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	token, err := v.Issue(identity.SessionClaims{
		Subject:   "user-1",
		Email:     "buyer@example.com",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
	})
	require.NoError(t, err)

	user, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "buyer@example.com", user.Email)
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	token, err := v.Issue(identity.SessionClaims{
		Subject:   "user-1",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, identity.ErrExpiredToken)
}

func TestVerifier_RejectsTamperedToken(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	token, err := v.Issue(identity.SessionClaims{Subject: "user-1"})
	require.NoError(t, err)

	_, err = v.Verify(token + "x")
	assert.ErrorIs(t, err, identity.ErrInvalidSignature)
}

func TestVerifier_RejectsForeignKey(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	other, err := identity.NewVerifier([]byte("a-completely-different-signing-key"))
	require.NoError(t, err)

	token, err := other.Issue(identity.SessionClaims{Subject: "user-1"})
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, identity.ErrInvalidSignature)
}

func TestVerifier_RejectsMalformedToken(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	_, err := v.Verify("not-a-token")
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerifier_RejectsMissingSubject(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)
	token, err := v.Issue(identity.SessionClaims{Email: "nobody@example.com"})
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}
