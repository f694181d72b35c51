package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestIssuer(t *testing.T, passcode string) *Issuer {
	t.Helper()
	var hash string
	if passcode != "" {
		var err error
		hash, err = HashPasscode(passcode, bcrypt.MinCost)
		require.NoError(t, err)
	}
	iss, err := NewIssuer(Config{Secret: "test-secret", PasscodeHash: hash, TTL: time.Hour})
	require.NoError(t, err)
	iss.now = func() time.Time { return testNow }
	return iss
}

func TestExchange_GrantsAdmin(t *testing.T) {
	iss := newTestIssuer(t, "letmein")

	token, expires, err := iss.Exchange("letmein")
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), expires)

	claims, err := iss.Authorize(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.True(t, claims.Can(CapEntriesAdmin))
	assert.NoError(t, claims.Require(CapEntriesAdmin))
}

func TestExchange_WrongPasscode(t *testing.T) {
	iss := newTestIssuer(t, "letmein")

	_, _, err := iss.Exchange("guess")
	assert.ErrorIs(t, err, ErrInvalidPasscode)
}

func TestExchange_NoPasscodeConfigured(t *testing.T) {
	iss := newTestIssuer(t, "")

	_, _, err := iss.Exchange("")
	assert.ErrorIs(t, err, ErrInvalidPasscode)
}

func TestAuthorize_RejectsBadTokens(t *testing.T) {
	iss := newTestIssuer(t, "letmein")
	token, _, err := iss.Issue("admin", CapEntriesAdmin)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := iss.Authorize(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		iss.now = func() time.Time { return testNow.Add(2 * time.Hour) }
		defer func() { iss.now = func() time.Time { return testNow } }()
		_, err := iss.Authorize(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewIssuer(Config{Secret: "different"})
		require.NoError(t, err)
		other.now = iss.now
		_, err = other.Authorize(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other, err := NewIssuer(Config{Secret: "test-secret", Issuer: "someone-else"})
		require.NoError(t, err)
		other.now = iss.now
		_, err = other.Authorize(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_RequireWithoutCapability(t *testing.T) {
	iss := newTestIssuer(t, "")
	token, _, err := iss.Issue("reader")
	require.NoError(t, err)

	claims, err := iss.Authorize(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, claims.Can(CapEntriesAdmin))
	assert.ErrorIs(t, claims.Require(CapEntriesAdmin), ErrForbidden)

	var nilClaims *Claims
	assert.False(t, nilClaims.Can(CapEntriesAdmin))
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer(Config{})
	assert.Error(t, err)
}

func TestHashPasscode(t *testing.T) {
	hash, err := HashPasscode("letmein", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("letmein")))

	_, err = HashPasscode("", bcrypt.MinCost)
	assert.Error(t, err)
}
