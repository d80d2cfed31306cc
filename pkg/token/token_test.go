package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, exp, err := m.Issue(42)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	res := m.Verify(raw)
	require.True(t, res.Valid(), "unexpected status %s: %v", res.Status, res.Err)
	assert.Equal(t, uint(42), res.UserID)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	raw, _, err := NewManager("secret-a", time.Hour).Issue(7)
	require.NoError(t, err)

	res := NewManager("secret-b", time.Hour).Verify(raw)
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Zero(t, res.UserID)
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("s", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, _, err := m.Issue(7)
	require.NoError(t, err)

	m.now = time.Now
	res := m.Verify(raw)
	assert.Equal(t, StatusExpired, res.Status)
}

func TestVerifyMalformed(t *testing.T) {
	m := NewManager("s", time.Hour)

	assert.Equal(t, StatusInvalid, m.Verify("").Status)
	assert.Equal(t, StatusInvalid, m.Verify("not.a.jwt").Status)
}

func TestVerifyRejectsNonNumericSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "gator",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	assert.Equal(t, StatusInvalid, NewManager("s", time.Hour).Verify(raw).Status)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "3"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	assert.Equal(t, StatusInvalid, NewManager("s", time.Hour).Verify(raw).Status)
}

func TestMissingSecretIsInternal(t *testing.T) {
	m := NewManager("", time.Hour)

	_, _, err := m.Issue(1)
	assert.Error(t, err)
	assert.Equal(t, StatusInternal, m.Verify("anything").Status)
}
