package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiktik/helpdesk/internal/domain"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)
	user := &domain.User{ID: "u1", Role: domain.RoleAdmin}

	token, expiresAt, err := tm.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestEachTokenCarriesUniqueID(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)
	user := &domain.User{ID: "u1", Role: domain.RoleUser}

	first, _, err := tm.Issue(user)
	require.NoError(t, err)
	second, _, err := tm.Issue(user)
	require.NoError(t, err)

	firstClaims, err := tm.Parse(first)
	require.NoError(t, err)
	secondClaims, err := tm.Parse(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)
	other := NewTokenManager("different-secret", time.Minute)

	token, _, err := tm.Issue(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := tm.Issue(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.Error(t, err)
}
