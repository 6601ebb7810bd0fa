package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	tok, err := IssueToken(7, "token-id", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "token-id", claims.ID)
}

func TestParseTokenRejects(t *testing.T) {
	expired, err := IssueToken(7, "token-id", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	noJTI, err := IssueToken(7, "", time.Now().Add(time.Hour))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":  "not.a.token",
		"expired":  expired,
		"no jti":   noJTI,
		"tampered": expired[:len(expired)-2] + "xx",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hash)
	assert.True(t, CheckPassword(hash, "password"))
	assert.False(t, CheckPassword(hash, "Password"))
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, BearerToken(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, BearerToken(r))

	r.Header.Set("Authorization", "bearer abc.def")
	assert.Equal(t, "abc.def", BearerToken(r))
}

func TestFromContextRequiresUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, ok := FromContext(r.Context())
	assert.False(t, ok)

	_, ok = FromContext(WithIdentity(r.Context(), Identity{}))
	assert.False(t, ok)

	id, ok := FromContext(WithIdentity(r.Context(), Identity{UserID: 3, Roles: []string{"user"}}))
	assert.True(t, ok)
	assert.Equal(t, uint(3), id.UserID)
}
