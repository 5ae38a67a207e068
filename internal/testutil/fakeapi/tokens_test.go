package fakeapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/quizstate/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, s *Server, path, token string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.URL()+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestIssuedTokenIsJWTWithExpiry(t *testing.T) {
	s := New()
	defer s.Close()
	uid := s.AddUser(models.Identity{DisplayName: "alice"}, "pw")

	tok := s.IssueToken(uid)
	c := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tok, c)
	require.NoError(t, err)
	exp, err := c.GetExpirationTime()
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(DefaultTokenTTL), exp.Time, time.Minute)

	require.Equal(t, http.StatusOK, get(t, s, "/users/me", tok))
	require.NotEqual(t, tok, s.IssueToken(uid))
}

func TestAuthenticatedRejectsBadTokens(t *testing.T) {
	s := New()
	defer s.Close()
	uid := s.AddUser(models.Identity{DisplayName: "alice"}, "pw")

	require.Equal(t, http.StatusUnauthorized, get(t, s, "/users/me", ""))
	require.Equal(t, http.StatusUnauthorized, get(t, s, "/users/me", "garbage"))
	require.Equal(t, http.StatusUnauthorized, get(t, s, "/users/me", s.IssueTokenTTL(uid, -time.Minute)))

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{UserID: uid}).SignedString([]byte("other-key"))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, get(t, s, "/users/me", forged))
}

func TestDeleteAccountRevokesTokens(t *testing.T) {
	s := New()
	defer s.Close()
	uid := s.AddUser(models.Identity{DisplayName: "alice"}, "pw")
	tok := s.IssueToken(uid)

	req, err := http.NewRequest(http.MethodDelete, s.URL()+"/users/delete-account", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Equal(t, http.StatusUnauthorized, get(t, s, "/users/me", tok))
}
