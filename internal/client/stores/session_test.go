package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/quizstate/internal/client/client"
	"github.com/dmitrijs2005/quizstate/internal/client/models"
	"github.com/dmitrijs2005/quizstate/internal/client/repositories/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestSession_LoginInstallsIdentityAndCache(t *testing.T) {
	h := newHarness(t, nil)
	h.srv.AddUser(models.Identity{DisplayName: "alice", Email: "alice@example.com", Points: 40}, "hash")

	id, err := h.session.Login(context.Background(), "alice@example.com", "hash")
	require.NoError(t, err)
	require.Equal(t, "alice", id.DisplayName)

	require.True(t, h.session.IsAuthenticated())
	got, ok := h.session.Identity()
	require.True(t, ok)
	require.Equal(t, id, got)

	snap := h.cache.Snapshot()
	require.Equal(t, h.session.Token(), snap.Token)
	require.Equal(t, id, *snap.Identity)

	require.Equal(t, []string{"success: Logged in"}, messages(h.notes.Drain()))
}

func TestSession_LoginFailureLeavesSessionUnchanged(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice"})
	before, _ := h.session.Identity()
	token := h.session.Token()
	cached := h.cache.Snapshot()

	_, err := h.session.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	var ae *ActionError
	require.True(t, errors.As(err, &ae))
	require.Equal(t, "Invalid credentials", ae.Message)
	require.ErrorIs(t, err, client.ErrUnauthorized)

	after, ok := h.session.Identity()
	require.True(t, ok)
	require.Equal(t, before, after)
	require.Equal(t, token, h.session.Token())
	require.Equal(t, cached, h.cache.Snapshot())
	require.Equal(t, []string{"error: Invalid credentials"}, messages(h.notes.Drain()))
}

func TestSession_LoginFailureWithoutServerMessageUsesGenericText(t *testing.T) {
	h := newHarness(t, nil)
	h.srv.FailNext("POST", "/auth/login", 500, "")

	_, err := h.session.Login(context.Background(), "alice", "hash")
	require.EqualError(t, err, "Login failed")
	require.False(t, h.session.IsAuthenticated())
}

func TestSession_LoginUnavailable(t *testing.T) {
	h := newHarness(t, nil)
	h.srv.Close()

	_, err := h.session.Login(context.Background(), "alice", "hash")
	require.ErrorIs(t, err, client.ErrUnavailable)
	require.EqualError(t, err, "Server unavailable, try again later")
	require.False(t, h.session.IsAuthenticated())
}

func TestSession_CacheFailureRollsBackLogin(t *testing.T) {
	h := newHarness(t, &fakeCache{SaveErr: errors.New("disk full")})
	h.srv.AddUser(models.Identity{DisplayName: "alice"}, "hash")

	_, err := h.session.Login(context.Background(), "alice", "hash")
	require.EqualError(t, err, "Login failed")
	require.False(t, h.session.IsAuthenticated())
	_, ok := h.session.Identity()
	require.False(t, ok)
}

func TestSession_Register(t *testing.T) {
	h := newHarness(t, nil)

	id, err := h.session.Register(context.Background(), "bob", "bob@example.com", "hash")
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", id.Email)
	require.True(t, h.session.IsAuthenticated())

	_, err = h.session.Register(context.Background(), "bob2", "bob@example.com", "hash")
	require.EqualError(t, err, "Email already taken")
	got, _ := h.session.Identity()
	require.Equal(t, "bob", got.DisplayName)
}

func TestSession_LogoutInvariantAndIdempotence(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice", Points: 10})
	_, err := h.user.RefreshProfile(context.Background())
	require.NoError(t, err)

	h.session.Logout(context.Background())

	assert.False(t, h.session.IsAuthenticated())
	assert.Empty(t, h.session.Token())
	_, ok := h.session.Identity()
	assert.False(t, ok)
	assert.True(t, h.cache.Snapshot().Empty())
	_, ok = h.user.Profile()
	assert.False(t, ok, "mirror is dropped with the session")
	require.Equal(t, []string{"info: Logged out"}, messages(h.notes.Drain()))

	h.session.Logout(context.Background())
	assert.False(t, h.session.IsAuthenticated())
	assert.Empty(t, h.notes.Drain())
	assert.Equal(t, 2, h.cache.clears)
}

func TestSession_LogoutIgnoresCacheErrors(t *testing.T) {
	h := newHarness(t, &fakeCache{ClearErr: errors.New("locked")})
	h.login(t, models.Identity{DisplayName: "alice"})

	h.session.Logout(context.Background())
	require.False(t, h.session.IsAuthenticated())
}

func TestSession_RestoreFromCache(t *testing.T) {
	id := models.Identity{ID: 3, DisplayName: "carol", Role: models.RoleAdmin, Points: 5}
	tok := signedToken(t, time.Now().Add(time.Hour))
	cache := &fakeCache{snap: session.Snapshot{Identity: &id, Token: tok}}

	h := newHarness(t, cache)
	require.True(t, h.session.IsAuthenticated())
	require.True(t, h.session.IsAdmin())
	require.Equal(t, tok, h.session.Token())
	require.Zero(t, cache.clears)
}

func TestSession_RestoreDropsExpiredJWT(t *testing.T) {
	id := models.Identity{ID: 3, DisplayName: "carol"}
	cache := &fakeCache{snap: session.Snapshot{Identity: &id, Token: signedToken(t, time.Now().Add(-time.Minute))}}

	h := newHarness(t, cache)
	require.False(t, h.session.IsAuthenticated())
	require.True(t, cache.Snapshot().Empty())
}

func TestSession_RestoreKeepsOpaqueToken(t *testing.T) {
	id := models.Identity{ID: 3, DisplayName: "carol"}
	cache := &fakeCache{snap: session.Snapshot{Identity: &id, Token: "opaque"}}

	h := newHarness(t, cache)
	require.True(t, h.session.IsAuthenticated())
	require.False(t, h.session.IsAdmin())
}

func TestSession_RestoreCorruptCacheStartsLoggedOut(t *testing.T) {
	cache := &fakeCache{LoadErr: session.ErrCorrupt}

	h := newHarness(t, cache)
	require.False(t, h.session.IsAuthenticated())
	require.Equal(t, 1, cache.clears)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, tokenExpired("not-a-jwt", now))
	assert.False(t, tokenExpired(signedToken(t, now.Add(time.Minute)), now))
	assert.True(t, tokenExpired(signedToken(t, now.Add(-time.Minute)), now))
}

func TestSession_RestoreClearsHalfWrittenCache(t *testing.T) {
	cache := &fakeCache{snap: session.Snapshot{Token: "orphan", Partial: true}}

	h := newHarness(t, cache)
	require.False(t, h.session.IsAuthenticated())
	require.Equal(t, 1, cache.clears)
	require.Empty(t, cache.Snapshot().Token)
}

func TestSession_RestoreEmptyCacheClearsNothing(t *testing.T) {
	cache := &fakeCache{}

	h := newHarness(t, cache)
	require.False(t, h.session.IsAuthenticated())
	require.Zero(t, cache.clears)
}

func TestSession_LoginAsOtherUserEndsPreviousSession(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice", Points: 900})
	_, err := h.user.RefreshProfile(context.Background())
	require.NoError(t, err)
	_, err = h.user.FetchStats(context.Background())
	require.NoError(t, err)

	ended := 0
	h.session.OnSessionEnd(func() { ended++ })

	bob := h.login(t, models.Identity{DisplayName: "bob", Points: 300})
	require.Equal(t, 1, ended)

	_, ok := h.user.Profile()
	require.False(t, ok)
	_, ok = h.user.Stats()
	require.False(t, ok)

	eco, ok := h.user.Economy()
	require.True(t, ok)
	require.Equal(t, int64(300), eco.Points)
	require.Equal(t, bob, h.cache.Snapshot().Identity.ID)
}

func TestSession_LoginAsSameUserKeepsMirror(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice", Points: 40})
	_, err := h.user.RefreshProfile(context.Background())
	require.NoError(t, err)

	ended := 0
	h.session.OnSessionEnd(func() { ended++ })

	_, err = h.session.Login(context.Background(), "alice", "secret-hash")
	require.NoError(t, err)
	require.Zero(t, ended)

	p, ok := h.user.Profile()
	require.True(t, ok)
	require.Equal(t, "alice", p.DisplayName)
}
