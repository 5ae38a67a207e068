package stores

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/quizstate/internal/client/client"
	"github.com/dmitrijs2005/quizstate/internal/client/i18n"
	"github.com/dmitrijs2005/quizstate/internal/client/metrics"
	"github.com/dmitrijs2005/quizstate/internal/client/models"
	"github.com/dmitrijs2005/quizstate/internal/client/notify"
	"github.com/dmitrijs2005/quizstate/internal/client/repositories/session"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCache persists the session across restarts.
type SessionCache interface {
	Load(ctx context.Context) (session.Snapshot, error)
	Save(ctx context.Context, id models.Identity, token string) error
	SaveIdentity(ctx context.Context, id models.Identity) error
	Clear(ctx context.Context) error
}

var _ SessionCache = (*session.Repository)(nil)

// Session is the source of truth for who is logged in. Identity and token
// are always set together.
type Session struct {
	base
	cache SessionCache
	now   func() time.Time

	// writeMu orders cache writes with the in-memory install so both agree
	// on the last writer.
	writeMu sync.Mutex

	mu       sync.RWMutex
	identity *models.Identity
	token    string
	onEnd    []func()
}

// NewSession builds the store and restores a cached session. A cached
// credential that is a JWT past its expiry is discarded together with the
// cache entries. cache may be nil, in which case nothing is persisted.
func NewSession(ctx context.Context, d Deps, cache SessionCache) *Session {
	s := &Session{cache: cache, now: time.Now}
	s.init("session", d)
	s.restore(ctx)
	return s
}

func (s *Session) restore(ctx context.Context) {
	if s.cache == nil {
		return
	}
	snap, err := s.cache.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "session cache unreadable, starting logged out", "error", err)
		s.clearCache(ctx)
		return
	}
	if snap.Empty() {
		if snap.Partial {
			s.log.Warn(ctx, "session cache half-written, discarding")
			s.clearCache(ctx)
		}
		return
	}
	if tokenExpired(snap.Token, s.now()) {
		s.log.Info(ctx, "cached credential expired", "user_id", snap.Identity.ID)
		s.clearCache(ctx)
		return
	}

	s.mu.Lock()
	s.identity = snap.Identity
	s.token = snap.Token
	s.mu.Unlock()
	s.log.Debug(ctx, "session restored", "user_id", snap.Identity.ID)
}

// tokenExpired reports whether token is a JWT whose exp claim is in the
// past. Opaque tokens never expire locally; the server decides.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// Token implements client.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

var _ client.TokenSource = (*Session)(nil)

// IsAuthenticated is derived from the credential on every call.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session) IsAdmin() bool {
	id, ok := s.Identity()
	return ok && id.IsAdmin()
}

// Identity returns a copy of the current identity.
func (s *Session) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Login authenticates and installs the identity and credential into memory
// and the cache. On failure the current session is left as it was.
func (s *Session) Login(ctx context.Context, identifier, credentialHash string) (models.Identity, error) {
	defer s.begin()()

	resp, err := s.api.Login(ctx, models.Credentials{Identifier: identifier, Password: credentialHash})
	if err != nil {
		s.record("login", metrics.OutcomeRolledBack)
		return models.Identity{}, s.fail(ctx, "login", i18n.ErrLogin, err)
	}
	return s.install(ctx, "login", i18n.ErrLogin, i18n.MsgLoggedIn, resp)
}

// Register creates the account and logs in with it, with the same contract
// as Login.
func (s *Session) Register(ctx context.Context, displayName, email, credentialHash string) (models.Identity, error) {
	defer s.begin()()

	resp, err := s.api.Register(ctx, models.Registration{
		DisplayName: displayName,
		Email:       email,
		Password:    credentialHash,
	})
	if err != nil {
		s.record("register", metrics.OutcomeRolledBack)
		return models.Identity{}, s.fail(ctx, "register", i18n.ErrRegister, err)
	}
	return s.install(ctx, "register", i18n.ErrRegister, i18n.MsgRegistered, resp)
}

func (s *Session) install(ctx context.Context, op, errKey, okKey string, resp *models.AuthResponse) (models.Identity, error) {
	if resp == nil || resp.Token == "" {
		s.record(op, metrics.OutcomeRolledBack)
		return models.Identity{}, s.fail(ctx, op, errKey, fmt.Errorf("%w: missing token", client.ErrBadResponse))
	}
	id := resp.User

	switched, hooks, err := s.replace(ctx, id, resp.Token)
	if err != nil {
		s.record(op, metrics.OutcomeRolledBack)
		return models.Identity{}, s.fail(ctx, op, errKey, fmt.Errorf("persist session: %w", err))
	}

	// another user's session was replaced: drop what the stores hold for it
	if switched {
		for _, h := range hooks {
			h()
		}
	}

	s.record(op, metrics.OutcomeCommitted)
	s.log.Info(ctx, "session started", "op", op, "user_id", id.ID, "switched", switched)
	s.success(okKey)
	return id, nil
}

// replace persists and installs id and token. switched reports whether a
// session of a different user was active before.
func (s *Session) replace(ctx context.Context, id models.Identity, token string) (switched bool, hooks []func(), err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.cache != nil {
		if err := s.cache.Save(ctx, id, token); err != nil {
			return false, nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switched = s.identity != nil && s.identity.ID != id.ID
	s.identity = &id
	s.token = token
	return switched, s.onEnd, nil
}

// Logout clears the session and the cache. It is idempotent and never
// fails; a cache error is only logged.
func (s *Session) Logout(ctx context.Context) {
	s.writeMu.Lock()
	s.mu.Lock()
	wasActive := s.token != ""
	s.identity = nil
	s.token = ""
	hooks := s.onEnd
	s.mu.Unlock()
	s.clearCache(ctx)
	s.writeMu.Unlock()

	// hooks run unlocked: they take their own store locks
	for _, h := range hooks {
		h()
	}

	if wasActive {
		s.log.Info(ctx, "session ended")
		s.send(s.t(i18n.MsgLoggedOut), notify.Info)
	}
}

// OnSessionEnd registers fn to run after every Logout and after a login
// that replaces another user's session.
func (s *Session) OnSessionEnd(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = append(s.onEnd, fn)
}

func (s *Session) clearCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear session cache", "error", err)
	}
}

// merge applies fn to the identity of an active session and persists the
// result. It reports false when no session is active.
func (s *Session) merge(ctx context.Context, fn func(id *models.Identity)) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.identity == nil || s.token == "" {
		s.mu.Unlock()
		return false
	}
	id := *s.identity
	fn(&id)
	s.identity = &id
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.SaveIdentity(ctx, id); err != nil {
			s.log.Warn(ctx, "failed to persist identity", "error", err)
		}
	}
	return true
}
