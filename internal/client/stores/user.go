package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/quizstate/internal/client/i18n"
	"github.com/dmitrijs2005/quizstate/internal/client/metrics"
	"github.com/dmitrijs2005/quizstate/internal/client/models"
)

// User mirrors the current user's profile and economy. Economy totals are
// only ever installed from server answers, never computed.
type User struct {
	base
	session *Session

	mu      sync.RWMutex
	profile *models.Identity
	stats   *models.UserStats
	lastErr string
}

func NewUser(d Deps, session *Session) *User {
	u := &User{session: session}
	u.init("user", d)
	session.OnSessionEnd(u.reset)
	return u
}

// Profile returns a copy of the loaded profile. A profile of another user
// than the session's is never returned.
func (u *User) Profile() (models.Identity, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.profile == nil || !u.ownedBySession(u.profile) {
		return models.Identity{}, false
	}
	return *u.profile, true
}

func (u *User) ownedBySession(p *models.Identity) bool {
	id, ok := u.session.Identity()
	return ok && id.ID == p.ID
}

// current returns the loaded profile, dropping it together with the stats
// when it belongs to another user than the session's. Callers hold u.mu.
func (u *User) current() *models.Identity {
	if u.profile != nil && !u.ownedBySession(u.profile) {
		u.profile = nil
		u.stats = nil
	}
	return u.profile
}

// Economy returns the last server-confirmed economy snapshot. Before any
// profile is loaded it falls back to the session identity.
func (u *User) Economy() (models.EconomySnapshot, bool) {
	if p, ok := u.Profile(); ok {
		return p.Economy(), true
	}
	if id, ok := u.session.Identity(); ok {
		return id.Economy(), true
	}
	return models.EconomySnapshot{}, false
}

func (u *User) Stats() (models.UserStats, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.stats == nil {
		return models.UserStats{}, false
	}
	return *u.stats, true
}

// Error returns the message of the last failed action, or "".
func (u *User) Error() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lastErr
}

func (u *User) setErr(msg string) {
	u.mu.Lock()
	u.lastErr = msg
	u.mu.Unlock()
}

func (u *User) failed(ctx context.Context, op, key string, err error) *ActionError {
	ae := u.fail(ctx, op, key, err)
	u.setErr(ae.Message)
	return ae
}

// RefreshProfile replaces the local profile with the server's and pushes
// display and economy fields into the session identity.
func (u *User) RefreshProfile(ctx context.Context) (models.Identity, error) {
	if !u.session.IsAuthenticated() {
		return models.Identity{}, u.failed(ctx, "refresh_profile", i18n.ErrProfile, ErrNotAuthenticated)
	}
	token := u.session.Token()
	defer u.begin()()
	u.setErr("")

	p, err := u.api.GetProfile(ctx)
	if err != nil {
		return models.Identity{}, u.failed(ctx, "refresh_profile", i18n.ErrProfile, err)
	}
	fresh := *p

	u.mu.Lock()
	if u.session.Token() != token {
		u.mu.Unlock()
		u.log.Debug(ctx, "profile answer outlived its session, dropped", "user_id", fresh.ID)
		return models.Identity{}, ErrSessionChanged
	}
	u.profile = &fresh
	u.session.merge(ctx, func(id *models.Identity) {
		id.DisplayName = fresh.DisplayName
		id.Email = fresh.Email
		id.Role = fresh.Role
		id.AvatarURL = fresh.AvatarURL
		*id = id.WithEconomy(fresh.Economy())
	})
	u.mu.Unlock()

	u.log.Debug(ctx, "profile refreshed", "user_id", fresh.ID, "points", fresh.Points)
	return fresh, nil
}

// UpdateProfile sends a partial update. Only the fields named in update are
// taken from the answer, into both the profile and the session identity.
func (u *User) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.Identity, error) {
	if update.Empty() {
		return models.Identity{}, u.failed(ctx, "update_profile", i18n.ErrUpdateProfile, ErrEmptyUpdate)
	}
	if !u.session.IsAuthenticated() {
		return models.Identity{}, u.failed(ctx, "update_profile", i18n.ErrUpdateProfile, ErrNotAuthenticated)
	}
	token := u.session.Token()
	defer u.begin()()
	u.setErr("")

	resp, err := u.api.UpdateProfile(ctx, update)
	if err != nil {
		u.record("update_profile", metrics.OutcomeRolledBack)
		return models.Identity{}, u.failed(ctx, "update_profile", i18n.ErrUpdateProfile, err)
	}

	apply := func(id *models.Identity) {
		if update.DisplayName != nil {
			id.DisplayName = resp.DisplayName
		}
		if update.AvatarURL != nil {
			id.AvatarURL = resp.AvatarURL
		}
	}

	u.mu.Lock()
	if u.session.Token() != token {
		u.mu.Unlock()
		u.log.Debug(ctx, "profile update outlived its session, not applied")
		return models.Identity{}, ErrSessionChanged
	}
	if u.current() == nil {
		if id, ok := u.session.Identity(); ok {
			u.profile = &id
		}
	}
	if u.profile != nil {
		p := *u.profile
		apply(&p)
		u.profile = &p
	}
	u.session.merge(ctx, apply)
	out := *resp
	if u.profile != nil {
		out = *u.profile
	}
	u.mu.Unlock()

	u.record("update_profile", metrics.OutcomeCommitted)
	u.success(i18n.MsgProfileUpdated)
	return out, nil
}

// ApplyWallet installs server-confirmed totals into the profile and the
// session identity. It makes no request. With no profile of the session's
// user loaded the profile is seeded from the session identity.
func (u *User) ApplyWallet(ctx context.Context, totals models.WalletTotals) error {
	if totals.Points < 0 ||
		(totals.Experience != nil && *totals.Experience < 0) ||
		(totals.Level != nil && *totals.Level < 0) {
		return fmt.Errorf("%w: %+v", ErrInvalidWallet, totals)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.current() == nil {
		id, ok := u.session.Identity()
		if !ok {
			return ErrNoProfile
		}
		u.profile = &id
	}

	next := u.profile.Economy()
	next.Points = totals.Points
	if totals.Experience != nil {
		next.Experience = *totals.Experience
	}
	if totals.Level != nil {
		next.Level = *totals.Level
	}

	p := u.profile.WithEconomy(next)
	u.profile = &p
	u.session.merge(ctx, func(id *models.Identity) {
		*id = id.WithEconomy(next)
	})

	u.log.Info(ctx, "wallet applied", "points", next.Points, "experience", next.Experience, "level", next.Level)
	return nil
}

// DeleteAccount deletes the account on the server, then logs out and
// clears the mirror. A failure clears nothing.
func (u *User) DeleteAccount(ctx context.Context) error {
	if !u.session.IsAuthenticated() {
		return u.failed(ctx, "delete_account", i18n.ErrDeleteAccount, ErrNotAuthenticated)
	}
	defer u.begin()()
	u.setErr("")

	if err := u.api.DeleteAccount(ctx); err != nil {
		u.record("delete_account", metrics.OutcomeRolledBack)
		return u.failed(ctx, "delete_account", i18n.ErrDeleteAccount, err)
	}

	u.mu.Lock()
	u.profile = nil
	u.stats = nil
	u.mu.Unlock()
	u.session.Logout(ctx)

	u.record("delete_account", metrics.OutcomeCommitted)
	u.success(i18n.MsgAccountDeleted)
	return nil
}

// FetchStats loads the user's play statistics.
func (u *User) FetchStats(ctx context.Context) (models.UserStats, error) {
	if !u.session.IsAuthenticated() {
		return models.UserStats{}, u.failed(ctx, "fetch_stats", i18n.ErrUserStats, ErrNotAuthenticated)
	}
	defer u.begin()()
	u.setErr("")

	st, err := u.api.GetUserStats(ctx)
	if err != nil {
		return models.UserStats{}, u.failed(ctx, "fetch_stats", i18n.ErrUserStats, err)
	}
	fresh := *st

	u.mu.Lock()
	u.stats = &fresh
	u.mu.Unlock()
	return fresh, nil
}

// reset drops the mirror after the session ended elsewhere.
func (u *User) reset() {
	u.mu.Lock()
	u.profile = nil
	u.stats = nil
	u.lastErr = ""
	u.mu.Unlock()
}
