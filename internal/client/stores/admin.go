package stores

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/quizstate/internal/client/i18n"
	"github.com/dmitrijs2005/quizstate/internal/client/metrics"
	"github.com/dmitrijs2005/quizstate/internal/client/models"
)

// Admin holds the moderation queue, the user list and the editable shop
// catalog. Moderation decisions are not propagated to the Quiz store.
type Admin struct {
	base

	mu      sync.RWMutex
	users   []models.Identity
	items   []models.ShopItem
	pending []models.Quiz
	lastErr string
}

func NewAdmin(d Deps) *Admin {
	a := &Admin{}
	a.init("admin", d)
	return a
}

func (a *Admin) Users() []models.Identity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.users)
}

// AdminUsers returns the loaded users that hold the admin role.
func (a *Admin) AdminUsers() []models.Identity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []models.Identity
	for _, u := range a.users {
		if u.IsAdmin() {
			out = append(out, u)
		}
	}
	return out
}

func (a *Admin) ShopItems() []models.ShopItem {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.items)
}

func (a *Admin) Pending() []models.Quiz {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return cloneQuizzes(a.pending)
}

func (a *Admin) PendingCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.pending)
}

func (a *Admin) Error() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

func (a *Admin) failed(ctx context.Context, op, key string, err error) *ActionError {
	ae := a.fail(ctx, op, key, err)
	a.mu.Lock()
	a.lastErr = ae.Message
	a.mu.Unlock()
	return ae
}

func (a *Admin) FetchUsers(ctx context.Context) error {
	defer a.begin()()

	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return a.failed(ctx, "fetch_users", i18n.ErrUsers, err)
	}
	a.mu.Lock()
	a.users = slices.Clone(users)
	a.lastErr = ""
	a.mu.Unlock()
	return nil
}

// UpdateUser edits another account and replaces it by id in the list.
func (a *Admin) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) (models.Identity, error) {
	updated, err := a.api.UpdateUser(ctx, id, update)
	if err != nil {
		a.record("update_user", metrics.OutcomeRolledBack)
		return models.Identity{}, a.failed(ctx, "update_user", i18n.ErrUpdateUser, err)
	}

	a.mu.Lock()
	if i := slices.IndexFunc(a.users, func(u models.Identity) bool { return u.ID == id }); i >= 0 {
		a.users[i] = *updated
	}
	a.mu.Unlock()

	a.record("update_user", metrics.OutcomeCommitted)
	a.success(i18n.MsgUserUpdated)
	return *updated, nil
}

// FetchShopItems loads the catalog for editing. On failure the previous
// list is kept.
func (a *Admin) FetchShopItems(ctx context.Context) error {
	items, err := a.api.ListShopItems(ctx)
	if err != nil {
		return a.failed(ctx, "fetch_items", i18n.ErrShopItems, err)
	}
	a.mu.Lock()
	a.items = slices.Clone(items)
	a.mu.Unlock()
	return nil
}

// SaveShopItem creates the item when its id is zero and appends it,
// otherwise updates it and replaces it by id.
func (a *Admin) SaveShopItem(ctx context.Context, item models.ShopItem) (models.ShopItem, error) {
	var (
		saved *models.ShopItem
		err   error
	)
	if item.ID == 0 {
		saved, err = a.api.CreateShopItem(ctx, item)
	} else {
		saved, err = a.api.UpdateShopItem(ctx, item)
	}
	if err != nil {
		a.record("save_item", metrics.OutcomeRolledBack)
		return models.ShopItem{}, a.failed(ctx, "save_item", i18n.ErrSaveItem, err)
	}

	a.mu.Lock()
	if item.ID == 0 {
		a.items = append(a.items, *saved)
	} else if i := slices.IndexFunc(a.items, func(it models.ShopItem) bool { return it.ID == item.ID }); i >= 0 {
		a.items[i] = *saved
	}
	a.mu.Unlock()

	a.record("save_item", metrics.OutcomeCommitted)
	a.success(i18n.MsgItemSaved)
	return *saved, nil
}

func (a *Admin) DeleteShopItem(ctx context.Context, id int64) error {
	if err := a.api.DeleteShopItem(ctx, id); err != nil {
		a.record("delete_item", metrics.OutcomeRolledBack)
		return a.failed(ctx, "delete_item", i18n.ErrDeleteItem, err)
	}
	a.mu.Lock()
	a.items = slices.DeleteFunc(a.items, func(it models.ShopItem) bool { return it.ID == id })
	a.mu.Unlock()

	a.record("delete_item", metrics.OutcomeCommitted)
	a.success(i18n.MsgItemDeleted)
	return nil
}

func (a *Admin) FetchPendingQuizzes(ctx context.Context) error {
	defer a.begin()()

	list, err := a.api.ListPendingQuizzes(ctx)
	if err != nil {
		return a.failed(ctx, "fetch_pending", i18n.ErrPending, err)
	}
	a.mu.Lock()
	a.pending = cloneQuizzes(list)
	a.mu.Unlock()
	return nil
}

// VerifyQuiz approves a pending quiz and drops it from the queue once the
// server confirmed.
func (a *Admin) VerifyQuiz(ctx context.Context, id int64) error {
	if err := a.api.VerifyQuiz(ctx, id); err != nil {
		a.record("verify_quiz", metrics.OutcomeRolledBack)
		return a.failed(ctx, "verify_quiz", i18n.ErrVerify, err)
	}
	a.dropPending(id)
	a.record("verify_quiz", metrics.OutcomeCommitted)
	a.success(i18n.MsgQuizVerified)
	return nil
}

// RejectQuiz rejects a pending quiz and drops it from the queue once the
// server confirmed.
func (a *Admin) RejectQuiz(ctx context.Context, id int64) error {
	if err := a.api.RejectQuiz(ctx, id); err != nil {
		a.record("reject_quiz", metrics.OutcomeRolledBack)
		return a.failed(ctx, "reject_quiz", i18n.ErrReject, err)
	}
	a.dropPending(id)
	a.record("reject_quiz", metrics.OutcomeCommitted)
	a.success(i18n.MsgQuizRejected)
	return nil
}

// UpdateQuiz edits a quiz from the moderation view and refetches the queue.
func (a *Admin) UpdateQuiz(ctx context.Context, id int64, draft models.QuizDraft) error {
	if _, err := a.api.UpdateQuiz(ctx, id, draft); err != nil {
		a.record("update_quiz", metrics.OutcomeRolledBack)
		return a.failed(ctx, "update_quiz", i18n.ErrUpdateQuiz, err)
	}
	a.record("update_quiz", metrics.OutcomeCommitted)
	a.success(i18n.MsgQuizUpdated)

	if err := a.FetchPendingQuizzes(ctx); err != nil {
		a.log.Warn(ctx, "pending refetch after update failed", "error", err)
	}
	return nil
}

func (a *Admin) dropPending(id int64) {
	a.mu.Lock()
	a.pending = slices.DeleteFunc(a.pending, func(q models.Quiz) bool { return q.ID == id })
	a.mu.Unlock()
}
