package stores

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/quizstate/internal/client/i18n"
	"github.com/dmitrijs2005/quizstate/internal/client/metrics"
	"github.com/dmitrijs2005/quizstate/internal/client/models"
	"github.com/dmitrijs2005/quizstate/internal/client/notify"
)

// PurchaseOutcome is what a purchase reports to the caller. Message is the
// server's text on both success and failure when it sent one.
type PurchaseOutcome struct {
	Success bool
	Message string
}

// Shop holds the shop catalog and the user's inventory and runs purchases.
// At most one purchase is pending per Shop.
type Shop struct {
	base
	user *User

	purchasing atomic.Bool

	mu        sync.RWMutex
	items     []models.ShopItem
	inventory []models.InventoryEntry
}

func NewShop(d Deps, user *User) *Shop {
	s := &Shop{user: user}
	s.init("shop", d)
	user.session.OnSessionEnd(s.dropInventory)
	return s
}

func (s *Shop) Items() []models.ShopItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Shop) Inventory() []models.InventoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.inventory)
}

// Owns reports whether the inventory holds the given shop item.
func (s *Shop) Owns(itemID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.inventory, func(e models.InventoryEntry) bool {
		return e.ShopItemID == itemID
	})
}

// Purchasing reports whether a purchase is pending.
func (s *Shop) Purchasing() bool {
	return s.purchasing.Load()
}

// FetchShopItems replaces the catalog. On failure the catalog is emptied
// rather than left stale.
func (s *Shop) FetchShopItems(ctx context.Context) error {
	defer s.begin()()

	items, err := s.api.ListShopItems(ctx)
	if err != nil {
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		return s.fail(ctx, "fetch_items", i18n.ErrShopItems, err)
	}

	s.mu.Lock()
	s.items = slices.Clone(items)
	s.mu.Unlock()
	return nil
}

// FetchInventory replaces the inventory. On failure the previous inventory
// is kept.
func (s *Shop) FetchInventory(ctx context.Context) error {
	if !s.user.session.IsAuthenticated() {
		return s.fail(ctx, "fetch_inventory", i18n.ErrInventory, ErrNotAuthenticated)
	}
	inv, err := s.api.GetInventory(ctx)
	if err != nil {
		return s.fail(ctx, "fetch_inventory", i18n.ErrInventory, err)
	}

	s.mu.Lock()
	s.inventory = slices.Clone(inv)
	s.mu.Unlock()
	return nil
}

// PurchaseItem buys one item. On success the server's points total is
// installed through the economy mirror and the inventory is refetched; a
// failed refetch is reported separately and does not undo the purchase. On
// failure nothing local changes and the server's reason is returned as is.
func (s *Shop) PurchaseItem(ctx context.Context, itemID int64) PurchaseOutcome {
	if !s.purchasing.CompareAndSwap(false, true) {
		s.record("purchase", metrics.OutcomeRejected)
		msg := s.message(ErrPurchaseInProgress, i18n.ErrPurchase)
		s.send(msg, notify.Error)
		return PurchaseOutcome{Message: msg}
	}
	defer s.purchasing.Store(false)

	if !s.user.session.IsAuthenticated() {
		s.record("purchase", metrics.OutcomeRejected)
		ae := s.fail(ctx, "purchase", i18n.ErrPurchase, ErrNotAuthenticated)
		return PurchaseOutcome{Message: ae.Message}
	}

	token := s.user.session.Token()
	defer s.begin()()

	res, err := s.api.Purchase(ctx, itemID)
	if err != nil {
		s.record("purchase", metrics.OutcomeRolledBack)
		ae := s.fail(ctx, "purchase", i18n.ErrPurchase, err)
		return PurchaseOutcome{Message: ae.Message}
	}

	s.record("purchase", metrics.OutcomeCommitted)
	s.log.Info(ctx, "purchase committed", "item_id", itemID, "points", res.Points)

	// the totals belong to the user who bought; never install them into
	// a session that replaced it meanwhile
	if s.user.session.Token() != token {
		s.log.Warn(ctx, "session changed during purchase, totals not applied", "item_id", itemID)
	} else {
		totals := models.WalletTotals{Points: res.Points, Experience: res.Experience, Level: res.Level}
		if err := s.user.ApplyWallet(ctx, totals); err != nil {
			s.log.Error(ctx, "purchase committed but wallet not applied", "item_id", itemID, "error", err)
		}
		if err := s.refreshInventoryAfterPurchase(ctx); err != nil {
			s.log.Warn(ctx, "inventory refresh after purchase failed", "item_id", itemID, "error", err)
			s.send(s.t(i18n.MsgInventoryStale), notify.Info)
		}
	}

	msg := res.Message
	if msg == "" {
		msg = s.t(i18n.MsgPurchased)
	}
	s.send(msg, notify.Success)
	return PurchaseOutcome{Success: true, Message: msg}
}

// refreshInventoryAfterPurchase is FetchInventory without the error
// notification; the caller reports the stale inventory itself.
func (s *Shop) refreshInventoryAfterPurchase(ctx context.Context) error {
	inv, err := s.api.GetInventory(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.inventory = slices.Clone(inv)
	s.mu.Unlock()
	return nil
}

func (s *Shop) dropInventory() {
	s.mu.Lock()
	s.inventory = nil
	s.mu.Unlock()
}
