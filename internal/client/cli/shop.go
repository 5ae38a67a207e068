package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/quizstate/internal/client/models"
)

func describeItem(it models.ShopItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s %dp %s/%s", it.ID, it.Title, it.Price, it.Type, it.Rarity)
	if it.RequiredLevel > 1 {
		fmt.Fprintf(&b, " lvl>=%d", it.RequiredLevel)
	}
	if it.StockQuantity != nil {
		fmt.Fprintf(&b, " stock=%d", *it.StockQuantity)
	}
	if c := it.PresetClass(); c != "" {
		fmt.Fprintf(&b, " style=%s", c)
	}
	return b.String()
}

// Shop lists the catalog, marking the items the user already owns.
func (a *App) Shop(ctx context.Context) error {
	if err := a.shop.FetchShopItems(ctx); err != nil {
		return err
	}
	if a.isLoggedIn() {
		// Ownership marks are cosmetic; a failure is already reported.
		_ = a.shop.FetchInventory(ctx)
	}

	items := a.shop.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "The shop is empty")
		return nil
	}
	for _, it := range items {
		line := describeItem(it)
		switch {
		case a.shop.Owns(it.ID):
			line += " [owned]"
		case !it.IsAvailable:
			line += " [unavailable]"
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// Inventory lists purchased items.
func (a *App) Inventory(ctx context.Context) error {
	if err := a.shop.FetchInventory(ctx); err != nil {
		return err
	}
	inv := a.shop.Inventory()
	if len(inv) == 0 {
		fmt.Fprintln(a.out, "Your inventory is empty")
		return nil
	}
	for _, e := range inv {
		fmt.Fprintf(a.out, "%s (bought %s)\n", describeItem(e.ShopItem), e.PurchasedAt.Format("2006-01-02"))
	}
	return nil
}

// Buy purchases one item. The outcome message is delivered as a
// notification; on success the new balance is printed.
func (a *App) Buy(ctx context.Context, id int64) error {
	out := a.shop.PurchaseItem(ctx, id)
	if !out.Success {
		return fmt.Errorf("purchase: %s", out.Message)
	}
	if eco, ok := a.user.Economy(); ok {
		fmt.Fprintf(a.out, "Balance: %d points\n", eco.Points)
	}
	return nil
}
