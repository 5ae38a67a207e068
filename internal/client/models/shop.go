package models

import (
	"strings"
	"time"
)

type ItemRarity int

const (
	RarityCommon ItemRarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r ItemRarity) String() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return "Unknown"
	}
}

type ItemType int

const (
	ItemAvatarFrame ItemType = iota
	ItemBackground
	ItemBadge
	ItemTicket
)

func (t ItemType) String() string {
	switch t {
	case ItemAvatarFrame:
		return "AvatarFrame"
	case ItemBackground:
		return "Background"
	case ItemBadge:
		return "Badge"
	case ItemTicket:
		return "Ticket"
	default:
		return "Unknown"
	}
}

const presetPrefix = "preset:"

type ShopItem struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Price         int64      `json:"price"`
	Type          ItemType   `json:"type"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	Rarity        ItemRarity `json:"rarity"`
	RequiredLevel int        `json:"requiredLevel"`
	IsAvailable   bool       `json:"isAvailable"`
	StockQuantity *int       `json:"stockQuantity,omitempty"`
}

// PresetClass returns the style class for "preset:<name>" image references,
// or "" for anything else.
func (s ShopItem) PresetClass() string {
	name, ok := strings.CutPrefix(s.ImageURL, presetPrefix)
	if !ok || name == "" {
		return ""
	}
	return "item-preset-" + name
}

// InventoryEntry links a purchased shop item to its purchase time.
type InventoryEntry struct {
	ID          int64     `json:"id"`
	ShopItemID  int64     `json:"shopItemId"`
	ShopItem    ShopItem  `json:"shopItem"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

// PurchaseResult is the server's answer to a successful purchase: a message
// and the buyer's new authoritative points total.
type PurchaseResult struct {
	Message    string `json:"message"`
	Points     int64  `json:"points"`
	Experience *int64 `json:"experience,omitempty"`
	Level      *int   `json:"level,omitempty"`
}
