package models

import "math"

type RewardItemStatus string

const (
	RewardItemDraft     RewardItemStatus = "draft"
	RewardItemPublished RewardItemStatus = "published"
	RewardItemArchived  RewardItemStatus = "archived"
)

// RewardItem is a shop catalog entry purchasable with credits
type RewardItem struct {
	ID                 string           `gorm:"primaryKey;type:uuid" json:"id"`
	Name               string           `gorm:"not null" json:"name"`
	Description        string           `gorm:"type:text" json:"description"`
	Category           string           `gorm:"index" json:"category"` // e.g., "voucher", "gear", "avatar"
	ImageURL           string           `gorm:"type:text" json:"image_url,omitempty"`
	CreditCost         int64            `gorm:"not null" json:"credit_cost"`
	DiscountPercentage int              `gorm:"default:0" json:"discount_percentage"`
	XPRequired         int64            `gorm:"default:0" json:"xp_required"`       // 0 = no gate
	LevelRequired      int              `gorm:"default:0" json:"level_required"`    // 0 = no gate
	Stock              *int64           `json:"stock,omitempty"`                    // nil = untracked
	TotalSold          int64            `gorm:"default:0" json:"total_sold"`
	Status             RewardItemStatus `gorm:"type:varchar(16);default:'draft';index" json:"status"`

	Timestamps
}

// EffectivePrice applies the discount: round(cost * (1 - discount/100))
func (r *RewardItem) EffectivePrice() int64 {
	if r.DiscountPercentage <= 0 {
		return r.CreditCost
	}
	return int64(math.Round(float64(r.CreditCost) * (1 - float64(r.DiscountPercentage)/100)))
}

// Purchase records a completed shop transaction at the price actually paid
type Purchase struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string `gorm:"index;not null" json:"user_id"`
	RewardItemID string `gorm:"index;not null" json:"reward_item_id"`
	PricePaid    int64  `gorm:"not null" json:"price_paid"`

	RewardItem *RewardItem `gorm:"foreignKey:RewardItemID" json:"reward_item,omitempty"`

	Timestamps
}
