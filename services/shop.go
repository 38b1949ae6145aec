package services

import (
	"errors"

	"wellness-engagement-system/models"
	"wellness-engagement-system/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ShopService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewShopService(db *gorm.DB) *ShopService {
	return &ShopService{DB: db, Progression: NewProgressionService(db)}
}

// Eligibility is the per-caller purchase check, computed server-side on every
// read and re-validated on every purchase — the client only displays it.
type Eligibility struct {
	CanPurchase bool   `json:"can_purchase"`
	Reason      string `json:"reason,omitempty"`
}

func checkEligibility(item *models.RewardItem, user *models.User) error {
	if item.Status != models.RewardItemPublished {
		return ErrNotPurchasable
	}
	if item.Stock != nil && *item.Stock <= 0 {
		return ErrOutOfStock
	}
	if item.LevelRequired > 0 && user.Level < item.LevelRequired {
		return ErrLevelTooLow
	}
	if item.XPRequired > 0 && user.XP < item.XPRequired {
		return ErrXPTooLow
	}
	if user.Credits < item.EffectivePrice() {
		return ErrInsufficientCredits
	}
	return nil
}

func EligibilityFor(item *models.RewardItem, user *models.User) Eligibility {
	if err := checkEligibility(item, user); err != nil {
		return Eligibility{CanPurchase: false, Reason: err.Error()}
	}
	return Eligibility{CanPurchase: true}
}

func (s *ShopService) ListPublished() ([]models.RewardItem, error) {
	var items []models.RewardItem
	err := s.DB.Where("status = ?", models.RewardItemPublished).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *ShopService) GetItem(id string) (*models.RewardItem, error) {
	var item models.RewardItem
	if err := s.DB.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Purchase re-validates every eligibility predicate against current balances
// inside one transaction, then moves credits, stock, and the sold counter
// together. A rejection leaves no state change behind.
func (s *ShopService) Purchase(userID, itemID string) (*models.Purchase, error) {
	var purchase *models.Purchase
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.RewardItem
		err := lockForUpdate(tx).Where("id = ?", itemID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var user models.User
		if err := lockForUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := checkEligibility(&item, &user); err != nil {
			return err
		}

		price := item.EffectivePrice()
		if err := s.Progression.SpendCredits(tx, &user, price); err != nil {
			return err
		}

		if item.Stock != nil {
			remaining := *item.Stock - 1
			item.Stock = &remaining
		}
		item.TotalSold++
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		user.PurchasesMade++
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		achSvc := NewAchievementService(s.DB)
		if err := achSvc.EvaluateWithinTx(tx, &user); err != nil {
			return err
		}

		purchase = &models.Purchase{
			ID:           uuid.NewString(),
			UserID:       userID,
			RewardItemID: itemID,
			PricePaid:    price,
		}
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}

		utils.Logger.Info("reward purchased",
			zap.String("user_id", userID),
			zap.String("item", item.Name),
			zap.Int64("price_paid", price),
			zap.Int64("credits_left", user.Credits),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *ShopService) ListPurchases(userID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.DB.Where("user_id = ?", userID).
		Preload("RewardItem").
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}
