package services

import (
	"errors"
	"math"
	"time"

	"wellness-engagement-system/models"
	"wellness-engagement-system/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Level thresholds grow geometrically: each level-up multiplies the XP
// needed for the next one by LevelGrowthFactor, and the overflow carries
// into the new level.
const (
	BaseNextLevelXP   = 1000
	LevelGrowthFactor = 1.5
)

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// applyLevelUps runs the rollover loop after an XP grant:
// while xp ≥ nextLevelXP { level++; xp -= nextLevelXP; nextLevelXP = round(nextLevelXP * 1.5) }
func applyLevelUps(user *models.User) int {
	levelsGained := 0
	for user.XP >= user.NextLevelXP {
		user.Level++
		user.XP -= user.NextLevelXP
		user.NextLevelXP = int64(math.Round(float64(user.NextLevelXP) * LevelGrowthFactor))
		levelsGained++
	}
	if levelsGained > 0 {
		now := time.Now()
		user.LastLevelUpAt = &now
	}
	return levelsGained
}

// GrantWithinTx credits XP and credits to a user inside an existing
// transaction, applies the level-up rule, saves, and re-evaluates
// achievement unlocks against the new counters.
func (s *ProgressionService) GrantWithinTx(tx *gorm.DB, user *models.User, xp, credits int64, reason string) error {
	user.XP += xp
	user.Credits += credits
	levelsGained := applyLevelUps(user)

	if err := tx.Save(user).Error; err != nil {
		return err
	}

	achSvc := NewAchievementService(s.DB)
	if err := achSvc.EvaluateWithinTx(tx, user); err != nil {
		return err
	}

	utils.Logger.Info("XP granted",
		zap.String("user_id", user.ID),
		zap.Int64("xp", xp),
		zap.Int64("credits", credits),
		zap.Int("level", user.Level),
		zap.Int("levels_gained", levelsGained),
		zap.String("reason", reason),
	)
	return nil
}

// AwardXP is the standalone entry point (admin grants). It opens its own
// transaction and returns the updated user. Amounts must be non-negative —
// a grant can never drain a balance.
func (s *ProgressionService) AwardXP(userID string, xp, credits int64, reason string) (*models.User, error) {
	if xp < 0 || credits < 0 {
		return nil, ErrNegativeAmount
	}

	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockForUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.GrantWithinTx(tx, &user, xp, credits, reason); err != nil {
			return err
		}
		updated = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SpendCredits deducts a non-negative amount inside an existing transaction.
// Rejects the spend (no state change) when the balance is short — credits
// never go negative.
func (s *ProgressionService) SpendCredits(tx *gorm.DB, user *models.User, amount int64) error {
	if user.Credits < amount {
		return ErrInsufficientCredits
	}
	user.Credits -= amount
	return tx.Save(user).Error
}
