package services

import (
	"errors"
	"time"

	"wellness-engagement-system/models"
	"wellness-engagement-system/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// SeedCatalog inserts the built-in achievement types if missing (idempotent)
func (s *AchievementService) SeedCatalog() error {
	for i := range models.AchievementSeed {
		seed := models.AchievementSeed[i]
		var count int64
		if err := s.DB.Model(&models.AchievementType{}).Where("code = ?", seed.Code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			seed.ID = uuid.NewString()
			if err := s.DB.Create(&seed).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// counterValue resolves a threshold key against the user's counters
func counterValue(user *models.User, key string) (int64, bool) {
	switch key {
	case "challenges_completed":
		return user.ChallengesCompleted, true
	case "purchases_made":
		return user.PurchasesMade, true
	case "events_attended":
		return user.EventsAttended, true
	case "metrics_logged":
		return user.MetricsLogged, true
	case "level":
		return int64(user.Level), true
	case "event": // special: satisfied by existing (e.g., signup)
		return 1, true
	}
	return 0, false
}

func meetsThreshold(user *models.User, req models.ThresholdMap) bool {
	for key, required := range req {
		value, known := counterValue(user, key)
		if !known || value < required {
			return false
		}
	}
	return true
}

// progressToward reports how far along the user is for display purposes.
// For multi-key thresholds it takes the least-complete counter.
func progressToward(user *models.User, at *models.AchievementType) int64 {
	progress := at.Total
	for key, required := range at.Threshold {
		value, known := counterValue(user, key)
		if !known {
			return 0
		}
		if required <= 0 {
			continue
		}
		scaled := value * at.Total / required
		if scaled < progress {
			progress = scaled
		}
	}
	if progress > at.Total {
		progress = at.Total
	}
	return progress
}

// EvaluateWithinTx upserts the user's achievement rows against the catalog
// and unlocks any whose thresholds are now met. Claimed/unlocked flags are
// one-way: evaluation never regresses them.
func (s *AchievementService) EvaluateWithinTx(tx *gorm.DB, user *models.User) error {
	var catalog []models.AchievementType
	if err := tx.Find(&catalog).Error; err != nil {
		return err
	}

	for i := range catalog {
		at := &catalog[i]

		var ua models.UserAchievement
		err := lockForUpdate(tx).Where("user_id = ? AND achievement_type_id = ?", user.ID, at.ID).First(&ua).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ua = models.UserAchievement{
				ID:                uuid.NewString(),
				UserID:            user.ID,
				AchievementTypeID: at.ID,
			}
		} else if err != nil {
			return err
		}

		ua.Progress = progressToward(user, at)
		if !ua.Unlocked && meetsThreshold(user, at.Threshold) {
			now := time.Now()
			ua.Unlocked = true
			ua.UnlockedAt = &now
			utils.Logger.Info("achievement unlocked",
				zap.String("user_id", user.ID),
				zap.String("code", at.Code),
				zap.String("tier", string(at.Tier)),
			)
		}

		if err := tx.Save(&ua).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListForUser returns the catalog merged with the caller's progress rows.
// Users who have never been evaluated get zero-progress entries.
func (s *AchievementService) ListForUser(userID string) ([]models.UserAchievement, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Evaluation is cheap and idempotent; doing it here keeps reads fresh
	// even if no progression event has fired since the catalog changed.
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.EvaluateWithinTx(tx, &user)
	}); err != nil {
		return nil, err
	}

	var rows []models.UserAchievement
	err := s.DB.Where("user_id = ?", userID).
		Preload("AchievementType").
		Find(&rows).Error
	return rows, err
}

// Claim flips claimed (one-way) and credits the reward exactly once.
// achievementTypeID identifies the catalog entry; the caller's row is found
// from the session user, so claiming someone else's progress is impossible.
func (s *AchievementService) Claim(userID, achievementTypeID string) (*models.UserAchievement, error) {
	var claimed *models.UserAchievement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var ua models.UserAchievement
		err := lockForUpdate(tx).Where("user_id = ? AND achievement_type_id = ?", userID, achievementTypeID).
			Preload("AchievementType").
			First(&ua).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if ua.Claimed {
			return ErrAlreadyClaimed
		}
		if !ua.Unlocked {
			return ErrNotUnlocked
		}

		now := time.Now()
		ua.Claimed = true
		ua.ClaimedAt = &now
		if err := tx.Save(&ua).Error; err != nil {
			return err
		}

		var user models.User
		if err := lockForUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}

		progSvc := NewProgressionService(s.DB)
		if err := progSvc.GrantWithinTx(tx, &user,
			ua.AchievementType.XPReward, ua.AchievementType.CreditReward,
			"achievement_"+ua.AchievementType.Code); err != nil {
			return err
		}

		claimed = &ua
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}
