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

type ChallengeService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{DB: db, Progression: NewProgressionService(db)}
}

func (s *ChallengeService) ListChallenges() ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := s.DB.Order("created_at DESC").Find(&challenges).Error
	return challenges, err
}

func (s *ChallengeService) GetChallenge(id string) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := s.DB.Where("id = ?", id).First(&challenge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// CreateChallenge adds a catalog entry. Catalog rows are immutable once
// created — there is intentionally no update path.
func (s *ChallengeService) CreateChallenge(challenge *models.Challenge) error {
	challenge.ID = uuid.NewString()
	return s.DB.Create(challenge).Error
}

// JoinChallenge enrolls a user. At most one non-terminal enrollment per
// (user, challenge) pair; the catalog row is locked so concurrent joins
// serialize on the duplicate check.
func (s *ChallengeService) JoinChallenge(userID, challengeID string) (*models.UserChallenge, error) {
	var uc models.UserChallenge
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		err := lockForUpdate(tx).Where("id = ?", challengeID).First(&challenge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.UserChallenge{}).
			Where("user_id = ? AND challenge_id = ? AND status = ?", userID, challengeID, models.UserChallengeInProgress).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrAlreadyEnrolled
		}

		now := time.Now()
		uc = models.UserChallenge{
			ID:          uuid.NewString(),
			UserID:      userID,
			ChallengeID: challengeID,
			StartDate:   now,
			EndDate:     now.AddDate(0, 0, challenge.DurationDays),
			Status:      models.UserChallengeInProgress,
		}
		if err := tx.Create(&uc).Error; err != nil {
			return err
		}
		uc.Challenge = &challenge
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

func (s *ChallengeService) ListUserChallenges(userID string) ([]models.UserChallenge, error) {
	var rows []models.UserChallenge
	err := s.DB.Where("user_id = ?", userID).
		Preload("Challenge").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateProgress records a new progress value on an enrollment.
//
// Terminal rows (completed, expired) are never mutated — re-submitting a
// value after completion is a no-op, and a lower value cannot re-open a
// completed challenge. On the in_progress → completed transition the
// catalog reward is credited in the same transaction, guarded by
// RewardGranted so it happens at most once even under racing requests.
func (s *ChallengeService) UpdateProgress(userID, userChallengeID string, newValue int64) (*models.UserChallenge, error) {
	var updated *models.UserChallenge
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var uc models.UserChallenge
		err := lockForUpdate(tx).Where("id = ?", userChallengeID).Preload("Challenge").First(&uc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if uc.UserID != userID {
			return ErrForbidden
		}

		if uc.Terminal() {
			updated = &uc
			return nil
		}

		// Expiry is checked at write time as well as by the sweep job
		if time.Now().After(uc.EndDate) {
			uc.Status = models.UserChallengeExpired
			if err := tx.Save(&uc).Error; err != nil {
				return err
			}
			updated = &uc
			return nil
		}

		goal := uc.Challenge.Goal
		if newValue < 0 {
			newValue = 0
		}
		if newValue > goal {
			newValue = goal
		}
		uc.CurrentValue = newValue

		if newValue >= goal {
			now := time.Now()
			uc.Status = models.UserChallengeCompleted
			uc.CompletedAt = &now

			if !uc.RewardGranted {
				uc.RewardGranted = true

				var user models.User
				if err := lockForUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
					return err
				}
				user.ChallengesCompleted++
				if err := s.Progression.GrantWithinTx(tx, &user,
					uc.Challenge.XPReward, uc.Challenge.CreditReward,
					"challenge_"+uc.ChallengeID); err != nil {
					return err
				}
			}
		}

		if err := tx.Save(&uc).Error; err != nil {
			return err
		}
		updated = &uc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ExpireOverdue marks overdue in-progress enrollments expired. Returns how
// many rows flipped; called from the maintenance scheduler.
func (s *ChallengeService) ExpireOverdue(now time.Time) (int64, error) {
	result := s.DB.Model(&models.UserChallenge{}).
		Where("status = ? AND end_date < ?", models.UserChallengeInProgress, now).
		Update("status", models.UserChallengeExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		utils.Logger.Info("expired overdue challenges", zap.Int64("count", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
