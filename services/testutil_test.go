package services

import (
	"testing"

	"wellness-engagement-system/models"
	"wellness-engagement-system/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	utils.InitLogger()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Challenge{},
		&models.UserChallenge{},
		&models.AchievementType{},
		&models.UserAchievement{},
		&models.RewardItem{},
		&models.Purchase{},
		&models.HealthMetric{},
		&models.OrganizationalMetric{},
		&models.Event{},
		&models.EventRegistration{},
		&models.LeaderboardSnapshot{},
	))
	return db
}

// createUser inserts a user with sane progression defaults. Pass id="" for a
// random one; explicit ids let ordering tests control the tiebreak.
func createUser(t *testing.T, db *gorm.DB, id, username string, xp int64) *models.User {
	t.Helper()
	if id == "" {
		id = uuid.NewString()
	}
	user := &models.User{
		ID:          id,
		Username:    username,
		DisplayName: username,
		Role:        models.RoleEmployee,
		Level:       1,
		XP:          xp,
		NextLevelXP: BaseNextLevelXP,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createChallenge(t *testing.T, db *gorm.DB, goal, xpReward, creditReward int64) *models.Challenge {
	t.Helper()
	challenge := &models.Challenge{
		ID:           uuid.NewString(),
		Title:        "Step It Up",
		Category:     "fitness",
		Difficulty:   "easy",
		Type:         models.ChallengeWeekly,
		XPReward:     xpReward,
		CreditReward: creditReward,
		DurationDays: 7,
		Goal:         goal,
		TargetMetric: "steps",
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("id = ?", id).First(&user).Error)
	return &user
}
