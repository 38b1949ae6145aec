package models

import "time"

type AchievementTier string

const (
	TierBronze   AchievementTier = "bronze"
	TierSilver   AchievementTier = "silver"
	TierGold     AchievementTier = "gold"
	TierPlatinum AchievementTier = "platinum"
	TierDiamond  AchievementTier = "diamond"
)

// ThresholdMap maps a user counter to the value required for unlock,
// e.g., {"challenges_completed": 10} or {"level": 25}
type ThresholdMap map[string]int64

// AchievementType: static catalog (seeded at boot, extendable by admins)
type AchievementType struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	Code         string          `gorm:"uniqueIndex;not null" json:"code"` // e.g., "FIRST_CHALLENGE"
	Title        string          `gorm:"not null" json:"title"`
	Description  string          `json:"description"`
	IconURL      string          `gorm:"type:text" json:"icon_url,omitempty"`
	Tier         AchievementTier `gorm:"type:varchar(16);default:'bronze'" json:"tier"`
	Threshold    ThresholdMap    `gorm:"serializer:json" json:"threshold"`
	Total        int64           `gorm:"not null" json:"total"` // progress target shown to the user
	XPReward     int64           `gorm:"default:0" json:"xp_reward"`
	CreditReward int64           `gorm:"default:0" json:"credit_reward"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement tracks per-user progress against a catalog entry.
// Invariants: claimed ⇒ unlocked; claimed is one-way.
type UserAchievement struct {
	ID                string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID            string     `gorm:"index:idx_user_achievement,unique;not null" json:"user_id"`
	AchievementTypeID string     `gorm:"index:idx_user_achievement,unique;not null" json:"achievement_type_id"`
	Progress          int64      `gorm:"default:0" json:"progress"`
	Unlocked          bool       `gorm:"default:false" json:"unlocked"`
	UnlockedAt        *time.Time `json:"unlocked_at,omitempty"`
	Claimed           bool       `gorm:"default:false" json:"claimed"`
	ClaimedAt         *time.Time `json:"claimed_at,omitempty"`

	AchievementType *AchievementType `gorm:"foreignKey:AchievementTypeID" json:"achievement_type,omitempty"`

	Timestamps
}

// Seed catalog, in the spirit of the original badge set
var AchievementSeed = []AchievementType{
	{
		Code: "WELCOME", Title: "Welcome Aboard!", Description: "Joined the wellness program",
		Tier: TierBronze, Threshold: ThresholdMap{"event": 1}, Total: 1,
		XPReward: 50, CreditReward: 10,
	},
	{
		Code: "FIRST_CHALLENGE", Title: "First Steps", Description: "Completed your first challenge",
		Tier: TierBronze, Threshold: ThresholdMap{"challenges_completed": 1}, Total: 1,
		XPReward: 100, CreditReward: 25,
	},
	{
		Code: "CHALLENGE_10", Title: "Habit Builder", Description: "Completed 10 challenges",
		Tier: TierSilver, Threshold: ThresholdMap{"challenges_completed": 10}, Total: 10,
		XPReward: 500, CreditReward: 100,
	},
	{
		Code: "CHALLENGE_50", Title: "Wellness Warrior", Description: "Completed 50 challenges",
		Tier: TierGold, Threshold: ThresholdMap{"challenges_completed": 50}, Total: 50,
		XPReward: 2000, CreditReward: 500,
	},
	{
		Code: "LEVEL_10", Title: "Rising Star", Description: "Reached level 10",
		Tier: TierSilver, Threshold: ThresholdMap{"level": 10}, Total: 10,
		XPReward: 750, CreditReward: 150,
	},
	{
		Code: "LEVEL_25", Title: "Peak Performer", Description: "Reached level 25",
		Tier: TierPlatinum, Threshold: ThresholdMap{"level": 25}, Total: 25,
		XPReward: 3000, CreditReward: 750,
	},
	{
		Code: "EVENTS_5", Title: "Team Player", Description: "Attended 5 wellness events",
		Tier: TierSilver, Threshold: ThresholdMap{"events_attended": 5}, Total: 5,
		XPReward: 400, CreditReward: 80,
	},
	{
		Code: "METRICS_30", Title: "Self Tracker", Description: "Logged 30 health metrics",
		Tier: TierGold, Threshold: ThresholdMap{"metrics_logged": 30}, Total: 30,
		XPReward: 1000, CreditReward: 200,
	},
}
