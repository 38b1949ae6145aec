package models

import "time"

type ChallengeType string

const (
	ChallengeDaily   ChallengeType = "daily"
	ChallengeWeekly  ChallengeType = "weekly"
	ChallengeMonthly ChallengeType = "monthly"
	ChallengeOneTime ChallengeType = "one-time"
)

// Challenge is an admin-authored catalog entry. Immutable once created —
// there is no update endpoint, only create + soft delete.
type Challenge struct {
	ID           string        `gorm:"primaryKey;type:uuid" json:"id"`
	Title        string        `gorm:"not null" json:"title"`
	Description  string        `gorm:"type:text" json:"description"`
	Category     string        `gorm:"index" json:"category"`     // e.g., "fitness", "nutrition", "mindfulness"
	Difficulty   string        `gorm:"type:varchar(16)" json:"difficulty"` // easy / medium / hard
	Type         ChallengeType `gorm:"type:varchar(16);not null" json:"type"`
	XPReward     int64         `gorm:"not null" json:"xp_reward"`
	CreditReward int64         `gorm:"not null" json:"credit_reward"`
	DurationDays int           `gorm:"not null" json:"duration_days"`
	Goal         int64         `gorm:"not null" json:"goal"`          // target value, e.g., 10000
	TargetMetric string        `json:"target_metric"`                 // unit label, e.g., "steps"

	Timestamps
}

type UserChallengeStatus string

const (
	UserChallengeInProgress UserChallengeStatus = "in_progress"
	UserChallengeCompleted  UserChallengeStatus = "completed"
	UserChallengeExpired    UserChallengeStatus = "expired"
)

// UserChallenge is a user's enrollment + progress against a catalog entry.
// At most one non-terminal row per (user, challenge); completed and expired
// are terminal.
type UserChallenge struct {
	ID           string              `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string              `gorm:"index;not null" json:"user_id"`
	ChallengeID  string              `gorm:"index;not null" json:"challenge_id"`
	CurrentValue int64               `gorm:"default:0" json:"current_value"`
	StartDate    time.Time           `gorm:"not null" json:"start_date"`
	EndDate      time.Time           `gorm:"not null" json:"end_date"`
	Status       UserChallengeStatus `gorm:"type:varchar(16);default:'in_progress';index" json:"status"`

	// Set in the same transaction that flips Status to completed, never twice.
	RewardGranted bool       `gorm:"default:false" json:"reward_granted"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	Challenge *Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`

	Timestamps
}

func (uc *UserChallenge) Terminal() bool {
	return uc.Status == UserChallengeCompleted || uc.Status == UserChallengeExpired
}
