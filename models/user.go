package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleHR       UserRole = "hr"
	RoleHSE      UserRole = "hse"
	RoleManager  UserRole = "manager"
	RoleEmployee UserRole = "employee"
)

// User is the server-owned progression aggregate: every XP/credit mutation
// goes through the progression service, never through a raw column update.
type User struct {
	ID           string   `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string   `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName  string   `gorm:"not null" json:"display_name"`
	AvatarURL    string   `gorm:"type:text" json:"avatar_url,omitempty"`
	DepartmentID *string  `gorm:"index" json:"department_id,omitempty"`
	Role         UserRole `gorm:"type:varchar(16);default:'employee'" json:"role"`
	JobTitle     string   `json:"job_title,omitempty"`

	// Core progression
	Level       int   `gorm:"default:1" json:"level"`
	XP          int64 `gorm:"default:0" json:"xp"`
	NextLevelXP int64 `gorm:"default:1000" json:"next_level_xp"`
	Credits     int64 `gorm:"default:0" json:"credits"`

	// Activity counters (drive achievement thresholds)
	ChallengesCompleted int64 `gorm:"default:0" json:"challenges_completed"`
	PurchasesMade       int64 `gorm:"default:0" json:"purchases_made"`
	EventsAttended      int64 `gorm:"default:0" json:"events_attended"`
	MetricsLogged       int64 `gorm:"default:0" json:"metrics_logged"`

	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// UserSummary is what auth/leaderboard responses expose (no counters, no soft-delete noise)
type UserSummary struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	Department  string   `json:"department,omitempty"`
	JobTitle    string   `json:"job_title,omitempty"`
	Role        UserRole `json:"role"`
	Level       int      `json:"level"`
	XP          int64    `json:"xp"`
	NextLevelXP int64    `json:"next_level_xp"`
	Credits     int64    `json:"credits"`
}

func (u *User) Summary() UserSummary {
	s := UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		JobTitle:    u.JobTitle,
		Role:        u.Role,
		Level:       u.Level,
		XP:          u.XP,
		NextLevelXP: u.NextLevelXP,
		Credits:     u.Credits,
	}
	if u.Department != nil {
		s.Department = u.Department.Name
	}
	return s
}
