package models

import "time"

// LeaderboardSnapshot stores each user's rank at snapshot time. The latest
// snapshot supplies previousRank for the rank-change badge; this service owns
// the computation rather than expecting it as external data.
type LeaderboardSnapshot struct {
	ID      string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string    `gorm:"index;not null" json:"user_id"`
	Rank    int       `gorm:"not null" json:"rank"`
	XP      int64     `gorm:"not null" json:"xp"`
	TakenAt time.Time `gorm:"index;not null" json:"taken_at"`
}

// RankChange direction versus the previous snapshot
type RankChange string

const (
	RankUp   RankChange = "up"
	RankDown RankChange = "down"
	RankSame RankChange = "same"
	RankNew  RankChange = "new" // no previous snapshot for this user
)

// LeaderboardEntry is a derived projection, never persisted as-is
type LeaderboardEntry struct {
	Rank       int         `json:"rank"`
	RankChange RankChange  `json:"rank_change"`
	User       UserSummary `json:"user"`
}
