package models

import "time"

// Event is a scheduled wellness activity (yoga session, health screening, ...)
type Event struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `gorm:"index;not null" json:"starts_at"`
	Capacity    int64     `gorm:"default:0" json:"capacity"` // 0 = unlimited
	XPReward    int64     `gorm:"default:0" json:"xp_reward"`

	Timestamps
}

// EventRegistration — one row per (event, user)
type EventRegistration struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	EventID    string     `gorm:"index:idx_event_reg,unique;not null" json:"event_id"`
	UserID     string     `gorm:"index:idx_event_reg,unique;not null" json:"user_id"`
	Attended   bool       `gorm:"default:false" json:"attended"`
	AttendedAt *time.Time `json:"attended_at,omitempty"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	Timestamps
}
