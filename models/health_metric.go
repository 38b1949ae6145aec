package models

import "time"

// HealthMetric is a single self-reported measurement (steps, sleep hours, ...)
type HealthMetric struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"index;not null" json:"user_id"`
	MetricType string    `gorm:"index;not null" json:"metric_type"` // e.g., "steps", "sleep_hours", "water_ml"
	Value      float64   `gorm:"not null" json:"value"`
	RecordedAt time.Time `gorm:"index;not null" json:"recorded_at"`

	Timestamps
}

// OrganizationalMetric is a per-department daily aggregate, written by the
// rollup worker and read by HR/HSE dashboards.
type OrganizationalMetric struct {
	ID               string    `gorm:"primaryKey;type:uuid" json:"id"`
	DepartmentID     string    `gorm:"index:idx_org_metric,unique;not null" json:"department_id"`
	Date             time.Time `gorm:"index:idx_org_metric,unique;not null" json:"date"`
	MetricType       string    `gorm:"index:idx_org_metric,unique;not null" json:"metric_type"`
	Average          float64   `json:"average"`
	ParticipantCount int64     `json:"participant_count"`

	Timestamps
}
