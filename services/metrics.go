package services

import (
	"errors"
	"time"

	"wellness-engagement-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetricsService struct {
	DB *gorm.DB
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{DB: db}
}

// LogMetric stores a self-reported measurement and bumps the user's counter
// (achievement thresholds key on it).
func (s *MetricsService) LogMetric(userID, metricType string, value float64, recordedAt time.Time) (*models.HealthMetric, error) {
	var metric *models.HealthMetric
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockForUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		metric = &models.HealthMetric{
			ID:         uuid.NewString(),
			UserID:     userID,
			MetricType: metricType,
			Value:      value,
			RecordedAt: recordedAt,
		}
		if err := tx.Create(metric).Error; err != nil {
			return err
		}

		user.MetricsLogged++
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		achSvc := NewAchievementService(s.DB)
		return achSvc.EvaluateWithinTx(tx, &user)
	})
	if err != nil {
		return nil, err
	}
	return metric, nil
}

func (s *MetricsService) ListUserMetrics(userID string, since time.Time) ([]models.HealthMetric, error) {
	var metrics []models.HealthMetric
	err := s.DB.Where("user_id = ? AND recorded_at >= ?", userID, since).
		Order("recorded_at DESC").
		Find(&metrics).Error
	return metrics, err
}

type deptAggregate struct {
	DepartmentID     string
	MetricType       string
	Average          float64
	ParticipantCount int64
}

// dayBucketUTC truncates an instant to its UTC calendar day. Rollup rows are
// keyed on UTC days so the worker (server-local now) and the query API
// (parsed dates) always agree on the bucket.
func dayBucketUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RollupDay aggregates one day's health metrics per department and upserts
// the organizational rows. Safe to re-run: later runs overwrite earlier
// aggregates for the same (department, day, metric).
func (s *MetricsService) RollupDay(day time.Time) (int, error) {
	dayStart := dayBucketUTC(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var aggregates []deptAggregate
	err := s.DB.Model(&models.HealthMetric{}).
		Select("users.department_id AS department_id, health_metrics.metric_type AS metric_type, AVG(health_metrics.value) AS average, COUNT(DISTINCT health_metrics.user_id) AS participant_count").
		Joins("JOIN users ON users.id = health_metrics.user_id").
		Where("health_metrics.recorded_at >= ? AND health_metrics.recorded_at < ?", dayStart, dayEnd).
		Where("users.department_id IS NOT NULL").
		Group("users.department_id, health_metrics.metric_type").
		Scan(&aggregates).Error
	if err != nil {
		return 0, err
	}

	for _, agg := range aggregates {
		row := models.OrganizationalMetric{
			ID:               uuid.NewString(),
			DepartmentID:     agg.DepartmentID,
			Date:             dayStart,
			MetricType:       agg.MetricType,
			Average:          agg.Average,
			ParticipantCount: agg.ParticipantCount,
		}
		if err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "department_id"}, {Name: "date"}, {Name: "metric_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"average", "participant_count", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return 0, err
		}
	}
	return len(aggregates), nil
}

// QueryOrganizational filters rolled-up metrics for HR/HSE dashboards
func (s *MetricsService) QueryOrganizational(departmentID string, date *time.Time) ([]models.OrganizationalMetric, error) {
	query := s.DB.Model(&models.OrganizationalMetric{})
	if departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if date != nil {
		query = query.Where("date = ?", dayBucketUTC(*date))
	}

	var rows []models.OrganizationalMetric
	err := query.Order("date DESC").Find(&rows).Error
	return rows, err
}
