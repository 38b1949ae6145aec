package services

import (
	"errors"
	"time"

	"wellness-engagement-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db, Progression: NewProgressionService(db)}
}

func (s *EventService) ListUpcoming(now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := s.DB.Where("starts_at >= ?", now).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

func (s *EventService) CreateEvent(event *models.Event) error {
	event.ID = uuid.NewString()
	return s.DB.Create(event).Error
}

// Register enrolls a user, enforcing capacity and the one-row-per-pair rule
func (s *EventService) Register(userID, eventID string) (*models.EventRegistration, error) {
	var reg *models.EventRegistration
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		err := lockForUpdate(tx).Where("id = ?", eventID).First(&event).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.EventRegistration{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		if event.Capacity > 0 {
			var registered int64
			if err := tx.Model(&models.EventRegistration{}).
				Where("event_id = ?", eventID).
				Count(&registered).Error; err != nil {
				return err
			}
			if registered >= event.Capacity {
				return ErrEventFull
			}
		}

		reg = &models.EventRegistration{
			ID:      uuid.NewString(),
			EventID: eventID,
			UserID:  userID,
		}
		return tx.Create(reg).Error
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// MarkAttended is called by HR/admin after the event: bumps the attendance
// counter and grants the event's XP, once per registration.
func (s *EventService) MarkAttended(eventID, userID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var reg models.EventRegistration
		err := lockForUpdate(tx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&reg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if reg.Attended {
			return nil // idempotent
		}

		var event models.Event
		if err := tx.Where("id = ?", eventID).First(&event).Error; err != nil {
			return err
		}

		now := time.Now()
		reg.Attended = true
		reg.AttendedAt = &now
		if err := tx.Save(&reg).Error; err != nil {
			return err
		}

		var user models.User
		if err := lockForUpdate(tx).Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		user.EventsAttended++
		return s.Progression.GrantWithinTx(tx, &user, event.XPReward, 0, "event_"+eventID)
	})
}
