package services

import (
	"errors"

	"wellness-engagement-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", id).Preload("Department").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).Preload("Department").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Register creates a user at level 1 and evaluates the welcome achievement
func (s *UserService) Register(user *models.User) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		user.ID = uuid.NewString()
		user.Level = 1
		user.XP = 0
		user.NextLevelXP = BaseNextLevelXP
		user.Credits = 0
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		achSvc := NewAchievementService(s.DB)
		return achSvc.EvaluateWithinTx(tx, user)
	})
}

func (s *UserService) ListDepartments() ([]models.Department, error) {
	var departments []models.Department
	err := s.DB.Order("name ASC").Find(&departments).Error
	return departments, err
}

func (s *UserService) CreateDepartment(name string) (*models.Department, error) {
	dept := models.Department{
		ID:   uuid.NewString(),
		Name: name,
		Slug: slug.Make(name),
	}
	if err := s.DB.Create(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}
