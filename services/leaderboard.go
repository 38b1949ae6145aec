package services

import (
	"errors"
	"strings"
	"time"

	"wellness-engagement-system/models"
	"wellness-engagement-system/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

const LeaderboardPageSize = 10

// Display names in this system are not ASCII, so filtering uses Unicode
// case folding instead of LOWER() in SQL.
var foldCaser = cases.Fold()

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

type LeaderboardFilter struct {
	Department string // exact caseless match
	Query      string // caseless substring over name/username/department
	Page       int    // 1-based, clamped into range
	PageSize   int    // defaults to LeaderboardPageSize, capped at 100
}

type LeaderboardPage struct {
	Entries    []models.LeaderboardEntry `json:"entries"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	TotalPages int                       `json:"total_pages"`
	Total      int                       `json:"total"`
}

// previousRanks loads the most recent snapshot batch as userID → rank.
// Batches share a TakenAt, so the latest timestamp identifies the batch.
func (s *LeaderboardService) previousRanks() (map[string]int, error) {
	var newest models.LeaderboardSnapshot
	err := s.DB.Order("taken_at DESC").First(&newest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []models.LeaderboardSnapshot
	if err := s.DB.Where("taken_at = ?", newest.TakenAt).Find(&rows).Error; err != nil {
		return nil, err
	}

	prev := make(map[string]int, len(rows))
	for _, row := range rows {
		prev[row.UserID] = row.Rank
	}
	return prev, nil
}

func rankChange(prev map[string]int, userID string, rank int) models.RankChange {
	previous, ok := prev[userID]
	if !ok {
		return models.RankNew
	}
	switch {
	case previous > rank:
		return models.RankUp
	case previous < rank:
		return models.RankDown
	default:
		return models.RankSame
	}
}

// Rank orders all users by XP descending (ties broken by id ascending so the
// ordering is deterministic), assigns global 1-based ranks, then filters and
// paginates. Filtering keeps global ranks — a department view shows each
// member's company-wide position.
func (s *LeaderboardService) Rank(filter LeaderboardFilter) (*LeaderboardPage, error) {
	var users []models.User
	if err := s.DB.Preload("Department").
		Order("xp DESC").Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	prev, err := s.previousRanks()
	if err != nil {
		return nil, err
	}

	dept := foldCaser.String(strings.TrimSpace(filter.Department))
	query := foldCaser.String(strings.TrimSpace(filter.Query))

	var filtered []models.LeaderboardEntry
	for i := range users {
		user := &users[i]
		rank := i + 1

		deptName := ""
		if user.Department != nil {
			deptName = user.Department.Name
		}

		if dept != "" && foldCaser.String(deptName) != dept {
			continue
		}
		if query != "" {
			haystack := foldCaser.String(user.DisplayName) + "\x00" +
				foldCaser.String(user.Username) + "\x00" +
				foldCaser.String(user.JobTitle) + "\x00" +
				foldCaser.String(deptName)
			if !strings.Contains(haystack, query) {
				continue
			}
		}

		filtered = append(filtered, models.LeaderboardEntry{
			Rank:       rank,
			RankChange: rankChange(prev, user.ID, rank),
			User:       user.Summary(),
		})
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = LeaderboardPageSize
	}
	if pageSize > 100 {
		pageSize = 100
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	page := filter.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return &LeaderboardPage{
		Entries:    filtered[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      len(filtered),
	}, nil
}

// Snapshot persists the current global ranking as one batch. The next batch
// supersedes it as the previousRank source.
func (s *LeaderboardService) Snapshot(now time.Time) error {
	var users []models.User
	if err := s.DB.Order("xp DESC").Order("id ASC").Find(&users).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}

	rows := make([]models.LeaderboardSnapshot, len(users))
	for i := range users {
		rows[i] = models.LeaderboardSnapshot{
			ID:      uuid.NewString(),
			UserID:  users[i].ID,
			Rank:    i + 1,
			XP:      users[i].XP,
			TakenAt: now,
		}
	}
	if err := s.DB.Create(&rows).Error; err != nil {
		return err
	}

	utils.Logger.Info("leaderboard snapshot taken",
		zap.Int("users", len(rows)),
		zap.Time("taken_at", now),
	)
	return nil
}
