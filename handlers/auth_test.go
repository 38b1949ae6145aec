package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wellness-engagement-system/middleware"
	"wellness-engagement-system/models"
	"wellness-engagement-system/services"
	"wellness-engagement-system/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	utils.InitLogger()
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Challenge{},
		&models.UserChallenge{},
		&models.AchievementType{},
		&models.UserAchievement{},
		&models.RewardItem{},
		&models.Purchase{},
		&models.HealthMetric{},
		&models.OrganizationalMetric{},
		&models.Event{},
		&models.EventRegistration{},
		&models.LeaderboardSnapshot{},
	))

	app := fiber.New()
	store := middleware.NewSessionStore()

	userService := services.NewUserService(db)
	SetupAuthRoutes(app, store, userService)
	SetupChallengeRoutes(app, db, store, services.NewChallengeService(db))
	SetupLeaderboardRoutes(app, store, services.NewLeaderboardService(db))
	SetupMetricRoutes(app, db, store, services.NewMetricsService(db))
	SetupUserRoutes(app, db, store, userService, services.NewProgressionService(db))

	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:          uuid.NewString(),
		Username:    username,
		DisplayName: username,
		Role:        role,
		Level:       1,
		NextLevelXP: services.BaseNextLevelXP,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func login(t *testing.T, app *fiber.App, username string) []*http.Cookie {
	t.Helper()
	body, _ := json.Marshal(fiber.Map{"username": username})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return resp.Cookies()
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func TestLogin_UnknownUser(t *testing.T) {
	app, _ := newTestApp(t)

	body, _ := json.Marshal(fiber.Map{"username": "nobody"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_SessionFlow(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "sara", models.RoleEmployee)

	// unauthenticated /me is rejected
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cookies := login(t, app, "sara")
	require.NotEmpty(t, cookies)

	resp, err = app.Test(withCookies(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), cookies))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary models.UserSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, "sara", summary.Username)
	assert.Equal(t, 1, summary.Level)

	// logout invalidates the session
	resp, err = app.Test(withCookies(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), cookies))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(withCookies(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), cookies))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrganizationalMetrics_RoleGate(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "worker", models.RoleEmployee)
	seedUser(t, db, "boss", models.RoleHR)

	employee := login(t, app, "worker")
	resp, err := app.Test(withCookies(httptest.NewRequest(http.MethodGet, "/api/organizational-metrics", nil), employee))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	hr := login(t, app, "boss")
	resp, err = app.Test(withCookies(httptest.NewRequest(http.MethodGet, "/api/organizational-metrics", nil), hr))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminXPGrant_RejectsNegativeAmounts(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "root", models.RoleAdmin)
	victim := seedUser(t, db, "victim", models.RoleEmployee)
	admin := login(t, app, "root")

	body, _ := json.Marshal(fiber.Map{"user_id": victim.ID, "xp": 1, "credits": -5000})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/xp/grant", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(withCookies(req, admin))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var fresh models.User
	require.NoError(t, db.Where("id = ?", victim.ID).First(&fresh).Error)
	assert.Equal(t, int64(0), fresh.Credits)
	assert.Equal(t, int64(0), fresh.XP)

	// sanity: a well-formed grant still goes through
	body, _ = json.Marshal(fiber.Map{"user_id": victim.ID, "xp": 100, "credits": 25})
	req = httptest.NewRequest(http.MethodPost, "/api/admin/xp/grant", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(withCookies(req, admin))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("id = ?", victim.ID).First(&fresh).Error)
	assert.Equal(t, int64(25), fresh.Credits)
	assert.Equal(t, int64(100), fresh.XP)
}

func TestUserChallengeRoutes(t *testing.T) {
	app, db := newTestApp(t)
	seedUser(t, db, "sara", models.RoleEmployee)
	cookies := login(t, app, "sara")

	challenge := &models.Challenge{
		ID:           uuid.NewString(),
		Title:        "Walk 10k",
		Type:         models.ChallengeWeekly,
		XPReward:     500,
		CreditReward: 100,
		DurationDays: 7,
		Goal:         10000,
		TargetMetric: "steps",
	}
	require.NoError(t, db.Create(challenge).Error)

	// join
	body, _ := json.Marshal(fiber.Map{"challenge_id": challenge.ID})
	req := httptest.NewRequest(http.MethodPost, "/api/user-challenges", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(withCookies(req, cookies))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uc models.UserChallenge
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uc))

	// progress update
	body, _ = json.Marshal(fiber.Map{"current_value": 2500})
	req = httptest.NewRequest(http.MethodPut, "/api/user-challenges/"+uc.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(withCookies(req, cookies))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uc))
	assert.Equal(t, int64(2500), uc.CurrentValue)
	assert.Equal(t, models.UserChallengeInProgress, uc.Status)

	// unknown enrollment → 404, another user's → 403
	req = httptest.NewRequest(http.MethodPut, "/api/user-challenges/missing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(withCookies(req, cookies))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	seedUser(t, db, "intruder", models.RoleEmployee)
	other := login(t, app, "intruder")
	body, _ = json.Marshal(fiber.Map{"current_value": 9999})
	req = httptest.NewRequest(http.MethodPut, "/api/user-challenges/"+uc.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(withCookies(req, other))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
