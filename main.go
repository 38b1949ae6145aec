package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wellness-engagement-system/handlers"
	"wellness-engagement-system/middleware"
	"wellness-engagement-system/models"
	"wellness-engagement-system/services"
	"wellness-engagement-system/utils"
	"wellness-engagement-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	utils.InitLogger()
	defer utils.Logger.Sync()

	if err := godotenv.Load(); err != nil {
		utils.Logger.Warn("no .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — artwork uploads only
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		utils.Logger.Warn("ALLOWED_ORIGINS not set, using default", zap.String("default", "http://localhost:3000"))
		allowedOrigins = "http://localhost:3000"
	}
	parts := strings.Split(allowedOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(parts, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		utils.Logger.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitAssetStore(); err != nil {
		utils.Logger.Fatal("failed to initialize asset store", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		utils.Logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		utils.Logger.Fatal("failed to migrate database", zap.Error(err))
	}

	userService := services.NewUserService(db)
	progressionService := services.NewProgressionService(db)
	challengeService := services.NewChallengeService(db)
	achievementService := services.NewAchievementService(db)
	shopService := services.NewShopService(db)
	leaderboardService := services.NewLeaderboardService(db)
	metricsService := services.NewMetricsService(db)
	eventService := services.NewEventService(db)

	if err := achievementService.SeedCatalog(); err != nil {
		utils.Logger.Fatal("failed to seed achievement catalog", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshotWorker := workers.NewLeaderboardSnapshotWorker(db, 1*time.Hour)
	snapshotWorker.Start(ctx)

	rollupClient := workers.NewMetricRollupClient(db)
	go workers.PollRollups(ctx, rollupClient, 15*time.Minute)

	challengeService.StartExpiryScheduler()

	store := middleware.NewSessionStore()

	handlers.SetupAuthRoutes(app, store, userService)
	handlers.SetupChallengeRoutes(app, db, store, challengeService)
	handlers.SetupLeaderboardRoutes(app, store, leaderboardService)
	handlers.SetupRewardRoutes(app, db, store, shopService, achievementService)
	handlers.SetupUserRoutes(app, db, store, userService, progressionService)
	handlers.SetupMetricRoutes(app, db, store, metricsService)
	handlers.SetupEventRoutes(app, db, store, eventService)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":5300"
	}

	go func() {
		if err := app.Listen(addr); err != nil {
			utils.Logger.Error("server error", zap.Error(err))
		}
	}()

	utils.Logger.Info("✅ server running", zap.String("addr", addr))
	utils.Logger.Info("✅ leaderboard snapshots hourly, metric rollups every 15m, challenge expiry sweep every 10m")

	<-ctx.Done()
	utils.Logger.Info("shutting down server...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
}
