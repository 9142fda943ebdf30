package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"dopamind/internal/api"
	"dopamind/internal/middleware"
	"dopamind/internal/repository"
	"dopamind/internal/service"
	"dopamind/pkg/auth"
	"dopamind/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	weeklyXP, err := repository.NewWeeklyXPStore(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to initialize weekly xp store", zap.Error(err))
	}
	defer weeklyXP.Close()

	effectService := service.NewEffectService(repo)
	calculator := service.NewRewardCalculator(effectService)
	goalService := service.NewGoalService(repo, repo, repo)
	leagueService := service.NewLeagueService(weeklyXP)
	bossService := service.NewBossService(repo, repo, repo)
	rouletteService := service.NewRouletteService(repo, repo, nil)
	profileService := service.NewProfileService(
		repo, repo, repo,
		calculator, effectService, goalService, leagueService, bossService,
	)

	jwtAuth := auth.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.DebugMode)
	adminGuard := middleware.NewAuthorization()
	raidFeed := api.NewRaidFeed()

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewProfileRoutes(a, profileService, jwtAuth)
	api.NewTaskRoutes(a, profileService, jwtAuth, raidFeed)
	api.NewGoalRoutes(a, goalService, jwtAuth)
	api.NewLeagueRoutes(a, leagueService, jwtAuth)
	api.NewBossRoutes(a, bossService, jwtAuth, adminGuard, raidFeed)
	api.NewRouletteRoutes(a, rouletteService, jwtAuth)
	api.NewShopRoutes(a, profileService, effectService, jwtAuth)
	api.NewArchetypeRoutes(a)

	startRaidRotation(bossService, cfg.Boss, zapLogger)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}

// startRaidRotation escapes any unfinished raid at the turn of the week and
// spawns the next one. It also runs once at boot so a fresh deploy has an
// active raid immediately.
func startRaidRotation(bossService *service.BossService, cfg BossConfig, zapLogger *zap.Logger) {
	rotate := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		raid, err := bossService.RotateWeekly(ctx,
			cfg.Name, cfg.Description,
			cfg.TotalHP, cfg.RewardXP, cfg.RewardCredits, cfg.RewardTickets,
		)
		if err != nil {
			zapLogger.Error("Failed to rotate boss raid", zap.Error(err))
			return
		}
		zapLogger.Info("Boss raid active",
			zap.String("raid_id", raid.ID.String()),
			zap.Int("current_hp", raid.CurrentHP),
		)
	}

	rotate()

	c := cron.New()
	// Monday 00:00, matching the weekly league reset.
	if _, err := c.AddFunc("0 0 * * 1", rotate); err != nil {
		zapLogger.Fatal("Failed to schedule raid rotation", zap.Error(err))
	}
	c.Start()
}
