package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/spinquest/spinwheel-backend/api/routes"
	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/handlers"
	"github.com/spinquest/spinwheel-backend/internal/repositories"
	mongorepo "github.com/spinquest/spinwheel-backend/internal/repositories/mongodb"
	"github.com/spinquest/spinwheel-backend/internal/services"
	"github.com/spinquest/spinwheel-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg.LogLevel)

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	tokenRepoImpl := mongorepo.NewTokenRepository(db)
	prizeRepoImpl := mongorepo.NewPrizeRepository(db)
	resultRepoImpl := mongorepo.NewSpinResultRepository(db)
	adminRepoImpl := mongorepo.NewAdminUserRepository(db)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndexes()
	for name, ensure := range map[string]func(context.Context) error{
		"tokens":      tokenRepoImpl.EnsureIndexes,
		"prizes":      prizeRepoImpl.EnsureIndexes,
		"spinresults": resultRepoImpl.EnsureIndexes,
		"adminusers":  adminRepoImpl.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			log.Fatalf("Failed to ensure indexes for %s: %v", name, err)
		}
	}

	var tokenRepo repositories.TokenRepository = tokenRepoImpl
	var prizeRepo repositories.PrizeRepository = prizeRepoImpl
	var resultRepo repositories.SpinResultRepository = resultRepoImpl
	var adminRepo repositories.AdminUserRepository = adminRepoImpl

	spinService := services.NewSpinService(tokenRepo, prizeRepo, resultRepo, cfg.Wheel.Slots, nil)
	tokenService := services.NewTokenService(tokenRepo, cfg)
	prizeService := services.NewPrizeService(prizeRepo, cfg)
	resultService := services.NewResultService(resultRepo, tokenRepo)
	authService := services.NewAuthService(adminRepo, cfg)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelBoot()
	if err := authService.EnsureSuperadmin(bootCtx); err != nil {
		log.Fatalf("Failed to ensure superadmin account: %v", err)
	}

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:  handlers.NewAuthHandler(authService),
		TokenHandler: handlers.NewTokenHandler(tokenService, spinService),
		WheelHandler: handlers.NewWheelHandler(spinService),
		AdminHandler: handlers.NewAdminHandler(prizeService, resultService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	slog.Info("server starting", "port", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	slog.Info("server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
