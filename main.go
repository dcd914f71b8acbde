package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"testcase-generator/config"
	"testcase-generator/generator"
	"testcase-generator/infra"
	"testcase-generator/repositories"
	"testcase-generator/router"
	"testcase-generator/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tokenCleanupInterval = time.Hour

func main() {
	infra.Initialize()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := infra.NewLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, lg *zap.Logger) error {
	db, err := infra.SetupDB(cfg.Database, lg)
	if err != nil {
		return err
	}
	if cfg.Database.AutoMigrate {
		if err := infra.Migrate(db); err != nil {
			return err
		}
	}

	// REDIS_ADDR があればブラックリストを Redis に置く
	var tokenRepository repositories.ITokenRepository
	rdb, err := infra.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		tokenRepository = repositories.NewRedisTokenRepository(rdb)
		lg.Info("Using redis token blacklist", zap.String("addr", cfg.Redis.Addr))
	} else {
		tokenRepository = repositories.NewTokenRepository(db)
	}
	go cleanExpiredTokens(ctx, tokenRepository, lg)

	if cfg.Generation.APIKey == "" {
		lg.Warn("OPENAI_API_KEY is not set, generation requests will fail")
	}
	gen := generator.New(generator.NewOpenAIClient(cfg.Generation), cfg.Generation)

	authService := services.NewAuthService(repositories.NewAuthRepository(db), tokenRepository, cfg.Auth)
	projectRepository := repositories.NewProjectRepository(db)
	projectService := services.NewProjectService(projectRepository)
	testCaseService := services.NewTestCaseService(projectRepository, repositories.NewTestCaseRepository(db), gen, lg)

	r := router.NewRouter(router.Deps{
		DB:              db,
		Logger:          lg,
		Server:          cfg.Server,
		RateLimit:       cfg.RateLimit,
		AuthService:     authService,
		ProjectService:  projectService,
		TestCaseService: testCaseService,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	lg.Info("Server exited")
	return nil
}

func cleanExpiredTokens(ctx context.Context, tokenRepository repositories.ITokenRepository, lg *zap.Logger) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		if err := tokenRepository.CleanExpiredTokens(ctx); err != nil && ctx.Err() == nil {
			lg.Warn("clean expired tokens failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
