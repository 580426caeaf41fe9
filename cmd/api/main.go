package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cognitopkg "github.com/taskpad/taskpad-api/internal/cognito"
	"github.com/taskpad/taskpad-api/internal/config"
	taskpadhttp "github.com/taskpad/taskpad-api/internal/http"
	"github.com/taskpad/taskpad-api/internal/middleware"
	"github.com/taskpad/taskpad-api/internal/model"
	"github.com/taskpad/taskpad-api/internal/repository"
	"github.com/taskpad/taskpad-api/internal/service"
	"github.com/taskpad/taskpad-api/internal/storage"
	"github.com/taskpad/taskpad-api/internal/stream"
)

// userResolverAdapter adapts a user repository to the middleware.UserResolver interface.
type userResolverAdapter struct {
	repo interface {
		GetByCognitoSub(ctx context.Context, cognitoSub string) (model.User, error)
	}
}

func (a *userResolverAdapter) ResolveUserID(ctx context.Context, cognitoSub string) (string, error) {
	user, err := a.repo.GetByCognitoSub(ctx, cognitoSub)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", middleware.ErrUserNotFound
		}
		return "", fmt.Errorf("failed to resolve user: %w", err)
	}
	return user.ID, nil
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection + migrations
	db, err := repository.NewDB(ctx, cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	// Repositories
	itemRepo := repository.NewPostgresItem(db)
	userRepo := repository.NewPostgresUser(db)

	// Cognito client
	var cognitoClient cognitopkg.Client
	if cfg.Cognito.AppClientID != "" {
		c, err := cognitopkg.NewAWSClient(
			ctx,
			cfg.Cognito.Region,
			cfg.Cognito.AppClientID,
			cfg.Cognito.AppClientSecret,
		)
		if err != nil {
			return err
		}
		cognitoClient = c
		logger.Info("cognito client initialized", "region", cfg.Cognito.Region)
	} else {
		logger.Warn("cognito client not initialized: COGNITO_APP_CLIENT_ID not set")
	}

	// Profile photo storage
	var blobs storage.BlobStore
	if cfg.S3.Bucket != "" {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:       cfg.S3.Region,
			Bucket:       cfg.S3.Bucket,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			BaseEndpoint: cfg.S3.BaseEndpoint,
		})
		if err != nil {
			return err
		}
		blobs = store
		logger.Info("photo storage initialized", "bucket", cfg.S3.Bucket)
	} else {
		logger.Warn("photo storage not initialized: S3_BUCKET not set")
	}

	// Services
	itemSvc := service.NewItemService(itemRepo)
	authSvc := service.NewAuthService(cognitoClient, userRepo)
	profileSvc := service.NewProfileService(cognitoClient, userRepo, blobs, logger)

	// Live snapshot hub
	hub := stream.NewHub(itemSvc, logger)
	itemSvc.SetNotifier(hub)
	go hub.Run(ctx)

	// Auth middleware
	authCfg := middleware.AuthConfig{
		DevMode: cfg.AuthDevMode,
	}
	if !cfg.AuthDevMode {
		jwksURL := middleware.CognitoJWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.JWKSClient = middleware.NewJWKSClient(jwksURL)
		authCfg.Issuer = middleware.CognitoIssuer(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.AppClientID = cfg.Cognito.AppClientID
		authCfg.UserResolver = &userResolverAdapter{repo: userRepo}
	}
	auth, err := middleware.NewAuth(authCfg)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// HTTP Server
	srv := taskpadhttp.NewServer(cfg.ServerPort, logger, taskpadhttp.Deps{
		Auth:       auth,
		ItemSvc:    itemSvc,
		AuthSvc:    authSvc,
		ProfileSvc: profileSvc,
		Hub:        hub,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// The hub loop stops on the same signal context; wait so an in-flight
	// snapshot push is not cut off mid-write.
	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
		logger.Warn("timed out waiting for snapshot hub to stop")
	}

	logger.Info("server stopped gracefully")
	return nil
}
