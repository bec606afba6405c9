package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/guahanweb/photography-challenges-backend/config"
	"github.com/guahanweb/photography-challenges-backend/internal/auth"
	"github.com/guahanweb/photography-challenges-backend/internal/bootstrap"
	challengesrepo "github.com/guahanweb/photography-challenges-backend/internal/challenges/repository"
	invitationsrepo "github.com/guahanweb/photography-challenges-backend/internal/invitations/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/invitations/sweeper"
	projectsrepo "github.com/guahanweb/photography-challenges-backend/internal/projects/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/storage"
	usersrepo "github.com/guahanweb/photography-challenges-backend/internal/users/repository"
)

const serviceName = "photography-challenges-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	db, err := storage.NewClient(context.Background(), cfg.AWS)
	if err != nil {
		slog.Error("failed to create dynamodb client", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	invitations := invitationsrepo.NewInvitationRepository(db, cfg.Tables.Invitations)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Tokens:      tokens,
		Projects:    projectsrepo.NewProjectRepository(db, cfg.Tables.Projects),
		Instances:   challengesrepo.NewInstanceRepository(db, cfg.Tables.ProjectInstances),
		Invitations: invitations,
		Users:       usersrepo.NewUserRepository(db, cfg.Tables.Users),
	})

	sweep := sweeper.New(invitations)
	sched := cron.New()
	if _, err := sched.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := sweep.Sweep(ctx)
		if err != nil {
			slog.Error("invitation sweep failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("expired stale invitations", "count", n)
		}
	}); err != nil {
		slog.Error("failed to schedule invitation sweep", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Server.Port, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
