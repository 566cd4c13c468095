package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"codeclash/internal/api"
	"codeclash/internal/api/handler"
	"codeclash/internal/app/contest"
	"codeclash/internal/app/grader"
	"codeclash/internal/app/judge"
	"codeclash/internal/app/leaderboard"
	"codeclash/internal/common/security"
	"codeclash/internal/domain/repository"
	"codeclash/internal/platform/cache"
	"codeclash/internal/platform/config"
	"codeclash/internal/platform/database"
	"codeclash/internal/problems"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg := config.Load()

	tokens := security.NewTokens(cfg.JWTKey, cfg.JWTExp)

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := cache.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("redis connection failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// The problem set is loaded once and immutable for the whole contest.
	problemRepo, err := problems.Load(cfg.ProblemsPath)
	if err != nil {
		logger.Error("problem load failed", "path", cfg.ProblemsPath, "err", err)
		os.Exit(1)
	}
	logger.Info("problems loaded", "count", problemRepo.Count())

	participantRepo := repository.NewPgParticipantRepository(db)
	submissionRepo := repository.NewPgSubmissionRepository(db)

	execClient := judge.NewClient(cfg.JudgeURL, cfg.JudgeTimeout)
	engine := grader.NewEngine(problemRepo, submissionRepo, execClient, logger)
	contestSrvc := contest.NewService(rdb, participantRepo, cfg.ContestDuration)
	boardSrvc := leaderboard.NewService(submissionRepo, rdb, cfg.LeaderboardCacheTTL, logger)

	router := api.NewRouter(
		tokens,
		handler.NewAuthHandler(participantRepo, contestSrvc, tokens),
		handler.NewContestHandler(engine, problemRepo, contestSrvc, submissionRepo),
		handler.NewAdminHandler(contestSrvc, boardSrvc, participantRepo, submissionRepo, tokens, cfg.AdminPasswordHash),
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
