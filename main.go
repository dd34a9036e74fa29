package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "net/http/pprof"

	"github.com/mediscan/mediscan-api/config"
	"github.com/mediscan/mediscan-api/data"
	"github.com/mediscan/mediscan-api/handlers"
	"github.com/mediscan/mediscan-api/logging"
	"github.com/mediscan/mediscan-api/ocr"
	"github.com/mediscan/mediscan-api/scheduler"
	"github.com/mediscan/mediscan-api/server"
	"github.com/mediscan/mediscan-api/summarizer"
)

func main() {
	// Read env variables from the working directory, falling back to the
	// executable directory for systemd-style deployments.
	if err := godotenv.Load(); err != nil {
		if ex, exErr := os.Executable(); exErr == nil {
			if chErr := os.Chdir(filepath.Dir(ex)); chErr == nil {
				godotenv.Load()
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Init("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	if cfg.OpenAIKey == "" {
		logging.Error("OPENAI_API_KEY is not set")
		os.Exit(1)
	}

	container := data.NewContainer()

	sched := scheduler.New(container, cfg.DatasetPath)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start the registry scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	generator := summarizer.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIModel)
	summaries := summarizer.NewService(generator)
	engine := ocr.NewTesseractEngine(cfg.OCRLanguage)

	handler := handlers.New(container, summaries, engine, cfg.MaxResults, cfg.MaxAlternatives)
	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}
