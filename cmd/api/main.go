package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bet-tracker/internal/analytics"
	"github.com/Dan9191/bet-tracker/internal/config"
	"github.com/Dan9191/bet-tracker/internal/detector"
	"github.com/Dan9191/bet-tracker/internal/handler"
	"github.com/Dan9191/bet-tracker/internal/repository"
	"github.com/Dan9191/bet-tracker/internal/service"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Open the embedded database
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()

	// Initialize layers
	engine := analytics.NewEngine(repo)
	det := detector.New(repo, time.Duration(cfg.DupLookbackMinutes)*time.Minute, cfg.DupRoundUnit)
	svc := service.NewService(repo, engine, det, logger)
	h := handler.NewHandler(svc)

	// Nightly summary of the previous day's profit/loss
	c := cron.New()
	if _, err := c.AddFunc("5 0 * * *", svc.LogDailySummary); err != nil {
		logger.Fatalf("Failed to schedule daily summary: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Setup router
	r := mux.NewRouter()
	h.Register(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
