package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pr1ority/homework-bot/internal/app"
	"github.com/Pr1ority/homework-bot/internal/infra/config"
	"github.com/Pr1ority/homework-bot/internal/infra/logger"
	"github.com/Pr1ority/homework-bot/internal/infra/practicum"
	"github.com/Pr1ority/homework-bot/internal/infra/scheduler"
	"github.com/Pr1ority/homework-bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Homework Status Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not load application configuration")
	}

	logger.Init(cfg)
	logger.Log.WithFields(logrus.Fields{
		"log_level":     cfg.LogLevel,
		"environment":   cfg.Environment,
		"endpoint":      cfg.Endpoint,
		"poll_interval": cfg.PollInterval.String(),
	}).Info("Configuration loaded")

	// Practicum API client
	apiClient := practicum.NewClient(
		cfg.Endpoint,
		cfg.PracticumToken,
		logger.Log.WithField("component", "practicum_client"),
	)

	// Telegram bot. It only ever sends messages, so bot.Start (the update
	// loop) is never called. NewBot still verifies the token via getMe.
	bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not create Telegram bot")
	}
	telegramClient := telegram.NewTelebotAdapter(bot)
	logger.Log.Info("Telegram bot initialized")

	statusService := app.NewStatusServiceImpl(
		apiClient,
		telegramClient,
		cfg.TelegramChatID,
		logger.Log.WithField("component", "status_service"),
		time.Now().Unix(),
	)

	pollScheduler := scheduler.NewPollScheduler(
		statusService,
		cfg.PollInterval,
		logger.Log.WithField("component", "scheduler"),
	)
	if err := pollScheduler.Start(); err != nil {
		logger.Log.WithError(err).Fatal("Could not start poll scheduler")
	}

	logger.Log.Info("Application setup complete. Polling has started")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down application...")
	pollScheduler.Stop()
	logger.Log.Info("Application shut down gracefully")
}
