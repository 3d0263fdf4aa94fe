package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/api"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/config"
	"github.com/taskdeck/taskdeck-be/internal/database"
	"github.com/taskdeck/taskdeck-be/internal/logger"
	"github.com/taskdeck/taskdeck-be/internal/monitoring"
	"github.com/taskdeck/taskdeck-be/internal/repository"
	"github.com/taskdeck/taskdeck-be/internal/services"
	"github.com/taskdeck/taskdeck-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up repositories
	userRepo := repository.NewSQLiteUserRepository(db)
	taskRepo := repository.NewSQLiteTaskRepository(db)
	tagRepo := repository.NewSQLiteTagRepository(db)
	eventRepo := repository.NewSQLiteEventRepository(db)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	eventService := services.NewEventService(eventRepo, hub)
	authService := services.NewAuthService(userRepo, taskRepo, tokens)
	taskService := services.NewTaskService(taskRepo, eventService)
	tagService := services.NewTagService(tagRepo, eventService)

	// Set up and run the background deadline reminder
	reminder := monitoring.NewReminder(taskRepo, eventService, time.Duration(cfg.ReminderIntervalMinutes)*time.Minute)
	if err := reminder.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start deadline reminder")
	}

	// Set up router
	router := api.NewRouter(api.RouterDeps{
		Tokens:         tokens,
		AuthService:    authService,
		TaskService:    taskService,
		TagService:     tagService,
		EventService:   eventService,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
		Registry:       prometheus.NewRegistry(),
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	reminder.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
