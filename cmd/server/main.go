package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/campuslab/campus-events-api/internal/auth"
	"github.com/campuslab/campus-events-api/internal/config"
	"github.com/campuslab/campus-events-api/internal/database"
	"github.com/campuslab/campus-events-api/internal/handlers"
	"github.com/campuslab/campus-events-api/internal/lifecycle"
	"github.com/campuslab/campus-events-api/internal/notifier"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Notifier
	var eventNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			eventNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// Initialize Engine and Handlers
	svc := lifecycle.NewService(db, eventNotifier)
	authHandler := auth.NewAuthHandler(cfg, db)
	eventHandler := handlers.NewEventHandler(db, svc, authHandler)
	registrationHandler := handlers.NewRegistrationHandler(svc, authHandler)
	userHandler := handlers.NewUserHandler(db, authHandler)
	locationHandler := handlers.NewLocationHandler(db, authHandler)
	apiKeyHandler := handlers.NewAPIKeyHandler(db, authHandler)

	// Sweep published events past their start into completed
	go func() {
		interval := time.Duration(cfg.CompletionSweepMinutes) * time.Minute
		for range time.Tick(interval) {
			n, err := svc.CompleteElapsed(time.Now())
			if err != nil {
				log.Printf("Completion sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("Completion sweep: %d event(s) completed", n)
			}
		}
	}()

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, eventHandler, registrationHandler, userHandler, locationHandler, apiKeyHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
