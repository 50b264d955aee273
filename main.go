package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tasksafe/backend/internal/api"
	"github.com/tasksafe/backend/internal/config"
	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/email"
)

func main() {
	cfg := config.Load()

	// Ensure data directory exists
	os.MkdirAll(cfg.DataPath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure a super admin exists
	if err := database.EnsureSuperAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create super admin: %v", err)
	}
	log.Printf("Super admin ensured: %s", cfg.AdminEmail)

	// Pick the email sender
	var sender email.Sender
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
		log.Printf("Email dispatch via Resend as %s", cfg.EmailFrom)
	} else {
		sender = email.ConsoleSender{}
		log.Println("WARNING: RESEND_API_KEY not set, magic-link emails will be written to the log")
	}

	// Sweep expired sessions hourly
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := database.DeleteExpiredSessions(); err != nil {
				log.Printf("Session sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("Session sweep removed %d expired sessions", n)
			}
		}
	}()

	// Create router
	router := api.NewRouter(database, sender, cfg)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s (%s)", addr, cfg.Env)
	log.Printf("Magic links will point at %s", cfg.BaseURL)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		database.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
