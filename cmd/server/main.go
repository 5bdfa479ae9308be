package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"feedback-hub/internal/config"
	"feedback-hub/internal/database"
	"feedback-hub/internal/engine"
	"feedback-hub/internal/handlers"
	"feedback-hub/internal/middleware"
	"feedback-hub/internal/scoring"
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongodb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongodb.Close(ctx); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()

	metrics := utils.NewMetricsCollector()
	scorer := scoring.NewClient(cfg.Scorer.URL, cfg.Scorer.Timeout)
	jwtManager := middleware.NewJWTManager(cfg.JWTSecret)

	system := actor.NewActorSystem()
	feedbackEngine := engine.NewEngine(system, mongodb, scorer, metrics)

	server := handlers.NewServer(system, feedbackEngine, metrics, jwtManager)

	var handler http.Handler = server.Routes()
	handler = jwtManager.WithIdentity(handler)
	handler = middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins))(handler)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
