package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pixelsoccer/backend/internal/admin"
	"github.com/pixelsoccer/backend/internal/api"
	"github.com/pixelsoccer/backend/internal/commentary"
	"github.com/pixelsoccer/backend/internal/config"
	"github.com/pixelsoccer/backend/internal/database"
	"github.com/pixelsoccer/backend/internal/game"
	"github.com/pixelsoccer/backend/internal/migrations"
	"github.com/pixelsoccer/backend/internal/redis"
	"github.com/pixelsoccer/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database is optional: without it results and admin are disabled
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		conn, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		db = conn
		defer db.Close()

		if cfg.MigrateOnStart {
			log.Println("Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		if err := admin.ApplyRuntimeConfigToConfig(db, cfg); err != nil {
			log.Printf("[CONFIG] Runtime overrides not applied: %v", err)
		}
	} else {
		log.Println("[DB] DATABASE_URL not set - match results and admin disabled")
	}

	// Redis is optional: without it commentary stays in-process
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		rdb = client
		defer rdb.Close()
	} else {
		log.Println("[REDIS] REDIS_URL not set - commentary relayed in-process, no snapshot cache")
	}

	pub := commentary.NewPublisher(rdb, cfg.CommentaryChannel, cfg.CommentaryBuffer)
	if rdb == nil {
		pub.SetLocalSink(ws.RelayCommentary)
	}
	go pub.Run(ctx)

	// Initialize Game Manager with storage, config and the commentary feed
	game.InitializeManager(db, rdb, cfg, pub)

	// Wire Redis and start the commentary subscriber in the WS layer
	ws.SetRedisClient(rdb, cfg)
	ws.StartCommentarySubscriber(ctx)

	// Reap matches nobody is playing or watching
	game.StartIdleWorker(ctx, game.Manager, cfg)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, db, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting PixelSoccer server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	game.Manager.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
