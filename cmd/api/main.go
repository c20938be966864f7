package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/rendez/internal/config"
	"github.com/joshua-takyi/rendez/internal/connect"
	"github.com/joshua-takyi/rendez/internal/container"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/metrics"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("Starting Rendez API server", "environment", cfg.Environment, "store", cfg.StoreBackend)

	ctx := context.Background()
	clients, err := openClients(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to the store", "error", err)
		os.Exit(1)
	}
	defer closeClients(clients, logger)

	appContainer, err := container.NewContainer(cfg, logger, metrics.New(), clients)
	if err != nil {
		logger.Error("Failed to build container", "error", err)
		os.Exit(1)
	}

	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exited")
}

func openClients(ctx context.Context, cfg *config.Config, logger *slog.Logger) (container.Clients, error) {
	var clients container.Clients
	var err error

	// Supabase also backs sign in, so connect whenever it is configured.
	if cfg.Supabase.URL != "" && cfg.Supabase.AnonKey != "" {
		if clients.Supabase, err = connect.InitSupabase(cfg.Supabase); err != nil {
			return clients, err
		}
		logger.Info("Connected to Supabase successfully")
	}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if clients.Postgres, err = connect.PostgresConnect(ctx, cfg.Postgres); err != nil {
			return clients, err
		}
		logger.Info("Connected to Postgres successfully")
	case config.BackendMongo:
		if clients.Mongo, err = connect.MongoDBConnect(ctx, cfg.Mongo); err != nil {
			return clients, err
		}
		logger.Info("Connected to MongoDB successfully")
		if err := models.MongodbNewRepo(clients.Mongo, cfg.Mongo.Database).EnsureIndexes(ctx); err != nil {
			return clients, err
		}
	}

	if clients.Redis, err = connect.RedisConnect(ctx, cfg.Redis); err != nil {
		// the catalog is served straight from the store without a cache
		logger.Warn("Redis unavailable, caching disabled", "error", err)
	} else if clients.Redis != nil {
		logger.Info("Connected to Redis successfully")
	}

	if clients.Cloudinary, err = connect.CloudinaryCredentials(cfg.Cloudinary); err != nil {
		logger.Warn("Media uploads disabled, only media URLs are accepted", "error", err)
	}

	jwksURL := cfg.Supabase.JWKSURL
	if jwksURL == "" {
		jwksURL = helpers.JWKSURL(cfg.Supabase.URL)
	}
	if clients.Tokens, err = helpers.NewTokenValidator(jwksURL, cfg.Supabase.JWTSecret); err != nil {
		logger.Warn("Token verification unavailable, all requests are anonymous", "error", err)
	}
	return clients, nil
}

func closeClients(clients container.Clients, logger *slog.Logger) {
	clients.Tokens.Close()
	if clients.Redis != nil {
		if err := clients.Redis.Close(); err != nil {
			logger.Error("Error closing Redis", "error", err)
		}
	}
	if err := closeDB(clients.Postgres); err != nil {
		logger.Error("Error closing Postgres", "error", err)
	}
	if err := connect.MongoDBDisconnect(clients.Mongo); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}
}

func closeDB(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	}

	return slog.New(handler)
}
