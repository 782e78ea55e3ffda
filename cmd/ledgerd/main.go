package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/openclerk/ledger/internal/core/services"
	"github.com/openclerk/ledger/internal/handlers"
	"github.com/openclerk/ledger/internal/middleware"
	"github.com/openclerk/ledger/internal/platform/config"
	"github.com/openclerk/ledger/internal/repositories/database/pgsql"
	"github.com/openclerk/ledger/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, middleware.ActorHeader)
	r.Use(cors.New(corsConfig))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)
	r.Use(middleware.RateLimit(ipLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(repos, logger)

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
