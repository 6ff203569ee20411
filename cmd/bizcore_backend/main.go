package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bizcoreapp/bizcore_backend/internal/adapters/database/pgsql"
	portssvc "github.com/bizcoreapp/bizcore_backend/internal/core/ports/services"
	"github.com/bizcoreapp/bizcore_backend/internal/core/services"
	"github.com/bizcoreapp/bizcore_backend/internal/handlers"
	"github.com/bizcoreapp/bizcore_backend/internal/middleware"
	"github.com/bizcoreapp/bizcore_backend/pkg/config"
	"github.com/bizcoreapp/bizcore_backend/pkg/database"
)

// @title BizCore Backend API
// @version 1.0
// @description Schema-less business data core: entities, dynamic fields, relationships and the universal transaction ledger.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg)),
		middleware.RequesterIDMiddleware(),
		middleware.MetricsMiddleware(),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT value", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	svcContainer := buildServices(dbPool)
	handlers.RegisterRoutes(r, cfg, svcContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires repositories into the service container.
func buildServices(dbPool *pgxpool.Pool) *portssvc.ServiceContainer {
	orgRepo := pgsql.NewPgxOrganizationRepository(dbPool)
	entityRepo := pgsql.NewPgxEntityRepository(dbPool)
	relRepo := pgsql.NewPgxRelationshipRepository(dbPool)
	txnRepo := pgsql.NewPgxTransactionRepository(dbPool)

	guardrailSvc := services.NewGuardrailService()

	return &portssvc.ServiceContainer{
		Organization: services.NewOrganizationService(orgRepo),
		Entity:       services.NewEntityService(entityRepo, relRepo, guardrailSvc),
		Relationship: services.NewRelationshipService(relRepo, entityRepo, guardrailSvc),
		Transaction:  services.NewTransactionService(txnRepo, guardrailSvc),
		Guardrail:    guardrailSvc,
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Requester-ID")
	return corsCfg
}

// runMigrations applies all pending "up" migrations through a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
