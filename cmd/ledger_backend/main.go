package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wekeza-coop/sacco_ledger/internal/core/domain"
	portssvc "github.com/wekeza-coop/sacco_ledger/internal/core/ports/services"
	"github.com/wekeza-coop/sacco_ledger/internal/core/services"
	"github.com/wekeza-coop/sacco_ledger/internal/handlers"
	"github.com/wekeza-coop/sacco_ledger/internal/jobs"
	"github.com/wekeza-coop/sacco_ledger/internal/middleware"
	"github.com/wekeza-coop/sacco_ledger/internal/repositories/database/pgsql"
	"github.com/wekeza-coop/sacco_ledger/internal/seed"
	"github.com/wekeza-coop/sacco_ledger/pkg/config"
	"github.com/wekeza-coop/sacco_ledger/pkg/database"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		os.Exit(1)
	}

	// Wire repositories and services
	repos := pgsql.NewRepositoryProvider(dbPool)

	accountSvc := services.NewAccountService(repos.AccountRepo)
	mappingSvc := services.NewMappingService(repos.MappingRepo, repos.AccountRepo)
	fiscalSvc := services.NewFiscalService(repos.FiscalRepo)
	postingSvc := services.NewPostingService(repos.TxManager, repos.JournalRepo, repos.AccountRepo, fiscalSvc, mappingSvc)
	depositSvc := services.NewDepositService(repos.TxManager, repos.DepositRepo, repos.DestinationRepo, postingSvc, mappingSvc, cfg.CashAccountCode)
	reportingSvc := services.NewReportingService(repos.ReportingRepo)

	// Downstream consumers subscribe after commit; the ledger write itself is
	// never blocked or rolled back by them.
	postingSvc.RegisterPostCommitHook(func(hookCtx context.Context, entry domain.JournalEntry) {
		middleware.GetLoggerFromCtx(hookCtx).Info("Ledger entry committed",
			slog.String("entry_id", entry.EntryID),
			slog.String("reference_no", entry.ReferenceNo),
		)
	})

	// Seed the chart of accounts, default mappings, and initial period
	if err := seed.Run(ctx, logger, repos, cfg.ChartOfAccountsPath); err != nil {
		logger.Error("Failed to seed reference data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, &portssvc.ServiceContainer{
		Account:   accountSvc,
		Mapping:   mappingSvc,
		Fiscal:    fiscalSvc,
		Posting:   postingSvc,
		Deposit:   depositSvc,
		Reporting: reportingSvc,
	})

	// Periodic trial balance consistency check
	reportJob := jobs.NewReportJob(reportingSvc, logger, cfg.ReportJobInterval)
	go reportJob.Start(ctx)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory using a temporary database/sql connection.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

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
