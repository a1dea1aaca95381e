package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carebridge/carebridge/internal/config"
	"github.com/carebridge/carebridge/internal/domain/identity"
	"github.com/carebridge/carebridge/internal/domain/journal"
	"github.com/carebridge/carebridge/internal/domain/patient"
	"github.com/carebridge/carebridge/internal/domain/statushistory"
	"github.com/carebridge/carebridge/internal/domain/systemlog"
	"github.com/carebridge/carebridge/internal/platform/auth"
	"github.com/carebridge/carebridge/internal/platform/db"
	"github.com/carebridge/carebridge/internal/platform/middleware"
)

// directoryAdapter adapts the identity service to the summary-resolution
// interfaces consumed by the patient and statushistory packages, avoiding
// circular imports between the domain packages.
type directoryAdapter struct {
	svc *identity.Service
}

func (a *directoryAdapter) resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]identity.Summary, error) {
	return a.svc.Summaries(ctx, ids)
}

func (a *directoryAdapter) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]patient.UserSummary, error) {
	summaries, err := a.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]patient.UserSummary, len(summaries))
	for id, s := range summaries {
		out[id] = patient.UserSummary{ID: s.ID, FullName: s.FullName, Email: s.Email, Role: s.Role}
	}
	return out, nil
}

type historyDirectoryAdapter struct {
	directoryAdapter
}

func (a *historyDirectoryAdapter) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]statushistory.UserSummary, error) {
	summaries, err := a.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]statushistory.UserSummary, len(summaries))
	for id, s := range summaries {
		out[id] = statushistory.UserSummary{ID: s.ID, FullName: s.FullName, Email: s.Email, Role: s.Role}
	}
	return out, nil
}

// caregiverLinkerAdapter exposes the identity service's supervising-nurse
// mutation to the patient package.
type caregiverLinkerAdapter struct {
	svc *identity.Service
}

func (a *caregiverLinkerAdapter) SetSupervisingNurse(ctx context.Context, caregiverID uuid.UUID, nurseID *uuid.UUID) error {
	return a.svc.SetSupervisingNurse(ctx, caregiverID, nurseID)
}

// auditSinkAdapter routes domain audit appends to the system log.
type auditSinkAdapter struct {
	svc *systemlog.Service
}

func (a *auditSinkAdapter) Append(ctx context.Context, action, entityType string, entityID, performedBy *uuid.UUID, metadata map[string]interface{}) {
	a.svc.Append(ctx, action, entityType, entityID, performedBy, metadata)
}

// historyRecorderAdapter converts status transitions into ledger records.
type historyRecorderAdapter struct {
	svc *statushistory.Service
}

func (a *historyRecorderAdapter) RecordTransition(ctx context.Context, t patient.Transition) error {
	var notes *string
	if t.Notes != "" {
		notes = &t.Notes
	}
	return a.svc.Record(ctx, &statushistory.Record{
		PatientID:   t.PatientID,
		FromStatus:  t.FromStatus,
		ToStatus:    t.ToStatus,
		ChangedBy:   t.ChangedBy,
		Notes:       notes,
		EffectiveAt: t.EffectiveAt,
	})
}

// accessCheckerAdapter exposes the patient access evaluator to the journal and
// statushistory packages.
type accessCheckerAdapter struct {
	svc *patient.Service
}

func (a *accessCheckerAdapter) CheckPatientAccess(ctx context.Context, actor auth.Actor, patientID uuid.UUID) error {
	_, err := a.svc.EvaluateAccess(ctx, actor, patientID)
	return err
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "carebridge-server",
		Short: "CareBridge coordination API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			fmt.Printf("Creating tenant schema: tenant_%s\n", name)
			if err := db.CreateTenantSchema(ctx, pool, name, ""); err != nil {
				return err
			}
			fmt.Println("Tenant created. Run migrations with: carebridge-server migrate up --schema tenant_" + name)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Tenant identifier (alphanumeric)")

	cmd.AddCommand(createCmd)
	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID"},
	}))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		jwtCfg := auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
		}
		if cfg.AuthSigningKey != "" {
			jwtCfg.SigningKey = []byte(cfg.AuthSigningKey)
		} else {
			jwtCfg.JWKSURL = cfg.AuthIssuer + "/.well-known/jwks.json"
		}
		e.Use(auth.JWTMiddleware(jwtCfg))
	}

	// Tenant middleware
	e.Use(db.TenantMiddleware(pool, cfg.DefaultTenant))

	// Repositories and services
	userRepo := identity.NewUserRepoPG(pool)
	identitySvc := identity.NewService(userRepo)

	logRepo := systemlog.NewRepoPG(pool)
	logSvc := systemlog.NewService(logRepo, logger)
	auditSink := &auditSinkAdapter{svc: logSvc}

	historyRepo := statushistory.NewRepoPG(pool)
	directory := &directoryAdapter{svc: identitySvc}
	historySvc := statushistory.NewService(historyRepo, &historyDirectoryAdapter{directoryAdapter{svc: identitySvc}})

	patientRepo := patient.NewRepoPG(pool)
	patientSvc := patient.NewService(patientRepo, directory,
		&caregiverLinkerAdapter{svc: identitySvc}, auditSink,
		&historyRecorderAdapter{svc: historySvc}, logger)

	accessChecker := &accessCheckerAdapter{svc: patientSvc}

	journalRepo := journal.NewRepoPG(pool)
	journalSvc := journal.NewService(journalRepo, accessChecker, auditSink)

	// Audit middleware: every API request lands in the structured log; the
	// domain services additionally append their own system log entries.
	e.Use(middleware.Audit(logger))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	identity.NewHandler(identitySvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	statushistory.NewHandler(historySvc, accessChecker).RegisterRoutes(apiV1)
	journal.NewHandler(journalSvc).RegisterRoutes(apiV1)
	systemlog.NewHandler(logSvc).RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
