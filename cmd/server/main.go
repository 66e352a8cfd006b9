// Package main is the entry point for the Student Risk Hub API server.
//
// The server pulls the four academic tables from Google Sheets into
// PostgreSQL, rebuilds the scored risk snapshot in Redis on a schedule,
// and serves the mentor-facing HTTP API.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: repositories, Google Sheets, model, SMTP
// - Interface: HTTP handlers
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/edupulse/student-risk-hub/config"
	"github.com/edupulse/student-risk-hub/internal/application/command"
	"github.com/edupulse/student-risk-hub/internal/application/query"
	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/model"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/notify"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/persistence/postgres"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/persistence/redis"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/scheduler"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/scheduler/jobs"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/source/gsheets"
	httpserver "github.com/edupulse/student-risk-hub/internal/interface/http"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────

	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Student Risk Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
	dbCfg := postgres.DefaultConfig()
	dbCfg.URL = cfg.Database.URL
	dbCfg.MaxConns = cfg.Database.MaxConns
	dbCfg.MinConns = cfg.Database.MinConns
	dbCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	dbCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime
	dbConn, err := postgres.NewConnection(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	log.Info("running database migrations")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS SNAPSHOT CACHE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis")
	var redisCache *redis.Cache
	if cfg.Redis.URL != "" {
		redisCache, err = redis.NewCacheFromURL(cfg.Redis.URL)
	} else {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCache, err = redis.NewCache(redisCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func() {
		log.Info("closing Redis connection")
		_ = redisCache.Close()
	}()

	snapshots := redis.NewSnapshotCache(redisCache, cfg.Redis.SnapshotTTL)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. GOOGLE SHEETS SOURCE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing Google Sheets client")
	creds, err := os.ReadFile(cfg.Sheets.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to read sheets credentials: %w", err)
	}

	sheetsCfg := gsheets.DefaultConfig()
	sheetsCfg.CredentialsJSON = creds
	sheetsCfg.RequestTimeout = cfg.Sheets.RequestTimeout
	sheetsCfg.MaxRetries = cfg.Sheets.MaxRetries
	sheetsCfg.SpreadsheetIDs = make(map[record.Table]string, len(cfg.Sheets.SpreadsheetIDs))
	for table, id := range cfg.Sheets.SpreadsheetIDs {
		sheetsCfg.SpreadsheetIDs[record.Table(table)] = id
	}

	sheetsClient, err := gsheets.NewClient(ctx, sheetsCfg)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. RISK MODEL
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("loading risk model", logger.String("path", cfg.Model.ArtifactPath))
	classifier, err := model.Load(cfg.Model.ArtifactPath)
	if err != nil {
		return fmt.Errorf("failed to load risk model: %w", err)
	}
	scorer, err := model.NewScorer(classifier)
	if err != nil {
		return fmt.Errorf("failed to build scorer: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	studentRepo := postgres.NewStudentRepository(dbConn)
	attendanceRepo := postgres.NewAttendanceRepository(dbConn)
	assessmentRepo := postgres.NewAssessmentRepository(dbConn)
	feeRepo := postgres.NewFeeRepository(dbConn)
	mentorRepo := postgres.NewMentorRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	mailer := notify.NewSMTPMailer(notify.Config{
		Host: cfg.Mail.Host,
		Port: cfg.Mail.Port,
	}, log)

	runSync := command.NewRunSyncHandler(
		sheetsClient, studentRepo, attendanceRepo, assessmentRepo, feeRepo, log)
	runScore := command.NewRunScoreHandler(
		studentRepo, attendanceRepo, assessmentRepo, feeRepo, scorer, snapshots, log)
	sendAlerts := command.NewSendAlertsHandler(mentorRepo, studentRepo, mailer, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.NewScheduler(log)
	if cfg.Scheduler.Enabled {
		if err := sched.Register(jobs.NewSyncTablesJob(runSync),
			scheduler.NewIntervalSchedule(cfg.Scheduler.SyncInterval)); err != nil {
			return fmt.Errorf("failed to register sync job: %w", err)
		}
		if err := sched.Register(jobs.NewScoreStudentsJob(runScore),
			scheduler.NewIntervalSchedule(cfg.Scheduler.ScoreInterval)); err != nil {
			return fmt.Errorf("failed to register score job: %w", err)
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler")
			_ = sched.Stop()
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	auth := httpserver.NewAuthenticator(
		mentorRepo, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	srv := httpserver.NewServer(httpCfg, httpserver.Dependencies{
		ListStudentsHandler:      query.NewListStudentsHandler(studentRepo),
		ListAttendanceHandler:    query.NewListAttendanceHandler(attendanceRepo),
		ListAssessmentsHandler:   query.NewListAssessmentsHandler(assessmentRepo),
		ListFeesHandler:          query.NewListFeesHandler(feeRepo),
		GetScoredStudentsHandler: query.NewGetScoredStudentsHandler(snapshots),
		RunSyncHandler:           runSync,
		RunScoreHandler:          runScore,
		SendAlertsHandler:        sendAlerts,
		Auth:                     auth,
		Mentors:                  mentorRepo,
		Logger:                   log,
		ReadinessChecks: map[string]func(ctx context.Context) error{
			"postgres": dbConn.Ping,
			"redis":    redisCache.Ping,
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", logger.String("address", srv.Address()))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 11. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	log.Info("stopping HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed")
	return nil
}

// setupLogger builds the structured logger from config.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}
