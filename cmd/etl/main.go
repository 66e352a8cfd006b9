// Package main runs a single sync-then-score pass and exits.
//
// Useful for cron-driven deployments and for backfilling after a
// spreadsheet fix without waiting for the in-process scheduler.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/edupulse/student-risk-hub/config"
	"github.com/edupulse/student-risk-hub/internal/application/command"
	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/model"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/persistence/postgres"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/persistence/redis"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/source/gsheets"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "etl failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	log := logger.New(opts)

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
	defer dbConn.Close()

	if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

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
	defer redisCache.Close()

	snapshots := redis.NewSnapshotCache(redisCache, cfg.Redis.SnapshotTTL)

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

	classifier, err := model.Load(cfg.Model.ArtifactPath)
	if err != nil {
		return fmt.Errorf("failed to load risk model: %w", err)
	}
	scorer, err := model.NewScorer(classifier)
	if err != nil {
		return fmt.Errorf("failed to build scorer: %w", err)
	}

	studentRepo := postgres.NewStudentRepository(dbConn)
	attendanceRepo := postgres.NewAttendanceRepository(dbConn)
	assessmentRepo := postgres.NewAssessmentRepository(dbConn)
	feeRepo := postgres.NewFeeRepository(dbConn)

	runSync := command.NewRunSyncHandler(
		sheetsClient, studentRepo, attendanceRepo, assessmentRepo, feeRepo, log)
	runScore := command.NewRunScoreHandler(
		studentRepo, attendanceRepo, assessmentRepo, feeRepo, scorer, snapshots, log)

	syncRes, err := runSync.Handle(ctx, command.RunSyncCommand{Trigger: "cli"})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	for table, count := range syncRes.RowCounts {
		log.Info("table synced",
			logger.String("table", string(table)), logger.Int("rows", count))
	}

	scoreRes, err := runScore.Handle(ctx, command.RunScoreCommand{Trigger: "cli"})
	if err != nil {
		return fmt.Errorf("score failed: %w", err)
	}
	log.Info("snapshot rebuilt",
		logger.String("run_id", scoreRes.RunID),
		logger.Int("students", scoreRes.StudentCount))

	return nil
}
