// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RUN SYNC COMMAND
// Pulls all four source tables from the spreadsheets and replaces the
// persisted copies. Tables are processed strictly in order; a failure on
// any table aborts the run and leaves later tables untouched, so the
// store never mixes rows from different sync cycles partially.
// ══════════════════════════════════════════════════════════════════════════════

// SheetSource reads raw rows for one logical table from the upstream
// spreadsheet provider.
type SheetSource interface {
	ReadTable(ctx context.Context, table record.Table) ([]record.Row, error)
}

// RunSyncCommand triggers a full refresh of the persisted source tables.
type RunSyncCommand struct {
	// Trigger records what started the run ("schedule", "api", "cli").
	Trigger string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RunSyncCommand) Validate() error {
	return nil
}

// RunSyncResult summarizes a completed sync run.
type RunSyncResult struct {
	// RunID identifies this sync run.
	RunID string

	// RowCounts is the number of rows loaded per table.
	RowCounts map[record.Table]int

	// StartedAt is when the run began.
	StartedAt time.Time

	// Duration is the total run time.
	Duration time.Duration
}

// RunSyncHandler handles the RunSyncCommand.
type RunSyncHandler struct {
	source      SheetSource
	students    record.StudentRepository
	attendance  record.AttendanceRepository
	assessments record.AssessmentRepository
	fees        record.FeeRepository
	logger      *logger.Logger
}

// NewRunSyncHandler creates a new sync handler.
func NewRunSyncHandler(
	source SheetSource,
	students record.StudentRepository,
	attendance record.AttendanceRepository,
	assessments record.AssessmentRepository,
	fees record.FeeRepository,
	log *logger.Logger,
) *RunSyncHandler {
	return &RunSyncHandler{
		source:      source,
		students:    students,
		attendance:  attendance,
		assessments: assessments,
		fees:        fees,
		logger:      log.With(logger.Component("sync")),
	}
}

// Handle executes the sync run.
func (h *RunSyncHandler) Handle(ctx context.Context, cmd RunSyncCommand) (*RunSyncResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &RunSyncResult{
		RunID:     uuid.New().String(),
		RowCounts: make(map[record.Table]int, len(record.Tables)),
		StartedAt: time.Now().UTC(),
	}

	log := h.logger.With(
		logger.RunID(result.RunID),
		logger.String("trigger", cmd.Trigger),
	)
	log.Info("sync run started")

	for _, table := range record.Tables {
		count, err := h.syncTable(ctx, table)
		if err != nil {
			log.Error("sync run aborted",
				logger.Table(string(table)),
				logger.Err(err),
			)
			return nil, err
		}
		result.RowCounts[table] = count
		log.Info("table synced",
			logger.Table(string(table)),
			logger.Rows(count),
		)
	}

	result.Duration = time.Since(result.StartedAt)
	log.Info("sync run finished", logger.Latency(result.Duration))
	return result, nil
}

// syncTable reads, coerces, and replaces one table.
func (h *RunSyncHandler) syncTable(ctx context.Context, table record.Table) (int, error) {
	rows, err := h.source.ReadTable(ctx, table)
	if err != nil {
		return 0, err
	}

	switch table {
	case record.TableStudents:
		students, err := record.CoerceStudents(rows)
		if err != nil {
			return 0, err
		}
		return len(students), h.students.ReplaceAll(ctx, students)

	case record.TableAttendance:
		records, err := record.CoerceAttendance(rows)
		if err != nil {
			return 0, err
		}
		return len(records), h.attendance.ReplaceAll(ctx, records)

	case record.TableAssessments:
		records, err := record.CoerceAssessments(rows)
		if err != nil {
			return 0, err
		}
		return len(records), h.assessments.ReplaceAll(ctx, records)

	case record.TableFees:
		records, err := record.CoerceFees(rows)
		if err != nil {
			return 0, err
		}
		return len(records), h.fees.ReplaceAll(ctx, records)

	default:
		return 0, shared.NewDomainError("sync", "syncTable", shared.ErrInvalidInput,
			"unknown table "+string(table))
	}
}
