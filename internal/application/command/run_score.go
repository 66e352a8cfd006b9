package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/edupulse/student-risk-hub/internal/domain/feature"
	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RUN SCORE COMMAND
// Assembles the feature frame from the persisted tables, scores every
// student with the classifier, and replaces the scored snapshot. The
// previous snapshot stays live until the new one is saved, so a failed
// run never degrades what the query surface serves.
// ══════════════════════════════════════════════════════════════════════════════

// RiskScorer turns an assembled feature frame into scored students.
type RiskScorer interface {
	Score(frame *feature.Frame) ([]record.ScoredStudent, error)
}

// RunScoreCommand triggers feature assembly and risk scoring.
type RunScoreCommand struct {
	// Trigger records what started the run ("schedule", "api", "cli").
	Trigger string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RunScoreCommand) Validate() error {
	return nil
}

// RunScoreResult summarizes a completed scoring run.
type RunScoreResult struct {
	// RunID identifies this scoring run.
	RunID string

	// StudentCount is the number of students scored.
	StudentCount int

	// GeneratedAt is the snapshot timestamp.
	GeneratedAt time.Time

	// Duration is the total run time.
	Duration time.Duration
}

// RunScoreHandler handles the RunScoreCommand.
type RunScoreHandler struct {
	students    record.StudentRepository
	attendance  record.AttendanceRepository
	assessments record.AssessmentRepository
	fees        record.FeeRepository
	scorer      RiskScorer
	snapshots   record.SnapshotStore
	logger      *logger.Logger
}

// NewRunScoreHandler creates a new scoring handler.
func NewRunScoreHandler(
	students record.StudentRepository,
	attendance record.AttendanceRepository,
	assessments record.AssessmentRepository,
	fees record.FeeRepository,
	scorer RiskScorer,
	snapshots record.SnapshotStore,
	log *logger.Logger,
) *RunScoreHandler {
	return &RunScoreHandler{
		students:    students,
		attendance:  attendance,
		assessments: assessments,
		fees:        fees,
		scorer:      scorer,
		snapshots:   snapshots,
		logger:      log.With(logger.Component("score")),
	}
}

// Handle executes the scoring run.
func (h *RunScoreHandler) Handle(ctx context.Context, cmd RunScoreCommand) (*RunScoreResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	start := time.Now().UTC()
	runID := uuid.New().String()

	log := h.logger.With(
		logger.RunID(runID),
		logger.String("trigger", cmd.Trigger),
	)
	log.Info("scoring run started")

	students, err := h.students.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	attendance, err := h.attendance.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	assessments, err := h.assessments.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	fees, err := h.fees.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	frame, err := feature.Assemble(students, attendance, assessments, fees)
	if err != nil {
		log.Error("feature assembly failed",
			logger.Err(err), logger.Bool("data_fix_required", shared.IsPipelineFatal(err)))
		return nil, err
	}

	scored, err := h.scorer.Score(frame)
	if err != nil {
		log.Error("scoring failed",
			logger.Err(err), logger.Bool("data_fix_required", shared.IsPipelineFatal(err)))
		return nil, err
	}

	snap := &record.ScoredSnapshot{
		RunID:       runID,
		GeneratedAt: start,
		Students:    scored,
	}
	if err := h.snapshots.Save(ctx, snap); err != nil {
		log.Error("snapshot save failed", logger.Err(err))
		return nil, err
	}

	result := &RunScoreResult{
		RunID:        runID,
		StudentCount: len(scored),
		GeneratedAt:  start,
		Duration:     time.Since(start),
	}

	log.Info("scoring run finished",
		logger.Rows(result.StudentCount),
		logger.Latency(result.Duration),
	)
	return result, nil
}
