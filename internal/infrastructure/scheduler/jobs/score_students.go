package jobs

import (
	"context"

	"github.com/edupulse/student-risk-hub/internal/application/command"
)

// ScoreStudentsJob assembles the feature frame and refreshes the scored
// snapshot. Scheduled after the sync job so it scores fresh rows.
type ScoreStudentsJob struct {
	handler *command.RunScoreHandler
}

// NewScoreStudentsJob creates the scoring job.
func NewScoreStudentsJob(handler *command.RunScoreHandler) *ScoreStudentsJob {
	return &ScoreStudentsJob{handler: handler}
}

// Name returns the job name.
func (j *ScoreStudentsJob) Name() string {
	return "score_students"
}

// Description returns a human-readable description.
func (j *ScoreStudentsJob) Description() string {
	return "Assemble features from the persisted tables and refresh the scored risk snapshot"
}

// Run executes one scoring cycle.
func (j *ScoreStudentsJob) Run(ctx context.Context) error {
	_, err := j.handler.Handle(ctx, command.RunScoreCommand{Trigger: "schedule"})
	return err
}
