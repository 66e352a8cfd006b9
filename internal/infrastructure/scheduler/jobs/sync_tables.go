// Package jobs contains the scheduled jobs that keep the hub's data
// fresh: pulling the source spreadsheets and rescoring students.
package jobs

import (
	"context"

	"github.com/edupulse/student-risk-hub/internal/application/command"
)

// SyncTablesJob refreshes all four persisted tables from the source
// spreadsheets.
type SyncTablesJob struct {
	handler *command.RunSyncHandler
}

// NewSyncTablesJob creates the sync job.
func NewSyncTablesJob(handler *command.RunSyncHandler) *SyncTablesJob {
	return &SyncTablesJob{handler: handler}
}

// Name returns the job name.
func (j *SyncTablesJob) Name() string {
	return "sync_tables"
}

// Description returns a human-readable description.
func (j *SyncTablesJob) Description() string {
	return "Full refresh of students, attendance, assessments, and fees from the source spreadsheets"
}

// Run executes one sync cycle.
func (j *SyncTablesJob) Run(ctx context.Context) error {
	_, err := j.handler.Handle(ctx, command.RunSyncCommand{Trigger: "schedule"})
	return err
}
