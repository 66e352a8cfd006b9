package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

func float(v float64) *float64 { return &v }
func str(v string) *string     { return &v }

func scoreFixtures() (*fakeStudentRepo, *fakeAttendanceRepo, *fakeAssessmentRepo, *fakeFeeRepo) {
	students := &fakeStudentRepo{students: []record.Student{
		{StudentID: "S1", StudentName: "Aida", Program: "CS", ParentEmail: "p1@example.com"},
		{StudentID: "S2", StudentName: "Bek", Program: "Math", ParentEmail: "p2@example.com"},
	}}
	attendance := &fakeAttendanceRepo{records: []record.AttendanceRecord{
		{StudentID: "S1", ClassesAttended: 17, TotalClasses: 20, AttendancePercentage: 85, Date: time.Now()},
	}}
	assessments := &fakeAssessmentRepo{records: []record.AssessmentRecord{
		{
			AssessmentID: "A1", StudentID: "S1",
			Quarters: [3]record.QuarterResult{
				{AverageTestScore: float(72), TestScoreTrend: float(-30), AttemptsUsed: float(1)},
				{AverageTestScore: float(74), TestScoreTrend: float(-25), AttemptsUsed: float(2)},
				{AverageTestScore: float(78), TestScoreTrend: float(-20), AttemptsUsed: float(1)},
			},
			Date: time.Now(),
		},
	}}
	fees := &fakeFeeRepo{records: []record.FeeRecord{
		{ID: "F1", StudentID: "S1", FeeStatus: str("paid"), FeeDueDate: float(0)},
	}}
	return students, attendance, assessments, fees
}

func TestRunScoreSavesSnapshot(t *testing.T) {
	students, attendance, assessments, fees := scoreFixtures()
	snapshots := &fakeSnapshotStore{}

	h := NewRunScoreHandler(students, attendance, assessments, fees,
		&fakeScorer{}, snapshots, logger.NewNop())

	result, err := h.Handle(context.Background(), RunScoreCommand{Trigger: "test"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.StudentCount)
	require.NotNil(t, snapshots.snap)
	assert.Equal(t, result.RunID, snapshots.snap.RunID)
	assert.Len(t, snapshots.snap.Students, 2)
	assert.False(t, snapshots.snap.GeneratedAt.IsZero())
}

func TestRunScoreFailsWithoutStudents(t *testing.T) {
	snapshots := &fakeSnapshotStore{snap: &record.ScoredSnapshot{RunID: "old"}}

	h := NewRunScoreHandler(&fakeStudentRepo{}, &fakeAttendanceRepo{},
		&fakeAssessmentRepo{}, &fakeFeeRepo{},
		&fakeScorer{}, snapshots, logger.NewNop())

	_, err := h.Handle(context.Background(), RunScoreCommand{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrEmptyValue))

	// the previous snapshot must survive a failed run
	assert.Equal(t, "old", snapshots.snap.RunID)
}

func TestRunScoreScorerFailureKeepsOldSnapshot(t *testing.T) {
	students, attendance, assessments, fees := scoreFixtures()
	snapshots := &fakeSnapshotStore{snap: &record.ScoredSnapshot{RunID: "old"}}

	h := NewRunScoreHandler(students, attendance, assessments, fees,
		&fakeScorer{err: shared.ErrUnknownCategory}, snapshots, logger.NewNop())

	_, err := h.Handle(context.Background(), RunScoreCommand{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrFeatureShape))
	assert.Equal(t, "old", snapshots.snap.RunID)
}
