package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

func sourceRows() map[record.Table][]record.Row {
	return map[record.Table][]record.Row{
		record.TableStudents: {
			{
				"student_id": "S1", "student_name": "Aida", "program": "CS",
				"gpa": "3.5", "class": "A", "batch": "2024",
				"mentor_email": "mentor@example.com",
				"parent_email": "parent1@example.com", "parent_phone": "+7700",
			},
		},
		record.TableAttendance: {
			{
				"student_id": "S1", "classes_attended": "17",
				"total_classes": "20", "date": "05-03-2024",
			},
		},
		record.TableAssessments: {
			{
				"assessment_id": "A1", "student_id": "S1",
				"q1_score": "70", "q2_score": "75", "q3_score": "80",
				"q1_average_test_score": "72", "q2_average_test_score": "74", "q3_average_test_score": "78",
				"q1_max_score": "100", "q2_max_score": "100", "q3_max_score": "100",
				"q1_attempts_used": "1", "q2_attempts_used": "2", "q3_attempts_used": "1",
				"date": "10-03-2024",
			},
		},
		record.TableFees: {
			{
				"id": "F1", "student_id": "S1", "fee_status": "paid",
				"fee_due_amount": "0", "fee_due_date": "0",
			},
		},
	}
}

func newSyncHandler(source *fakeSource) (*RunSyncHandler, *fakeStudentRepo, *fakeAttendanceRepo, *fakeAssessmentRepo, *fakeFeeRepo) {
	students := &fakeStudentRepo{}
	attendance := &fakeAttendanceRepo{}
	assessments := &fakeAssessmentRepo{}
	fees := &fakeFeeRepo{}
	h := NewRunSyncHandler(source, students, attendance, assessments, fees, logger.NewNop())
	return h, students, attendance, assessments, fees
}

func TestRunSyncReplacesAllTables(t *testing.T) {
	source := &fakeSource{rows: sourceRows()}
	h, students, attendance, assessments, fees := newSyncHandler(source)

	result, err := h.Handle(context.Background(), RunSyncCommand{Trigger: "test"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.RowCounts[record.TableStudents])
	assert.Equal(t, 1, result.RowCounts[record.TableFees])

	assert.Equal(t, 1, students.replaced)
	assert.Equal(t, 1, attendance.replaced)
	assert.Equal(t, 1, assessments.replaced)
	assert.Equal(t, 1, fees.replaced)

	// derived values survive the pipeline
	require.Len(t, attendance.records, 1)
	assert.InDelta(t, 85.0, attendance.records[0].AttendancePercentage, 1e-9)
}

func TestRunSyncAbortsOnFirstFailingTable(t *testing.T) {
	source := &fakeSource{
		rows: sourceRows(),
		errs: map[record.Table]error{
			record.TableAttendance: shared.ErrSheetNotFound,
		},
	}
	h, students, attendance, assessments, fees := newSyncHandler(source)

	_, err := h.Handle(context.Background(), RunSyncCommand{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrSourceUnavailable))

	// students synced before the failure, later tables untouched
	assert.Equal(t, 1, students.replaced)
	assert.Equal(t, 0, attendance.replaced)
	assert.Equal(t, 0, assessments.replaced)
	assert.Equal(t, 0, fees.replaced)
}

func TestRunSyncCoercionFailureAborts(t *testing.T) {
	rows := sourceRows()
	rows[record.TableAttendance] = []record.Row{
		{"student_id": "S1", "classes_attended": "5", "total_classes": "0", "date": "05-03-2024"},
	}
	source := &fakeSource{rows: rows}
	h, _, attendance, _, fees := newSyncHandler(source)

	_, err := h.Handle(context.Background(), RunSyncCommand{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrDivisionByZero))

	assert.Equal(t, 0, attendance.replaced)
	assert.Equal(t, 0, fees.replaced)
}

func TestRunSyncStoreFailureAborts(t *testing.T) {
	source := &fakeSource{rows: sourceRows()}
	h, students, attendance, _, _ := newSyncHandler(source)
	attendance.replaceErr = shared.ErrReplaceFailed

	_, err := h.Handle(context.Background(), RunSyncCommand{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrStoreWrite))

	assert.Equal(t, 1, students.replaced)
}
