package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

func fp(v float64) *float64 { return &v }
func sp(v string) *string   { return &v }

func testStudents() []record.Student {
	return []record.Student{
		{StudentID: "S1", StudentName: "Asel", Program: "CS"},
		{StudentID: "S2", StudentName: "Dias", Program: "EE"},
		{StudentID: "S3", StudentName: "Aida", Program: "CS"},
	}
}

func fullAssessment(studentID string, avg, trend, attempts float64) record.AssessmentRecord {
	rec := record.AssessmentRecord{
		AssessmentID: "A-" + studentID,
		StudentID:    studentID,
		Date:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for q := 0; q < 3; q++ {
		rec.Quarters[q] = record.QuarterResult{
			AverageTestScore: fp(avg),
			TestScoreTrend:   fp(trend),
			AttemptsUsed:     fp(attempts),
		}
	}
	return rec
}

// Scenario: 3 students, attendance only for S1 and S3,
// assessments and fees only for S1. Every student must appear exactly
// once; gaps are filled with the cohort mean/mode.
func TestAssemble_LeftJoinPreservesAllStudents(t *testing.T) {
	attendance := []record.AttendanceRecord{
		{StudentID: "S1", ClassesAttended: 18, TotalClasses: 20, AttendancePercentage: 90},
		{StudentID: "S3", ClassesAttended: 10, TotalClasses: 20, AttendancePercentage: 50},
	}
	assessments := []record.AssessmentRecord{fullAssessment("S1", 72.5, -8, 2)}
	fees := []record.FeeRecord{
		{ID: "F1", StudentID: "S1", FeeStatus: sp("paid"), FeeDueAmount: fp(0), FeeDueDate: fp(10)},
	}

	frame, err := Assemble(testStudents(), attendance, assessments, fees)
	require.NoError(t, err)
	require.Len(t, frame.Rows, 3)

	byID := map[string]Row{}
	for _, r := range frame.Rows {
		byID[r.StudentID] = r
	}

	// S1 keeps its own values throughout.
	s1 := byID["S1"]
	assert.InDelta(t, 90.0, s1.AttendancePercentage, 1e-9)
	assert.InDelta(t, 72.5, s1.QAverageTestScore[0], 1e-9)
	assert.InDelta(t, -8.0, s1.QTestScoreTrend[1], 1e-9)
	assert.Equal(t, "paid", s1.FeeStatus)

	// S2 has no rows anywhere: attendance is the cohort mean, the rest
	// the cohort mean/mode (here the only observed values, from S1).
	s2 := byID["S2"]
	assert.InDelta(t, 70.0, s2.AttendancePercentage, 1e-9) // (90+50)/2
	assert.InDelta(t, 72.5, s2.QAverageTestScore[2], 1e-9)
	assert.InDelta(t, -8.0, s2.QTestScoreTrend[0], 1e-9)
	assert.InDelta(t, 2.0, s2.QAttemptsUsed[0], 1e-9)
	assert.Equal(t, "paid", s2.FeeStatus)
	assert.InDelta(t, 10.0, s2.FeeDueDate, 1e-9)

	// S3 keeps attendance, imputes assessments and fees.
	s3 := byID["S3"]
	assert.InDelta(t, 50.0, s3.AttendancePercentage, 1e-9)
	assert.InDelta(t, 72.5, s3.QAverageTestScore[0], 1e-9)
	assert.Equal(t, "paid", s3.FeeStatus)
}

func TestAssemble_OutputOrderFollowsStudents(t *testing.T) {
	frame, err := Assemble(testStudents(),
		[]record.AttendanceRecord{{StudentID: "S2", AttendancePercentage: 40, ClassesAttended: 8, TotalClasses: 20}},
		[]record.AssessmentRecord{fullAssessment("S2", 60, 0, 1)},
		[]record.FeeRecord{{ID: "F1", StudentID: "S2", FeeStatus: sp("due")}},
	)
	require.Error(t, err)
	// fee_due_date has zero non-null values, so imputation is undefined.
	assert.ErrorIs(t, err, shared.ErrImputation)

	frame, err = Assemble(testStudents(),
		[]record.AttendanceRecord{{StudentID: "S2", AttendancePercentage: 40, ClassesAttended: 8, TotalClasses: 20}},
		[]record.AssessmentRecord{fullAssessment("S2", 60, 0, 1)},
		[]record.FeeRecord{{ID: "F1", StudentID: "S2", FeeStatus: sp("due"), FeeDueDate: fp(5)}},
	)
	require.NoError(t, err)
	ids := []string{frame.Rows[0].StudentID, frame.Rows[1].StudentID, frame.Rows[2].StudentID}
	assert.Equal(t, []string{"S1", "S2", "S3"}, ids)
}

func TestAssemble_EmptyStudentsFails(t *testing.T) {
	_, err := Assemble(nil, nil, nil, nil)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestAssemble_EmptyColumnFailsImputation(t *testing.T) {
	// No attendance rows at all: the attendance_percentage mean is
	// undefined and assembly must fail, not default to zero.
	_, err := Assemble(testStudents(),
		nil,
		[]record.AssessmentRecord{fullAssessment("S1", 70, -5, 1)},
		[]record.FeeRecord{{ID: "F1", StudentID: "S1", FeeStatus: sp("paid"), FeeDueDate: fp(3)}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrEmptyColumn)
	assert.ErrorIs(t, err, shared.ErrImputation)
	assert.True(t, shared.IsPipelineFatal(err))
}

func TestAssemble_Deterministic(t *testing.T) {
	attendance := []record.AttendanceRecord{
		{StudentID: "S1", AttendancePercentage: 90, ClassesAttended: 18, TotalClasses: 20},
	}
	assessments := []record.AssessmentRecord{fullAssessment("S1", 70, -5, 1)}
	fees := []record.FeeRecord{{ID: "F1", StudentID: "S1", FeeStatus: sp("overdue"), FeeDueDate: fp(30)}}

	first, err := Assemble(testStudents(), attendance, assessments, fees)
	require.NoError(t, err)
	second, err := Assemble(testStudents(), attendance, assessments, fees)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestModeTieBreaksOnFirstOccurrence(t *testing.T) {
	mode, err := columnModeFloat("test", []float64{3, 1, 1, 3})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, mode, 1e-9)

	smode, err := columnModeString("test", []string{"due", "paid", "paid", "due"})
	require.NoError(t, err)
	assert.Equal(t, "due", smode)
}

func TestRowVector_ColumnOrder(t *testing.T) {
	row := Row{
		StudentID:            "S1",
		AttendancePercentage: 90,
		QAverageTestScore:    [3]float64{70, 71, 72},
		QTestScoreTrend:      [3]float64{-1, -2, -3},
		QAttemptsUsed:        [3]float64{1, 2, 3},
		FeeStatus:            "paid",
		FeeDueDate:           15,
	}
	vec, err := row.Vector(func(s string) (float64, error) { return 7, nil })
	require.NoError(t, err)
	require.Len(t, vec, len(ModelColumns))
	assert.Equal(t, []float64{90, 70, 71, 72, -1, -2, -3, 1, 2, 3, 7, 15}, vec)
}
