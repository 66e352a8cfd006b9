package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

func attendanceRow(id, attended, total, date string) Row {
	return Row{
		"student_id":       id,
		"classes_attended": attended,
		"total_classes":    total,
		"date":             date,
	}
}

func TestCoerceAttendance_DerivesPercentage(t *testing.T) {
	records, err := CoerceAttendance([]Row{
		attendanceRow("S1", "18", "20", "15-03-2024"),
		attendanceRow("S2", "0", "20", "15-03-2024"),
		attendanceRow("S3", "20", "20", "15-03-2024"),
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.InDelta(t, 90.0, records[0].AttendancePercentage, 1e-9)
	assert.InDelta(t, 0.0, records[1].AttendancePercentage, 1e-9)
	assert.InDelta(t, 100.0, records[2].AttendancePercentage, 1e-9)

	for _, r := range records {
		assert.GreaterOrEqual(t, r.AttendancePercentage, 0.0)
		assert.LessOrEqual(t, r.AttendancePercentage, 100.0)
	}
}

func TestCoerceAttendance_ZeroTotalClassesFails(t *testing.T) {
	_, err := CoerceAttendance([]Row{
		attendanceRow("S1", "18", "20", "15-03-2024"),
		attendanceRow("S2", "5", "0", "15-03-2024"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrZeroTotalClasses)
	assert.ErrorIs(t, err, shared.ErrDivisionByZero)
}

func TestCoerceAttendance_NonNumericCountFails(t *testing.T) {
	_, err := CoerceAttendance([]Row{
		attendanceRow("S1", "eighteen", "20", "15-03-2024"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrBadNumeric)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCoerceAttendance_InvalidCalendarDateFails(t *testing.T) {
	_, err := CoerceAttendance([]Row{
		attendanceRow("S1", "18", "20", "31-02-2024"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrBadDate)
	assert.ErrorIs(t, err, shared.ErrDateParse)
}

func TestCoerceAttendance_MissingColumnFails(t *testing.T) {
	_, err := CoerceAttendance([]Row{
		{"student_id": "S1", "classes_attended": "18", "date": "15-03-2024"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrSchemaMismatch)
}

func TestCoerceAssessments_DerivesTrend(t *testing.T) {
	row := Row{
		"assessment_id": "A1",
		"student_id":    "S1",
		"date":          "10-01-2024",
	}
	for _, p := range []string{"q1_", "q2_", "q3_"} {
		row[p+"score"] = "70"
		row[p+"average_test_score"] = "65.5"
		row[p+"max_score"] = "80"
		row[p+"attempts_used"] = "2"
	}
	// Quarter 3 score missing: trend must stay nil, not zero.
	row["q3_score"] = ""

	records, err := CoerceAssessments([]Row{row})
	require.NoError(t, err)
	require.Len(t, records, 1)

	q1 := records[0].Quarters[0]
	require.NotNil(t, q1.TestScoreTrend)
	assert.InDelta(t, -10.0, *q1.TestScoreTrend, 1e-9)
	assert.InDelta(t, 65.5, *q1.AverageTestScore, 1e-9)

	q3 := records[0].Quarters[2]
	assert.Nil(t, q3.Score)
	assert.Nil(t, q3.TestScoreTrend)
}

func TestCoerceFees_NullMarkersBecomeNil(t *testing.T) {
	records, err := CoerceFees([]Row{
		{"id": "F1", "student_id": "S1", "fee_status": "paid", "fee_due_amount": "1200", "fee_due_date": "15"},
		{"id": "F2", "student_id": "S2", "fee_status": "NaN", "fee_due_amount": "", "fee_due_date": "null"},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NotNil(t, records[0].FeeStatus)
	assert.Equal(t, "paid", *records[0].FeeStatus)
	assert.Nil(t, records[1].FeeStatus)
	assert.Nil(t, records[1].FeeDueAmount)
	assert.Nil(t, records[1].FeeDueDate)
}

func TestCoerceStudents_RequiredAndOptionalFields(t *testing.T) {
	students, err := CoerceStudents([]Row{
		{
			"student_id": "S1", "student_name": "Asel N", "program": "CS",
			"gpa": "3.4", "class": "B", "batch": "2023",
			"mentor_email": "mentor@example.com", "parent_email": "parent@example.com",
			"parent_phone": "+7700",
		},
		{
			"student_id": "S2", "student_name": "Dias K", "program": "EE",
			"gpa": "", "class": "", "batch": "",
			"mentor_email": "", "parent_email": "", "parent_phone": "",
		},
	})
	require.NoError(t, err)
	require.Len(t, students, 2)

	require.NotNil(t, students[0].GPA)
	assert.InDelta(t, 3.4, *students[0].GPA, 1e-9)
	assert.Nil(t, students[1].GPA)
}

func TestCoerceStudents_EmptyIDFails(t *testing.T) {
	_, err := CoerceStudents([]Row{
		{
			"student_id": "", "student_name": "X", "program": "", "gpa": "",
			"class": "", "batch": "", "mentor_email": "", "parent_email": "",
			"parent_phone": "",
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

// Coercion is a pure function of the rows, so running it twice over the
// same sheet contents yields identical records (full-refresh idempotence
// at the coercion layer).
func TestCoerceAttendance_Deterministic(t *testing.T) {
	rows := []Row{
		attendanceRow("S1", "18", "20", "15-03-2024"),
		attendanceRow("S2", "7", "20", "16-03-2024"),
	}
	first, err := CoerceAttendance(rows)
	require.NoError(t, err)
	second, err := CoerceAttendance(rows)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
