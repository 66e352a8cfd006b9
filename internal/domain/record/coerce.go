package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/pkg/sheetdate"
)

// Expected source columns per table. A row missing any of these fails the
// sync for its table with a schema mismatch.
var expectedColumns = map[Table][]string{
	TableStudents: {
		"student_id", "student_name", "program", "gpa", "class", "batch",
		"mentor_email", "parent_email", "parent_phone",
	},
	TableAttendance: {
		"student_id", "classes_attended", "total_classes", "date",
	},
	TableAssessments: {
		"assessment_id", "student_id",
		"q1_score", "q2_score", "q3_score",
		"q1_average_test_score", "q2_average_test_score", "q3_average_test_score",
		"q1_max_score", "q2_max_score", "q3_max_score",
		"q1_attempts_used", "q2_attempts_used", "q3_attempts_used",
		"date",
	},
	TableFees: {
		"id", "student_id", "fee_status", "fee_due_amount", "fee_due_date",
	},
}

// ExpectedColumns returns the required header columns for a table.
func ExpectedColumns(t Table) []string {
	return expectedColumns[t]
}

// cell returns the trimmed cell value, failing when the column is absent
// from the row entirely (as opposed to present but empty).
func cell(row Row, col string) (string, error) {
	v, ok := row[col]
	if !ok {
		return "", shared.WrapError("sync", "Coerce", shared.ErrSchemaMismatch,
			fmt.Sprintf("column %q absent", col), nil)
	}
	return strings.TrimSpace(v), nil
}

// reqString returns the cell value, failing when it is empty.
func reqString(row Row, col string) (string, error) {
	v, err := cell(row, col)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", shared.WrapError("sync", "Coerce", shared.ErrInvalidInput,
			fmt.Sprintf("column %q is empty", col), nil)
	}
	return v, nil
}

// isNull reports whether a cell value is the absent-value marker: an
// empty string or a spreadsheet NaN artifact.
func isNull(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "null", "none", "#n/a":
		return true
	}
	return false
}

// optFloat parses an optional numeric cell, mapping null markers to nil.
func optFloat(row Row, col string) (*float64, error) {
	v, err := cell(row, col)
	if err != nil {
		return nil, err
	}
	if isNull(v) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, shared.WrapError("sync", "Coerce", shared.ErrBadNumeric,
			fmt.Sprintf("column %q: %q is not numeric", col, v), nil)
	}
	return &f, nil
}

// reqInt parses a required integer cell.
func reqInt(row Row, col string) (int, error) {
	v, err := reqString(row, col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, shared.WrapError("sync", "Coerce", shared.ErrBadNumeric,
			fmt.Sprintf("column %q: %q is not an integer", col, v), nil)
	}
	return n, nil
}

// optString maps null markers to nil and keeps everything else as-is.
func optString(row Row, col string) (*string, error) {
	v, err := cell(row, col)
	if err != nil {
		return nil, err
	}
	if isNull(v) {
		return nil, nil
	}
	return &v, nil
}

// rowErr adds the 1-based source row number to a coercion error.
func rowErr(i int, err error) error {
	return fmt.Errorf("row %d: %w", i+1, err)
}

// CoerceStudents converts raw sheet rows into Student records.
func CoerceStudents(rows []Row) ([]Student, error) {
	students := make([]Student, 0, len(rows))
	for i, row := range rows {
		id, err := reqString(row, "student_id")
		if err != nil {
			return nil, rowErr(i, err)
		}
		name, err := reqString(row, "student_name")
		if err != nil {
			return nil, rowErr(i, err)
		}
		gpa, err := optFloat(row, "gpa")
		if err != nil {
			return nil, rowErr(i, err)
		}

		s := Student{StudentID: id, StudentName: name, GPA: gpa}
		for col, dst := range map[string]*string{
			"program":      &s.Program,
			"class":        &s.Class,
			"batch":        &s.Batch,
			"mentor_email": &s.MentorEmail,
			"parent_email": &s.ParentEmail,
			"parent_phone": &s.ParentPhone,
		} {
			v, err := cell(row, col)
			if err != nil {
				return nil, rowErr(i, err)
			}
			*dst = v
		}
		students = append(students, s)
	}
	return students, nil
}

// CoerceAttendance converts raw sheet rows into AttendanceRecords,
// deriving attendance_percentage. A zero total_classes is surfaced as a
// division error, never silently stored as Inf or zero.
func CoerceAttendance(rows []Row) ([]AttendanceRecord, error) {
	records := make([]AttendanceRecord, 0, len(rows))
	for i, row := range rows {
		id, err := reqString(row, "student_id")
		if err != nil {
			return nil, rowErr(i, err)
		}
		attended, err := reqInt(row, "classes_attended")
		if err != nil {
			return nil, rowErr(i, err)
		}
		total, err := reqInt(row, "total_classes")
		if err != nil {
			return nil, rowErr(i, err)
		}
		if total == 0 {
			return nil, rowErr(i, shared.WrapError("sync", "Coerce", shared.ErrZeroTotalClasses,
				fmt.Sprintf("student %s", id), nil))
		}

		dateStr, err := reqString(row, "date")
		if err != nil {
			return nil, rowErr(i, err)
		}
		date, err := sheetdate.Parse(dateStr)
		if err != nil {
			return nil, rowErr(i, shared.WrapError("sync", "Coerce", shared.ErrBadDate,
				fmt.Sprintf("student %s", id), err))
		}

		records = append(records, AttendanceRecord{
			StudentID:            id,
			ClassesAttended:      attended,
			TotalClasses:         total,
			AttendancePercentage: float64(attended) / float64(total) * 100,
			Date:                 date,
		})
	}
	return records, nil
}

// CoerceAssessments converts raw sheet rows into AssessmentRecords,
// deriving the per-quarter test score trend (score - max score) whenever
// both sides are present.
func CoerceAssessments(rows []Row) ([]AssessmentRecord, error) {
	records := make([]AssessmentRecord, 0, len(rows))
	for i, row := range rows {
		assessmentID, err := reqString(row, "assessment_id")
		if err != nil {
			return nil, rowErr(i, err)
		}
		studentID, err := reqString(row, "student_id")
		if err != nil {
			return nil, rowErr(i, err)
		}

		rec := AssessmentRecord{AssessmentID: assessmentID, StudentID: studentID}
		for q := 0; q < 3; q++ {
			prefix := fmt.Sprintf("q%d_", q+1)
			qr := &rec.Quarters[q]

			if qr.Score, err = optFloat(row, prefix+"score"); err != nil {
				return nil, rowErr(i, err)
			}
			if qr.AverageTestScore, err = optFloat(row, prefix+"average_test_score"); err != nil {
				return nil, rowErr(i, err)
			}
			if qr.MaxScore, err = optFloat(row, prefix+"max_score"); err != nil {
				return nil, rowErr(i, err)
			}
			if qr.AttemptsUsed, err = optFloat(row, prefix+"attempts_used"); err != nil {
				return nil, rowErr(i, err)
			}
			if qr.Score != nil && qr.MaxScore != nil {
				trend := *qr.Score - *qr.MaxScore
				qr.TestScoreTrend = &trend
			}
		}

		dateStr, err := reqString(row, "date")
		if err != nil {
			return nil, rowErr(i, err)
		}
		if rec.Date, err = sheetdate.Parse(dateStr); err != nil {
			return nil, rowErr(i, shared.WrapError("sync", "Coerce", shared.ErrBadDate,
				fmt.Sprintf("student %s", studentID), err))
		}

		records = append(records, rec)
	}
	return records, nil
}

// CoerceFees converts raw sheet rows into FeeRecords. fee_status stays a
// string category; encoding to an integer code is the scorer's job.
func CoerceFees(rows []Row) ([]FeeRecord, error) {
	records := make([]FeeRecord, 0, len(rows))
	for i, row := range rows {
		id, err := reqString(row, "id")
		if err != nil {
			return nil, rowErr(i, err)
		}
		studentID, err := reqString(row, "student_id")
		if err != nil {
			return nil, rowErr(i, err)
		}
		status, err := optString(row, "fee_status")
		if err != nil {
			return nil, rowErr(i, err)
		}
		amount, err := optFloat(row, "fee_due_amount")
		if err != nil {
			return nil, rowErr(i, err)
		}
		dueDate, err := optFloat(row, "fee_due_date")
		if err != nil {
			return nil, rowErr(i, err)
		}

		records = append(records, FeeRecord{
			ID:           id,
			StudentID:    studentID,
			FeeStatus:    status,
			FeeDueAmount: amount,
			FeeDueDate:   dueDate,
		})
	}
	return records, nil
}
