// Package feature assembles the per-student feature table that feeds the
// risk classifier. It projects the four persisted tables down to the
// model-relevant columns, left-joins them on student_id with Students as
// the anchor, and imputes missing values with per-column strategies.
//
// Assembly is a pure function of its inputs: identical table contents
// always produce an identical frame.
package feature

import (
	"fmt"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// ModelColumns is the exact feature column order the classifier was
// trained on. fee_status is the label-encoded category code.
var ModelColumns = []string{
	"attendance_percentage",
	"q1_average_test_score",
	"q2_average_test_score",
	"q3_average_test_score",
	"q1_test_score_trend",
	"q2_test_score_trend",
	"q3_test_score_trend",
	"q1_attempts_used",
	"q2_attempts_used",
	"q3_attempts_used",
	"fee_status",
	"fee_due_date",
}

// Row is one assembled, fully-imputed feature row. student_id, name and
// program are carried for re-attachment to the scored output; they are
// not part of the model input.
type Row struct {
	StudentID   string
	StudentName string
	Program     string

	AttendancePercentage float64
	QAverageTestScore    [3]float64
	QTestScoreTrend      [3]float64
	QAttemptsUsed        [3]float64
	FeeStatus            string
	FeeDueDate           float64
}

// Frame is the assembled feature table, one row per student in the
// Students table, in Students order.
type Frame struct {
	Rows []Row
}

// joined holds one student's columns after the left join, before
// imputation. nil means the student had no matching source row.
type joined struct {
	attendance *float64
	qAverage   [3]*float64
	qTrend     [3]*float64
	qAttempts  [3]*float64
	feeStatus  *string
	feeDueDate *float64
}

// Assemble builds the feature frame from the four persisted tables.
//
// The join is anchored on students: every student appears exactly once in
// the output regardless of how many (or few) attendance, assessment, or
// fee rows exist for them. When a student has several rows in a source
// table, the last one in table order wins, matching the most recent
// full-refresh row.
func Assemble(
	students []record.Student,
	attendance []record.AttendanceRecord,
	assessments []record.AssessmentRecord,
	fees []record.FeeRecord,
) (*Frame, error) {
	if len(students) == 0 {
		return nil, shared.ErrNoStudents
	}

	attByStudent := make(map[string]record.AttendanceRecord, len(attendance))
	for _, a := range attendance {
		attByStudent[a.StudentID] = a
	}
	assessByStudent := make(map[string]record.AssessmentRecord, len(assessments))
	for _, a := range assessments {
		assessByStudent[a.StudentID] = a
	}
	feeByStudent := make(map[string]record.FeeRecord, len(fees))
	for _, f := range fees {
		feeByStudent[f.StudentID] = f
	}

	imp, err := computeImputations(attendance, assessments, fees)
	if err != nil {
		return nil, err
	}

	frame := &Frame{Rows: make([]Row, 0, len(students))}
	for _, s := range students {
		var j joined
		if a, ok := attByStudent[s.StudentID]; ok {
			v := a.AttendancePercentage
			j.attendance = &v
		}
		if a, ok := assessByStudent[s.StudentID]; ok {
			for q := 0; q < 3; q++ {
				j.qAverage[q] = a.Quarters[q].AverageTestScore
				j.qTrend[q] = a.Quarters[q].TestScoreTrend
				j.qAttempts[q] = a.Quarters[q].AttemptsUsed
			}
		}
		if f, ok := feeByStudent[s.StudentID]; ok {
			j.feeStatus = f.FeeStatus
			j.feeDueDate = f.FeeDueDate
		}

		frame.Rows = append(frame.Rows, Row{
			StudentID:            s.StudentID,
			StudentName:          s.StudentName,
			Program:              s.Program,
			AttendancePercentage: fill(j.attendance, imp.attendanceMean),
			QAverageTestScore: [3]float64{
				fill(j.qAverage[0], imp.qAverageMean[0]),
				fill(j.qAverage[1], imp.qAverageMean[1]),
				fill(j.qAverage[2], imp.qAverageMean[2]),
			},
			QTestScoreTrend: [3]float64{
				fill(j.qTrend[0], imp.qTrendMode[0]),
				fill(j.qTrend[1], imp.qTrendMode[1]),
				fill(j.qTrend[2], imp.qTrendMode[2]),
			},
			QAttemptsUsed: [3]float64{
				fill(j.qAttempts[0], imp.qAttemptsMode[0]),
				fill(j.qAttempts[1], imp.qAttemptsMode[1]),
				fill(j.qAttempts[2], imp.qAttemptsMode[2]),
			},
			FeeStatus:  fillString(j.feeStatus, imp.feeStatusMode),
			FeeDueDate: fill(j.feeDueDate, imp.feeDueDateMode),
		})
	}

	return frame, nil
}

// fill returns the observed value when present, the imputed one otherwise.
func fill(v *float64, imputed float64) float64 {
	if v != nil {
		return *v
	}
	return imputed
}

func fillString(v *string, imputed string) string {
	if v != nil {
		return *v
	}
	return imputed
}

// Vector returns one row's feature values in ModelColumns order, with
// fee_status encoded through the supplied category encoder.
func (r *Row) Vector(encodeFeeStatus func(string) (float64, error)) ([]float64, error) {
	code, err := encodeFeeStatus(r.FeeStatus)
	if err != nil {
		return nil, fmt.Errorf("student %s: %w", r.StudentID, err)
	}
	return []float64{
		r.AttendancePercentage,
		r.QAverageTestScore[0], r.QAverageTestScore[1], r.QAverageTestScore[2],
		r.QTestScoreTrend[0], r.QTestScoreTrend[1], r.QTestScoreTrend[2],
		r.QAttemptsUsed[0], r.QAttemptsUsed[1], r.QAttemptsUsed[2],
		code,
		r.FeeDueDate,
	}, nil
}
