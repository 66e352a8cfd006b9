package feature

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// imputations holds the per-column fill values for one assembly run.
// They are computed once over the whole cohort (the source tables, not
// the joined rows), so re-running assembly on the same store contents
// yields identical imputed values.
type imputations struct {
	attendanceMean float64
	qAverageMean   [3]float64
	qTrendMode     [3]float64
	qAttemptsMode  [3]float64
	feeStatusMode  string
	feeDueDateMode float64
}

func computeImputations(
	attendance []record.AttendanceRecord,
	assessments []record.AssessmentRecord,
	fees []record.FeeRecord,
) (*imputations, error) {
	imp := &imputations{}

	attPct := make([]float64, 0, len(attendance))
	for _, a := range attendance {
		attPct = append(attPct, a.AttendancePercentage)
	}
	var err error
	if imp.attendanceMean, err = columnMean("attendance_percentage", attPct); err != nil {
		return nil, err
	}

	for q := 0; q < 3; q++ {
		averages := make([]float64, 0, len(assessments))
		trends := make([]float64, 0, len(assessments))
		attempts := make([]float64, 0, len(assessments))
		for _, a := range assessments {
			qr := a.Quarters[q]
			if qr.AverageTestScore != nil {
				averages = append(averages, *qr.AverageTestScore)
			}
			if qr.TestScoreTrend != nil {
				trends = append(trends, *qr.TestScoreTrend)
			}
			if qr.AttemptsUsed != nil {
				attempts = append(attempts, *qr.AttemptsUsed)
			}
		}
		col := fmt.Sprintf("q%d_", q+1)
		if imp.qAverageMean[q], err = columnMean(col+"average_test_score", averages); err != nil {
			return nil, err
		}
		if imp.qTrendMode[q], err = columnModeFloat(col+"test_score_trend", trends); err != nil {
			return nil, err
		}
		if imp.qAttemptsMode[q], err = columnModeFloat(col+"attempts_used", attempts); err != nil {
			return nil, err
		}
	}

	statuses := make([]string, 0, len(fees))
	dueDates := make([]float64, 0, len(fees))
	for _, f := range fees {
		if f.FeeStatus != nil {
			statuses = append(statuses, *f.FeeStatus)
		}
		if f.FeeDueDate != nil {
			dueDates = append(dueDates, *f.FeeDueDate)
		}
	}
	if imp.feeStatusMode, err = columnModeString("fee_status", statuses); err != nil {
		return nil, err
	}
	if imp.feeDueDateMode, err = columnModeFloat("fee_due_date", dueDates); err != nil {
		return nil, err
	}

	return imp, nil
}

// columnMean is the arithmetic mean of a column's non-null values.
func columnMean(column string, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, emptyColumn(column)
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0, emptyColumn(column)
	}
	return m, nil
}

// columnModeFloat is the most frequent non-null value of a column. Ties
// are broken by first occurrence in table order, which keeps the result
// deterministic across runs.
func columnModeFloat(column string, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, emptyColumn(column)
	}
	counts := make(map[float64]int, len(values))
	best := values[0]
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best, nil
}

func columnModeString(column string, values []string) (string, error) {
	if len(values) == 0 {
		return "", emptyColumn(column)
	}
	counts := make(map[string]int, len(values))
	best := values[0]
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best, nil
}

func emptyColumn(column string) error {
	return shared.WrapError("feature", "Impute", shared.ErrEmptyColumn,
		fmt.Sprintf("column %q", column), nil)
}
