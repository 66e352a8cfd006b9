package model

import (
	"github.com/edupulse/student-risk-hub/internal/domain/feature"
	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// Scorer turns an assembled feature frame into scored students using a
// loaded classifier.
type Scorer struct {
	classifier *Classifier
}

// NewScorer creates a Scorer around a loaded classifier, verifying that
// the assembler's column order matches the artifact's training-time
// order. A disagreement here means the schema drifted between training
// and run time and cannot be retried away.
func NewScorer(c *Classifier) (*Scorer, error) {
	cols := c.FeatureColumns()
	if len(cols) != len(feature.ModelColumns) {
		return nil, shared.ErrColumnDrift
	}
	for i, col := range cols {
		if col != feature.ModelColumns[i] {
			return nil, shared.ErrColumnDrift
		}
	}
	return &Scorer{classifier: c}, nil
}

// Score encodes each row's fee_status, invokes the classifier and
// attaches the risk probability triple scaled to percentages. The output
// preserves frame row order, one scored student per assembled row.
func (s *Scorer) Score(frame *feature.Frame) ([]record.ScoredStudent, error) {
	matrix := make([][]float64, 0, len(frame.Rows))
	for i := range frame.Rows {
		vec, err := frame.Rows[i].Vector(s.classifier.EncodeFeeStatus)
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, vec)
	}

	probs, err := s.classifier.PredictProba(matrix)
	if err != nil {
		return nil, err
	}

	scored := make([]record.ScoredStudent, 0, len(frame.Rows))
	for i, row := range frame.Rows {
		scored = append(scored, record.ScoredStudent{
			StudentID:            row.StudentID,
			StudentName:          row.StudentName,
			Program:              row.Program,
			AttendancePercentage: row.AttendancePercentage,
			Q1AverageTestScore:   row.QAverageTestScore[0],
			Q2AverageTestScore:   row.QAverageTestScore[1],
			Q3AverageTestScore:   row.QAverageTestScore[2],
			Q1TestScoreTrend:     row.QTestScoreTrend[0],
			Q2TestScoreTrend:     row.QTestScoreTrend[1],
			Q3TestScoreTrend:     row.QTestScoreTrend[2],
			Q1AttemptsUsed:       row.QAttemptsUsed[0],
			Q2AttemptsUsed:       row.QAttemptsUsed[1],
			Q3AttemptsUsed:       row.QAttemptsUsed[2],
			FeeStatus:            row.FeeStatus,
			FeeDueDate:           row.FeeDueDate,
			RiskProbabilities: record.RiskProbabilities{
				LowRisk:    probs[i][0] * 100,
				MediumRisk: probs[i][1] * 100,
				HighRisk:   probs[i][2] * 100,
			},
		})
	}
	return scored, nil
}
