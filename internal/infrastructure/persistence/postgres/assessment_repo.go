package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// AssessmentRepository implements record.AssessmentRepository on PostgreSQL.
// Quarter results are stored flat (q1..q3 column groups) and folded back
// into the three-element quarters array on read.
type AssessmentRepository struct {
	conn *Connection
}

// NewAssessmentRepository creates a new assessment repository.
func NewAssessmentRepository(conn *Connection) *AssessmentRepository {
	return &AssessmentRepository{conn: conn}
}

// ReplaceAll deletes every assessment row and bulk-loads the new set
// inside one transaction.
func (r *AssessmentRepository) ReplaceAll(ctx context.Context, records []record.AssessmentRecord) error {
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM assessments`); err != nil {
			return fmt.Errorf("failed to clear assessments: %w", err)
		}

		rows := make([][]interface{}, len(records))
		for i, a := range records {
			rows[i] = []interface{}{
				a.AssessmentID, a.StudentID,
				a.Quarters[0].Score, a.Quarters[1].Score, a.Quarters[2].Score,
				a.Quarters[0].AverageTestScore, a.Quarters[1].AverageTestScore, a.Quarters[2].AverageTestScore,
				a.Quarters[0].MaxScore, a.Quarters[1].MaxScore, a.Quarters[2].MaxScore,
				a.Quarters[0].TestScoreTrend, a.Quarters[1].TestScoreTrend, a.Quarters[2].TestScoreTrend,
				a.Quarters[0].AttemptsUsed, a.Quarters[1].AttemptsUsed, a.Quarters[2].AttemptsUsed,
				a.Date,
			}
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"assessments"},
			[]string{
				"assessment_id", "student_id",
				"q1_score", "q2_score", "q3_score",
				"q1_average_test_score", "q2_average_test_score", "q3_average_test_score",
				"q1_max_score", "q2_max_score", "q3_max_score",
				"q1_test_score_trend", "q2_test_score_trend", "q3_test_score_trend",
				"q1_attempts_used", "q2_attempts_used", "q3_attempts_used",
				"date",
			},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy assessments: %w", err)
		}
		return nil
	})
	if err != nil {
		return shared.WrapError("store", "ReplaceAll", shared.ErrStoreWrite, "assessments", err)
	}
	return nil
}

// GetAll returns every assessment row in sheet order.
func (r *AssessmentRepository) GetAll(ctx context.Context) ([]record.AssessmentRecord, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT assessment_id, student_id,
		       q1_score, q2_score, q3_score,
		       q1_average_test_score, q2_average_test_score, q3_average_test_score,
		       q1_max_score, q2_max_score, q3_max_score,
		       q1_test_score_trend, q2_test_score_trend, q3_test_score_trend,
		       q1_attempts_used, q2_attempts_used, q3_attempts_used,
		       date
		FROM assessments
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var records []record.AssessmentRecord
	for rows.Next() {
		var a record.AssessmentRecord
		if err := rows.Scan(
			&a.AssessmentID, &a.StudentID,
			&a.Quarters[0].Score, &a.Quarters[1].Score, &a.Quarters[2].Score,
			&a.Quarters[0].AverageTestScore, &a.Quarters[1].AverageTestScore, &a.Quarters[2].AverageTestScore,
			&a.Quarters[0].MaxScore, &a.Quarters[1].MaxScore, &a.Quarters[2].MaxScore,
			&a.Quarters[0].TestScoreTrend, &a.Quarters[1].TestScoreTrend, &a.Quarters[2].TestScoreTrend,
			&a.Quarters[0].AttemptsUsed, &a.Quarters[1].AttemptsUsed, &a.Quarters[2].AttemptsUsed,
			&a.Date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
