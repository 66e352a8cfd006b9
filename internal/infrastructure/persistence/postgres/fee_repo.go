package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// FeeRepository implements record.FeeRepository on PostgreSQL.
type FeeRepository struct {
	conn *Connection
}

// NewFeeRepository creates a new fee repository.
func NewFeeRepository(conn *Connection) *FeeRepository {
	return &FeeRepository{conn: conn}
}

// ReplaceAll deletes every fee row and bulk-loads the new set inside one
// transaction.
func (r *FeeRepository) ReplaceAll(ctx context.Context, records []record.FeeRecord) error {
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM fees`); err != nil {
			return fmt.Errorf("failed to clear fees: %w", err)
		}

		rows := make([][]interface{}, len(records))
		for i, f := range records {
			rows[i] = []interface{}{
				f.ID, f.StudentID, f.FeeStatus, f.FeeDueAmount, f.FeeDueDate,
			}
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"fees"},
			[]string{"id", "student_id", "fee_status", "fee_due_amount", "fee_due_date"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy fees: %w", err)
		}
		return nil
	})
	if err != nil {
		return shared.WrapError("store", "ReplaceAll", shared.ErrStoreWrite, "fees", err)
	}
	return nil
}

// GetAll returns every fee row ordered by row ID.
func (r *FeeRepository) GetAll(ctx context.Context) ([]record.FeeRecord, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, student_id, fee_status, fee_due_amount, fee_due_date
		FROM fees
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fees: %w", err)
	}
	defer rows.Close()

	var records []record.FeeRecord
	for rows.Next() {
		var f record.FeeRecord
		if err := rows.Scan(
			&f.ID, &f.StudentID, &f.FeeStatus, &f.FeeDueAmount, &f.FeeDueDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fee row: %w", err)
		}
		records = append(records, f)
	}
	return records, rows.Err()
}
