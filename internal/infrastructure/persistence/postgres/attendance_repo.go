package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// AttendanceRepository implements record.AttendanceRepository on PostgreSQL.
type AttendanceRepository struct {
	conn *Connection
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(conn *Connection) *AttendanceRepository {
	return &AttendanceRepository{conn: conn}
}

// ReplaceAll deletes every attendance row and bulk-loads the new set
// inside one transaction.
func (r *AttendanceRepository) ReplaceAll(ctx context.Context, records []record.AttendanceRecord) error {
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM attendance`); err != nil {
			return fmt.Errorf("failed to clear attendance: %w", err)
		}

		rows := make([][]interface{}, len(records))
		for i, a := range records {
			rows[i] = []interface{}{
				a.StudentID, a.ClassesAttended, a.TotalClasses,
				a.AttendancePercentage, a.Date,
			}
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"attendance"},
			[]string{
				"student_id", "classes_attended", "total_classes",
				"attendance_percentage", "date",
			},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return shared.WrapError("store", "ReplaceAll", shared.ErrStoreWrite, "attendance", err)
	}
	return nil
}

// GetAll returns every attendance row in sheet order.
func (r *AttendanceRepository) GetAll(ctx context.Context) ([]record.AttendanceRecord, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT student_id, classes_attended, total_classes,
		       attendance_percentage, date
		FROM attendance
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []record.AttendanceRecord
	for rows.Next() {
		var a record.AttendanceRecord
		if err := rows.Scan(
			&a.StudentID, &a.ClassesAttended, &a.TotalClasses,
			&a.AttendancePercentage, &a.Date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
