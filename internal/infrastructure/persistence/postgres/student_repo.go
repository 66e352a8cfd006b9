package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// StudentRepository implements record.StudentRepository on PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// ReplaceAll deletes every student row and bulk-loads the new set inside
// one transaction. Readers keep seeing the previous rows until commit.
func (r *StudentRepository) ReplaceAll(ctx context.Context, students []record.Student) error {
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM students`); err != nil {
			return fmt.Errorf("failed to clear students: %w", err)
		}

		rows := make([][]interface{}, len(students))
		for i, s := range students {
			rows[i] = []interface{}{
				s.StudentID, s.StudentName, s.Program, s.GPA,
				s.Class, s.Batch, s.MentorEmail, s.ParentEmail, s.ParentPhone,
			}
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"students"},
			[]string{
				"student_id", "student_name", "program", "gpa",
				"class", "batch", "mentor_email", "parent_email", "parent_phone",
			},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy students: %w", err)
		}
		return nil
	})
	if err != nil {
		return shared.WrapError("store", "ReplaceAll", shared.ErrStoreWrite, "students", err)
	}
	return nil
}

const selectStudents = `
	SELECT student_id, student_name, program, gpa, class, batch,
	       mentor_email, parent_email, parent_phone
	FROM students
`

// GetAll returns every student ordered by student ID.
func (r *StudentRepository) GetAll(ctx context.Context) ([]record.Student, error) {
	rows, err := r.conn.Query(ctx, selectStudents+` ORDER BY student_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// GetByIDs returns the students whose IDs appear in the given set.
func (r *StudentRepository) GetByIDs(ctx context.Context, studentIDs []string) ([]record.Student, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	rows, err := r.conn.Query(ctx,
		selectStudents+` WHERE student_id = ANY($1) ORDER BY student_id`, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query students by IDs: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func scanStudents(rows pgx.Rows) ([]record.Student, error) {
	var students []record.Student
	for rows.Next() {
		var s record.Student
		if err := rows.Scan(
			&s.StudentID, &s.StudentName, &s.Program, &s.GPA,
			&s.Class, &s.Batch, &s.MentorEmail, &s.ParentEmail, &s.ParentPhone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
