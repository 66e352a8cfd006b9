package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

// MentorRepository implements record.MentorRepository on PostgreSQL.
type MentorRepository struct {
	conn *Connection
}

// NewMentorRepository creates a new mentor repository.
func NewMentorRepository(conn *Connection) *MentorRepository {
	return &MentorRepository{conn: conn}
}

// Create inserts a mentor account. The password hash must already be
// computed by the caller.
func (r *MentorRepository) Create(ctx context.Context, m *record.Mentor) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.Role == "" {
		m.Role = "mentor"
	}

	_, err := r.conn.Exec(ctx, `
		INSERT INTO mentors (id, name, email, password_hash, mail_password, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.Name, m.Email, m.PasswordHash, m.MailPassword, m.Role, m.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("auth", "Create", shared.ErrValidation,
				fmt.Sprintf("mentor %q already exists", m.Email))
		}
		return fmt.Errorf("failed to create mentor: %w", err)
	}
	return nil
}

const selectMentor = `
	SELECT id, name, email, password_hash, mail_password, role, created_at
	FROM mentors
`

// GetByEmail returns the mentor with the given email.
func (r *MentorRepository) GetByEmail(ctx context.Context, email string) (*record.Mentor, error) {
	row := r.conn.QueryRow(ctx, selectMentor+` WHERE email = $1`, email)
	return scanMentor(row.Scan)
}

// GetByID returns the mentor with the given ID.
func (r *MentorRepository) GetByID(ctx context.Context, id string) (*record.Mentor, error) {
	row := r.conn.QueryRow(ctx, selectMentor+` WHERE id = $1`, id)
	return scanMentor(row.Scan)
}

// DeleteByEmail removes the mentor with the given email.
func (r *MentorRepository) DeleteByEmail(ctx context.Context, email string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM mentors WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to delete mentor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrMentorNotFound
	}
	return nil
}

func scanMentor(scan func(dest ...interface{}) error) (*record.Mentor, error) {
	var m record.Mentor
	err := scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.MailPassword, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, shared.ErrMentorNotFound
		}
		return nil, fmt.Errorf("failed to scan mentor: %w", err)
	}
	return &m, nil
}
