package record

import (
	"context"
	"time"
)

// StudentRepository persists the students table with full-refresh
// semantics: ReplaceAll deletes every existing row and bulk-inserts the
// new set inside one transaction.
type StudentRepository interface {
	ReplaceAll(ctx context.Context, students []Student) error
	GetAll(ctx context.Context) ([]Student, error)
	GetByIDs(ctx context.Context, studentIDs []string) ([]Student, error)
}

// AttendanceRepository persists the attendance table.
type AttendanceRepository interface {
	ReplaceAll(ctx context.Context, records []AttendanceRecord) error
	GetAll(ctx context.Context) ([]AttendanceRecord, error)
}

// AssessmentRepository persists the assessments table.
type AssessmentRepository interface {
	ReplaceAll(ctx context.Context, records []AssessmentRecord) error
	GetAll(ctx context.Context) ([]AssessmentRecord, error)
}

// FeeRepository persists the fees table.
type FeeRepository interface {
	ReplaceAll(ctx context.Context, records []FeeRecord) error
	GetAll(ctx context.Context) ([]FeeRecord, error)
}

// MentorRepository persists mentor accounts used by the login and
// notification routes.
type MentorRepository interface {
	Create(ctx context.Context, m *Mentor) error
	GetByEmail(ctx context.Context, email string) (*Mentor, error)
	GetByID(ctx context.Context, id string) (*Mentor, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// SnapshotStore holds the latest scored snapshot. Save replaces the
// previous snapshot wholesale; Load returns shared.ErrSnapshotMissing
// (wrapped) when no snapshot exists or it has expired.
type SnapshotStore interface {
	Save(ctx context.Context, snap *ScoredSnapshot) error
	Load(ctx context.Context) (*ScoredSnapshot, error)
}

// Age returns how stale the snapshot is at the given instant.
func (s *ScoredSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.GeneratedAt)
}
