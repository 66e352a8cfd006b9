// Package postgres implements the PostgreSQL persistence layer for the
// student risk hub.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create students table
-- Version: 001

CREATE TABLE IF NOT EXISTS students (
    student_id VARCHAR(50) PRIMARY KEY,
    student_name VARCHAR(200) NOT NULL,
    program VARCHAR(100) NOT NULL DEFAULT '',
    gpa DOUBLE PRECISION,
    class VARCHAR(50) NOT NULL DEFAULT '',
    batch VARCHAR(50) NOT NULL DEFAULT '',
    mentor_email VARCHAR(254) NOT NULL DEFAULT '',
    parent_email VARCHAR(254) NOT NULL DEFAULT '',
    parent_phone VARCHAR(50) NOT NULL DEFAULT '',
    synced_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_students_mentor_email ON students(mentor_email);
CREATE INDEX IF NOT EXISTS idx_students_batch ON students(batch);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create attendance table
-- Version: 002

CREATE TABLE IF NOT EXISTS attendance (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    student_id VARCHAR(50) NOT NULL,
    classes_attended INTEGER NOT NULL,
    total_classes INTEGER NOT NULL,
    attendance_percentage DOUBLE PRECISION NOT NULL,
    date DATE NOT NULL,

    CONSTRAINT positive_total_classes CHECK (total_classes > 0),
    CONSTRAINT attended_within_total CHECK (classes_attended >= 0)
);

CREATE INDEX IF NOT EXISTS idx_attendance_student_id ON attendance(student_id);
CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE ASSESSMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create assessments table
-- Version: 003

CREATE TABLE IF NOT EXISTS assessments (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    assessment_id VARCHAR(50) NOT NULL,
    student_id VARCHAR(50) NOT NULL,
    q1_score DOUBLE PRECISION,
    q2_score DOUBLE PRECISION,
    q3_score DOUBLE PRECISION,
    q1_average_test_score DOUBLE PRECISION,
    q2_average_test_score DOUBLE PRECISION,
    q3_average_test_score DOUBLE PRECISION,
    q1_max_score DOUBLE PRECISION,
    q2_max_score DOUBLE PRECISION,
    q3_max_score DOUBLE PRECISION,
    q1_test_score_trend DOUBLE PRECISION,
    q2_test_score_trend DOUBLE PRECISION,
    q3_test_score_trend DOUBLE PRECISION,
    q1_attempts_used DOUBLE PRECISION,
    q2_attempts_used DOUBLE PRECISION,
    q3_attempts_used DOUBLE PRECISION,
    date DATE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_student_id ON assessments(student_id);
CREATE INDEX IF NOT EXISTS idx_assessments_date ON assessments(date);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE FEES
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create fees table
-- Version: 004

CREATE TABLE IF NOT EXISTS fees (
    id VARCHAR(50) PRIMARY KEY,
    student_id VARCHAR(50) NOT NULL,
    fee_status VARCHAR(50),
    fee_due_amount DOUBLE PRECISION,
    fee_due_date DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_fees_student_id ON fees(student_id);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 005: CREATE MENTORS
// ══════════════════════════════════════════════════════════════════════════════

const migration005Up = `
-- Migration: Create mentors table
-- Version: 005

CREATE TABLE IF NOT EXISTS mentors (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(200) NOT NULL,
    email VARCHAR(254) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    mail_password VARCHAR(200) NOT NULL DEFAULT '',
    role VARCHAR(20) NOT NULL DEFAULT 'mentor',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('mentor', 'admin'))
);

CREATE INDEX IF NOT EXISTS idx_mentors_email ON mentors(email);
`

// GetMigrations returns all migrations in version order.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_students", UpSQL: migration001Up},
		{Version: 2, Name: "create_attendance", UpSQL: migration002Up},
		{Version: 3, Name: "create_assessments", UpSQL: migration003Up},
		{Version: 4, Name: "create_fees", UpSQL: migration004Up},
		{Version: 5, Name: "create_mentors", UpSQL: migration005Up},
	}
}
