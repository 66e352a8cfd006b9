// Package record defines the entities synchronized from the source
// spreadsheets, their repository contracts, and the coercion rules that
// turn raw sheet rows into typed records.
package record

import "time"

// Table identifies one of the four synchronized source tables.
type Table string

const (
	TableStudents    Table = "students"
	TableAttendance  Table = "attendance"
	TableAssessments Table = "assessments"
	TableFees        Table = "fees"
)

// Tables lists the synchronized tables in sync order. The assembler needs
// all four complete before it runs, so the orchestrator walks this slice
// sequentially.
var Tables = []Table{TableStudents, TableAttendance, TableAssessments, TableFees}

// Row is one raw spreadsheet row: column header to cell text. Empty cells
// are empty strings; the coercion layer maps them to typed nulls before
// any numeric cast.
type Row map[string]string

// Student is identity and metadata for one student. Fully replaced on
// every sync cycle.
type Student struct {
	StudentID   string   `json:"student_id"`
	StudentName string   `json:"student_name"`
	Program     string   `json:"program"`
	GPA         *float64 `json:"gpa"`
	Class       string   `json:"class"`
	Batch       string   `json:"batch"`
	MentorEmail string   `json:"mentor_email"`
	ParentEmail string   `json:"parent_email"`
	ParentPhone string   `json:"parent_phone"`
}

// AttendanceRecord is one attendance row with its derived percentage.
// TotalClasses is always positive; a zero value is rejected at coercion
// time rather than producing Inf.
type AttendanceRecord struct {
	StudentID            string    `json:"student_id"`
	ClassesAttended      int       `json:"classes_attended"`
	TotalClasses         int       `json:"total_classes"`
	AttendancePercentage float64   `json:"attendance_percentage"`
	Date                 time.Time `json:"date"`
}

// QuarterResult holds one quarter's scores for an assessment cycle.
// Fields are nullable: an empty source cell stays nil and is imputed at
// assembly time. TestScoreTrend is Score - MaxScore, derived only when
// both sides are present.
type QuarterResult struct {
	Score            *float64 `json:"score"`
	AverageTestScore *float64 `json:"average_test_score"`
	MaxScore         *float64 `json:"max_score"`
	TestScoreTrend   *float64 `json:"test_score_trend"`
	AttemptsUsed     *float64 `json:"attempts_used"`
}

// AssessmentRecord is one assessment cycle (three quarters) for a student.
type AssessmentRecord struct {
	AssessmentID string           `json:"assessment_id"`
	StudentID    string           `json:"student_id"`
	Quarters     [3]QuarterResult `json:"quarters"`
	Date         time.Time        `json:"date"`
}

// FeeRecord is one fee row. FeeStatus stays a string category in storage;
// label encoding to an integer code happens only at scoring time, with
// the encoding persisted in the classifier artifact.
type FeeRecord struct {
	ID           string   `json:"id"`
	StudentID    string   `json:"student_id"`
	FeeStatus    *string  `json:"fee_status"`
	FeeDueAmount *float64 `json:"fee_due_amount"`
	FeeDueDate   *float64 `json:"fee_due_date"`
}

// RiskProbabilities is the classifier's three-way output for one student,
// scaled to percentages. The triple sums to 100 up to float rounding.
type RiskProbabilities struct {
	HighRisk   float64 `json:"high_risk"`
	MediumRisk float64 `json:"medium_risk"`
	LowRisk    float64 `json:"low_risk"`
}

// ScoredStudent is the system's primary output artifact: the joined and
// imputed feature values for one student plus the risk triple.
type ScoredStudent struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Program     string `json:"program"`

	AttendancePercentage float64 `json:"attendance_percentage"`

	Q1AverageTestScore float64 `json:"q1_average_test_score"`
	Q2AverageTestScore float64 `json:"q2_average_test_score"`
	Q3AverageTestScore float64 `json:"q3_average_test_score"`
	Q1TestScoreTrend   float64 `json:"q1_test_score_trend"`
	Q2TestScoreTrend   float64 `json:"q2_test_score_trend"`
	Q3TestScoreTrend   float64 `json:"q3_test_score_trend"`
	Q1AttemptsUsed     float64 `json:"q1_attempts_used"`
	Q2AttemptsUsed     float64 `json:"q2_attempts_used"`
	Q3AttemptsUsed     float64 `json:"q3_attempts_used"`

	FeeStatus  string  `json:"fee_status"`
	FeeDueDate float64 `json:"fee_due_date"`

	RiskProbabilities
}

// ScoredSnapshot is a point-in-time scored table with its generation
// timestamp. The query surface serves this snapshot until the next
// successful pipeline run replaces it.
type ScoredSnapshot struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Students    []ScoredStudent `json:"students"`
}

// Mentor is an authenticated caller of the notification and sync routes.
// MailPassword is the mentor's SMTP app password, used to send alerts
// from the mentor's own mailbox.
type Mentor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	MailPassword string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
