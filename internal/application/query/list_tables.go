// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
package query

import (
	"context"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
)

// ══════════════════════════════════════════════════════════════════════════════
// TABLE LISTING QUERIES
// Serve the persisted source tables as-is. Every call goes back to the
// store rather than a cached copy, so responses always reflect the most
// recent completed sync.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsHandler serves the students table.
type ListStudentsHandler struct {
	students record.StudentRepository
}

// NewListStudentsHandler creates a new students query handler.
func NewListStudentsHandler(students record.StudentRepository) *ListStudentsHandler {
	return &ListStudentsHandler{students: students}
}

// Handle returns every student.
func (h *ListStudentsHandler) Handle(ctx context.Context) ([]record.Student, error) {
	return h.students.GetAll(ctx)
}

// ListAttendanceHandler serves the attendance table.
type ListAttendanceHandler struct {
	attendance record.AttendanceRepository
}

// NewListAttendanceHandler creates a new attendance query handler.
func NewListAttendanceHandler(attendance record.AttendanceRepository) *ListAttendanceHandler {
	return &ListAttendanceHandler{attendance: attendance}
}

// Handle returns every attendance row.
func (h *ListAttendanceHandler) Handle(ctx context.Context) ([]record.AttendanceRecord, error) {
	return h.attendance.GetAll(ctx)
}

// ListAssessmentsHandler serves the assessments table.
type ListAssessmentsHandler struct {
	assessments record.AssessmentRepository
}

// NewListAssessmentsHandler creates a new assessments query handler.
func NewListAssessmentsHandler(assessments record.AssessmentRepository) *ListAssessmentsHandler {
	return &ListAssessmentsHandler{assessments: assessments}
}

// Handle returns every assessment row.
func (h *ListAssessmentsHandler) Handle(ctx context.Context) ([]record.AssessmentRecord, error) {
	return h.assessments.GetAll(ctx)
}

// ListFeesHandler serves the fees table.
type ListFeesHandler struct {
	fees record.FeeRepository
}

// NewListFeesHandler creates a new fees query handler.
func NewListFeesHandler(fees record.FeeRepository) *ListFeesHandler {
	return &ListFeesHandler{fees: fees}
}

// Handle returns every fee row.
func (h *ListFeesHandler) Handle(ctx context.Context) ([]record.FeeRecord, error) {
	return h.fees.GetAll(ctx)
}
