package command

import (
	"context"
	"errors"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/notify"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEND ALERTS COMMAND
// Emails parents of the selected students on behalf of a mentor. The
// message body may contain a {name} placeholder replaced with each
// student's name. Mail is sent from the mentor's own mailbox using the
// mentor's stored app password.
// ══════════════════════════════════════════════════════════════════════════════

// AlertMailer delivers the personalized messages.
type AlertMailer interface {
	Send(ctx context.Context, creds notify.Credentials, subject, body string, recipients []notify.Recipient) (int, error)
}

// defaultAlertSubject matches the subject parents have come to expect.
const defaultAlertSubject = "Message from your Mentor"

// SendAlertsCommand contains the data to send parent alerts.
type SendAlertsCommand struct {
	// MentorID identifies the sending mentor.
	MentorID string

	// StudentIDs selects whose parents receive the message.
	StudentIDs []string

	// Message is the body template; {name} is replaced per student.
	Message string

	// Subject overrides the default subject when non-empty.
	Subject string
}

// Validate validates the command.
func (c SendAlertsCommand) Validate() error {
	if c.MentorID == "" {
		return shared.NewDomainError("notify", "Validate", shared.ErrValidation,
			"mentor_id is required")
	}
	if len(c.StudentIDs) == 0 {
		return shared.NewDomainError("notify", "Validate", shared.ErrValidation,
			"student_ids is required")
	}
	if c.Message == "" {
		return shared.NewDomainError("notify", "Validate", shared.ErrValidation,
			"message is required")
	}
	return nil
}

// SendAlertsResult summarizes a completed alert batch.
type SendAlertsResult struct {
	// SentCount is the number of emails delivered.
	SentCount int

	// SkippedStudents lists selected students with no parent email.
	SkippedStudents []string
}

// SendAlertsHandler handles the SendAlertsCommand.
type SendAlertsHandler struct {
	mentors  record.MentorRepository
	students record.StudentRepository
	mailer   AlertMailer
	logger   *logger.Logger
}

// NewSendAlertsHandler creates a new alert handler.
func NewSendAlertsHandler(
	mentors record.MentorRepository,
	students record.StudentRepository,
	mailer AlertMailer,
	log *logger.Logger,
) *SendAlertsHandler {
	return &SendAlertsHandler{
		mentors:  mentors,
		students: students,
		mailer:   mailer,
		logger:   log.With(logger.Component("alerts")),
	}
}

// Handle sends the alert batch.
func (h *SendAlertsHandler) Handle(ctx context.Context, cmd SendAlertsCommand) (*SendAlertsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	mentor, err := h.mentors.GetByID(ctx, cmd.MentorID)
	if err != nil {
		return nil, err
	}
	if mentor.Email == "" || mentor.MailPassword == "" {
		return nil, shared.ErrNoMailCredentials
	}

	students, err := h.students.GetByIDs(ctx, cmd.StudentIDs)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, shared.NewDomainError("notify", "Handle", shared.ErrNotFound,
			"no students found for the given IDs")
	}

	result := &SendAlertsResult{}
	recipients := make([]notify.Recipient, 0, len(students))
	for _, s := range students {
		if s.ParentEmail == "" {
			result.SkippedStudents = append(result.SkippedStudents, s.StudentID)
			continue
		}
		recipients = append(recipients, notify.Recipient{
			StudentName: s.StudentName,
			Email:       s.ParentEmail,
		})
	}

	subject := cmd.Subject
	if subject == "" {
		subject = defaultAlertSubject
	}

	creds := notify.Credentials{Email: mentor.Email, Password: mentor.MailPassword}
	sent, err := h.mailer.Send(ctx, creds, subject, cmd.Message, recipients)
	result.SentCount = sent
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			h.logger.Warn("mentor mailbox login failed",
				logger.String("mentor", mentor.Email),
			)
		}
		return result, err
	}

	h.logger.Info("alert batch sent",
		logger.String("mentor", mentor.Email),
		logger.Int("sent", sent),
		logger.Int("skipped", len(result.SkippedStudents)),
	)
	return result, nil
}
