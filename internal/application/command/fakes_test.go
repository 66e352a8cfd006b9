package command

import (
	"context"
	"errors"

	"github.com/edupulse/student-risk-hub/internal/domain/feature"
	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/notify"
)

// fakeSource serves preset raw rows per table.
type fakeSource struct {
	rows map[record.Table][]record.Row
	errs map[record.Table]error
}

func (f *fakeSource) ReadTable(_ context.Context, table record.Table) ([]record.Row, error) {
	if err := f.errs[table]; err != nil {
		return nil, err
	}
	return f.rows[table], nil
}

// fakeStudentRepo is an in-memory student repository.
type fakeStudentRepo struct {
	students   []record.Student
	replaceErr error
	replaced   int
}

func (f *fakeStudentRepo) ReplaceAll(_ context.Context, students []record.Student) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.students = students
	f.replaced++
	return nil
}

func (f *fakeStudentRepo) GetAll(_ context.Context) ([]record.Student, error) {
	return f.students, nil
}

func (f *fakeStudentRepo) GetByIDs(_ context.Context, ids []string) ([]record.Student, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []record.Student
	for _, s := range f.students {
		if want[s.StudentID] {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records    []record.AttendanceRecord
	replaceErr error
	replaced   int
}

func (f *fakeAttendanceRepo) ReplaceAll(_ context.Context, records []record.AttendanceRecord) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.records = records
	f.replaced++
	return nil
}

func (f *fakeAttendanceRepo) GetAll(_ context.Context) ([]record.AttendanceRecord, error) {
	return f.records, nil
}

type fakeAssessmentRepo struct {
	records  []record.AssessmentRecord
	replaced int
}

func (f *fakeAssessmentRepo) ReplaceAll(_ context.Context, records []record.AssessmentRecord) error {
	f.records = records
	f.replaced++
	return nil
}

func (f *fakeAssessmentRepo) GetAll(_ context.Context) ([]record.AssessmentRecord, error) {
	return f.records, nil
}

type fakeFeeRepo struct {
	records  []record.FeeRecord
	replaced int
}

func (f *fakeFeeRepo) ReplaceAll(_ context.Context, records []record.FeeRecord) error {
	f.records = records
	f.replaced++
	return nil
}

func (f *fakeFeeRepo) GetAll(_ context.Context) ([]record.FeeRecord, error) {
	return f.records, nil
}

// fakeScorer attaches a fixed probability triple to every student.
type fakeScorer struct {
	err error
}

func (f *fakeScorer) Score(frame *feature.Frame) ([]record.ScoredStudent, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]record.ScoredStudent, len(frame.Rows))
	for i, row := range frame.Rows {
		out[i] = record.ScoredStudent{
			StudentID:   row.StudentID,
			StudentName: row.StudentName,
			RiskProbabilities: record.RiskProbabilities{
				LowRisk:    70,
				MediumRisk: 20,
				HighRisk:   10,
			},
		}
	}
	return out, nil
}

// fakeSnapshotStore keeps the latest snapshot in memory.
type fakeSnapshotStore struct {
	snap    *record.ScoredSnapshot
	saveErr error
}

func (f *fakeSnapshotStore) Save(_ context.Context, snap *record.ScoredSnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snap = snap
	return nil
}

func (f *fakeSnapshotStore) Load(_ context.Context) (*record.ScoredSnapshot, error) {
	if f.snap == nil {
		return nil, errors.New("no snapshot")
	}
	return f.snap, nil
}

// fakeMentorRepo is an in-memory mentor repository.
type fakeMentorRepo struct {
	mentors map[string]*record.Mentor
}

func (f *fakeMentorRepo) Create(_ context.Context, m *record.Mentor) error {
	if f.mentors == nil {
		f.mentors = make(map[string]*record.Mentor)
	}
	f.mentors[m.ID] = m
	return nil
}

func (f *fakeMentorRepo) GetByEmail(_ context.Context, email string) (*record.Mentor, error) {
	for _, m := range f.mentors {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, errors.New("mentor not found")
}

func (f *fakeMentorRepo) GetByID(_ context.Context, id string) (*record.Mentor, error) {
	if m, ok := f.mentors[id]; ok {
		return m, nil
	}
	return nil, errors.New("mentor not found")
}

func (f *fakeMentorRepo) DeleteByEmail(_ context.Context, email string) error {
	for id, m := range f.mentors {
		if m.Email == email {
			delete(f.mentors, id)
			return nil
		}
	}
	return errors.New("mentor not found")
}

// fakeMailer records sent batches instead of talking SMTP.
type fakeMailer struct {
	sentSubject    string
	sentBody       string
	sentCreds      notify.Credentials
	sentRecipients []notify.Recipient
	err            error
}

func (f *fakeMailer) Send(_ context.Context, creds notify.Credentials, subject, body string, recipients []notify.Recipient) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.sentCreds = creds
	f.sentSubject = subject
	f.sentBody = body
	f.sentRecipients = recipients
	return len(recipients), nil
}
