package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/student-risk-hub/internal/application/command"
	"github.com/edupulse/student-risk-hub/internal/application/query"
	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/internal/infrastructure/notify"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixtures
// ─────────────────────────────────────────────────────────────────────────────

type stubStudentRepo struct {
	students []record.Student
}

func (s *stubStudentRepo) ReplaceAll(context.Context, []record.Student) error { return nil }
func (s *stubStudentRepo) GetAll(context.Context) ([]record.Student, error) {
	return s.students, nil
}
func (s *stubStudentRepo) GetByIDs(_ context.Context, ids []string) ([]record.Student, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []record.Student
	for _, st := range s.students {
		if want[st.StudentID] {
			out = append(out, st)
		}
	}
	return out, nil
}

type stubSnapshotStore struct {
	snap *record.ScoredSnapshot
}

func (s *stubSnapshotStore) Save(_ context.Context, snap *record.ScoredSnapshot) error {
	s.snap = snap
	return nil
}
func (s *stubSnapshotStore) Load(context.Context) (*record.ScoredSnapshot, error) {
	if s.snap == nil {
		return nil, shared.NewDomainError("score", "Load", shared.ErrSnapshotMissing,
			"no scored snapshot available")
	}
	return s.snap, nil
}

type stubMentorRepo struct {
	mentor  *record.Mentor
	created *record.Mentor
}

func (s *stubMentorRepo) Create(_ context.Context, m *record.Mentor) error {
	if m.ID == "" {
		m.ID = "M2"
	}
	s.created = m
	return nil
}
func (s *stubMentorRepo) GetByEmail(_ context.Context, email string) (*record.Mentor, error) {
	if s.mentor != nil && s.mentor.Email == email {
		return s.mentor, nil
	}
	if s.created != nil && s.created.Email == email {
		return s.created, nil
	}
	return nil, shared.ErrMentorNotFound
}
func (s *stubMentorRepo) GetByID(_ context.Context, id string) (*record.Mentor, error) {
	if s.mentor != nil && s.mentor.ID == id {
		return s.mentor, nil
	}
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, shared.ErrMentorNotFound
}
func (s *stubMentorRepo) DeleteByEmail(_ context.Context, email string) error {
	if s.mentor != nil && s.mentor.Email == email {
		s.mentor = nil
		return nil
	}
	if s.created != nil && s.created.Email == email {
		s.created = nil
		return nil
	}
	return shared.ErrMentorNotFound
}

type stubMailer struct {
	sent int
}

func (s *stubMailer) Send(_ context.Context, _ notify.Credentials, _, _ string, recipients []notify.Recipient) (int, error) {
	s.sent += len(recipients)
	return len(recipients), nil
}

func testServer(t *testing.T) (*Server, *stubSnapshotStore, *stubMailer, *Authenticator) {
	t.Helper()

	hash, err := HashPassword("secret-password")
	require.NoError(t, err)

	students := &stubStudentRepo{students: []record.Student{
		{StudentID: "S1", StudentName: "Aida", ParentEmail: "p1@example.com"},
	}}
	mentors := &stubMentorRepo{mentor: &record.Mentor{
		ID:           "M1",
		Name:         "Dana",
		Email:        "dana@example.com",
		PasswordHash: hash,
		MailPassword: "app-password",
	}}
	snapshots := &stubSnapshotStore{}
	mailer := &stubMailer{}

	auth := NewAuthenticator(mentors, "test-secret", time.Hour, 24*time.Hour)

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	srv := NewServer(cfg, Dependencies{
		ListStudentsHandler:      query.NewListStudentsHandler(students),
		GetScoredStudentsHandler: query.NewGetScoredStudentsHandler(snapshots),
		SendAlertsHandler: command.NewSendAlertsHandler(
			mentors, students, mailer, logger.NewNop()),
		Auth:    auth,
		Mentors: mentors,
		Logger:  logger.NewNop(),
	})
	return srv, snapshots, mailer, auth
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestHealthEndpoint(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err, "request IDs are UUIDs")
}

func TestListStudents(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/students", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestScoredStudentsMissingSnapshotIs503(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/scored-students", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "snapshot_missing", resp.Error.Code)
}

func TestScoredStudentsServedWithProvenance(t *testing.T) {
	srv, snapshots, _, _ := testServer(t)
	snapshots.snap = &record.ScoredSnapshot{
		RunID:       "run-1",
		GeneratedAt: time.Now().UTC().Add(-time.Minute),
		Students: []record.ScoredStudent{
			{StudentID: "S1", StudentName: "Aida"},
		},
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/scored-students", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data query.ScoredStudentsDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.Data.RunID)
	assert.GreaterOrEqual(t, resp.Data.AgeSeconds, int64(59))
	require.Len(t, resp.Data.Students, 1)
}

func TestLoginIssuesTokens(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email:    "dana@example.com",
		Password: "secret-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data loginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "M1", resp.Data.Mentor.ID)
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.NotEmpty(t, resp.Data.RefreshToken)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email:    "dana@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotifyRequiresAuth(t *testing.T) {
	srv, _, mailer, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/notify", "", notifyRequest{
		StudentIDs: []string{"S1"},
		Message:    "Hello {name}",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, mailer.sent)
}

func TestNotifySendsWithValidToken(t *testing.T) {
	srv, _, mailer, auth := testServer(t)

	_, access, _, err := auth.Login(context.Background(), "dana@example.com", "secret-password")
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/notify", access, notifyRequest{
		StudentIDs: []string{"S1"},
		Message:    "Hello {name}",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, mailer.sent)
}

func TestRefreshTokenRejectedForAccess(t *testing.T) {
	srv, _, _, auth := testServer(t)

	_, _, refresh, err := auth.Login(context.Background(), "dana@example.com", "secret-password")
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/notify", refresh, notifyRequest{
		StudentIDs: []string{"S1"},
		Message:    "Hello",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyAccessTokenExpiry(t *testing.T) {
	mentors := &stubMentorRepo{}
	auth := NewAuthenticator(mentors, "test-secret", time.Hour, 24*time.Hour)

	token, err := auth.issueToken("M1", tokenTypeAccess, time.Hour)
	require.NoError(t, err)

	// valid now
	id, err := auth.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "M1", id)

	// expired two hours later
	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = auth.VerifyAccessToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestCreateMentorRequiresAuth(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/mentors", "", createMentorRequest{
		Name:     "Erlan",
		Email:    "erlan@example.com",
		Password: "another-secret",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateMentorThenLogin(t *testing.T) {
	srv, _, _, auth := testServer(t)

	_, access, _, err := auth.Login(context.Background(), "dana@example.com", "secret-password")
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/mentors", access, createMentorRequest{
		Name:     "Erlan",
		Email:    "erlan@example.com",
		Password: "another-secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data mentorDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "erlan@example.com", resp.Data.Email)

	// The new account must be usable for login straight away.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email:    "erlan@example.com",
		Password: "another-secret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateMentorRejectsShortPassword(t *testing.T) {
	srv, _, _, auth := testServer(t)

	_, access, _, err := auth.Login(context.Background(), "dana@example.com", "secret-password")
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/mentors", access, createMentorRequest{
		Name:     "Erlan",
		Email:    "erlan@example.com",
		Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMentor(t *testing.T) {
	srv, _, _, auth := testServer(t)

	_, access, _, err := auth.Login(context.Background(), "dana@example.com", "secret-password")
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/mentors", access, deleteMentorRequest{
		Email: "nobody@example.com",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/mentors", access, deleteMentorRequest{
		Email: "dana@example.com",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTemplatesEndpoint(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/templates", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []notify.Template `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 7)
}
