package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
)

type stubSnapshotStore struct {
	snap *record.ScoredSnapshot
}

func (s *stubSnapshotStore) Save(_ context.Context, snap *record.ScoredSnapshot) error {
	s.snap = snap
	return nil
}

func (s *stubSnapshotStore) Load(_ context.Context) (*record.ScoredSnapshot, error) {
	if s.snap == nil {
		return nil, shared.NewDomainError("score", "Load", shared.ErrSnapshotMissing,
			"no scored snapshot available")
	}
	return s.snap, nil
}

func TestGetScoredStudentsReturnsSnapshotWithAge(t *testing.T) {
	generated := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &stubSnapshotStore{snap: &record.ScoredSnapshot{
		RunID:       "run-1",
		GeneratedAt: generated,
		Students: []record.ScoredStudent{
			{StudentID: "S1", StudentName: "Aida"},
		},
	}}

	h := NewGetScoredStudentsHandler(store)
	h.now = func() time.Time { return generated.Add(90 * time.Second) }

	dto, err := h.Handle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", dto.RunID)
	assert.Equal(t, generated, dto.GeneratedAt)
	assert.Equal(t, int64(90), dto.AgeSeconds)
	require.Len(t, dto.Students, 1)
}

func TestGetScoredStudentsMissingSnapshotIsError(t *testing.T) {
	h := NewGetScoredStudentsHandler(&stubSnapshotStore{})

	dto, err := h.Handle(context.Background())
	require.Error(t, err)
	assert.Nil(t, dto)
	assert.True(t, errors.Is(err, shared.ErrSnapshotMissing))
}
