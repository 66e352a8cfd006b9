package query

import (
	"context"
	"time"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SCORED STUDENTS QUERY
// Serves the latest scored snapshot. A missing snapshot is an explicit
// error, never an empty success: callers must be able to distinguish
// "nothing scored yet" from "no students at risk".
// ══════════════════════════════════════════════════════════════════════════════

// ScoredStudentsDTO is the snapshot plus its provenance.
type ScoredStudentsDTO struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	AgeSeconds  int64                  `json:"age_seconds"`
	Students    []record.ScoredStudent `json:"students"`
}

// GetScoredStudentsHandler serves the scored snapshot.
type GetScoredStudentsHandler struct {
	snapshots record.SnapshotStore
	now       func() time.Time
}

// NewGetScoredStudentsHandler creates a new scored-students query handler.
func NewGetScoredStudentsHandler(snapshots record.SnapshotStore) *GetScoredStudentsHandler {
	return &GetScoredStudentsHandler{
		snapshots: snapshots,
		now:       time.Now,
	}
}

// Handle returns the latest snapshot with its generation timestamp.
func (h *GetScoredStudentsHandler) Handle(ctx context.Context) (*ScoredStudentsDTO, error) {
	snap, err := h.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ScoredStudentsDTO{
		RunID:       snap.RunID,
		GeneratedAt: snap.GeneratedAt,
		AgeSeconds:  int64(snap.Age(h.now().UTC()).Seconds()),
		Students:    snap.Students,
	}, nil
}
