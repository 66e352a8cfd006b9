package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/student-risk-hub/pkg/logger"
)

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Name() string        { return j.name }
func (j *countingJob) Description() string { return "test job" }
func (j *countingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	job := &countingJob{name: "sync_tables"}

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Minute)))

	err := s.Register(job, NewIntervalSchedule(time.Minute))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobAlreadyExists))
}

func TestRegisterRejectsNil(t *testing.T) {
	s := NewScheduler(logger.NewNop())

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Minute)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&countingJob{name: "j"}, nil), ErrNilSchedule)
}

func TestRunNowExecutesAndRecords(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	job := &countingJob{name: "score_students"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "score_students")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, job.runs)

	last, ok := s.LastRun("score_students")
	require.True(t, ok)
	assert.Equal(t, "score_students", last.JobName)
}

func TestRunNowPropagatesJobError(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	job := &countingJob{name: "failing", err: errors.New("boom")}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "failing")
	require.Error(t, err)
	assert.False(t, result.Success)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := NewScheduler(logger.NewNop())

	_, err := s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	require.NoError(t, s.Register(&countingJob{name: "j"}, NewIntervalSchedule(time.Hour)))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}

func TestIntervalScheduleNext(t *testing.T) {
	sched := NewIntervalSchedule(15 * time.Minute)
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, base.Add(15*time.Minute), sched.Next(base))
	assert.Equal(t, "@every 15m0s", sched.String())
}
