package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-import/internal/models"
)

// scriptedSource replays a fixed sequence of snapshots or errors, one per
// fetch.
type scriptedSource struct {
	steps []scriptedStep
	calls int
}

type scriptedStep struct {
	job *models.ImportJob
	err error
}

func (s *scriptedSource) FetchStatus(ctx context.Context, jobID string) (*models.ImportJob, error) {
	if s.calls >= len(s.steps) {
		return nil, errors.New("no more scripted steps")
	}
	step := s.steps[s.calls]
	s.calls++
	return step.job, step.err
}

// newTestPoller swaps the real timer for an instant one so tests simulate
// elapsed time.
func newTestPoller(source StatusSource, maxWait time.Duration, slept *[]time.Duration) *StatusPoller {
	p := NewStatusPoller(source, time.Second, maxWait)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return p
}

func activeJob(percentage int) *models.ImportJob {
	return &models.ImportJob{
		ID:    "job-1",
		State: models.JobStateActive,
		Progress: models.JobProgress{
			Current:    percentage,
			Total:      100,
			Percentage: percentage,
			Stage:      models.StageProcessing,
		},
	}
}

func TestPollDeliversEverySnapshotThenResolves(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{job: activeJob(30)},
		{job: activeJob(60)},
		{job: &models.ImportJob{
			ID:    "job-1",
			State: models.JobStateCompleted,
			ReturnValue: &models.ImportResult{
				Imported: 7,
				Skipped:  1,
				Errors:   []string{"row 4 unknown currency"},
			},
		}},
	}}

	var slept []time.Duration
	var seen []models.JobState
	p := newTestPoller(source, 0, &slept)

	result, err := p.Poll(context.Background(), "job-1", func(job *models.ImportJob) {
		seen = append(seen, job.State)
	})
	require.NoError(t, err)

	assert.Equal(t, 7, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{"row 4 unknown currency"}, result.Errors)

	// every snapshot observed, in fetch order
	assert.Equal(t, []models.JobState{
		models.JobStateActive, models.JobStateActive, models.JobStateCompleted,
	}, seen)
	assert.Equal(t, 3, source.calls)
	assert.Len(t, slept, 2)
}

func TestPollSynthesizesResultWithoutReturnValue(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{job: &models.ImportJob{
			ID:    "job-1",
			State: models.JobStateCompleted,
			Progress: models.JobProgress{
				Imported: 5,
				Skipped:  2,
				Errors:   []string{"row 3 bad date"},
			},
		}},
	}}

	var slept []time.Duration
	p := newTestPoller(source, 0, &slept)

	result, err := p.Poll(context.Background(), "job-1", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ImportResult{
		Imported: 5,
		Skipped:  2,
		Errors:   []string{"row 3 bad date"},
	}, result)
}

func TestPollDefaultsAbsentResultFields(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{job: &models.ImportJob{ID: "job-1", State: models.JobStateCompleted}},
	}}

	var slept []time.Duration
	p := newTestPoller(source, 0, &slept)

	result, err := p.Poll(context.Background(), "job-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestPollRejectsOnFailedState(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{job: &models.ImportJob{ID: "job-1", State: models.JobStateFailed, FailedReason: "disk full"}},
	}}

	var slept []time.Duration
	p := newTestPoller(source, 0, &slept)

	_, err := p.Poll(context.Background(), "job-1", nil)
	require.Error(t, err)
	assert.Equal(t, "disk full", err.Error())

	var failed *JobFailedError
	assert.True(t, errors.As(err, &failed))
}

func TestPollFailedStateWithoutReason(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{job: &models.ImportJob{ID: "job-1", State: models.JobStateFailed}},
	}}

	var slept []time.Duration
	p := newTestPoller(source, 0, &slept)

	_, err := p.Poll(context.Background(), "job-1", nil)
	require.Error(t, err)
	assert.Equal(t, "import job failed", err.Error())
}

func TestPollTreatsDelayedAsNonTerminal(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{job: &models.ImportJob{ID: "job-1", State: models.JobStateDelayed}},
		{job: &models.ImportJob{ID: "job-1", State: models.JobStateWaiting}},
		{job: &models.ImportJob{ID: "job-1", State: models.JobStateCompleted}},
	}}

	var slept []time.Duration
	p := newTestPoller(source, 0, &slept)

	_, err := p.Poll(context.Background(), "job-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, source.calls)
}

func TestPollAbortsOnFetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	source := &scriptedSource{steps: []scriptedStep{
		{job: activeJob(10)},
		{err: fetchErr},
	}}

	var slept []time.Duration
	callbacks := 0
	p := newTestPoller(source, 0, &slept)

	_, err := p.Poll(context.Background(), "job-1", func(job *models.ImportJob) {
		callbacks++
	})
	require.Error(t, err)
	assert.Equal(t, fetchErr, err)
	// no retry: the failing fetch was the last one, and its snapshot was
	// never delivered
	assert.Equal(t, 2, source.calls)
	assert.Equal(t, 1, callbacks)
}

func TestPollTimesOutAfterMaxWait(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{job: activeJob(10)},
		{job: activeJob(10)},
		{job: activeJob(10)},
	}}

	var slept []time.Duration
	p := newTestPoller(source, 2*time.Second, &slept)

	_, err := p.Poll(context.Background(), "job-1", nil)
	require.Error(t, err)

	var timeout *TimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, 2*time.Second, timeout.Waited)
	assert.Equal(t, 3, source.calls)
}

func TestPollStopsWhenContextCancelled(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{job: activeJob(10)},
		{job: activeJob(20)},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	p := NewStatusPoller(source, time.Second, 0)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := p.Poll(ctx, "job-1", nil)
	require.ErrorIs(t, err, context.Canceled)
	// cancelled mid-delay: no further fetch is issued
	assert.Equal(t, 1, source.calls)
}
