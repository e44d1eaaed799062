package service

import (
	"context"
	"fmt"
	"time"

	"finance-import/internal/models"
)

// JobFailedError means the server reported the job as failed.
type JobFailedError struct {
	Reason string
}

func (e *JobFailedError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "import job failed"
}

// TimeoutError means the job stayed non-terminal past the configured bound.
type TimeoutError struct {
	Waited time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("import job did not finish within %s", e.Waited)
}

// StatusSource fetches one snapshot of an import job.
type StatusSource interface {
	FetchStatus(ctx context.Context, jobID string) (*models.ImportJob, error)
}

// ProgressFunc receives every fetched snapshot, in fetch order, before any
// terminal-state decision is made on it.
type ProgressFunc func(job *models.ImportJob)

// StatusPoller fetches job status at a fixed cadence until the job reaches
// a terminal state. One Poll call tracks exactly one job; nothing is shared
// between concurrent polls.
type StatusPoller struct {
	source   StatusSource
	interval time.Duration
	maxWait  time.Duration // 0 means poll until terminal

	// sleep waits out one poll interval. Tests replace it to simulate
	// elapsed time without real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewStatusPoller(source StatusSource, interval, maxWait time.Duration) *StatusPoller {
	return &StatusPoller{
		source:   source,
		interval: interval,
		maxWait:  maxWait,
		sleep:    sleepContext,
	}
}

// Poll drives the job to a terminal state and returns its result.
//
// Completed jobs resolve to the server's return value when present,
// otherwise to a result synthesized from the last progress snapshot. Failed
// jobs return a JobFailedError carrying the server's reason. Any fetch error
// aborts immediately; transient failures are not retried here. Cancelling
// ctx stops the loop before the next fetch or mid-delay.
func (p *StatusPoller) Poll(ctx context.Context, jobID string, onProgress ProgressFunc) (models.ImportResult, error) {
	var waited time.Duration

	for {
		if err := ctx.Err(); err != nil {
			return models.ImportResult{}, err
		}

		job, err := p.source.FetchStatus(ctx, jobID)
		if err != nil {
			return models.ImportResult{}, err
		}

		if onProgress != nil {
			onProgress(job)
		}

		switch job.State {
		case models.JobStateCompleted:
			return job.Result(), nil
		case models.JobStateFailed:
			return models.ImportResult{}, &JobFailedError{Reason: job.FailedReason}
		}

		// waiting, active, delayed: keep polling.
		if p.maxWait > 0 && waited >= p.maxWait {
			return models.ImportResult{}, &TimeoutError{Waited: waited}
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return models.ImportResult{}, err
		}
		waited += p.interval
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
