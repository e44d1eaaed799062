package server

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"finance-import/internal/models"
	"finance-import/internal/utils"

	"github.com/google/uuid"
)

// JobStore keeps stub import jobs in memory. Each job gets exactly one
// runner goroutine that walks it through the observable lifecycle.
type JobStore struct {
	mu       sync.Mutex
	jobs     map[string]*models.ImportJob
	rowDelay time.Duration
}

func NewJobStore(rowDelay time.Duration) *JobStore {
	return &JobStore{
		jobs:     make(map[string]*models.ImportJob),
		rowDelay: rowDelay,
	}
}

// Create registers a new job for the submitted CSV and starts its runner.
func (s *JobStore) Create(csvContent string) string {
	jobID := fmt.Sprintf("import-%s", uuid.New().String()[:8])

	s.mu.Lock()
	s.jobs[jobID] = &models.ImportJob{
		ID:    jobID,
		State: models.JobStateWaiting,
		Progress: models.JobProgress{
			Stage: models.StageParsing,
		},
	}
	s.mu.Unlock()

	go s.run(jobID, csvContent)
	return jobID
}

// Get returns a snapshot copy of the job so callers never observe the
// runner's in-flight mutations.
func (s *JobStore) Get(jobID string) (*models.ImportJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, false
	}

	snapshot := *job
	snapshot.Progress.Errors = append([]string(nil), job.Progress.Errors...)
	if job.ReturnValue != nil {
		rv := *job.ReturnValue
		rv.Errors = append([]string(nil), job.ReturnValue.Errors...)
		snapshot.ReturnValue = &rv
	}
	return &snapshot, true
}

// run simulates the server-side processor: parse the rows, import them one
// by one with per-row bookkeeping, then publish the final return value.
func (s *JobStore) run(jobID, csvContent string) {
	log := utils.GetLogger()

	var lines []string
	for _, line := range strings.Split(csvContent, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) < 2 {
		s.fail(jobID, "file must contain a header row and at least one data row")
		return
	}

	header := splitRow(lines[0])
	amountIdx := -1
	for i, col := range header {
		if col == "amount" {
			amountIdx = i
		}
	}
	rows := lines[1:]

	s.update(jobID, func(job *models.ImportJob) {
		job.State = models.JobStateActive
		job.Progress.Stage = models.StagePreparing
		job.Progress.Total = len(rows)
	})

	imported, skipped := 0, 0
	var rowErrors []string

	for i, row := range rows {
		time.Sleep(s.rowDelay)

		fields := splitRow(row)
		switch {
		case len(fields) != len(header):
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: expected %d fields, got %d", i+1, len(header), len(fields)))
		case amountIdx >= 0 && !isNumeric(fields[amountIdx]):
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid amount %q", i+1, fields[amountIdx]))
		default:
			imported++
		}

		current := i + 1
		errs := append([]string(nil), rowErrors...)
		s.update(jobID, func(job *models.ImportJob) {
			job.Progress.Stage = models.StageImporting
			job.Progress.Current = current
			job.Progress.Percentage = current * 100 / len(rows)
			job.Progress.Imported = imported
			job.Progress.Skipped = skipped
			job.Progress.Errors = errs
		})
	}

	s.update(jobID, func(job *models.ImportJob) {
		job.State = models.JobStateCompleted
		job.Progress.Stage = models.StageCompleted
		job.ReturnValue = &models.ImportResult{
			Imported: imported,
			Skipped:  skipped,
			Errors:   append([]string{}, rowErrors...),
		}
	})

	log.WithFields(map[string]interface{}{
		"job_id":   jobID,
		"imported": imported,
		"skipped":  skipped,
	}).Info("stub import job completed")
}

func (s *JobStore) fail(jobID, reason string) {
	s.update(jobID, func(job *models.ImportJob) {
		job.State = models.JobStateFailed
		job.Progress.Stage = models.StageFailed
		job.FailedReason = reason
	})
}

func (s *JobStore) update(jobID string, fn func(job *models.ImportJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		fn(job)
	}
}

func splitRow(row string) []string {
	fields := strings.Split(row, ";")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func isNumeric(value string) bool {
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}
