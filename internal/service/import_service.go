package service

import (
	"context"
	"time"

	"finance-import/internal/models"
	"finance-import/internal/utils"
)

// ValidationError means the CSV failed local header checks. Nothing was
// sent to the server; the user can pick a different file and retry.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ImportAPI is the remote import service as the orchestrator sees it.
// *client.ImportClient satisfies it.
type ImportAPI interface {
	Submit(ctx context.Context, csvContent string) (string, error)
	StatusSource
}

// ImportService runs one import end to end: validate the header locally,
// submit the CSV, then poll the resulting job until it is terminal.
type ImportService struct {
	api    ImportAPI
	poller *StatusPoller
}

func NewImportService(api ImportAPI, interval, maxWait time.Duration) *ImportService {
	return &ImportService{
		api:    api,
		poller: NewStatusPoller(api, interval, maxWait),
	}
}

// Run validates, submits and polls. Failures from each step propagate
// unchanged; per-row problems ride inside a successful result's Errors.
func (s *ImportService) Run(ctx context.Context, csvContent string, onProgress ProgressFunc) (models.ImportResult, error) {
	log := utils.GetLogger()

	if outcome := ValidateHeader(csvContent); !outcome.Valid {
		return models.ImportResult{}, &ValidationError{Message: outcome.Error}
	}

	jobID, err := s.api.Submit(ctx, csvContent)
	if err != nil {
		return models.ImportResult{}, err
	}
	log.WithField("job_id", jobID).Info("import job submitted")

	result, err := s.poller.Poll(ctx, jobID, onProgress)
	if err != nil {
		return models.ImportResult{}, err
	}

	log.WithFields(map[string]interface{}{
		"job_id":   jobID,
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errors":   len(result.Errors),
	}).Info("import job finished")

	return result, nil
}
