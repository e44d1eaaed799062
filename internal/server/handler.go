package server

import (
	"bytes"

	"finance-import/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ImportHandler struct {
	store *JobStore
}

func NewImportHandler(store *JobStore) *ImportHandler {
	return &ImportHandler{store: store}
}

func (h *ImportHandler) SubmitImport(c *fiber.Ctx) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "CSV content is required", nil)
	}

	jobID := h.store.Create(string(body))

	return utils.SuccessResponse(c, "Import job created", fiber.Map{
		"job_id": jobID,
	})
}

func (h *ImportHandler) GetJobStatus(c *fiber.Ctx) error {
	jobID := c.Params("id")

	job, ok := h.store.Get(jobID)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import job not found", nil)
	}

	return utils.SuccessResponse(c, "Job status retrieved", job)
}
