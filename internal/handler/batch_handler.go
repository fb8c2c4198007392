package handler

import (
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BatchHandler struct {
	service service.BatchService
}

func NewBatchHandler(s service.BatchService) *BatchHandler {
	return &BatchHandler{service: s}
}

// CreateBatch registers a batch and makes it the session's active batch
// POST /api/v1/batches
func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var req service.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	batch, err := h.service.CreateBatch(currentSession(c), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Batch created successfully",
		"data":    batch.ToResponse(),
	})
}

// GetBatches lists the caller's batches, newest first
// GET /api/v1/batches
func (h *BatchHandler) GetBatches(c *fiber.Ctx) error {
	batches, err := h.service.ListBatches(currentSession(c))
	if err != nil {
		return fail(c, err)
	}

	responses := make([]model.BatchResponse, len(batches))
	for i := range batches {
		responses[i] = batches[i].ToResponse()
	}
	return c.JSON(responses)
}

// GetBatch returns one batch; ":batch" may be "current"
// GET /api/v1/batches/:batch
func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	batch, err := h.service.GetBatch(currentSession(c), c.Params("batch"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(batch.ToResponse())
}

type SelectBatchRequest struct {
	BatchNumber string `json:"batch_number"`
}

// SelectBatch sets the session's active batch
// PUT /api/v1/session/batch
func (h *BatchHandler) SelectBatch(c *fiber.Ctx) error {
	var req SelectBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	sess, err := h.service.SelectBatch(currentSession(c), req.BatchNumber)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sess)
}
