package handler

import (
	"go-slab-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SlabHandler struct {
	service service.SlabService
}

func NewSlabHandler(s service.SlabService) *SlabHandler {
	return &SlabHandler{service: s}
}

// SlabGridRequest is the full edited grid of a batch
type SlabGridRequest struct {
	Slabs []service.SlabInput `json:"slabs"`
}

// GetSlabs lists a batch's slabs by slab number
// GET /api/v1/batches/:batch/slabs
func (h *SlabHandler) GetSlabs(c *fiber.Ctx) error {
	slabs, err := h.service.ListSlabs(currentSession(c), c.Params("batch"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slabs)
}

// AddSlab inserts one slab
// POST /api/v1/batches/:batch/slabs
func (h *SlabHandler) AddSlab(c *fiber.Ctx) error {
	var req service.SlabInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	slab, err := h.service.AddSlab(currentSession(c), c.Params("batch"), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Slab added successfully",
		"data":    slab,
	})
}

// SaveGrid replaces the batch's slabs with the submitted grid
// PUT /api/v1/batches/:batch/slabs
func (h *SlabHandler) SaveGrid(c *fiber.Ctx) error {
	var req SlabGridRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	result, err := h.service.Reconcile(currentSession(c), c.Params("batch"), req.Slabs)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Changes saved",
		"data":    result,
	})
}

// GetDraft returns the pending edits, or the stored grid when there are none
// GET /api/v1/batches/:batch/draft
func (h *SlabHandler) GetDraft(c *fiber.Ctx) error {
	draft, err := h.service.GetDraft(currentSession(c), c.Params("batch"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(draft)
}

// SaveDraft stores edits in the session without writing them
// PUT /api/v1/batches/:batch/draft
func (h *SlabHandler) SaveDraft(c *fiber.Ctx) error {
	var req SlabGridRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	draft, err := h.service.SaveDraft(currentSession(c), c.Params("batch"), req.Slabs)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(draft)
}

// DiscardDraft drops pending edits
// DELETE /api/v1/batches/:batch/draft
func (h *SlabHandler) DiscardDraft(c *fiber.Ctx) error {
	if err := h.service.DiscardDraft(currentSession(c), c.Params("batch")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CommitDraft reconciles the pending edits into the store
// POST /api/v1/batches/:batch/draft/commit
func (h *SlabHandler) CommitDraft(c *fiber.Ctx) error {
	result, err := h.service.CommitDraft(currentSession(c), c.Params("batch"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Changes saved",
		"data":    result,
	})
}
