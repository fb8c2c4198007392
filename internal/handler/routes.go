package handler

import (
	"go-slab-ws/internal/middleware"
	"go-slab-ws/internal/model"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Batches   *BatchHandler
	Slabs     *SlabHandler
	Reports   *ReportHandler
	Dashboard *DashboardHandler
}

// Register mounts the API under router. requireAuth guards everything
// except login and password reset.
func (h *Handlers) Register(router fiber.Router, requireAuth fiber.Handler) {
	priv := middleware.RequirePrivilege

	// ============ PUBLIC ROUTES ============
	auth := router.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/logout", requireAuth, h.Auth.Logout)
	auth.Get("/me", requireAuth, h.Auth.Me)

	// ============ PROTECTED ROUTES ============
	protected := router.Group("", requireAuth)

	protected.Get("/users", priv(model.PrivUserView), h.Users.GetUsers)
	protected.Post("/users", priv(model.PrivUserCreate), h.Users.CreateUser)

	protected.Get("/dashboard/stats", priv(model.PrivBatchView), h.Dashboard.GetDashboardStats)

	protected.Put("/session/batch", priv(model.PrivBatchView), h.Batches.SelectBatch)
	protected.Get("/batches", priv(model.PrivBatchView), h.Batches.GetBatches)
	protected.Post("/batches", priv(model.PrivBatchCreate), h.Batches.CreateBatch)
	protected.Get("/batches/:batch", priv(model.PrivBatchView), h.Batches.GetBatch)
	protected.Get("/batches/:batch/summary", priv(model.PrivSlabView), h.Dashboard.GetBatchSummary)

	protected.Get("/batches/:batch/slabs", priv(model.PrivSlabView), h.Slabs.GetSlabs)
	protected.Post("/batches/:batch/slabs", priv(model.PrivSlabWrite), h.Slabs.AddSlab)
	protected.Put("/batches/:batch/slabs", priv(model.PrivSlabWrite), h.Slabs.SaveGrid)

	protected.Get("/batches/:batch/draft", priv(model.PrivSlabWrite), h.Slabs.GetDraft)
	protected.Put("/batches/:batch/draft", priv(model.PrivSlabWrite), h.Slabs.SaveDraft)
	protected.Delete("/batches/:batch/draft", priv(model.PrivSlabWrite), h.Slabs.DiscardDraft)
	protected.Post("/batches/:batch/draft/commit", priv(model.PrivSlabWrite), h.Slabs.CommitDraft)

	protected.Get("/batches/:batch/export", priv(model.PrivReportExport), h.Reports.Export)
}
