package roadmapapi

import (
	"context"
	"strings"

	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmapsrv"
	"github.com/Abraxas-365/skillpath/pkg/iam/auth"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *roadmapsrv.Service
}

func NewHandlers(service *roadmapsrv.Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts /api/roadmap
func RegisterRoutes(app *fiber.App, h *Handlers, authMiddleware fiber.Handler) {
	api := app.Group("/api/roadmap")

	// Public routes
	api.Get("/shared/:token", h.GetShared)
	api.Get("/public/:role", h.ListPublicByRole)
	api.Get("/resources", h.RecommendedResources)

	read := auth.RequireScope(auth.ScopeRoadmapsRead)
	write := auth.RequireScope(auth.ScopeRoadmapsWrite)

	api.Post("/generate", authMiddleware, write, h.Generate)
	api.Get("/saved", authMiddleware, read, h.ListSaved)
	api.Get("/all", authMiddleware, read, h.ListAll)
	api.Get("/stats", authMiddleware, read, h.Stats)

	api.Get("/:id", authMiddleware, read, h.GetRoadmap)
	api.Delete("/:id", authMiddleware, auth.RequireScope(auth.ScopeRoadmapsDelete), h.Delete)
	api.Post("/:id/save", authMiddleware, write, h.Save)
	api.Delete("/:id/save", authMiddleware, write, h.Unsave)
	api.Put("/:id/progress", authMiddleware, write, h.UpdateProgress)
	api.Post("/:id/start", authMiddleware, write, h.Start)
	api.Post("/:id/pause", authMiddleware, write, h.Pause)
	api.Post("/:id/resume", authMiddleware, write, h.Resume)
	api.Post("/:id/abandon", authMiddleware, write, h.Abandon)
	api.Post("/:id/share", authMiddleware, auth.RequireScope(auth.ScopeRoadmapsShare), h.Share)
}

// ============================================================================
// Public
// ============================================================================

// GetShared resolves a share link
// GET /api/roadmap/shared/:token
func (h *Handlers) GetShared(c *fiber.Ctx) error {
	r, err := h.service.GetSharedRoadmap(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// ListPublicByRole lists completed public roadmaps for a role
// GET /api/roadmap/public/:role
func (h *Handlers) ListPublicByRole(c *fiber.Ctx) error {
	page, err := h.service.ListPublicByRole(c.Context(), kernel.NewRoleID(c.Params("role")), parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// RecommendedResources lists catalog resources for comma-separated skills
// GET /api/roadmap/resources?skills=React,Docker&max_per_skill=2&types=course,book
func (h *Handlers) RecommendedResources(c *fiber.Ctx) error {
	skills := splitList(c.Query("skills"))
	if len(skills) == 0 {
		return roadmap.ErrInvalidRequest().WithDetail("field", "skills")
	}

	resources, err := h.service.RecommendedResources(skills, c.QueryInt("max_per_skill", 2), splitList(c.Query("types")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"resources": resources})
}

// ============================================================================
// Generation and queries
// ============================================================================

// Generate builds a roadmap from a completed analysis
// POST /api/roadmap/generate
func (h *Handlers) Generate(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req roadmap.GenerateRoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return roadmap.ErrInvalidRequest().WithDetail("reason", "invalid request body")
	}

	resp, err := h.service.Generate(c.Context(), authCtx.UserID, req)
	if err != nil {
		return err
	}

	status := fiber.StatusCreated
	if resp.Existing {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(resp)
}

// ListSaved lists the caller's bookmarked roadmaps
// GET /api/roadmap/saved
func (h *Handlers) ListSaved(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	page, err := h.service.ListSaved(c.Context(), authCtx.UserID, parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// ListAll lists the caller's roadmaps, optionally by status
// GET /api/roadmap/all?status=active
func (h *Handlers) ListAll(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var status *roadmap.Status
	if raw := c.Query("status"); raw != "" {
		s := roadmap.Status(strings.ToLower(raw))
		status = &s
	}

	page, err := h.service.ListAll(c.Context(), authCtx.UserID, status, parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Stats aggregates the caller's roadmaps
// GET /api/roadmap/stats
func (h *Handlers) Stats(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	stats, err := h.service.Stats(c.Context(), authCtx.UserID)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GetRoadmap returns one of the caller's roadmaps
// GET /api/roadmap/:id
func (h *Handlers) GetRoadmap(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	r, err := h.service.GetRoadmap(c.Context(), roadmapID(c), authCtx.UserID)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// Delete removes a roadmap
// DELETE /api/roadmap/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	if err := h.service.Delete(c.Context(), roadmapID(c), authCtx.UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================================
// Progress tracking
// ============================================================================

// UpdateProgress completes or reopens a milestone
// PUT /api/roadmap/:id/progress
func (h *Handlers) UpdateProgress(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req roadmap.UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return roadmap.ErrInvalidRequest().WithDetail("reason", "invalid request body")
	}

	resp, err := h.service.UpdateProgress(c.Context(), roadmapID(c), authCtx.UserID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Save bookmarks a roadmap
// POST /api/roadmap/:id/save
func (h *Handlers) Save(c *fiber.Ctx) error {
	return h.transition(c, h.service.Save)
}

// Unsave removes a bookmark
// DELETE /api/roadmap/:id/save
func (h *Handlers) Unsave(c *fiber.Ctx) error {
	return h.transition(c, h.service.Unsave)
}

// Start activates a draft roadmap
// POST /api/roadmap/:id/start
func (h *Handlers) Start(c *fiber.Ctx) error {
	return h.transition(c, h.service.Start)
}

// Pause suspends an active roadmap
// POST /api/roadmap/:id/pause
func (h *Handlers) Pause(c *fiber.Ctx) error {
	return h.transition(c, h.service.Pause)
}

// Resume reactivates a paused roadmap
// POST /api/roadmap/:id/resume
func (h *Handlers) Resume(c *fiber.Ctx) error {
	return h.transition(c, h.service.Resume)
}

// Abandon ends a roadmap
// POST /api/roadmap/:id/abandon
func (h *Handlers) Abandon(c *fiber.Ctx) error {
	return h.transition(c, h.service.Abandon)
}

// Share issues a new share link
// POST /api/roadmap/:id/share
func (h *Handlers) Share(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req roadmap.ShareRoadmapRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return roadmap.ErrInvalidRequest().WithDetail("reason", "invalid request body")
		}
	}

	resp, err := h.service.Share(c.Context(), roadmapID(c), authCtx.UserID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ============================================================================
// Helper Functions
// ============================================================================

type roadmapMutation func(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID) (*roadmap.Roadmap, error)

func (h *Handlers) transition(c *fiber.Ctx, fn roadmapMutation) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	r, err := fn(c.Context(), roadmapID(c), authCtx.UserID)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func roadmapID(c *fiber.Ctx) kernel.RoadmapID {
	return kernel.NewRoadmapID(c.Params("id"))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return kernel.PaginationOptions{
		Page:     page,
		PageSize: pageSize,
	}
}
