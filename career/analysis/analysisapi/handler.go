package analysisapi

import (
	"io"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/career/analysis/analysissrv"
	"github.com/Abraxas-365/skillpath/pkg/iam/auth"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *analysissrv.Service
}

func NewHandlers(service *analysissrv.Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts /api/analysis
func RegisterRoutes(app *fiber.App, h *Handlers, authMiddleware fiber.Handler) {
	api := app.Group("/api/analysis")

	api.Get("/roles", h.ListRoles)

	api.Post("/analyze", authMiddleware, auth.RequireScope(auth.ScopeAnalysisWrite), h.Analyze)
	api.Get("/history", authMiddleware, auth.RequireScope(auth.ScopeAnalysisRead), h.History)
	api.Get("/stats", authMiddleware, auth.RequireScope(auth.ScopeAnalysisRead), h.Stats)
	api.Post("/compare", authMiddleware, auth.RequireScope(auth.ScopeAnalysisRead), h.Compare)
	api.Post("/:id/reanalyze", authMiddleware, auth.RequireScope(auth.ScopeAnalysisWrite), h.Reanalyze)
	api.Get("/:id", authMiddleware, auth.RequireScope(auth.ScopeAnalysisRead), h.GetAnalysis)
	api.Delete("/:id", authMiddleware, auth.RequireScope(auth.ScopeAnalysisDelete), h.DeleteAnalysis)
}

// ListRoles lists the target roles a resume can be checked against
// GET /api/analysis/roles
func (h *Handlers) ListRoles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"roles": h.service.Roles()})
}

// Analyze uploads a resume (multipart field "resume") for a target role
// POST /api/analysis/analyze
func (h *Handlers) Analyze(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "resume file is required")
	}
	if file.Size > analysissrv.MaxFileSize {
		return analysis.ErrFileTooLarge().
			WithDetail("file_size", file.Size).
			WithDetail("max_size", analysissrv.MaxFileSize)
	}

	targetRole := c.FormValue("target_role")
	if targetRole == "" {
		return fiber.NewError(fiber.StatusBadRequest, "target_role is required")
	}

	f, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to open uploaded file")
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, analysissrv.MaxFileSize+1))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to read uploaded file")
	}

	resp, err := h.service.AnalyzeResume(c.Context(), analysis.AnalyzeResumeRequest{
		UserID:     authCtx.UserID,
		TargetRole: kernel.NewRoleID(targetRole),
		FileName:   file.Filename,
		MimeType:   file.Header.Get(fiber.HeaderContentType),
		Content:    content,
	})
	if err != nil {
		return err
	}

	status := fiber.StatusAccepted
	if resp.Cached {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(resp)
}

// History lists the caller's analyses
// GET /api/analysis/history
func (h *Handlers) History(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	page, err := h.service.History(c.Context(), authCtx.UserID, parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Stats aggregates the caller's analyses
// GET /api/analysis/stats
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

// Compare puts two or more completed analyses side by side
// POST /api/analysis/compare
func (h *Handlers) Compare(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req analysis.CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	cmp, err := h.service.Compare(c.Context(), authCtx.UserID, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"comparison": cmp})
}

// Reanalyze re-matches a completed analysis against another role
// POST /api/analysis/:id/reanalyze
func (h *Handlers) Reanalyze(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req analysis.ReanalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	a, err := h.service.Reanalyze(c.Context(), kernel.NewAnalysisID(c.Params("id")), authCtx.UserID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// GetAnalysis returns one analysis, including its processing status
// GET /api/analysis/:id
func (h *Handlers) GetAnalysis(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	a, err := h.service.GetAnalysis(c.Context(), kernel.NewAnalysisID(c.Params("id")), authCtx.UserID)
	if err != nil {
		return err
	}
	return c.JSON(a)
}

// DeleteAnalysis removes an analysis and its uploaded file
// DELETE /api/analysis/:id
func (h *Handlers) DeleteAnalysis(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	if err := h.service.DeleteAnalysis(c.Context(), kernel.NewAnalysisID(c.Params("id")), authCtx.UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================================
// Helper Functions
// ============================================================================

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
