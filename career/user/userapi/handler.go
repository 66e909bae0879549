package userapi

import (
	"github.com/Abraxas-365/skillpath/career/user"
	"github.com/Abraxas-365/skillpath/career/user/usersrv"
	"github.com/Abraxas-365/skillpath/pkg/iam/auth"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service   *usersrv.UserService
	dashboard *usersrv.DashboardService
}

func NewHandlers(service *usersrv.UserService, dashboard *usersrv.DashboardService) *Handlers {
	return &Handlers{
		service:   service,
		dashboard: dashboard,
	}
}

// RegisterRoutes mounts /api/auth and /api/user
func RegisterRoutes(app *fiber.App, h *Handlers, authMiddleware fiber.Handler) {
	api := app.Group("/api/auth")

	api.Post("/register", h.Register)
	api.Post("/login", h.Login)

	api.Get("/profile", authMiddleware, auth.RequireScope(auth.ScopeProfileRead), h.GetProfile)
	api.Put("/profile", authMiddleware, auth.RequireScope(auth.ScopeProfileWrite), h.UpdateProfile)
	api.Put("/password", authMiddleware, auth.RequireScope(auth.ScopeProfileWrite), h.ChangePassword)
	api.Delete("/account", authMiddleware, auth.RequireScope(auth.ScopeProfileWrite), h.DeleteAccount)

	users := app.Group("/api/user")
	users.Get("/dashboard", authMiddleware, auth.RequireScope(auth.ScopeProfileRead), h.Dashboard)
}

// Register creates an account
// POST /api/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req user.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.service.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login exchanges credentials for an access token
// POST /api/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req user.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.service.Login(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetProfile returns the caller's profile
// GET /api/auth/profile
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	profile, err := h.service.GetProfile(c.Context(), authCtx.UserID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// UpdateProfile changes the caller's name or target role
// PUT /api/auth/profile
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req user.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	profile, err := h.service.UpdateProfile(c.Context(), authCtx.UserID, req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// ChangePassword replaces the caller's password and returns a new token
// PUT /api/auth/password
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req user.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "current_password and new_password are required")
	}

	resp, err := h.service.ChangePassword(c.Context(), authCtx.UserID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteAccount deactivates the caller's account
// DELETE /api/auth/account
func (h *Handlers) DeleteAccount(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req user.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.service.DeleteAccount(c.Context(), authCtx.UserID, req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Account deactivated successfully"})
}

// Dashboard returns the caller's overview
// GET /api/user/dashboard
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	d, err := h.dashboard.Get(c.Context(), authCtx.UserID)
	if err != nil {
		return err
	}
	return c.JSON(d)
}
