package userapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis/analysissrv"
	"github.com/Abraxas-365/skillpath/career/analysis/analysistest"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmapsrv"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmaptest"
	"github.com/Abraxas-365/skillpath/career/user"
	"github.com/Abraxas-365/skillpath/career/user/usersrv"
	"github.com/Abraxas-365/skillpath/career/user/usertest"
	"github.com/Abraxas-365/skillpath/internal/skills"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/skillpath/pkg/iam/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	tokens := auth.NewJWTTokenService("test-secret", "skillpath-test", time.Hour)
	users := usersrv.NewUserService(usertest.NewRepository(), tokens)
	analyses := analysissrv.NewService(
		analysistest.NewRepository(),
		analysistest.NewQueue(),
		fsxlocal.NewLocalFileSystem(t.TempDir()),
		skills.NewKeywordExtractor(),
	)
	roadmaps := roadmapsrv.NewService(
		roadmaptest.NewRepository(),
		roadmaptest.NewShareCache(),
		analyses,
		"https://app.example.com",
		time.Hour,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errors.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	RegisterRoutes(app,
		NewHandlers(users, usersrv.NewDashboardService(users, analyses, roadmaps)),
		auth.Authenticate(tokens),
	)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func registerUser(t *testing.T, app *fiber.App) user.AuthResponse {
	t.Helper()

	status, body := do(t, app, http.MethodPost, "/api/auth/register", "",
		`{"name":"Ana","email":"ana@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	var resp user.AuthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp
}

func TestRegisterLoginAndProfile(t *testing.T) {
	app := newTestApp(t)
	registered := registerUser(t, app)

	status, _ := do(t, app, http.MethodPost, "/api/auth/register", "",
		`{"name":"Ana","email":"ANA@example.com","password":"correct horse"}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = do(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = do(t, app, http.MethodPut, "/api/auth/profile", registered.AccessToken, `{"target_role":"backend-developer"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = do(t, app, http.MethodGet, "/api/auth/profile", registered.AccessToken, "")
	require.Equal(t, http.StatusOK, status)
	var profile user.Profile
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "Ana", profile.Name)
	assert.Equal(t, "backend-developer", profile.TargetRole.String())

	status, _ = do(t, app, http.MethodGet, "/api/auth/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	registered := registerUser(t, app)

	status, _ := do(t, app, http.MethodPut, "/api/auth/password", registered.AccessToken, `{"new_password":"battery staple"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := do(t, app, http.MethodPut, "/api/auth/password", registered.AccessToken,
		`{"current_password":"wrong","new_password":"battery staple"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), string(user.CodeWrongPassword))

	status, body = do(t, app, http.MethodPut, "/api/auth/password", registered.AccessToken,
		`{"current_password":"correct horse","new_password":"battery staple"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	var resp user.AuthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.NotEmpty(t, resp.AccessToken)

	status, _ = do(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"battery staple"}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestDeleteAccount(t *testing.T) {
	app := newTestApp(t)
	registered := registerUser(t, app)

	status, _ := do(t, app, http.MethodDelete, "/api/auth/account", registered.AccessToken, `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, app, http.MethodDelete, "/api/auth/account", registered.AccessToken, `{"password":"correct horse"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), "Account deactivated")

	status, _ = do(t, app, http.MethodGet, "/api/auth/profile", registered.AccessToken, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"correct horse"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestDashboard(t *testing.T) {
	app := newTestApp(t)
	registered := registerUser(t, app)

	status, body := do(t, app, http.MethodGet, "/api/user/dashboard", registered.AccessToken, "")
	require.Equal(t, http.StatusOK, status, string(body))

	var d user.Dashboard
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, registered.User.ID, d.User.ID)
	require.NotNil(t, d.AnalysisStats)
	assert.Equal(t, 0, d.AnalysisStats.TotalAnalyses)
	require.NotNil(t, d.RoadmapStats)
	assert.Equal(t, 0, d.RoadmapStats.TotalRoadmaps)
	assert.Empty(t, d.RecentAnalyses)
	assert.Empty(t, d.RecentRoadmaps)

	status, _ = do(t, app, http.MethodGet, "/api/user/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
