package roadmapapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmapsrv"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmaptest"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/iam/auth"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completedAnalysis struct{}

func (completedAnalysis) GetCompletedAnalysis(_ context.Context, id kernel.AnalysisID, userID kernel.UserID) (*analysis.Analysis, error) {
	if id != "analysis-1" || userID != "user-1" {
		return nil, analysis.ErrAnalysisNotFound()
	}
	return &analysis.Analysis{
		ID:              id,
		UserID:          userID,
		TargetRole:      "backend-developer",
		TargetRoleLabel: "Backend Developer",
		GapSkills:       []kernel.Skill{{Name: "Docker"}},
		Status:          analysis.StatusCompleted,
	}, nil
}

type testServer struct {
	app   *fiber.App
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens := auth.NewJWTTokenService("test-secret", "skillpath-test", time.Hour)
	token, err := tokens.GenerateAccessToken("user-1", "ada@example.com", auth.RoleUser)
	require.NoError(t, err)

	service := roadmapsrv.NewService(
		roadmaptest.NewRepository(),
		roadmaptest.NewShareCache(),
		completedAnalysis{},
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
	RegisterRoutes(app, NewHandlers(service), auth.Authenticate(tokens))

	return &testServer{app: app, token: token}
}

func (s *testServer) do(t *testing.T, method, path, body string, authed bool) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authed {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (s *testServer) generate(t *testing.T) *roadmap.Roadmap {
	t.Helper()

	status, body := s.do(t, http.MethodPost, "/api/roadmap/generate", `{"analysis_id":"analysis-1"}`, true)
	require.Equal(t, http.StatusCreated, status, string(body))

	var resp roadmap.GenerateRoadmapResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Roadmap
}

func TestGenerateAndGet(t *testing.T) {
	s := newTestServer(t)
	r := s.generate(t)

	assert.Equal(t, "Backend Developer Learning Path", r.Title)
	assert.Equal(t, roadmap.StatusDraft, r.Status)

	status, _ := s.do(t, http.MethodPost, "/api/roadmap/generate", `{"analysis_id":"analysis-1"}`, true)
	assert.Equal(t, http.StatusOK, status, "second generate returns the existing roadmap")

	status, body := s.do(t, http.MethodGet, "/api/roadmap/"+r.ID.String(), "", true)
	require.Equal(t, http.StatusOK, status)
	var got roadmap.Roadmap
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, r.ID, got.ID)

	status, _ = s.do(t, http.MethodGet, "/api/roadmap/missing", "", true)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGenerate_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/api/roadmap/generate", `{"analysis_id":"analysis-1"}`, false)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGenerate_UnknownAnalysis(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/roadmap/generate", `{"analysis_id":"other"}`, true)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), string(roadmap.CodeAnalysisNotReady))
}

func TestProgressAndTransitions(t *testing.T) {
	s := newTestServer(t)
	r := s.generate(t)
	base := "/api/roadmap/" + r.ID.String()

	status, body := s.do(t, http.MethodPut, base+"/progress", `{"phase_index":0,"milestone_index":0,"is_completed":true,"notes":"done"}`, true)
	require.Equal(t, http.StatusOK, status, string(body))
	var progress roadmap.ProgressResponse
	require.NoError(t, json.Unmarshal(body, &progress))
	assert.Positive(t, progress.Progress)
	assert.True(t, progress.Roadmap.Phases[0].Milestones[0].IsCompleted)

	status, _ = s.do(t, http.MethodPut, base+"/progress", `{"phase_index":7,"milestone_index":0}`, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPut, base+"/progress", `{"phase_index":0}`, true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, base+"/pause", "", true)
	assert.Equal(t, http.StatusConflict, status, "a draft cannot be paused")

	status, body = s.do(t, http.MethodPost, base+"/start", "", true)
	require.Equal(t, http.StatusOK, status)
	var started roadmap.Roadmap
	require.NoError(t, json.Unmarshal(body, &started))
	assert.Equal(t, roadmap.StatusActive, started.Status)

	status, _ = s.do(t, http.MethodPost, base+"/abandon", "", true)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodPost, base+"/resume", "", true)
	assert.Equal(t, http.StatusConflict, status)
}

func TestShareAndResolve(t *testing.T) {
	s := newTestServer(t)
	r := s.generate(t)

	status, body := s.do(t, http.MethodPost, "/api/roadmap/"+r.ID.String()+"/share", `{"is_public":true}`, true)
	require.Equal(t, http.StatusOK, status, string(body))
	var share roadmap.ShareRoadmapResponse
	require.NoError(t, json.Unmarshal(body, &share))
	assert.Equal(t, "https://app.example.com/roadmap/shared/"+share.ShareToken, share.ShareURL)

	status, body = s.do(t, http.MethodGet, "/api/roadmap/shared/"+share.ShareToken, "", false)
	require.Equal(t, http.StatusOK, status)
	var shared roadmap.Roadmap
	require.NoError(t, json.Unmarshal(body, &shared))
	assert.Equal(t, r.ID, shared.ID)

	status, _ = s.do(t, http.MethodGet, "/api/roadmap/shared/nope", "", false)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSavedListing(t *testing.T) {
	s := newTestServer(t)
	r := s.generate(t)

	status, _ := s.do(t, http.MethodPost, "/api/roadmap/"+r.ID.String()+"/save", "", true)
	require.Equal(t, http.StatusOK, status)

	status, body := s.do(t, http.MethodGet, "/api/roadmap/saved?page=1&page_size=10", "", true)
	require.Equal(t, http.StatusOK, status)
	var page roadmap.PaginatedRoadmapsResponse
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].IsSaved)

	status, _ = s.do(t, http.MethodGet, "/api/roadmap/all?status=bogus", "", true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(t, http.MethodGet, "/api/roadmap/stats", "", true)
	require.Equal(t, http.StatusOK, status)
	var stats roadmap.UserStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 1, stats.TotalRoadmaps)

	status, _ = s.do(t, http.MethodDelete, "/api/roadmap/"+r.ID.String(), "", true)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestRecommendedResources(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/roadmap/resources?skills=React,Docker&max_per_skill=1", "", false)
	require.Equal(t, http.StatusOK, status)
	var resp struct {
		Resources []roadmap.RecommendedResource `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Len(t, resp.Resources, 2)

	status, _ = s.do(t, http.MethodGet, "/api/roadmap/resources", "", false)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/api/roadmap/resources?skills=React&types=podcast", "", false)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b,"))
	assert.Nil(t, splitList(""))
}
