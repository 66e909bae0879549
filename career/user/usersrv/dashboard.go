package usersrv

import (
	"context"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/career/user"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"golang.org/x/sync/errgroup"
)

const recentActivityLimit = 5

// AnalysisOverview is the slice of the analysis service the dashboard reads
type AnalysisOverview interface {
	Stats(ctx context.Context, userID kernel.UserID) (*analysis.UserStats, error)
	History(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*analysis.PaginatedAnalysesResponse, error)
}

// RoadmapOverview is the slice of the roadmap service the dashboard reads
type RoadmapOverview interface {
	Stats(ctx context.Context, userID kernel.UserID) (*roadmap.UserStats, error)
	ListAll(ctx context.Context, userID kernel.UserID, status *roadmap.Status, pagination kernel.PaginationOptions) (*roadmap.PaginatedRoadmapsResponse, error)
}

// DashboardService assembles the user overview
type DashboardService struct {
	users    *UserService
	analyses AnalysisOverview
	roadmaps RoadmapOverview
}

func NewDashboardService(users *UserService, analyses AnalysisOverview, roadmaps RoadmapOverview) *DashboardService {
	return &DashboardService{
		users:    users,
		analyses: analyses,
		roadmaps: roadmaps,
	}
}

// Get loads the profile, both stat blocks and the latest activity
func (s *DashboardService) Get(ctx context.Context, userID kernel.UserID) (*user.Dashboard, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &user.Dashboard{User: *profile}
	recent := kernel.PaginationOptions{Page: 1, PageSize: recentActivityLimit}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.analyses.Stats(gctx, userID)
		d.AnalysisStats = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.roadmaps.Stats(gctx, userID)
		d.RoadmapStats = stats
		return err
	})
	g.Go(func() error {
		page, err := s.analyses.History(gctx, userID, recent)
		if err != nil {
			return err
		}
		d.RecentAnalyses = page.Items
		return nil
	})
	g.Go(func() error {
		page, err := s.roadmaps.ListAll(gctx, userID, nil, recent)
		if err != nil {
			return err
		}
		d.RecentRoadmaps = page.Items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
