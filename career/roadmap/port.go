package roadmap

import (
	"context"
	"time"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

type Repository interface {
	// Create persists a new roadmap; a second roadmap for the same
	// (user, analysis) pair fails with ErrRoadmapAlreadyExists
	Create(ctx context.Context, roadmap *Roadmap) error

	// Update writes the roadmap if its stored version still equals
	// roadmap.Version, then increments Version. A stale version fails
	// with ErrConcurrentModification.
	Update(ctx context.Context, roadmap *Roadmap) error

	// GetByID retrieves a roadmap by ID
	GetByID(ctx context.Context, id kernel.RoadmapID) (*Roadmap, error)

	// GetByUserAndAnalysis retrieves the roadmap generated from an analysis
	GetByUserAndAnalysis(ctx context.Context, userID kernel.UserID, analysisID kernel.AnalysisID) (*Roadmap, error)

	// GetByShareToken retrieves the roadmap currently holding token
	GetByShareToken(ctx context.Context, token string) (*Roadmap, error)

	// Delete deletes a roadmap by ID
	Delete(ctx context.Context, id kernel.RoadmapID) error

	// ListByUser retrieves a user's roadmaps, newest activity first
	ListByUser(ctx context.Context, userID kernel.UserID, filter ListFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[Roadmap], error)

	// ListPublicByRole retrieves public, completed roadmaps for a role
	ListPublicByRole(ctx context.Context, role kernel.RoleID, pagination kernel.PaginationOptions) (*kernel.Paginated[Roadmap], error)

	// StatsByUser aggregates a user's roadmaps
	StatsByUser(ctx context.Context, userID kernel.UserID) (*UserStats, error)
}

// ShareTokenCache maps share tokens to roadmap IDs in front of the repository
type ShareTokenCache interface {
	Set(ctx context.Context, token string, id kernel.RoadmapID, ttl time.Duration) error
	Get(ctx context.Context, token string) (kernel.RoadmapID, bool, error)
	Delete(ctx context.Context, token string) error
}

// ListFilter narrows ListByUser
type ListFilter struct {
	Status    *Status
	SavedOnly bool
}
