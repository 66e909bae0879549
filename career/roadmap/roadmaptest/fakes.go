// Package roadmaptest provides in-memory roadmap ports for tests.
package roadmaptest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

// Repository is an in-memory roadmap.Repository. It stores JSON copies so
// callers never share state with the store, and enforces the version check
// and (user, analysis) uniqueness of the real one.
type Repository struct {
	mu       sync.Mutex
	roadmaps map[kernel.RoadmapID][]byte

	// Conflicts makes the next n updates fail with a version conflict
	Conflicts int
}

func NewRepository() *Repository {
	return &Repository{roadmaps: make(map[kernel.RoadmapID][]byte)}
}

func (r *Repository) put(rm *roadmap.Roadmap) {
	data, _ := json.Marshal(rm)
	r.roadmaps[rm.ID] = data
}

func (r *Repository) load(id kernel.RoadmapID) (*roadmap.Roadmap, bool) {
	data, ok := r.roadmaps[id]
	if !ok {
		return nil, false
	}
	var rm roadmap.Roadmap
	_ = json.Unmarshal(data, &rm)
	return &rm, true
}

func (r *Repository) all() []*roadmap.Roadmap {
	out := make([]*roadmap.Roadmap, 0, len(r.roadmaps))
	for id := range r.roadmaps {
		rm, _ := r.load(id)
		out = append(out, rm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repository) Create(_ context.Context, rm *roadmap.Roadmap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.all() {
		if other.UserID == rm.UserID && other.AnalysisID == rm.AnalysisID {
			return roadmap.ErrRoadmapAlreadyExists()
		}
	}
	rm.Version = 1
	r.put(rm)
	return nil
}

func (r *Repository) Update(_ context.Context, rm *roadmap.Roadmap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.load(rm.ID)
	if !ok {
		return roadmap.ErrRoadmapNotFound()
	}
	if r.Conflicts > 0 {
		r.Conflicts--
		return roadmap.ErrConcurrentModification()
	}
	if stored.Version != rm.Version {
		return roadmap.ErrConcurrentModification()
	}
	rm.Version++
	r.put(rm)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id kernel.RoadmapID) (*roadmap.Roadmap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.load(id)
	if !ok {
		return nil, roadmap.ErrRoadmapNotFound()
	}
	return rm, nil
}

func (r *Repository) GetByUserAndAnalysis(_ context.Context, userID kernel.UserID, analysisID kernel.AnalysisID) (*roadmap.Roadmap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rm := range r.all() {
		if rm.UserID == userID && rm.AnalysisID == analysisID {
			return rm, nil
		}
	}
	return nil, roadmap.ErrRoadmapNotFound()
}

func (r *Repository) GetByShareToken(_ context.Context, token string) (*roadmap.Roadmap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rm := range r.all() {
		if rm.ShareToken != nil && *rm.ShareToken == token {
			return rm, nil
		}
	}
	return nil, roadmap.ErrRoadmapNotFound()
}

func (r *Repository) Delete(_ context.Context, id kernel.RoadmapID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roadmaps[id]; !ok {
		return roadmap.ErrRoadmapNotFound()
	}
	delete(r.roadmaps, id)
	return nil
}

func (r *Repository) ListByUser(_ context.Context, userID kernel.UserID, filter roadmap.ListFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[roadmap.Roadmap], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []roadmap.Roadmap
	for _, rm := range r.all() {
		if rm.UserID != userID {
			continue
		}
		if filter.SavedOnly && !rm.IsSaved {
			continue
		}
		if filter.Status != nil && rm.Status != *filter.Status {
			continue
		}
		items = append(items, *rm)
	}
	return kernel.NewPaginated(items, pagination, len(items)), nil
}

func (r *Repository) ListPublicByRole(_ context.Context, role kernel.RoleID, pagination kernel.PaginationOptions) (*kernel.Paginated[roadmap.Roadmap], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []roadmap.Roadmap
	for _, rm := range r.all() {
		if rm.TargetRole == role && rm.IsPublic && rm.Status == roadmap.StatusCompleted {
			items = append(items, *rm)
		}
	}
	return kernel.NewPaginated(items, pagination, len(items)), nil
}

func (r *Repository) StatsByUser(_ context.Context, userID kernel.UserID) (*roadmap.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats roadmap.UserStats
	sum := 0
	for _, rm := range r.all() {
		if rm.UserID != userID {
			continue
		}
		stats.TotalRoadmaps++
		sum += rm.Progress
		switch rm.Status {
		case roadmap.StatusActive:
			stats.ActiveRoadmaps++
		case roadmap.StatusCompleted:
			stats.CompletedRoadmaps++
		}
	}
	if stats.TotalRoadmaps > 0 {
		stats.AvgProgress = float64(sum) / float64(stats.TotalRoadmaps)
	}
	return &stats, nil
}

// ShareCache is an in-memory roadmap.ShareTokenCache; TTLs are ignored
type ShareCache struct {
	mu      sync.Mutex
	entries map[string]kernel.RoadmapID
}

func NewShareCache() *ShareCache {
	return &ShareCache{entries: make(map[string]kernel.RoadmapID)}
}

func (c *ShareCache) Set(_ context.Context, token string, id kernel.RoadmapID, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = id
	return nil
}

func (c *ShareCache) Get(_ context.Context, token string) (kernel.RoadmapID, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.entries[token]
	return id, ok, nil
}

func (c *ShareCache) Delete(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
	return nil
}

// Len reports how many roadmaps are stored
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roadmaps)
}

// Has reports whether token is cached
func (c *ShareCache) Has(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[token]
	return ok
}

// Lookup returns the roadmap cached for token
func (c *ShareCache) Lookup(token string) kernel.RoadmapID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[token]
}

// Evict drops token without going through the port
func (c *ShareCache) Evict(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
}

var (
	_ roadmap.Repository      = (*Repository)(nil)
	_ roadmap.ShareTokenCache = (*ShareCache)(nil)
)
