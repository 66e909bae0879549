// Package analysistest provides in-memory analysis ports for tests.
package analysistest

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

// Repository is an in-memory analysis.Repository
type Repository struct {
	mu    sync.Mutex
	items map[kernel.AnalysisID]analysis.Analysis
}

func NewRepository() *Repository {
	return &Repository{items: make(map[kernel.AnalysisID]analysis.Analysis)}
}

func (r *Repository) Create(_ context.Context, a *analysis.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = *a
	return nil
}

func (r *Repository) Update(_ context.Context, a *analysis.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return analysis.ErrAnalysisNotFound()
	}
	r.items[a.ID] = *a
	return nil
}

func (r *Repository) GetByID(_ context.Context, id kernel.AnalysisID) (*analysis.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, analysis.ErrAnalysisNotFound()
	}
	return &a, nil
}

func (r *Repository) FindRecentCompleted(_ context.Context, userID kernel.UserID, fileHash string, role kernel.RoleID, since time.Time) (*analysis.Analysis, error) {
	for _, a := range r.byUser(userID) {
		if a.FileHash == fileHash && a.TargetRole == role &&
			a.IsCompleted() && !a.CreatedAt.Before(since) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *Repository) ListByUser(_ context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.Analysis], error) {
	items := r.byUser(userID)
	total := len(items)

	start := min(pagination.Offset(), total)
	end := total
	if pagination.PageSize > 0 {
		end = min(start+pagination.PageSize, total)
	}
	return kernel.NewPaginated(items[start:end], pagination, total), nil
}

func (r *Repository) Delete(_ context.Context, id kernel.AnalysisID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return analysis.ErrAnalysisNotFound()
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) StatsByUser(_ context.Context, userID kernel.UserID) (*analysis.UserStats, error) {
	stats := &analysis.UserStats{RoleBreakdown: []analysis.RoleCount{}}
	perRole := map[kernel.RoleID]int{}
	scoreSum := 0

	for _, a := range r.byUser(userID) {
		stats.TotalAnalyses++
		perRole[a.TargetRole]++
		if !a.IsCompleted() {
			continue
		}
		stats.CompletedAnalyses++
		scoreSum += a.OverallMatchScore
		stats.BestMatchScore = max(stats.BestMatchScore, a.OverallMatchScore)
		stats.SkillsIdentified += len(a.ExtractedSkills)
		stats.GapsIdentified += len(a.GapSkills)
	}
	if stats.CompletedAnalyses > 0 {
		stats.AvgMatchScore = math.Round(float64(scoreSum)/float64(stats.CompletedAnalyses)*100) / 100
	}

	for role, n := range perRole {
		stats.RoleBreakdown = append(stats.RoleBreakdown, analysis.RoleCount{TargetRole: role, Count: n})
	}
	sort.Slice(stats.RoleBreakdown, func(i, j int) bool {
		a, b := stats.RoleBreakdown[i], stats.RoleBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.TargetRole < b.TargetRole
	})
	return stats, nil
}

// All returns every stored analysis ordered by ID
func (r *Repository) All() []analysis.Analysis {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]analysis.Analysis, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// byUser returns a user's analyses, newest first
func (r *Repository) byUser(userID kernel.UserID) []analysis.Analysis {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []analysis.Analysis
	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ============================================================================
// Queue
// ============================================================================

// DelayedJob is a payload scheduled for retry
type DelayedJob struct {
	Payload []byte
	Delay   time.Duration
}

// Queue is an in-memory analysis.JobQueue. Dequeue never blocks.
type Queue struct {
	mu      sync.Mutex
	ready   [][]byte
	delayed []DelayedJob

	// EnqueueErr makes Enqueue fail
	EnqueueErr error
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(_ context.Context, _ kernel.JobID, payload any) error {
	if q.EnqueueErr != nil {
		return q.EnqueueErr
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ready = append(q.ready, data)
	return nil
}

func (q *Queue) Dequeue(_ context.Context, _ time.Duration) ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ready) == 0 {
		return nil, nil
	}
	data := q.ready[0]
	q.ready = q.ready[1:]
	return data, nil
}

func (q *Queue) EnqueueDelayed(_ context.Context, _ kernel.JobID, payload any, delay time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delayed = append(q.delayed, DelayedJob{Payload: data, Delay: delay})
	return nil
}

func (q *Queue) MoveDelayedToReady(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.delayed)
	for _, d := range q.delayed {
		q.ready = append(q.ready, d.Payload)
	}
	q.delayed = nil
	return n, nil
}

func (q *Queue) GetQueueSize(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.ready)), nil
}

func (q *Queue) GetDelayedQueueSize(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.delayed)), nil
}

// Delayed returns the jobs waiting for retry
func (q *Queue) Delayed() []DelayedJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]DelayedJob(nil), q.delayed...)
}

// NextJob dequeues and decodes the next ready job. It returns nil when the
// queue is empty.
func (q *Queue) NextJob() (*analysis.ProcessingJob, error) {
	data, err := q.Dequeue(context.Background(), 0)
	if err != nil || data == nil {
		return nil, err
	}
	var job analysis.ProcessingJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

var (
	_ analysis.Repository = (*Repository)(nil)
	_ analysis.JobQueue   = (*Queue)(nil)
)
