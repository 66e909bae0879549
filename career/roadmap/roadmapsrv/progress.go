package roadmapsrv

import (
	"context"

	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/Abraxas-365/skillpath/pkg/logx"
	"github.com/Abraxas-365/skillpath/pkg/metrics"
)

// UpdateProgress completes or reopens one milestone. A missing IsCompleted
// reopens it.
func (s *Service) UpdateProgress(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID, req roadmap.UpdateProgressRequest) (*roadmap.ProgressResponse, error) {
	if req.PhaseIndex == nil || req.MilestoneIndex == nil {
		return nil, roadmap.ErrInvalidRequest().
			WithDetail("reason", "phase_index and milestone_index are required")
	}
	completed := req.IsCompleted != nil && *req.IsCompleted

	r, err := s.mutate(ctx, id, userID, func(r *roadmap.Roadmap) error {
		if completed {
			return r.CompleteMilestone(*req.PhaseIndex, *req.MilestoneIndex, req.Notes)
		}
		return r.MarkIncomplete(*req.PhaseIndex, *req.MilestoneIndex)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMilestoneUpdate(completed)

	return &roadmap.ProgressResponse{
		Progress:         r.Progress,
		CurrentPhase:     r.CurrentPhase,
		CurrentMilestone: r.CurrentMilestone,
		Status:           r.Status,
		Roadmap:          r,
	}, nil
}

// Start activates a draft roadmap
func (s *Service) Start(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID) (*roadmap.Roadmap, error) {
	return s.mutate(ctx, id, userID, (*roadmap.Roadmap).Start)
}

// Pause suspends an active roadmap
func (s *Service) Pause(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID) (*roadmap.Roadmap, error) {
	return s.mutate(ctx, id, userID, (*roadmap.Roadmap).Pause)
}

// Resume reactivates a paused roadmap
func (s *Service) Resume(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID) (*roadmap.Roadmap, error) {
	return s.mutate(ctx, id, userID, (*roadmap.Roadmap).Resume)
}

// Abandon ends a roadmap for good
func (s *Service) Abandon(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID) (*roadmap.Roadmap, error) {
	return s.mutate(ctx, id, userID, (*roadmap.Roadmap).Abandon)
}

// Save bookmarks a roadmap
func (s *Service) Save(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID) (*roadmap.Roadmap, error) {
	return s.mutate(ctx, id, userID, func(r *roadmap.Roadmap) error {
		r.Save()
		return nil
	})
}

// Unsave removes the bookmark
func (s *Service) Unsave(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID) (*roadmap.Roadmap, error) {
	return s.mutate(ctx, id, userID, func(r *roadmap.Roadmap) error {
		r.Unsave()
		return nil
	})
}

// Share issues a fresh share link and sets public visibility. The previous
// link stops resolving.
func (s *Service) Share(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID, req roadmap.ShareRoadmapRequest) (*roadmap.ShareRoadmapResponse, error) {
	var previous, token string

	r, err := s.mutate(ctx, id, userID, func(r *roadmap.Roadmap) error {
		previous = ""
		if r.ShareToken != nil {
			previous = *r.ShareToken
		}
		var err error
		if token, err = r.GenerateShareToken(); err != nil {
			return err
		}
		r.SetVisibility(req.IsPublic)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previous != "" {
		if err := s.cache.Delete(ctx, previous); err != nil {
			logx.Warnf("Failed to evict share token of roadmap %s: %v", r.ID, err)
		}
	}
	if err := s.cache.Set(ctx, token, r.ID, s.shareTTL); err != nil {
		logx.Warnf("Failed to cache share token of roadmap %s: %v", r.ID, err)
	}

	logx.Infof("Roadmap shared: RoadmapID=%s, Public=%t", r.ID, r.IsPublic)

	return &roadmap.ShareRoadmapResponse{
		ShareToken: token,
		ShareURL:   s.frontendURL + "/roadmap/shared/" + token,
		IsPublic:   r.IsPublic,
	}, nil
}

// Delete removes a roadmap and revokes its share link
func (s *Service) Delete(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID) error {
	r, err := s.GetRoadmap(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, r.ID); err != nil {
		if errx.HasCode(err, roadmap.CodeRoadmapNotFound) {
			return err
		}
		return errx.Wrap(err, "failed to delete roadmap", errx.TypeInternal)
	}

	if r.ShareToken != nil {
		if err := s.cache.Delete(ctx, *r.ShareToken); err != nil {
			logx.Warnf("Failed to evict share token of deleted roadmap %s: %v", r.ID, err)
		}
	}

	logx.Infof("Roadmap deleted: %s", r.ID)
	return nil
}

// mutate loads an owned roadmap, applies fn and writes it back. On a version
// conflict fn is re-applied to the fresh copy, up to maxMutationAttempts.
func (s *Service) mutate(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID, fn func(*roadmap.Roadmap) error) (*roadmap.Roadmap, error) {
	var lastErr error
	for attempt := 1; attempt <= maxMutationAttempts; attempt++ {
		r, err := s.GetRoadmap(ctx, id, userID)
		if err != nil {
			return nil, err
		}

		before := r.Status
		if err := fn(r); err != nil {
			return nil, err
		}

		err = s.repo.Update(ctx, r)
		if err == nil {
			if r.Status != before {
				metrics.RecordStatusTransition(string(r.Status))
				logx.Infof("Roadmap %s moved from %s to %s", r.ID, before, r.Status)
			}
			return r, nil
		}

		if !errx.HasCode(err, roadmap.CodeConcurrentModification) {
			if errx.HasCode(err, roadmap.CodeRoadmapNotFound) {
				return nil, err
			}
			return nil, errx.Wrap(err, "failed to update roadmap", errx.TypeInternal)
		}

		logx.Debugf("Version conflict on roadmap %s, attempt %d/%d", id, attempt, maxMutationAttempts)
		lastErr = err
	}
	return nil, lastErr
}
