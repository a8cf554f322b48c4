package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/cache"
	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
)

type nervousnessService struct {
	repo           repositories.AssessmentRepository
	scorer         *scheduler.Scorer
	cache          cache.CacheService
	ttl            time.Duration
	maxHorizonDays int
	logger         *slog.Logger

	// generation is bumped by every Invalidate so a read-out computed before
	// it is never written back. writeMu orders cache writes against deletes.
	generation atomic.Uint64
	writeMu    sync.Mutex
}

// NewNervousnessService serves read-outs from cache when one is given. A nil
// cache computes every read-out from the repository.
func NewNervousnessService(
	repo repositories.AssessmentRepository,
	scorer *scheduler.Scorer,
	cacheService cache.CacheService,
	ttl time.Duration,
	maxHorizonDays int,
	logger *slog.Logger,
) NervousnessService {
	return &nervousnessService{
		repo:           repo,
		scorer:         scorer,
		cache:          cacheService,
		ttl:            ttl,
		maxHorizonDays: maxHorizonDays,
		logger:         logger,
	}
}

func (s *nervousnessService) Daily(ctx context.Context) ([]models.WindowScore, error) {
	var days []models.WindowScore
	err := s.cached(ctx, cache.DailyNervousnessKey(), &days, func() error {
		assessments, err := s.repo.ListAll(ctx, nil)
		if err != nil {
			return err
		}
		days, err = s.scorer.DailyScores(assessments)
		return err
	})
	return days, err
}

func (s *nervousnessService) Weekly(ctx context.Context, from, to time.Time) ([]models.WindowScore, error) {
	horizon, err := s.horizon(from, to)
	if err != nil {
		return nil, err
	}

	var weeks []models.WindowScore
	err = s.cached(ctx, cache.WeeklyNervousnessKey(horizon.Start, horizon.End), &weeks, func() error {
		assessments, err := s.repo.ListInRange(ctx, nil, horizon.Start, horizon.End)
		if err != nil {
			return err
		}
		weeks, err = s.scorer.WeeklyBreakdown(assessments, horizon.Start, horizon.End)
		return err
	})
	return weeks, err
}

func (s *nervousnessService) Summary(ctx context.Context, from, to time.Time) (*NervousnessSummary, error) {
	horizon, err := s.horizon(from, to)
	if err != nil {
		return nil, err
	}

	var summary NervousnessSummary
	err = s.cached(ctx, cache.SummaryNervousnessKey(horizon.Start, horizon.End), &summary, func() error {
		assessments, err := s.repo.ListInRange(ctx, nil, horizon.Start, horizon.End)
		if err != nil {
			return err
		}
		weeks, err := s.scorer.WeeklyBreakdown(assessments, horizon.Start, horizon.End)
		if err != nil {
			return err
		}
		summary = summarize(horizon, weeks, len(assessments))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *nervousnessService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.generation.Add(1)
	if err := s.cache.DeletePattern(ctx, cache.NervousnessPattern); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate nervousness cache", "error", err)
	}
}

func (s *nervousnessService) horizon(from, to time.Time) (scheduler.Window, error) {
	horizon, err := scheduler.NewWindow(from, to)
	if err != nil {
		return scheduler.Window{}, err
	}
	if s.maxHorizonDays > 0 && horizon.Days() > s.maxHorizonDays {
		return scheduler.Window{}, fmt.Errorf("%w: %d days requested, at most %d allowed", ErrHorizonTooLarge, horizon.Days(), s.maxHorizonDays)
	}
	return horizon, nil
}

// cached fills dest from the cache or, on a miss, by running compute and
// storing its result. Cache failures only cost a recomputation.
func (s *nervousnessService) cached(ctx context.Context, key string, dest any, compute func() error) error {
	if s.cache != nil {
		err := s.cache.Get(ctx, key, dest)
		if err == nil {
			return nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "Cache read failed", "key", key, "error", err)
		}
	}

	generation := s.generation.Load()
	if err := compute(); err != nil {
		return err
	}

	if s.cache != nil {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if s.generation.Load() != generation {
			s.logger.DebugContext(ctx, "Skipping cache write after invalidation", "key", key)
			return nil
		}
		if err := s.cache.Set(ctx, key, dest, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
		}
	}
	return nil
}

func summarize(horizon scheduler.Window, weeks []models.WindowScore, count int) NervousnessSummary {
	summary := NervousnessSummary{
		From:            horizon.Start,
		To:              horizon.End,
		AssessmentCount: count,
		Weeks:           weeks,
	}

	for i := range weeks {
		if weeks[i].Count == 0 {
			continue
		}
		if summary.PeakWeek == nil || weeks[i].Score > summary.PeakWeek.Score {
			peak := weeks[i]
			summary.PeakWeek = &peak
		}
	}
	summary.Score = scheduler.Aggregate(weeks)
	summary.Level = models.LevelFor(summary.Score)
	return summary
}
