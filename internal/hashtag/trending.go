package hashtag

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/nafishahmed/blogspace/internal/cache"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/metrics"
	"github.com/nafishahmed/blogspace/internal/models"
	"go.uber.org/zap"
)

// TagCount is one entry of a trending ranking
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Service computes trending hashtag rankings over a recency window.
// Rankings are always derived from the posts table; redis only memoizes them.
type Service struct {
	redis      *cache.RedisClient
	windowDays int
	cacheTTL   time.Duration
}

// NewService creates a trending service. A window of 0 days ranks over all
// posts ever written. redis may be nil, in which case every call recomputes
// the ranking.
func NewService(redis *cache.RedisClient, windowDays int, cacheTTL time.Duration) *Service {
	if windowDays < 0 {
		windowDays = 0
	}
	return &Service{
		redis:      redis,
		windowDays: windowDays,
		cacheTTL:   cacheTTL,
	}
}

// Trending returns the top limit hashtags by post count over the window,
// most frequent first, ties broken lexicographically. The full ranking is
// cached per window and sliced to limit at read time.
func (s *Service) Trending(ctx context.Context, limit int) ([]TagCount, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, s.cacheKey()); err == nil {
			var ranking []TagCount
			if err := json.Unmarshal([]byte(cached), &ranking); err == nil {
				metrics.RecordCacheHit("trending")
				return truncate(ranking, limit), nil
			}
		} else if !cache.IsNil(err) {
			logger.Warn("Trending cache read failed", zap.Error(err))
		}
		metrics.RecordCacheMiss("trending")
	}

	ranking, err := s.compute()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if encoded, err := json.Marshal(ranking); err == nil {
			if err := s.redis.SetEx(ctx, s.cacheKey(), string(encoded), s.cacheTTL); err != nil {
				logger.Warn("Trending cache write failed", zap.Error(err))
			}
		}
	}

	return truncate(ranking, limit), nil
}

func (s *Service) cacheKey() string {
	return fmt.Sprintf("trending:hashtags:%d", s.windowDays)
}

func truncate(ranking []TagCount, limit int) []TagCount {
	if len(ranking) > limit {
		return ranking[:limit]
	}
	return ranking
}

// Invalidate drops the cached ranking so the next read recomputes
func (s *Service) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, s.cacheKey()); err != nil {
		logger.Warn("Trending cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) compute() ([]TagCount, error) {
	query := database.DB.Select("tags")
	if s.windowDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -s.windowDays)
		query = query.Where("created_at >= ?", cutoff)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent posts: %w", err)
	}

	counts := make(map[string]int)
	for _, post := range posts {
		for _, tag := range post.Tags {
			counts[tag]++
		}
	}

	ranking := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		ranking = append(ranking, TagCount{Tag: tag, Count: count})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].Tag < ranking[j].Tag
	})

	return ranking, nil
}
