package feed

import (
	"context"
	"fmt"

	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TimelineResponse is the response from GetTimeline
type TimelineResponse struct {
	Posts []models.Post `json:"posts"`
	Meta  TimelineMeta  `json:"meta"`
}

// TimelineMeta contains metadata about the timeline response
type TimelineMeta struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// Service assembles per-user timelines
type Service struct {
	db *gorm.DB
}

// NewService creates a new feed service
func NewService() *Service {
	return &Service{db: database.DB}
}

// GetTimeline returns the user's home feed: their own posts, posts authored
// by users they follow, and posts they have re-shared. Newest first; ties on
// created_at break on post id so pagination stays stable. category narrows
// the feed when non-empty. An unknown userID yields an empty feed.
func (s *Service) GetTimeline(ctx context.Context, userID string, category models.Category, limit, offset int) (*TimelineResponse, error) {
	followeeIDs, err := s.getFolloweeIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load followees: %w", err)
	}

	authorIDs := append(followeeIDs, userID)

	buildQuery := func() *gorm.DB {
		sharedSubquery := s.db.Model(&models.PostShare{}).
			Select("post_id").
			Where("user_id = ?", userID)

		q := s.db.WithContext(ctx).
			Model(&models.Post{}).
			Where("user_id IN (?) OR id IN (?)", authorIDs, sharedSubquery)
		if category != "" {
			q = q.Where("category = ?", category)
		}
		return q
	}

	var total int64
	if err := buildQuery().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count timeline posts: %w", err)
	}

	var posts []models.Post
	err = buildQuery().
		Preload("User").
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline posts: %w", err)
	}

	if err := s.markSharedByViewer(userID, posts); err != nil {
		logger.Log.Warn("Failed to mark re-shared posts",
			zap.String("user_id", userID), zap.Error(err))
	}

	return &TimelineResponse{
		Posts: posts,
		Meta: TimelineMeta{
			Limit:   limit,
			Offset:  offset,
			Count:   len(posts),
			HasMore: offset+len(posts) < int(total),
		},
	}, nil
}

// GetUserPosts returns a single author's posts, newest first
func (s *Service) GetUserPosts(ctx context.Context, authorID string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", authorID).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user posts: %w", err)
	}
	return posts, nil
}

// GetPostsByTag returns posts carrying the given hashtag, newest first.
// tag must already be normalized (lowercase, '#' prefix).
func (s *Service) GetPostsByTag(ctx context.Context, tag string, limit, offset int) ([]models.Post, error) {
	var candidates []models.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("CAST(tags AS TEXT) LIKE ?", "%"+tag+"%").
		Order("created_at DESC, id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load posts by tag: %w", err)
	}

	// LIKE over the serialized array can over-match on tag prefixes
	// (#go also matches #golang), so re-check exact membership.
	posts := make([]models.Post, 0, len(candidates))
	for _, post := range candidates {
		for _, t := range post.Tags {
			if t == tag {
				posts = append(posts, post)
				break
			}
		}
	}

	if offset >= len(posts) {
		return []models.Post{}, nil
	}
	posts = posts[offset:]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// markSharedByViewer flags the posts the viewer re-shared so feed entries
// can be rendered with share attribution.
func (s *Service) markSharedByViewer(userID string, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]string, len(posts))
	for i := range posts {
		postIDs[i] = posts[i].ID
	}

	var sharedIDs []string
	err := s.db.Model(&models.PostShare{}).
		Where("user_id = ? AND post_id IN (?)", userID, postIDs).
		Pluck("post_id", &sharedIDs).Error
	if err != nil {
		return err
	}

	shared := make(map[string]bool, len(sharedIDs))
	for _, id := range sharedIDs {
		shared[id] = true
	}
	for i := range posts {
		posts[i].SharedByViewer = shared[posts[i].ID]
	}
	return nil
}

func (s *Service) getFolloweeIDs(userID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
