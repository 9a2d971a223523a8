package engagement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/nafishahmed/blogspace/internal/errors"

	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/metrics"
	"github.com/nafishahmed/blogspace/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service applies engagement actions (likes, saves, shares, comments,
// follows) and fans out the notifications they produce. Cross-record
// mutations run inside a transaction so cached counters, join rows and
// notifications move together.
type Service struct {
	db *gorm.DB
}

// NewService creates a new engagement service
func NewService() *Service {
	return &Service{db: database.DB}
}

// LikeResult reports the state after a like toggle
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// ToggleLike likes the post when the user has not liked it, unlikes it when
// they have. Liking someone else's post notifies the author; unliking never
// notifies and removes nothing but the like itself.
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (*LikeResult, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("post")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	result := &LikeResult{}
	notified := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error

		if err == nil {
			// Already liked, toggle off
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("failed to remove like: %w", err)
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error; err != nil {
				return fmt.Errorf("failed to decrement like count: %w", err)
			}
			result.Liked = false
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check like: %w", err)
		}

		like := models.PostLike{PostID: postID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			return fmt.Errorf("failed to create like: %w", err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment like count: %w", err)
		}

		if post.UserID != userID {
			notification := models.Notification{
				RecipientID: post.UserID,
				SenderID:    userID,
				Type:        models.NotificationLike,
				PostID:      &post.ID,
			}
			if err := tx.Create(&notification).Error; err != nil {
				return fmt.Errorf("failed to create like notification: %w", err)
			}
			notified = true
		}

		result.Liked = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if notified {
		metrics.RecordNotification(string(models.NotificationLike))
	}

	if err := s.db.Model(&models.Post{}).Where("id = ?", postID).
		Select("like_count").Scan(&result.LikeCount).Error; err != nil {
		logger.Warn("Failed to reload like count", zap.String("post_id", postID), zap.Error(err))
	}
	return result, nil
}

// SaveResult reports the state after a save toggle
type SaveResult struct {
	Saved bool `json:"saved"`
}

// ToggleSave bookmarks the post for the user, or removes the bookmark when
// it already exists. Saves never notify anyone.
func (s *Service) ToggleSave(ctx context.Context, userID, postID string) (*SaveResult, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("post")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	result := &SaveResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.SavedPost
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error

		if err == nil {
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("failed to remove saved post: %w", err)
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("save_count", gorm.Expr("CASE WHEN save_count > 0 THEN save_count - 1 ELSE 0 END")).Error; err != nil {
				return fmt.Errorf("failed to decrement save count: %w", err)
			}
			result.Saved = false
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check saved post: %w", err)
		}

		saved := models.SavedPost{UserID: userID, PostID: postID}
		if err := tx.Create(&saved).Error; err != nil {
			return fmt.Errorf("failed to save post: %w", err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("save_count", gorm.Expr("save_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment save count: %w", err)
		}
		result.Saved = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ShareResult reports the state after a share toggle
type ShareResult struct {
	Shared bool `json:"shared"`
}

// ToggleShare re-shares the post into the user's own timeline, or withdraws
// the share when it already exists.
func (s *Service) ToggleShare(ctx context.Context, userID, postID string) (*ShareResult, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("post")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	if post.UserID == userID {
		return nil, apierrors.Forbidden("you cannot share your own post")
	}

	result := &ShareResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PostShare
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error

		if err == nil {
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("failed to remove share: %w", err)
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("share_count", gorm.Expr("CASE WHEN share_count > 0 THEN share_count - 1 ELSE 0 END")).Error; err != nil {
				return fmt.Errorf("failed to decrement share count: %w", err)
			}
			result.Shared = false
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check share: %w", err)
		}

		share := models.PostShare{PostID: postID, UserID: userID}
		if err := tx.Create(&share).Error; err != nil {
			return fmt.Errorf("failed to create share: %w", err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("share_count", gorm.Expr("share_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment share count: %w", err)
		}
		result.Shared = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddComment appends a comment to the post and notifies the post author
// unless they wrote the comment themselves.
func (s *Service) AddComment(ctx context.Context, userID, postID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierrors.ValidationError("content", "comment content is required")
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("post")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comment := models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	notified := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment comment count: %w", err)
		}

		if post.UserID != userID {
			notification := models.Notification{
				RecipientID: post.UserID,
				SenderID:    userID,
				Type:        models.NotificationComment,
				PostID:      &post.ID,
			}
			if err := tx.Create(&notification).Error; err != nil {
				return fmt.Errorf("failed to create comment notification: %w", err)
			}
			notified = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if notified {
		metrics.RecordNotification(string(models.NotificationComment))
	}

	if err := s.db.Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		logger.Warn("Failed to reload comment", zap.String("comment_id", comment.ID), zap.Error(err))
	}
	return &comment, nil
}

// EditComment updates a comment's content. Only the comment author may edit.
func (s *Service) EditComment(ctx context.Context, userID, commentID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierrors.ValidationError("content", "comment content is required")
	}

	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NotFound("comment")
		}
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}

	if comment.UserID != userID {
		return nil, apierrors.Unauthorized("only the comment author can edit this comment")
	}

	now := time.Now()
	comment.Content = content
	comment.IsEdited = true
	comment.EditedAt = &now

	if err := s.db.WithContext(ctx).Save(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &comment, nil
}

// DeleteComment removes a comment. The comment author and the post author
// may delete; anyone else is rejected.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID string) error {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NotFound("comment")
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", comment.PostID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load post: %w", err)
		}
	}

	if comment.UserID != userID && post.UserID != userID {
		return apierrors.Unauthorized("only the comment author or post author can delete this comment")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("CASE WHEN comment_count > 0 THEN comment_count - 1 ELSE 0 END")).Error; err != nil {
			return fmt.Errorf("failed to decrement comment count: %w", err)
		}
		return nil
	})
}

// Follow creates the directed follow edge from follower to followee.
// Self-follows are forbidden, repeats conflict, and the followee is notified.
func (s *Service) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return apierrors.Forbidden("you cannot follow yourself")
	}

	var followee models.User
	if err := s.db.WithContext(ctx).First(&followee, "id = ?", followeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NotFound("user")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	var existing models.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&existing).Error
	if err == nil {
		return apierrors.Conflict("already following this user")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check follow: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
		if err := tx.Create(&follow).Error; err != nil {
			return fmt.Errorf("failed to create follow: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment following count: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followeeID).
			UpdateColumn("follower_count", gorm.Expr("follower_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment follower count: %w", err)
		}

		notification := models.Notification{
			RecipientID: followeeID,
			SenderID:    followerID,
			Type:        models.NotificationFollow,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return fmt.Errorf("failed to create follow notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordNotification(string(models.NotificationFollow))
	return nil
}

// Unfollow removes the follow edge. Removing an edge that does not exist
// conflicts rather than silently succeeding.
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return apierrors.Forbidden("you cannot unfollow yourself")
	}

	var followee models.User
	if err := s.db.WithContext(ctx).First(&followee, "id = ?", followeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NotFound("user")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&models.Follow{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete follow: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apierrors.Conflict("not following this user")
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END")).Error; err != nil {
			return fmt.Errorf("failed to decrement following count: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followeeID).
			UpdateColumn("follower_count", gorm.Expr("CASE WHEN follower_count > 0 THEN follower_count - 1 ELSE 0 END")).Error; err != nil {
			return fmt.Errorf("failed to decrement follower count: %w", err)
		}
		return nil
	})
}
